// Package blob wraps Azure Blob Storage for the submission and result
// containers.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

type StoreConfig struct {
	ConnectionString string
}

type Store struct {
	client *azblob.Client
}

func NewWithConfig(config StoreConfig) (*Store, error) {
	if config.ConnectionString == "" {
		return nil, fmt.Errorf("storage connection string is required")
	}
	client, err := azblob.NewClientFromConnectionString(config.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}
	return &Store{client: client}, nil
}

// List returns blob names under prefix, skipping directory placeholders.
func (s *Store) List(ctx context.Context, container, prefix string) ([]string, error) {
	pager := s.client.NewListBlobsFlatPager(container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	var names []string
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs in %s: %w", container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil || strings.HasSuffix(*item.Name, "/") {
				continue
			}
			names = append(names, *item.Name)
		}
	}
	return names, nil
}

func (s *Store) Download(ctx context.Context, container, name string) ([]byte, error) {
	resp, err := s.client.DownloadStream(ctx, container, name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s/%s: %w", container, name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s/%s: %w", container, name, err)
	}
	return data, nil
}

// Upload writes data, overwriting any existing blob, creating the container
// if it does not exist yet.
func (s *Store) Upload(ctx context.Context, container, name string, data []byte, contentType string) error {
	if err := s.ensureContainer(ctx, container); err != nil {
		return err
	}

	var opts *azblob.UploadBufferOptions
	if contentType != "" {
		opts = &azblob.UploadBufferOptions{
			HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
		}
	}
	if _, err := s.client.UploadBuffer(ctx, container, name, data, opts); err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", container, name, err)
	}
	return nil
}

func (s *Store) ensureContainer(ctx context.Context, container string) error {
	_, err := s.client.CreateContainer(ctx, container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("failed to create container %s: %w", container, err)
	}
	return nil
}

// GuessContentType maps a blob name to its MIME type by extension.
func GuessContentType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".docx"):
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
