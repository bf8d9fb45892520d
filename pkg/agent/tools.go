package agent

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/supplysift/supplysift/internal/types"
	"github.com/supplysift/supplysift/pkg/blob"
)

// Tool constructors binding the storage, extraction and search
// collaborators to the function surface the agent sees. Arguments and
// output shapes follow the agent instructions, with file bytes carried as
// base64.

func ListBlobsTool(store types.BlobStore, container string) Tool {
	return Tool{
		Definition: llms.FunctionDefinition{
			Name:        "list_submissions",
			Description: "List submission files in the container, optionally under a prefix.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prefix": map[string]any{"type": "string"},
				},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Prefix string `json:"prefix"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("bad list_submissions arguments: %w", err)
			}
			names, err := store.List(ctx, container, in.Prefix)
			if err != nil {
				return "", err
			}
			if names == nil {
				names = []string{}
			}
			return marshalOut(map[string]any{"files": names})
		},
	}
}

func DownloadBlobTool(store types.BlobStore, container string) Tool {
	return Tool{
		Definition: llms.FunctionDefinition{
			Name:        "download_blob",
			Description: "Download one submission file and return its bytes as base64.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{"type": "string"},
				},
				"required": []string{"name"},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("bad download_blob arguments: %w", err)
			}
			data, err := store.Download(ctx, container, in.Name)
			if err != nil {
				return "", err
			}
			// The guessed type travels with the bytes so the model can
			// hand it straight to extract_text_tables.
			return marshalOut(map[string]any{
				"name":           in.Name,
				"file_bytes_b64": base64.StdEncoding.EncodeToString(data),
				"mime_type":      blob.GuessContentType(in.Name),
			})
		},
	}
}

func ExtractTool(analyzer types.Analyzer) Tool {
	return Tool{
		Definition: llms.FunctionDefinition{
			Name:        "extract_text_tables",
			Description: "Run layout extraction over document bytes; returns plain text and tables.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"file_bytes_b64": map[string]any{"type": "string"},
					"mime_type":      map[string]any{"type": "string"},
				},
				"required": []string{"file_bytes_b64"},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				FileBytesB64 string `json:"file_bytes_b64"`
				MimeType     string `json:"mime_type"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("bad extract_text_tables arguments: %w", err)
			}
			data, err := base64.StdEncoding.DecodeString(in.FileBytesB64)
			if err != nil {
				return "", fmt.Errorf("file_bytes_b64 is not valid base64: %w", err)
			}
			res, err := analyzer.Analyze(ctx, data)
			if err != nil {
				return "", err
			}
			tables := res.Tables
			if tables == nil {
				tables = [][][]string{}
			}
			return marshalOut(map[string]any{"text": res.Content, "tables": tables})
		},
	}
}

func UploadResultTool(store types.BlobStore, resultsContainer string) Tool {
	return Tool{
		Definition: llms.FunctionDefinition{
			Name:        "upload_result",
			Description: "Upload a result artifact to the results container.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":      map[string]any{"type": "string"},
					"data_b64":  map[string]any{"type": "string"},
					"container": map[string]any{"type": "string"},
				},
				"required": []string{"name", "data_b64"},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Name      string `json:"name"`
				DataB64   string `json:"data_b64"`
				Container string `json:"container"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("bad upload_result arguments: %w", err)
			}
			data, err := base64.StdEncoding.DecodeString(in.DataB64)
			if err != nil {
				return "", fmt.Errorf("data_b64 is not valid base64: %w", err)
			}
			container := in.Container
			if container == "" {
				container = resultsContainer
			}
			if err := store.Upload(ctx, container, in.Name, data, blob.GuessContentType(in.Name)); err != nil {
				return "", err
			}
			return marshalOut(map[string]any{"ok": true, "path": container + "/" + in.Name})
		},
	}
}

func WebSearchTool(searcher types.Searcher) Tool {
	return Tool{
		Definition: llms.FunctionDefinition{
			Name:        "web_search",
			Description: "Search the web for market information from trusted sources.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":       map[string]any{"type": "string"},
					"max_results": map[string]any{"type": "integer"},
				},
				"required": []string{"query"},
			},
		},
		Run: func(ctx context.Context, args json.RawMessage) (string, error) {
			var in struct {
				Query      string `json:"query"`
				MaxResults int    `json:"max_results"`
			}
			if err := json.Unmarshal(args, &in); err != nil {
				return "", fmt.Errorf("bad web_search arguments: %w", err)
			}
			return searcher.Search(ctx, in.Query, in.MaxResults)
		},
	}
}

func marshalOut(v any) (string, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode tool output: %w", err)
	}
	return string(encoded), nil
}
