package types

import (
	"context"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/analyze"
)

// Normalizer turns a raw analysis result into a normalized record. The two
// strategies produce different record shapes; callers know which shape they
// get from the strategy they chose.
type Normalizer interface {
	Name() string
	Normalize(res *analyze.Result) models.Record
}

// Analyzer is the external document analysis collaborator.
type Analyzer interface {
	Analyze(ctx context.Context, data []byte) (*analyze.Result, error)
}

// BlobStore is the object storage collaborator. List returns blob names
// under a prefix; directories (names ending in "/") are excluded.
type BlobStore interface {
	List(ctx context.Context, container, prefix string) ([]string, error)
	Download(ctx context.Context, container, name string) ([]byte, error)
	Upload(ctx context.Context, container, name string, data []byte, contentType string) error
}

// Searcher performs governed web search for the research agent.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) (string, error)
}

// Embedder produces embeddings for research index entries.
type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}
