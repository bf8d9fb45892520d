package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/pkg/store"
)

// hashEmbedder produces deterministic vectors without a model server.
type hashEmbedder struct {
	dim int
}

func (e hashEmbedder) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dim)
		for j, r := range text {
			vec[j%e.dim] += float32(r) / 1000
		}
		out[i] = vec
	}
	return out, nil
}

func TestResearchIndex(t *testing.T) {
	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	idx, err := store.NewWithConfig(store.ResearchIndexConfig{
		ConnString: connString,
		TableName:  "test_supplier_profiles",
		VectorDim:  8,
	}, hashEmbedder{dim: 8})
	require.NoError(t, err)
	defer idx.Close()

	profiles := []models.SupplierProfile{
		{
			ID:      uuid.NewString(),
			Name:    "Acme Logistics",
			Domain:  "acme.example.com",
			Summary: "Benelux logistics supplier with ISO 27001 certification.",
			Sources: []string{"https://www.reuters.com/markets/acme"},
		},
		{
			ID:      uuid.NewString(),
			Name:    "Bolt Freight",
			Domain:  "bolt.example.com",
			Summary: "Road freight across the Nordics, no compliance signals found.",
			Sources: []string{},
		},
	}

	require.NoError(t, idx.Store(context.Background(), profiles))

	results, err := idx.Query(context.Background(), "Benelux logistics supplier with ISO 27001 certification.", 1)
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Acme Logistics", results[0].Name)
	assert.Equal(t, "acme.example.com", results[0].Domain)
	assert.Equal(t, profiles[0].Sources, results[0].Sources)
}
