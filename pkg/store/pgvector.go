// Package store persists researched supplier profiles in Postgres with an
// embedding column, so earlier research can be found by similarity.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/supplysift/supplysift/internal/models"
	"github.com/supplysift/supplysift/internal/types"
)

type ResearchIndexConfig struct {
	ConnString string
	TableName  string
	VectorDim  int
}

type ResearchIndex struct {
	config   ResearchIndexConfig
	pool     *pgxpool.Pool
	embedder types.Embedder
}

func NewWithConfig(config ResearchIndexConfig, embedder types.Embedder) (*ResearchIndex, error) {
	if config.TableName == "" {
		config.TableName = "supplier_profiles"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768
	}

	pool, err := pgxpool.New(context.Background(), config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	idx := &ResearchIndex{
		config:   config,
		pool:     pool,
		embedder: embedder,
	}

	if err := idx.initialize(); err != nil {
		pool.Close()
		return nil, err
	}
	return idx, nil
}

func (idx *ResearchIndex) initialize() error {
	ctx := context.Background()

	if _, err := idx.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			supplier_name TEXT NOT NULL,
			domain TEXT,
			summary TEXT,
			embedding vector(%d),
			sources JSONB
		)`, idx.config.TableName, idx.config.VectorDim)
	if _, err := idx.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s_embedding_idx
		ON %s
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`,
		idx.config.TableName, idx.config.TableName)
	if _, err := idx.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Store embeds each profile's summary and upserts the profile.
func (idx *ResearchIndex) Store(ctx context.Context, profiles []models.SupplierProfile) error {
	tx, err := idx.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, supplier_name, domain, summary, embedding, sources)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			supplier_name = EXCLUDED.supplier_name,
			domain = EXCLUDED.domain,
			summary = EXCLUDED.summary,
			embedding = EXCLUDED.embedding,
			sources = EXCLUDED.sources`,
		idx.config.TableName)

	for _, profile := range profiles {
		summary := sanitizeUTF8(profile.Summary)

		embeddings, err := idx.embedder.CreateEmbedding(ctx, []string{summary})
		if err != nil {
			return fmt.Errorf("failed to embed profile %s: %w", profile.ID, err)
		}
		if len(embeddings) == 0 {
			return fmt.Errorf("embedder returned no vector for profile %s", profile.ID)
		}

		sources, err := json.Marshal(profile.Sources)
		if err != nil {
			return fmt.Errorf("failed to encode sources for %s: %w", profile.ID, err)
		}

		if _, err := tx.Exec(ctx, stmt,
			profile.ID,
			sanitizeUTF8(profile.Name),
			profile.Domain,
			summary,
			pgvector.NewVector(embeddings[0]),
			sources,
		); err != nil {
			return fmt.Errorf("failed to insert profile %s: %w", profile.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Query returns the profiles closest to the query text.
func (idx *ResearchIndex) Query(ctx context.Context, text string, limit int) ([]models.SupplierProfile, error) {
	if limit <= 0 {
		limit = 5
	}

	embeddings, err := idx.embedder.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}

	query := fmt.Sprintf(`
		SELECT id, supplier_name, domain, summary, sources
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		idx.config.TableName)

	rows, err := idx.pool.Query(ctx, query, pgvector.NewVector(embeddings[0]), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.SupplierProfile
	for rows.Next() {
		var (
			profile models.SupplierProfile
			sources []byte
		)
		if err := rows.Scan(&profile.ID, &profile.Name, &profile.Domain, &profile.Summary, &sources); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if len(sources) > 0 {
			if err := json.Unmarshal(sources, &profile.Sources); err != nil {
				return nil, fmt.Errorf("failed to decode sources for %s: %w", profile.ID, err)
			}
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (idx *ResearchIndex) Close() {
	if idx.pool != nil {
		idx.pool.Close()
	}
}

func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	v := make([]rune, 0, len(s))
	for i, r := range s {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(s[i:])
			if size == 1 {
				continue
			}
		}
		v = append(v, r)
	}
	return string(v)
}
