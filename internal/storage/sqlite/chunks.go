package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/concierge/internal/core"
)

type Chunks struct {
	db *sql.DB
}

func NewChunks(db *sql.DB) *Chunks {
	return &Chunks{db: db}
}

func (c *Chunks) TenantChunks(ctx context.Context, tenantID int64) ([]core.DocumentChunk, error) {
	query := `SELECT id, tenant_id, source, position, content, embedding FROM tenant_chunks WHERE tenant_id = ?`

	rows, err := c.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenant chunks: %w", err)
	}
	defer rows.Close()

	var chunks []core.DocumentChunk
	for rows.Next() {
		var chunk core.DocumentChunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.TenantID, &chunk.Source, &chunk.Position, &chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.Embedding, err = deserializeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %d: %w", chunk.ID, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, rows.Err()
}

// AddChunk stores one embedded document fragment. Used by the ingestion
// collaborator and by tests.
func (c *Chunks) AddChunk(ctx context.Context, chunk core.DocumentChunk) error {
	blob, err := serializeVector(chunk.Embedding)
	if err != nil {
		return err
	}

	query := `INSERT INTO tenant_chunks (tenant_id, source, position, content, embedding) VALUES (?, ?, ?, ?, ?)`
	if _, err := c.db.ExecContext(ctx, query, chunk.TenantID, chunk.Source, chunk.Position, chunk.Text, blob); err != nil {
		return fmt.Errorf("failed to insert chunk: %w", err)
	}
	return nil
}
