package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/concierge/internal/core"
)

type GateLog struct {
	db *sql.DB
}

func NewGateLog(db *sql.DB) *GateLog {
	return &GateLog{db: db}
}

func (g *GateLog) LogGate(ctx context.Context, entry core.GateLogEntry) error {
	query := `INSERT INTO gate_logs
		(request_id, tenant_id, query, decision, reason, query_type, lang, best_similarity, context_len, overlap, key_tokens, top_k_used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := g.db.ExecContext(ctx, query,
		entry.RequestID, entry.TenantID, entry.Query, string(entry.Decision), entry.Reason,
		entry.Metrics.QueryType, entry.Metrics.Lang, entry.Metrics.BestSimilarity,
		entry.Metrics.ContextLen, entry.Metrics.Overlap, entry.Metrics.KeyTokens,
		entry.Metrics.TopKUsed, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert gate log: %w", err)
	}
	return nil
}

type Usage struct {
	db *sql.DB
}

func NewUsage(db *sql.DB) *Usage {
	return &Usage{db: db}
}

func (u *Usage) LogTokens(ctx context.Context, usage core.TokenUsage) error {
	query := `INSERT INTO token_usage (tenant_id, operation, model, tokens, request_id) VALUES (?, ?, ?, ?, ?)`
	_, err := u.db.ExecContext(ctx, query, usage.TenantID, usage.Operation, usage.Model, usage.Tokens, usage.RequestID)
	if err != nil {
		return fmt.Errorf("failed to insert token usage: %w", err)
	}
	return nil
}
