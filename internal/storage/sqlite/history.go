package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/pkg/log"
)

type History struct {
	db *sql.DB
}

func NewHistory(db *sql.DB) *History {
	return &History{db: db}
}

func (h *History) AppendTurn(ctx context.Context, tenantID int64, sessionID string, turn core.Turn) error {
	query := `INSERT INTO turns (tenant_id, session_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := h.db.ExecContext(ctx, query, tenantID, sessionID, turn.Role, turn.Content, turn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit turns, newest first.
func (h *History) RecentTurns(ctx context.Context, tenantID int64, sessionID string, limit int) ([]core.Turn, error) {
	query := `SELECT role, content, created_at FROM turns WHERE tenant_id = ? AND session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, tenantID, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var turns []core.Turn
	for rows.Next() {
		var turn core.Turn
		if err := rows.Scan(&turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(turns)).Msg("loaded session turns")
	return turns, nil
}
