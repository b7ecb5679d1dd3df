package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/concierge/internal/core"
)

type Sessions struct {
	db *sql.DB
}

func NewSessions(db *sql.DB) *Sessions {
	return &Sessions{db: db}
}

func (s *Sessions) RememberedPeriod(ctx context.Context, tenantID int64, sessionID string) (core.Period, bool, error) {
	query := `SELECT period_raw, period_start, period_end FROM sessions WHERE tenant_id = ? AND session_id = ?`

	var p core.Period
	var start, end sql.NullTime
	err := s.db.QueryRowContext(ctx, query, tenantID, sessionID).Scan(&p.Raw, &start, &end)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Period{}, false, nil
	}
	if err != nil {
		return core.Period{}, false, fmt.Errorf("failed to query session period: %w", err)
	}

	p.Start = start.Time
	p.End = end.Time
	return p, !p.IsZero(), nil
}

func (s *Sessions) SaveRememberedPeriod(ctx context.Context, tenantID int64, sessionID string, p core.Period) error {
	query := `INSERT INTO sessions (tenant_id, session_id, period_raw, period_start, period_end, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, session_id) DO UPDATE SET
			period_raw = excluded.period_raw,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, query, tenantID, sessionID, p.Raw, p.Start, p.End, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert session period: %w", err)
	}
	return nil
}
