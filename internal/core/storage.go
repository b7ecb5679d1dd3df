package core

import (
	"context"
	"time"
)

type HistoryRepository interface {
	AppendTurn(ctx context.Context, tenantID int64, sessionID string, turn Turn) error
	// RecentTurns returns up to limit turns, newest first.
	RecentTurns(ctx context.Context, tenantID int64, sessionID string, limit int) ([]Turn, error)
}

type SessionRepository interface {
	RememberedPeriod(ctx context.Context, tenantID int64, sessionID string) (Period, bool, error)
	SaveRememberedPeriod(ctx context.Context, tenantID int64, sessionID string, p Period) error
}

type ChunkRepository interface {
	// TenantChunks returns every embedded chunk for a tenant.
	TenantChunks(ctx context.Context, tenantID int64) ([]DocumentChunk, error)
}

type ProfileRepository interface {
	// Profile returns ErrProfileMissing when the pair is unconfigured.
	Profile(ctx context.Context, tenantID int64, channel Channel) (FormattingProfile, error)
}

type SettingsRepository interface {
	AISettings(ctx context.Context, tenantID int64) (TenantAISettings, error)
}

// GateLogEntry is one persisted quality-gate decision.
type GateLogEntry struct {
	RequestID string
	TenantID  int64
	Query     string
	Decision  GateDecision
	Reason    string
	Metrics   GateMetrics
	CreatedAt time.Time
}

type GateLogRepository interface {
	LogGate(ctx context.Context, entry GateLogEntry) error
}

// TokenUsage is one billing-relevant provider call.
type TokenUsage struct {
	TenantID  int64
	Operation string
	Model     string
	Tokens    int
	RequestID string
}

type UsageRepository interface {
	LogTokens(ctx context.Context, usage TokenUsage) error
}
