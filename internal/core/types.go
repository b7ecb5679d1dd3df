package core

import "time"

// Channel is the surface an answer is delivered to. It decides the target
// markup dialect.
type Channel string

const (
	ChannelTelegram Channel = "telegram"
	ChannelWidget   Channel = "widget"
	ChannelVK       Channel = "vk"
	ChannelMax      Channel = "max"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelTelegram, ChannelWidget, ChannelVK, ChannelMax:
		return true
	}
	return false
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is a single message in a session's history. Immutable once stored.
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Period is a calendar date or date range extracted from chat text. Raw keeps
// the text as the user wrote it, for display and query enrichment; Start/End
// are normalized for comparison. A single date has Start == End.
type Period struct {
	Raw   string    `json:"raw"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) IsZero() bool {
	return p.Raw == ""
}

func (p Period) IsRange() bool {
	return !p.IsZero() && !p.End.Equal(p.Start)
}

// DocumentChunk is a tenant-scoped fragment of an ingested document, read-only
// for this pipeline.
type DocumentChunk struct {
	ID        int64
	TenantID  int64
	Source    string
	Position  int
	Text      string
	Embedding []float32
}

type ScoredChunk struct {
	Chunk      DocumentChunk
	Similarity float64
}

type GateDecision string

const (
	GateAccept GateDecision = "accept"
	GateReject GateDecision = "reject"
)

// GateMetrics carries the measurements behind a gate decision, persisted for
// observability.
type GateMetrics struct {
	QueryType      string
	Lang           string
	BestSimilarity float64
	ContextLen     int
	Overlap        float64
	KeyTokens      int
	TopKUsed       int
}

// RetrievalResult is the transient outcome of one retrieval pass.
type RetrievalResult struct {
	Chunks   []ScoredChunk
	Context  string
	Decision GateDecision
	Reason   string
	Metrics  GateMetrics
}

func (r RetrievalResult) Accepted() bool {
	return r.Decision == GateAccept
}

// GateThresholds are the per-query-type floors the quality gate enforces.
type GateThresholds struct {
	MinContextLen int
	MinSimilarity float64
	MinOverlapRU  float64
	MinOverlapEN  float64
}

// FormattingProfile is the per-tenant, per-channel rendering configuration.
type FormattingProfile struct {
	UseMarkdown       bool
	UseEmoji          bool
	UseListFormatting bool
	ListBullet        string
	EmojiMap          map[string]string
}

// DefaultProfile is used whenever a tenant has no stored profile for a
// channel. Telegram is the only surface that renders Markdown natively.
func DefaultProfile(ch Channel) FormattingProfile {
	return FormattingProfile{
		UseMarkdown:       ch == ChannelTelegram,
		UseEmoji:          true,
		UseListFormatting: true,
		ListBullet:        "•",
	}
}

// TenantAISettings selects providers, models and sampling knobs per tenant.
type TenantAISettings struct {
	Provider          string
	Model             string
	Temperature       float32
	TopP              float32
	FrequencyPenalty  float32
	PresencePenalty   float32
	MaxTokens         int
	SystemPrompt      string
	PurePromptMode    bool
	TopKDefault       int
	TopKFallback      int
	EmbeddingProvider string
	EmbeddingModel    string
	GateOverrides     map[string]GateThresholds
}
