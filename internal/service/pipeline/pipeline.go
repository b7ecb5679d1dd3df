// Package pipeline orchestrates one guest message end to end: history load,
// date extraction, query enrichment, retrieval, generation, formatting and
// persistence.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/internal/service/dates"
	"github.com/sandevgo/concierge/internal/service/enrich"
	"github.com/sandevgo/concierge/internal/service/format"
	"github.com/sandevgo/concierge/pkg/conv"
	"github.com/sandevgo/concierge/pkg/log"
	"github.com/sandevgo/concierge/pkg/tokens"
)

// clarifyHistoryUnavailable is sent when history cannot be loaded and the
// remembered context cannot be established safely.
const clarifyHistoryUnavailable = "Не получилось восстановить контекст разговора. " +
	"Повторите, пожалуйста, вопрос и укажите даты заезда и выезда."

// embeddingTokenCap is the input limit of the embedding models in use;
// anything longer is truncated provider-side and billed flat.
const embeddingTokenCap = 8191

type Request struct {
	SessionID string
	TenantID  int64
	Channel   core.Channel
	UserText  string
}

type Reply struct {
	Text       string
	Channel    core.Channel
	RequestID  string
	GateReason string
	// Degraded is set when the answer was generated without grounding
	// context.
	Degraded bool
}

// Retriever is the slice of the retrieval service the pipeline consumes.
type Retriever interface {
	Retrieve(ctx context.Context, requestID string, tenantID int64, query string, settings core.TenantAISettings) core.RetrievalResult
}

type Pipeline struct {
	history   core.HistoryRepository
	sessions  core.SessionRepository
	settings  core.SettingsRepository
	profiles  core.ProfileRepository
	usage     core.UsageRepository
	extractor *dates.Extractor
	enricher  *enrich.Enricher
	retriever Retriever
	generator core.Generator
	formatter *format.Formatter
	depth     int
	locks     *sessionLocks
}

func NewPipeline(
	history core.HistoryRepository,
	sessions core.SessionRepository,
	settings core.SettingsRepository,
	profiles core.ProfileRepository,
	usage core.UsageRepository,
	extractor *dates.Extractor,
	retriever Retriever,
	generator core.Generator,
	historyDepth int,
) *Pipeline {
	if historyDepth <= 0 {
		historyDepth = 10
	}
	return &Pipeline{
		history:   history,
		sessions:  sessions,
		settings:  settings,
		profiles:  profiles,
		usage:     usage,
		extractor: extractor,
		enricher:  enrich.NewEnricher(),
		retriever: retriever,
		generator: generator,
		formatter: format.NewFormatter(),
		depth:     historyDepth,
		locks:     newSessionLocks(),
	}
}

// HandleMessage processes one guest message. Requests within a session are
// serialized; requests across sessions run concurrently.
func (p *Pipeline) HandleMessage(ctx context.Context, req Request) (Reply, error) {
	if !req.Channel.Valid() {
		return Reply{}, fmt.Errorf("unknown channel %q", req.Channel)
	}

	unlock := p.locks.lock(req.SessionID)
	defer unlock()

	requestID := uuid.New().String()
	logger := log.FromCtx(ctx).With().
		Str("request_id", requestID).
		Str("session_id", req.SessionID).
		Int64("tenant_id", req.TenantID).
		Logger()
	ctx = logger.WithContext(ctx)

	normalized := p.extractor.NormalizeRelative(req.UserText)

	history, err := p.history.RecentTurns(ctx, req.TenantID, req.SessionID, p.depth)
	if err != nil {
		logger.Error().Err(fmt.Errorf("%w: %s", core.ErrHistoryUnavailable, err)).Msg("failed to load session history")
		return p.clarifyReply(req, requestID), nil
	}

	period, periodChanged := p.resolvePeriod(ctx, req, normalized, history)

	enriched, wasEnriched := p.enricher.Enrich(normalized, period)
	if wasEnriched {
		logger.Debug().Str("query", enriched).Msg("query enriched with remembered period")
	}

	settings, err := p.settings.AISettings(ctx, req.TenantID)
	if err != nil {
		logger.Warn().Err(err).Msg("tenant ai settings unavailable, using defaults")
		settings = core.TenantAISettings{}
	}

	result := p.retriever.Retrieve(ctx, requestID, req.TenantID, enriched, settings)
	logger.Info().
		Str("decision", string(result.Decision)).
		Str("reason", result.Reason).
		Int("top_k", result.Metrics.TopKUsed).
		Msg("retrieval finished")

	// History is withheld from the model when grounding was rejected, so
	// earlier answers based on since-deleted documents cannot leak through.
	var genHistory []core.Turn
	if result.Accepted() {
		genHistory = chronological(history)
	}

	genResult, err := p.generator.Generate(ctx, core.GenerationRequest{
		System:   composeSystem(settings.SystemPrompt, result.Context, result.Accepted()),
		History:  genHistory,
		UserText: normalized,
		Settings: settings,
	})
	if err != nil {
		logger.Error().Err(err).Str("provider", p.generator.Name()).Msg("generation failed")
		return Reply{}, fmt.Errorf("%w: %s", core.ErrGenerationFailed, err)
	}

	p.logUsage(ctx, req.TenantID, requestID, enriched, settings, result, genResult)

	formatted := p.renderAnswer(ctx, req, genResult.Text)

	p.persist(ctx, req, normalized, genResult.Text, period, periodChanged)

	return Reply{
		Text:       formatted,
		Channel:    req.Channel,
		RequestID:  requestID,
		GateReason: result.Reason,
		Degraded:   !result.Accepted(),
	}, nil
}

// resolvePeriod finds the period governing this request: the current message
// wins, then the stored session period, then a scan of recent history. A
// period found outside the store is remembered for the following requests.
func (p *Pipeline) resolvePeriod(ctx context.Context, req Request, normalized string, history []core.Turn) (core.Period, bool) {
	if period, ok := p.extractor.FromText(normalized); ok {
		return period, true
	}

	period, ok, err := p.sessions.RememberedPeriod(ctx, req.TenantID, req.SessionID)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("failed to load remembered period")
	} else if ok {
		return period, false
	}

	if period, found := p.extractor.FromTurns(history); found {
		return period, true
	}
	return core.Period{}, false
}

func (p *Pipeline) renderAnswer(ctx context.Context, req Request, raw string) string {
	profile, err := p.profiles.Profile(ctx, req.TenantID, req.Channel)
	switch {
	case err == nil:
		return p.formatter.Render(raw, req.Channel, profile)
	case errors.Is(err, core.ErrProfileMissing):
		return p.formatter.Render(raw, req.Channel, core.DefaultProfile(req.Channel))
	default:
		log.FromCtx(ctx).Warn().Err(err).Msg("formatting profile unreadable, falling back to plain")
		return conv.ToPlain(raw)
	}
}

func (p *Pipeline) persist(ctx context.Context, req Request, userText, answer string, period core.Period, periodChanged bool) {
	logger := log.FromCtx(ctx)
	now := time.Now()

	if err := p.history.AppendTurn(ctx, req.TenantID, req.SessionID, core.Turn{
		Role: core.RoleUser, Content: userText, CreatedAt: now,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to persist user turn")
	}
	if err := p.history.AppendTurn(ctx, req.TenantID, req.SessionID, core.Turn{
		Role: core.RoleAssistant, Content: answer, CreatedAt: now,
	}); err != nil {
		logger.Error().Err(err).Msg("failed to persist assistant turn")
	}

	if periodChanged && !period.IsZero() {
		if err := p.sessions.SaveRememberedPeriod(ctx, req.TenantID, req.SessionID, period); err != nil {
			logger.Error().Err(err).Msg("failed to persist remembered period")
		}
	}
}

func (p *Pipeline) logUsage(ctx context.Context, tenantID int64, requestID, query string, settings core.TenantAISettings, result core.RetrievalResult, gen core.GenerationResult) {
	if p.usage == nil {
		return
	}
	logger := log.FromCtx(ctx)

	if result.Reason != "pure_prompt_mode" && result.Reason != "no_chunks" {
		if err := p.usage.LogTokens(ctx, core.TokenUsage{
			TenantID:  tenantID,
			Operation: "embedding",
			Model:     settings.EmbeddingModel,
			Tokens:    tokens.EstimateCapped(query, embeddingTokenCap),
			RequestID: requestID,
		}); err != nil {
			logger.Warn().Err(err).Msg("failed to log embedding token usage")
		}
	}

	if gen.TokensUsed > 0 {
		if err := p.usage.LogTokens(ctx, core.TokenUsage{
			TenantID:  tenantID,
			Operation: "generation",
			Model:     settings.Model,
			Tokens:    gen.TokensUsed,
			RequestID: requestID,
		}); err != nil {
			logger.Warn().Err(err).Msg("failed to log generation token usage")
		}
	}
}

func (p *Pipeline) clarifyReply(req Request, requestID string) Reply {
	return Reply{
		Text:      clarifyHistoryUnavailable,
		Channel:   req.Channel,
		RequestID: requestID,
		Degraded:  true,
	}
}

// chronological flips newest-first storage order into the oldest-first order
// generation providers expect.
func chronological(turns []core.Turn) []core.Turn {
	out := make([]core.Turn, len(turns))
	for i, t := range turns {
		out[len(turns)-1-i] = t
	}
	return out
}
