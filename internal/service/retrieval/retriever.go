// Package retrieval ranks tenant document chunks against a query embedding,
// assembles grounding context and guards it with a quality gate.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sandevgo/concierge/internal/config"
	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/pkg/log"
)

type Retriever struct {
	cfg      *config.RetrievalConfig
	chunks   core.ChunkRepository
	embedder core.Embedder
	gate     *Gate
	window   *overlapWindow
	gateLog  core.GateLogRepository
}

func NewRetriever(cfg *config.RetrievalConfig, chunks core.ChunkRepository, embedder core.Embedder, gateLog core.GateLogRepository) *Retriever {
	return &Retriever{
		cfg:      cfg,
		chunks:   chunks,
		embedder: embedder,
		gate:     NewGate(),
		window:   newOverlapWindow(cfg.LowOverlapWindow, cfg.LowOverlapThreshold),
		gateLog:  gateLog,
	}
}

// Retrieve runs one retrieval pass for a query. It never returns an error
// for provider or data problems: those become reject decisions with a
// reason code, and the pipeline degrades instead of failing the message.
func (r *Retriever) Retrieve(ctx context.Context, requestID string, tenantID int64, query string, settings core.TenantAISettings) core.RetrievalResult {
	if settings.PurePromptMode {
		result := core.RetrievalResult{Decision: core.GateAccept, Reason: "pure_prompt_mode"}
		r.logDecision(ctx, requestID, tenantID, query, result)
		return result
	}

	chunks, err := r.chunks.TenantChunks(ctx, tenantID)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Int64("tenant_id", tenantID).Msg("failed to load tenant chunks")
		result := core.RetrievalResult{Decision: core.GateReject, Reason: "no_chunks"}
		r.logDecision(ctx, requestID, tenantID, query, result)
		return result
	}
	if len(chunks) == 0 {
		result := core.RetrievalResult{Decision: core.GateReject, Reason: "no_chunks"}
		r.logDecision(ctx, requestID, tenantID, query, result)
		return result
	}

	queryVec, err := r.embedQuery(ctx, query)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Str("provider", r.embedder.Name()).Msg("query embedding failed")
		result := core.RetrievalResult{Decision: core.GateReject, Reason: "embedding_error"}
		r.logDecision(ctx, requestID, tenantID, query, result)
		return result
	}

	scored := r.rank(queryVec, chunks)

	defaultK, fallbackK := r.topK(settings)
	startK := defaultK
	if r.cfg.StartFallbackOnOverload && r.window.degraded() {
		startK = fallbackK
	}

	result := r.gatedPass(query, scored, startK, settings.GateOverrides)
	if !result.Accepted() && startK < fallbackK {
		retried := r.gatedPass(query, scored, fallbackK, settings.GateOverrides)
		if retried.Accepted() {
			result = retried
		}
	}

	r.window.record(strings.HasPrefix(result.Reason, "low_overlap"))
	r.logDecision(ctx, requestID, tenantID, query, result)
	return result
}

// gatedPass assembles context from the best topK chunks and gates it.
func (r *Retriever) gatedPass(query string, scored []core.ScoredChunk, topK int, overrides map[string]core.GateThresholds) core.RetrievalResult {
	picked := scored
	if len(picked) > topK {
		picked = picked[:topK]
	}

	var parts []string
	sims := make([]float64, 0, len(picked))
	for _, sc := range picked {
		sims = append(sims, sc.Similarity)
		clean := capChunk(sanitizeChunk(sc.Chunk.Text), r.cfg.MaxCharsPerChunk)
		if clean == "" {
			continue
		}
		parts = append(parts, clean)
	}
	contextText := strings.TrimSpace(strings.Join(parts, "\n\n"))

	decision, reason, metrics := r.gate.Evaluate(query, contextText, sims, overrides)
	metrics.TopKUsed = topK

	return core.RetrievalResult{
		Chunks:   picked,
		Context:  contextText,
		Decision: decision,
		Reason:   reason,
		Metrics:  metrics,
	}
}

func (r *Retriever) embedQuery(ctx context.Context, query string) ([]float32, error) {
	embedCtx, cancel := context.WithTimeout(ctx, r.cfg.EmbedTimeout)
	defer cancel()

	vec, err := r.embedder.Embed(embedCtx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrEmbeddingFailed, err)
	}
	return vec, nil
}

// rank scores every chunk against the query vector and keeps the ones above
// the similarity floor, best first.
func (r *Retriever) rank(queryVec []float32, chunks []core.DocumentChunk) []core.ScoredChunk {
	scored := make([]core.ScoredChunk, 0, len(chunks))
	for _, c := range chunks {
		sim := cosineSimilarity(queryVec, c.Embedding)
		if sim < r.cfg.ChunkSimilarityFloor {
			continue
		}
		scored = append(scored, core.ScoredChunk{Chunk: c, Similarity: sim})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Similarity > scored[j].Similarity
	})
	return scored
}

func (r *Retriever) topK(settings core.TenantAISettings) (int, int) {
	defaultK, fallbackK := r.cfg.TopKDefault, r.cfg.TopKFallback
	if settings.TopKDefault > 0 {
		defaultK = settings.TopKDefault
	}
	if settings.TopKFallback > 0 {
		fallbackK = settings.TopKFallback
	}
	if fallbackK < defaultK {
		fallbackK = defaultK
	}
	return defaultK, fallbackK
}

func (r *Retriever) logDecision(ctx context.Context, requestID string, tenantID int64, query string, result core.RetrievalResult) {
	if r.gateLog == nil {
		return
	}
	entry := core.GateLogEntry{
		RequestID: requestID,
		TenantID:  tenantID,
		Query:     query,
		Decision:  result.Decision,
		Reason:    result.Reason,
		Metrics:   result.Metrics,
		CreatedAt: time.Now(),
	}
	if err := r.gateLog.LogGate(ctx, entry); err != nil {
		log.FromCtx(ctx).Warn().Err(err).Str("request_id", requestID).Msg("failed to persist gate decision")
	}
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
