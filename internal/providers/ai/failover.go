package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/pkg/log"
	"github.com/sandevgo/concierge/pkg/retry"
)

// FailoverEmbedder tries each provider in order, with bounded retries per
// provider, until one returns a vector.
type FailoverEmbedder struct {
	embedders []core.Embedder
	retrier   *retry.Retrier
}

func NewFailoverEmbedder(embedders ...core.Embedder) *FailoverEmbedder {
	return &FailoverEmbedder{
		embedders: embedders,
		retrier:   retry.NewDefaultRetrier(),
	}
}

func (f *FailoverEmbedder) Name() string {
	names := make([]string, len(f.embedders))
	for i, e := range f.embedders {
		names[i] = e.Name()
	}
	return strings.Join(names, ",")
}

func (f *FailoverEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var errs []error
	for _, e := range f.embedders {
		var vec []float32
		err := f.retrier.Do(ctx, func() error {
			var embErr error
			vec, embErr = e.Embed(ctx, text)
			return embErr
		})
		if err == nil {
			return vec, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.FromCtx(ctx).Warn().Err(err).Str("provider", e.Name()).Msg("embedding provider failed, trying next")
		errs = append(errs, fmt.Errorf("%s: %w", e.Name(), err))
	}
	return nil, fmt.Errorf("%w: %s", core.ErrEmbeddingFailed, errors.Join(errs...))
}
