package core

import "errors"

var (
	// ErrDateAmbiguous marks a date expression that cannot be resolved without
	// guessing. The extractor skips the pattern and keeps scanning.
	ErrDateAmbiguous = errors.New("ambiguous date expression")

	// ErrProfileMissing means no formatting profile is stored for a
	// tenant/channel pair. Callers substitute the channel default.
	ErrProfileMissing = errors.New("formatting profile not found")

	// ErrHistoryUnavailable is fatal for a request: without history the
	// remembered context cannot be established safely.
	ErrHistoryUnavailable = errors.New("session history unavailable")

	// ErrEmbeddingFailed is returned after every embedding provider in the
	// failover chain has been exhausted.
	ErrEmbeddingFailed = errors.New("embedding providers exhausted")

	// ErrGenerationFailed is the single category generation-provider errors
	// collapse into at the pipeline boundary.
	ErrGenerationFailed = errors.New("answer generation failed")
)
