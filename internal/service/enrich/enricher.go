// Package enrich expands terse follow-up questions with the conversation's
// remembered booking period, so that retrieval sees a self-contained query.
package enrich

import (
	"strings"

	"github.com/sandevgo/concierge/internal/core"
)

// maxShortQueryTokens is the cutoff below which a query is considered a
// follow-up ("а стандарт?", "комфорт") rather than a full question.
const maxShortQueryTokens = 3

type Enricher struct {
	maxTokens int
}

func NewEnricher() *Enricher {
	return &Enricher{maxTokens: maxShortQueryTokens}
}

// Enrich appends the remembered period to short queries. Long queries and
// queries without a remembered period pass through untouched. The second
// return value reports whether the query was changed.
func (e *Enricher) Enrich(query string, period core.Period) (string, bool) {
	if period.IsZero() || period.Raw == "" {
		return query, false
	}
	if len(strings.Fields(query)) > e.maxTokens {
		return query, false
	}
	if strings.Contains(strings.ToLower(query), strings.ToLower(period.Raw)) {
		return query, false
	}
	return query + " " + period.Raw, true
}
