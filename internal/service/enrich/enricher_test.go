package enrich

import (
	"testing"
	"time"

	"github.com/sandevgo/concierge/internal/core"
)

func marchPeriod() core.Period {
	return core.Period{
		Raw:   "11 марта",
		Start: time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC),
	}
}

func TestEnrich(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		period      core.Period
		want        string
		wantChanged bool
	}{
		{
			name:        "short follow-up gets the period",
			query:       "а стандарт?",
			period:      marchPeriod(),
			want:        "а стандарт? 11 марта",
			wantChanged: true,
		},
		{
			name:        "single word follow-up",
			query:       "комфорт",
			period:      marchPeriod(),
			want:        "комфорт 11 марта",
			wantChanged: true,
		},
		{
			name:        "exactly three tokens still enriched",
			query:       "а номер комфорт",
			period:      marchPeriod(),
			want:        "а номер комфорт 11 марта",
			wantChanged: true,
		},
		{
			name:        "long query untouched",
			query:       "сколько стоит номер на двоих",
			period:      marchPeriod(),
			want:        "сколько стоит номер на двоих",
			wantChanged: false,
		},
		{
			name:        "no remembered period",
			query:       "комфорт",
			period:      core.Period{},
			want:        "комфорт",
			wantChanged: false,
		},
		{
			name:        "query already names the period",
			query:       "11 марта?",
			period:      marchPeriod(),
			want:        "11 марта?",
			wantChanged: false,
		},
	}

	e := NewEnricher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := e.Enrich(tt.query, tt.period)
			if got != tt.want {
				t.Errorf("Enrich(%q) = %q, want %q", tt.query, got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}
