package retrieval

import (
	"strings"
	"testing"

	"github.com/sandevgo/concierge/internal/core"
)

func TestClassifyQueryType(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"сколько стоит номер стандарт?", QueryTariffs},
		{"цена на люкс", QueryTariffs},
		{"22 мая", QueryTariffs},
		{"15.03", QueryTariffs},
		{"2026-05-22", QueryTariffs},
		{"можно ли курить на балконе?", QueryRules},
		{"какие правила заселения с животными?", QueryRules},
		{"есть ли у вас спа?", QueryServices},
		{"когда работает ресторан?", QueryServices},
	}
	for _, tt := range tests {
		if got := classifyQueryType(tt.query); got != tt.want {
			t.Errorf("classifyQueryType(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func TestDetectLang(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"сколько стоит номер", "ru"},
		{"do you have a spa", "en"},
		{"спа и spa", "ru"},
		{"12345 ...", "other"},
	}
	for _, tt := range tests {
		if got := detectLang(tt.text); got != tt.want {
			t.Errorf("detectLang(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("Сколько стоит номер на двоих?", "ru")
	want := []string{"стоит", "номер", "двоих"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestGateEvaluate(t *testing.T) {
	g := NewGate()
	longTariffContext := strings.Repeat("Номер стандарт стоит 5000 рублей за ночь. ", 10)

	tests := []struct {
		name         string
		query        string
		context      string
		sims         []float64
		wantDecision core.GateDecision
		wantReason   string
	}{
		{
			name:         "empty context",
			query:        "сколько стоит номер",
			context:      "",
			wantDecision: core.GateReject,
			wantReason:   "empty_context",
		},
		{
			name:         "too short for tariffs",
			query:        "сколько стоит номер",
			context:      "короткий текст",
			sims:         []float64{0.8},
			wantDecision: core.GateReject,
			wantReason:   "too_short:tariffs",
		},
		{
			name:         "low similarity",
			query:        "сколько стоит номер",
			context:      longTariffContext,
			sims:         []float64{0.21, 0.30},
			wantDecision: core.GateReject,
			wantReason:   "low_similarity:tariffs:0.30",
		},
		{
			name:         "passes with good context",
			query:        "сколько стоит номер стандарт",
			context:      longTariffContext,
			sims:         []float64{0.62},
			wantDecision: core.GateAccept,
			wantReason:   "ok:tariffs:ru",
		},
		{
			name:         "few key tokens skip overlap check",
			query:        "цена?",
			context:      longTariffContext,
			sims:         []float64{0.62},
			wantDecision: core.GateAccept,
			wantReason:   "ok:tariffs:ru",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, reason, _ := g.Evaluate(tt.query, tt.context, tt.sims, nil)
			if decision != tt.wantDecision {
				t.Errorf("decision = %q, want %q", decision, tt.wantDecision)
			}
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestGateEvaluate_LowOverlap(t *testing.T) {
	g := NewGate()
	// Long enough and similar enough, but about a different topic entirely.
	context := strings.Repeat("Завтрак подается в ресторане на первом этаже отеля каждое утро. ", 12)

	decision, reason, metrics := g.Evaluate(
		"можно курить балконе номера запрещено штраф", context, []float64{0.6}, nil)
	if decision != core.GateReject {
		t.Fatalf("decision = %q, want reject", decision)
	}
	if !strings.HasPrefix(reason, "low_overlap:rules:ru:") {
		t.Errorf("reason = %q, want low_overlap:rules:ru prefix", reason)
	}
	if metrics.KeyTokens < 4 {
		t.Errorf("key tokens = %d, want >= 4", metrics.KeyTokens)
	}
}

func TestGateEvaluate_TenantOverrides(t *testing.T) {
	g := NewGate()
	context := strings.Repeat("Номер стандарт стоит 5000 рублей за ночь. ", 10)

	overrides := map[string]core.GateThresholds{
		QueryTariffs: {MinSimilarity: 0.7},
	}
	decision, reason, _ := g.Evaluate("сколько стоит номер", context, []float64{0.62}, overrides)
	if decision != core.GateReject {
		t.Fatalf("decision = %q, want reject under override", decision)
	}
	if reason != "low_similarity:tariffs:0.62" {
		t.Errorf("reason = %q", reason)
	}
}

func TestThresholdsFor_UnknownTypeUsesRulesFloors(t *testing.T) {
	th := thresholdsFor("unknown", nil)
	if th != defaultThresholds[QueryRules] {
		t.Errorf("unknown query type must fall back to the strictest floors, got %+v", th)
	}
}
