package retrieval

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/concierge/internal/core"
)

// Query types the gate distinguishes. Tariff questions are short and factual,
// so they get a looser context floor than rules or services questions.
const (
	QueryTariffs  = "tariffs"
	QueryRules    = "rules"
	QueryServices = "services"
)

var defaultThresholds = map[string]core.GateThresholds{
	QueryTariffs:  {MinContextLen: 300, MinSimilarity: 0.35, MinOverlapRU: 0.08, MinOverlapEN: 0.08},
	QueryRules:    {MinContextLen: 650, MinSimilarity: 0.34, MinOverlapRU: 0.18, MinOverlapEN: 0.14},
	QueryServices: {MinContextLen: 550, MinSimilarity: 0.32, MinOverlapRU: 0.18, MinOverlapEN: 0.14},
}

var stopwordsRU = toSet(
	"и", "в", "во", "на", "по", "к", "ко", "с", "со", "у", "из", "за", "для", "о", "об", "от", "до", "или",
	"а", "но", "что", "это", "как", "где", "когда", "сколько", "какой", "какая", "какие", "какое",
	"я", "мы", "вы", "они", "он", "она", "оно", "мне", "нам", "вам", "их", "его", "ее", "этот", "эта", "эти",
	"тут", "там", "здесь", "вот", "ли", "же", "бы", "то", "не", "нет", "да",
)

var stopwordsEN = toSet(
	"the", "a", "an", "and", "or", "to", "of", "in", "on", "for", "with", "about", "is", "are", "was", "were",
	"be", "been", "being", "as", "at", "by", "from", "this", "that", "these", "those", "it", "its", "i", "we", "you", "they",
	"my", "our", "your", "their", "me", "us", "them", "please",
)

func toSet(words ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}

var (
	reCyrillic = regexp.MustCompile(`[А-Яа-яЁё]`)
	reLatin    = regexp.MustCompile(`[A-Za-z]`)
	reNonWord  = regexp.MustCompile(`(?i)[^a-zа-яё0-9\s\-]+`)

	// Bare-date queries ("22 мая", "15.03") are always price questions.
	reBareDateWord = regexp.MustCompile(`(?i)^\s*\d{1,2}\s+(янв|фев|мар|апр|мая|июн|июл|авг|сен|окт|ноя|дек)`)
	reBareDateDot  = regexp.MustCompile(`^\s*\d{1,2}[./\-]\d{1,2}`)
	reBareDateISO  = regexp.MustCompile(`^\s*\d{4}[./\-]\d{1,2}[./\-]\d{1,2}`)
)

var tariffKeywords = []string{
	"цена", "цену", "стоимость", "сколько стоит", "тариф", "прайс", "заезд", "выезд", "ноч", "прожив",
	"сколько", "рубл", "стоит", "оплат", "платеж", "стандарт", "комфорт", "люкс", "видовой", "категор",
}

var rulesKeywords = []string{
	"правил", "нельзя", "запрет", "штраф", "курить", "документ", "ответствен", "выселен", "возмещен",
}

// minKeyTokensForOverlap: with fewer key tokens the overlap ratio is too
// noisy to reject on.
const minKeyTokensForOverlap = 4

// Gate decides whether assembled context is good enough to ground an answer.
type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

// Evaluate runs the quality checks in order: context presence, length floor,
// best similarity floor, keyword overlap floor. The first failing check
// rejects with its reason code.
func (g *Gate) Evaluate(query, context string, sims []float64, overrides map[string]core.GateThresholds) (core.GateDecision, string, core.GateMetrics) {
	queryType := classifyQueryType(query)
	contextLen := utf8.RuneCountInString(context)
	metrics := core.GateMetrics{
		QueryType:  queryType,
		ContextLen: contextLen,
	}

	if context == "" {
		return core.GateReject, "empty_context", metrics
	}

	th := thresholdsFor(queryType, overrides)

	if contextLen < th.MinContextLen {
		return core.GateReject, fmt.Sprintf("too_short:%s", queryType), metrics
	}

	if len(sims) > 0 {
		best := sims[0]
		for _, s := range sims[1:] {
			if s > best {
				best = s
			}
		}
		metrics.BestSimilarity = best
		if best < th.MinSimilarity {
			return core.GateReject, fmt.Sprintf("low_similarity:%s:%.2f", queryType, best), metrics
		}
	}

	lang := detectLang(query)
	metrics.Lang = lang

	minOverlap := th.MinOverlapRU
	if lang != "ru" {
		minOverlap = th.MinOverlapEN
	}

	overlap, keyTokens := keywordOverlap(query, context, lang)
	metrics.Overlap = overlap
	metrics.KeyTokens = keyTokens

	if keyTokens >= minKeyTokensForOverlap && overlap < minOverlap {
		return core.GateReject, fmt.Sprintf("low_overlap:%s:%s:%.2f", queryType, lang, overlap), metrics
	}

	return core.GateAccept, fmt.Sprintf("ok:%s:%s", queryType, lang), metrics
}

func thresholdsFor(queryType string, overrides map[string]core.GateThresholds) core.GateThresholds {
	th, ok := defaultThresholds[queryType]
	if !ok {
		th = defaultThresholds[QueryRules]
	}
	if overrides == nil {
		return th
	}
	o, ok := overrides[queryType]
	if !ok {
		o, ok = overrides["default"]
	}
	if !ok {
		return th
	}
	if o.MinContextLen > 0 {
		th.MinContextLen = o.MinContextLen
	}
	if o.MinSimilarity > 0 {
		th.MinSimilarity = o.MinSimilarity
	}
	if o.MinOverlapRU > 0 {
		th.MinOverlapRU = o.MinOverlapRU
	}
	if o.MinOverlapEN > 0 {
		th.MinOverlapEN = o.MinOverlapEN
	}
	return th
}

func classifyQueryType(query string) string {
	t := strings.ToLower(query)

	if reBareDateWord.MatchString(t) || reBareDateDot.MatchString(t) || reBareDateISO.MatchString(t) {
		return QueryTariffs
	}
	for _, k := range tariffKeywords {
		if strings.Contains(t, k) {
			return QueryTariffs
		}
	}
	for _, k := range rulesKeywords {
		if strings.Contains(t, k) {
			return QueryRules
		}
	}
	return QueryServices
}

// detectLang counts cyrillic vs latin letters. Ties go to Russian since the
// product's audience is Russian-speaking.
func detectLang(text string) string {
	cyr := len(reCyrillic.FindAllString(text, -1))
	lat := len(reLatin.FindAllString(text, -1))
	if cyr == 0 && lat == 0 {
		return "other"
	}
	if cyr >= lat {
		return "ru"
	}
	return "en"
}

// tokenize lowercases, strips punctuation and returns tokens of three or
// more characters with the language's stopwords removed.
func tokenize(text, lang string) []string {
	text = strings.ToLower(text)
	text = reNonWord.ReplaceAllString(text, " ")

	var stop map[string]struct{}
	switch lang {
	case "ru":
		stop = stopwordsRU
	case "en":
		stop = stopwordsEN
	}

	var out []string
	for _, t := range strings.Fields(text) {
		if len([]rune(t)) < 3 {
			continue
		}
		if _, skip := stop[t]; skip {
			continue
		}
		out = append(out, t)
	}
	return out
}

// keywordOverlap returns the share of the query's unique key tokens that
// also occur in the context, plus the query's key token count.
func keywordOverlap(query, context, lang string) (float64, int) {
	qSet := toSet(tokenize(query, lang)...)
	if len(qSet) == 0 {
		return 0, 0
	}
	cSet := toSet(tokenize(context, lang)...)

	hits := 0
	for t := range qSet {
		if _, ok := cSet[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(qSet)), len(qSet)
}
