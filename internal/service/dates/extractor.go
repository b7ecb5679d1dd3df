// Package dates extracts booking dates and periods from chat text.
//
// The grammar is a fixed, ordered set of patterns. Within one turn the first
// pattern kind that matches wins (range beats single dotted date beats
// day+month beats bare month); across turns the most recent turn with any
// match wins and older turns are never consulted.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/concierge/internal/core"
)

var (
	// "Период: 01.03.2026-10.03.2026", "с 01.03.2026 — 10.03.2026"
	reRange = regexp.MustCompile(`(?i)(?:период:\s*|с\s+)?(\d{2})\.(\d{2})\.(\d{4})\s*[-–—]\s*(\d{2})\.(\d{2})\.(\d{4})`)

	// "11.03", "11.03.2026", "11.03.26"
	reDotted = regexp.MustCompile(`\b(\d{1,2})\.(\d{1,2})(?:\.(\d{4}|\d{2}))?\b`)

	// "11 марта", "11 марта 2026"
	reDayMonth = regexp.MustCompile(`(?i)(\d{1,2})\s+(` + strings.Join(monthsGen, "|") + `)(?:\s+(\d{4}))?`)

	// "март", "в марте", "сентябрь 2026"
	reMonthOnly = regexp.MustCompile(`(?i)(?:^|[^а-яёa-z])(` + monthAlternation + `)(?:\s+(\d{4}))?(?:[^а-яёa-z]|$)`)
)

// Extractor finds the most recently mentioned Period in a window of turns.
type Extractor struct {
	lookback int
	now      func() time.Time
}

func NewExtractor(lookback int, now func() time.Time) *Extractor {
	if lookback <= 0 {
		lookback = 10
	}
	if now == nil {
		now = MoscowNow
	}
	return &Extractor{lookback: lookback, now: now}
}

// MoscowNow is the product-wide clock: guests and hotels live on MSK.
func MoscowNow() time.Time {
	return time.Now().In(time.FixedZone("MSK", 3*60*60))
}

// FromTurns scans user turns newest-first, up to the lookback limit, and
// returns the first Period found. Turns must already be ordered most recent
// first; the extractor never reorders them.
func (e *Extractor) FromTurns(turns []core.Turn) (core.Period, bool) {
	seen := 0
	for _, turn := range turns {
		if seen >= e.lookback {
			break
		}
		seen++
		if turn.Role != core.RoleUser {
			continue
		}
		if p, ok := e.FromText(turn.Content); ok {
			return p, true
		}
	}
	return core.Period{}, false
}

// FromText applies the pattern grammar to a single text. Ambiguous candidates
// (impossible day or month values) are rejected, not guessed: the pattern is
// skipped and the next one is tried.
func (e *Extractor) FromText(text string) (core.Period, bool) {
	if p, ok := e.matchRange(text); ok {
		return p, true
	}
	if p, ok := e.matchDotted(text); ok {
		return p, true
	}
	if p, ok := e.matchDayMonth(text); ok {
		return p, true
	}
	if p, ok := e.matchMonthOnly(text); ok {
		return p, true
	}
	return core.Period{}, false
}

func (e *Extractor) matchRange(text string) (core.Period, bool) {
	for _, m := range reRange.FindAllStringSubmatch(text, -1) {
		start, err := buildDate(m[1], m[2], m[3], e.now())
		if err != nil {
			continue
		}
		end, err := buildDate(m[4], m[5], m[6], e.now())
		if err != nil {
			continue
		}
		if end.Before(start) {
			continue
		}
		return core.Period{Raw: strings.TrimSpace(m[0]), Start: start, End: end}, true
	}
	return core.Period{}, false
}

func (e *Extractor) matchDotted(text string) (core.Period, bool) {
	for _, m := range reDotted.FindAllStringSubmatch(text, -1) {
		d, err := buildDate(m[1], m[2], m[3], e.now())
		if err != nil {
			continue
		}
		return core.Period{Raw: strings.TrimSpace(m[0]), Start: d, End: d}, true
	}
	return core.Period{}, false
}

func (e *Extractor) matchDayMonth(text string) (core.Period, bool) {
	for _, m := range reDayMonth.FindAllStringSubmatch(text, -1) {
		month, ok := monthFromForm(m[2])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year := e.yearOrDefault(m[3])
		if day < 1 || day > daysInMonth(year, month) {
			continue
		}
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return core.Period{Raw: strings.TrimSpace(m[0]), Start: d, End: d}, true
	}
	return core.Period{}, false
}

func (e *Extractor) matchMonthOnly(text string) (core.Period, bool) {
	m := reMonthOnly.FindStringSubmatch(text)
	if m == nil {
		return core.Period{}, false
	}
	month, ok := monthFromForm(m[1])
	if !ok {
		return core.Period{}, false
	}
	year := e.yearOrDefault(m[2])
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, daysInMonth(year, month), 0, 0, 0, 0, time.UTC)

	raw := m[1]
	if m[2] != "" {
		raw = fmt.Sprintf("%s %s", m[1], m[2])
	}
	return core.Period{Raw: raw, Start: start, End: end}, true
}

func (e *Extractor) yearOrDefault(s string) int {
	if s == "" {
		return e.now().Year()
	}
	y, _ := strconv.Atoi(s)
	return y
}

// buildDate validates a dotted date. Month values above 12 or days that do
// not exist in the month make the candidate ambiguous and it is dropped.
func buildDate(dayStr, monthStr, yearStr string, now time.Time) (time.Time, error) {
	day, _ := strconv.Atoi(dayStr)
	month, _ := strconv.Atoi(monthStr)

	year := now.Year()
	switch len(yearStr) {
	case 0:
	case 2:
		y, _ := strconv.Atoi(yearStr)
		year = 2000 + y
	default:
		year, _ = strconv.Atoi(yearStr)
	}

	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month %d", core.ErrDateAmbiguous, month)
	}
	if day < 1 || day > daysInMonth(year, time.Month(month)) {
		return time.Time{}, fmt.Errorf("%w: day %d", core.ErrDateAmbiguous, day)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
