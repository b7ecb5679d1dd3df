package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

type relativeRule struct {
	re      *regexp.Regexp
	resolve func(count string, today time.Time) time.Time
}

func days(n int) func(string, time.Time) time.Time {
	return func(_ string, today time.Time) time.Time {
		return today.AddDate(0, 0, n)
	}
}

func countedDays(unit int) func(string, time.Time) time.Time {
	return func(count string, today time.Time) time.Time {
		n, _ := strconv.Atoi(count)
		return today.AddDate(0, 0, n*unit)
	}
}

// Order matters: "послезавтра" has to be tried before "завтра" and counted
// variants before bare ones.
var relativeRules = []relativeRule{
	{regexp.MustCompile(`(?i)послезавтра`), days(2)},
	{regexp.MustCompile(`(?i)завтра`), days(1)},
	{regexp.MustCompile(`(?i)через\s+(\d+)\s+(?:день|дня|дней)`), countedDays(1)},
	{regexp.MustCompile(`(?i)через\s+(\d+)\s+(?:неделю|недели|недель)`), countedDays(7)},
	{regexp.MustCompile(`(?i)через\s+неделю`), days(7)},
	{regexp.MustCompile(`(?i)через\s+месяц`), days(30)},
	{regexp.MustCompile(`(?i)на\s+следующей\s+неделе`), days(7)},
}

// NormalizeRelative rewrites relative date words ("завтра", "через 3 дня") to
// the absolute "D месяц" form, so that extraction and the stored turn both
// see a concrete date.
func (e *Extractor) NormalizeRelative(text string) string {
	today := e.now()
	out := text
	for _, rule := range relativeRules {
		out = rule.rewrite(out, today)
	}
	return out
}

// rewrite replaces every standalone occurrence of the rule's phrase.
// Word boundaries are checked by hand because the regexp engine only knows
// ASCII boundaries and "завтра" must not fire inside "завтрак".
func (r relativeRule) rewrite(text string, today time.Time) string {
	matches := r.re.FindAllStringSubmatchIndex(text, -1)
	if matches == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		start, end := loc[0], loc[1]
		if insideWord(text, start, end) {
			continue
		}
		var count string
		if len(loc) > 2 && loc[2] >= 0 {
			count = text[loc[2]:loc[3]]
		}
		date := r.resolve(count, today)
		b.WriteString(text[last:start])
		b.WriteString(fmt.Sprintf("%d %s", date.Day(), genitiveMonth(date.Month())))
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func insideWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) {
			return true
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
