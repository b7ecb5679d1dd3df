package format

import (
	"sort"
	"strings"
)

type emojiRule struct {
	keyword string
	emoji   string
}

// defaultEmojiRules decorate answer lines about room categories and meal
// plans. Order matters: only the first matching keyword per line fires.
var defaultEmojiRules = []emojiRule{
	{"завтрак", "🍳"},
	{"без питания", "🍽"},
	{"полный пансион", "🍴"},
	{"стандарт", "🏨"},
	{"комфорт", "✨"},
	{"люкс", "👑"},
	{"руб", "💰"},
}

func emojiRules(custom map[string]string) []emojiRule {
	if len(custom) == 0 {
		return defaultEmojiRules
	}
	keywords := make([]string, 0, len(custom))
	for k := range custom {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	rules := make([]emojiRule, 0, len(keywords))
	for _, k := range keywords {
		rules = append(rules, emojiRule{keyword: strings.ToLower(k), emoji: custom[k]})
	}
	return rules
}

// applyEmoji prefixes each line containing a known keyword with its emoji,
// keeping the line's indentation. A line that already carries the emoji is
// left alone, and at most one emoji is added per line.
func applyEmoji(text string, custom map[string]string) string {
	rules := emojiRules(custom)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, rule := range rules {
			if !strings.Contains(lower, rule.keyword) || strings.Contains(line, rule.emoji) {
				continue
			}
			trimmed := strings.TrimLeft(line, " \t")
			indent := line[:len(line)-len(trimmed)]
			lines[i] = indent + rule.emoji + " " + trimmed
			break
		}
	}
	return strings.Join(lines, "\n")
}
