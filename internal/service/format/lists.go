package format

import "strings"

var bulletMarkers = []string{"- ", "* ", "• "}

// applyListBullets rewrites recognized bullet markers at the start of a line
// to the profile's bullet character.
func applyListBullets(text, bullet string) string {
	if bullet == "" {
		return text
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		indent := line[:len(line)-len(trimmed)]
		for _, marker := range bulletMarkers {
			if rest, ok := strings.CutPrefix(trimmed, marker); ok {
				lines[i] = indent + bullet + " " + rest
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
