package retrieval

import (
	"regexp"
	"strings"

	"github.com/inbucket/html2text"
)

// Ingestion artifacts that leak from the document indexer into chunk text.
// They confuse the model and waste context budget, so they are stripped
// before the chunk joins the prompt.
var artifactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bpage_number\b\s*[:=]\s*\d+`),
	regexp.MustCompile(`(?i)\bsimilarity\b\s*[:=]\s*[0-9.]+`),
	regexp.MustCompile(`(?i)\bid\b\s*[:=]\s*\d+`),
	regexp.MustCompile(`(?i)\bfile_name\b\s*[:=]\s*\S+`),
	regexp.MustCompile(`(?i)\bresults\b\s*[:=]\s*\[`),
	regexp.MustCompile(`(?i)\.pdf\b`),
	regexp.MustCompile(`(?i)стр\.?\s*\d+`),
	regexp.MustCompile(`(?i)страниц[аы]\s*\d+`),
}

var reManySpaces = regexp.MustCompile(`\s{2,}`)

var reLooksLikeHTML = regexp.MustCompile(`(?i)</?(p|div|br|li|ul|ol|table|td|tr|h[1-6]|span|b|i|strong|em)\b`)

// The converter renders <b>/<strong> as *bold* markers. Chunks must reach the
// prompt as bare text, so paired markers are unwrapped after conversion.
var reEmphasis = regexp.MustCompile(`\*([^*\n]+)\*`)

// sanitizeChunk flattens HTML-bearing chunks to plain text and strips
// indexer artifacts.
func sanitizeChunk(text string) string {
	out := text
	if reLooksLikeHTML.MatchString(out) {
		if plain, err := html2text.FromString(out, html2text.Options{OmitLinks: true}); err == nil {
			out = reEmphasis.ReplaceAllString(plain, "$1")
		}
	}
	for _, p := range artifactPatterns {
		out = p.ReplaceAllString(out, " ")
	}
	out = reManySpaces.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

// capChunk trims a sanitized chunk to the per-chunk character budget without
// splitting a multibyte rune.
func capChunk(text string, maxChars int) string {
	if maxChars <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	return strings.TrimSpace(string(runes[:maxChars]))
}
