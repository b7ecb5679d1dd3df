// Package conv converts model output between markup dialects. Model answers
// arrive as loose Markdown with occasional inline HTML tags; each chat surface
// needs exactly one of HTML, Markdown or bare text.
package conv

import (
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	webPolicy  = bluemonday.NewPolicy()
)

func init() {
	// Tags the chat widget renders unescaped. Anything else is dropped.
	webPolicy.AllowElements("b", "strong", "i", "em", "u", "s", "del", "code", "pre", "blockquote")
	webPolicy.AllowAttrs("href").OnElements("a")
}

var (
	reBoldTag   = regexp.MustCompile(`(?is)<(?:b|strong)>(.+?)</(?:b|strong)>`)
	reItalicTag = regexp.MustCompile(`(?is)<(?:i|em)>(.+?)</(?:i|em)>`)
	reAnchorTag = regexp.MustCompile(`(?is)<a\s+[^>]*href="([^"]*)"[^>]*>(.+?)</a>`)
	reAnyTag    = regexp.MustCompile(`<[^>]+>`)

	reBoldMark   = regexp.MustCompile(`\*\*([^*\n]+?)\*\*|__([^_\n]+?)__`)
	reItalicMark = regexp.MustCompile(`\*([^*\n]+?)\*|_([^_\n]+?)_`)
	reCodeMark   = regexp.MustCompile("`([^`\n]+?)`")
	reLinkMark   = regexp.MustCompile(`\[([^\]\n]+?)\]\(([^)\n]+?)\)`)
	reHeading    = regexp.MustCompile(`(?m)^#{1,6}\s+`)
)

// ToHTML renders Markdown to sanitized HTML suitable for unescaped rendering
// in the chat widget. Bold and italic come out as the short <b>/<i> tags the
// widget and messenger surfaces share.
func ToHTML(md string) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafe := markdown.Render(p.Parse([]byte(md)), renderer)

	s := string(webPolicy.SanitizeBytes(unsafe))
	s = strings.NewReplacer(
		"<strong>", "<b>", "</strong>", "</b>",
		"<em>", "<i>", "</em>", "</i>",
	).Replace(s)
	return strings.TrimSpace(s)
}

// ToMarkdown rewrites inline HTML markers as Markdown and strips every other
// tag. Anchors keep the URL next to the label so messenger link previews work.
func ToMarkdown(s string) string {
	s = reBoldTag.ReplaceAllString(s, "**$1**")
	s = reItalicTag.ReplaceAllString(s, "*$1*")
	s = reAnchorTag.ReplaceAllStringFunc(s, func(m string) string {
		parts := reAnchorTag.FindStringSubmatch(m)
		url, label := parts[1], strings.TrimSpace(parts[2])
		if label == "" || label == url {
			return url
		}
		return label + " (" + url + ")"
	})
	return reAnyTag.ReplaceAllString(s, "")
}

// ToPlain strips HTML tags and Markdown markers, leaving bare text. URLs stay
// on their own so platforms can auto-link them. Text that carries no markup
// comes back unchanged.
func ToPlain(s string) string {
	s = reBoldTag.ReplaceAllString(s, "$1")
	s = reItalicTag.ReplaceAllString(s, "$1")
	s = reAnchorTag.ReplaceAllStringFunc(s, func(m string) string {
		parts := reAnchorTag.FindStringSubmatch(m)
		url, label := parts[1], strings.TrimSpace(parts[2])
		if label == "" || label == url {
			return url
		}
		return label + " " + url
	})
	s = reAnyTag.ReplaceAllString(s, "")

	s = reBoldMark.ReplaceAllString(s, "$1$2")
	s = reItalicMark.ReplaceAllString(s, "$1$2")
	s = reCodeMark.ReplaceAllString(s, "$1")
	s = reLinkMark.ReplaceAllString(s, "$1 $2")
	s = reHeading.ReplaceAllString(s, "")
	return s
}
