// Package format renders a raw model answer for a delivery channel according
// to the tenant's formatting profile.
package format

import (
	"github.com/sandevgo/concierge/internal/core"
	"github.com/sandevgo/concierge/pkg/conv"
)

type Formatter struct{}

func NewFormatter() *Formatter {
	return &Formatter{}
}

// Render is a pure function of the raw answer, the channel and the profile.
// Emoji and list passes run on the raw text first, so keyword matching never
// sees channel markup.
func (f *Formatter) Render(raw string, ch core.Channel, profile core.FormattingProfile) string {
	text := raw
	if profile.UseEmoji {
		text = applyEmoji(text, profile.EmojiMap)
	}
	if profile.UseListFormatting {
		text = applyListBullets(text, profile.ListBullet)
	}

	switch ch {
	case core.ChannelTelegram:
		if profile.UseMarkdown {
			return conv.ToMarkdown(text)
		}
		return conv.ToPlain(text)
	case core.ChannelWidget:
		return conv.ToHTML(text)
	case core.ChannelVK, core.ChannelMax:
		return conv.ToPlain(text)
	default:
		return conv.ToPlain(text)
	}
}
