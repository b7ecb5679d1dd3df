package format

import (
	"strings"
	"testing"

	"github.com/sandevgo/concierge/internal/core"
)

func TestRender_WidgetRendersHTML(t *testing.T) {
	f := NewFormatter()
	profile := core.DefaultProfile(core.ChannelWidget)

	got := f.Render("**Привет**", core.ChannelWidget, profile)
	if got != "<b>Привет</b>" {
		t.Errorf("Render = %q, want %q", got, "<b>Привет</b>")
	}
}

func TestRender_TelegramKeepsMarkdown(t *testing.T) {
	f := NewFormatter()
	profile := core.DefaultProfile(core.ChannelTelegram)

	got := f.Render("<b>Цена</b>: 5000 руб", core.ChannelTelegram, profile)
	if !strings.Contains(got, "**Цена**") {
		t.Errorf("HTML bold must become markdown bold: %q", got)
	}
}

func TestRender_TelegramPlainWhenMarkdownDisabled(t *testing.T) {
	f := NewFormatter()
	profile := core.DefaultProfile(core.ChannelTelegram)
	profile.UseMarkdown = false
	profile.UseEmoji = false

	got := f.Render("**Цена**: 5000", core.ChannelTelegram, profile)
	if strings.Contains(got, "**") {
		t.Errorf("markers must be stripped: %q", got)
	}
	if !strings.Contains(got, "Цена") {
		t.Errorf("content must survive: %q", got)
	}
}

func TestRender_PlainChannelsStripMarkup(t *testing.T) {
	f := NewFormatter()
	for _, ch := range []core.Channel{core.ChannelVK, core.ChannelMax} {
		profile := core.DefaultProfile(ch)
		profile.UseEmoji = false

		got := f.Render("<b>жирный</b> и **тоже жирный**", ch, profile)
		if strings.ContainsAny(got, "<>*") {
			t.Errorf("channel %s: markup left in %q", ch, got)
		}
	}
}

func TestApplyEmoji(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "keyword gets emoji",
			input: "Номер стандарт: 5000",
			want:  "🏨 Номер стандарт: 5000",
		},
		{
			name:  "one emoji per line",
			input: "Стандарт с завтраком: 6000 руб",
			want:  "🍳 Стандарт с завтраком: 6000 руб",
		},
		{
			name:  "existing emoji not duplicated",
			input: "🏨 Стандарт: 5000",
			want:  "🏨 Стандарт: 5000",
		},
		{
			name:  "indentation preserved",
			input: "  люкс: 12000",
			want:  "  👑 люкс: 12000",
		},
		{
			name:  "each line handled separately",
			input: "Стандарт: 5000\nКомфорт: 7000",
			want:  "🏨 Стандарт: 5000\n✨ Комфорт: 7000",
		},
		{
			name:  "no keyword no change",
			input: "Добрый день!",
			want:  "Добрый день!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyEmoji(tt.input, nil); got != tt.want {
				t.Errorf("applyEmoji(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyEmoji_CustomMap(t *testing.T) {
	custom := map[string]string{"сауна": "🧖"}
	got := applyEmoji("Сауна: 2000 руб\nЗавтрак: 500", custom)
	want := "🧖 Сауна: 2000 руб\nЗавтрак: 500"
	if got != want {
		t.Errorf("applyEmoji = %q, want %q (custom map replaces the default)", got, want)
	}
}

func TestApplyListBullets(t *testing.T) {
	input := "Варианты:\n- стандарт\n* комфорт\n  - люкс"
	want := "Варианты:\n• стандарт\n• комфорт\n  • люкс"
	if got := applyListBullets(input, "•"); got != want {
		t.Errorf("applyListBullets = %q, want %q", got, want)
	}
}
