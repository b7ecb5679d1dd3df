package dates

import "testing"

func TestNormalizeRelative(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "tomorrow",
			input: "есть номера на завтра?",
			want:  "есть номера на 11 февраля?",
		},
		{
			name:  "day after tomorrow",
			input: "заеду послезавтра",
			want:  "заеду 12 февраля",
		},
		{
			name:  "in n days",
			input: "через 3 дня",
			want:  "13 февраля",
		},
		{
			name:  "in n weeks",
			input: "приедем через 2 недели",
			want:  "приедем 24 февраля",
		},
		{
			name:  "in a week",
			input: "через неделю будет дешевле?",
			want:  "17 февраля будет дешевле?",
		},
		{
			name:  "in a month crosses month boundary",
			input: "через месяц",
			want:  "12 марта",
		},
		{
			name:  "next week",
			input: "на следующей неделе",
			want:  "17 февраля",
		},
		{
			name:  "plain text untouched",
			input: "сколько стоит завтрак?",
			want:  "сколько стоит завтрак?",
		},
		{
			name:  "absolute date untouched",
			input: "на 11 марта",
			want:  "на 11 марта",
		},
	}

	ex := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ex.NormalizeRelative(tt.input); got != tt.want {
				t.Errorf("NormalizeRelative(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizedTextExtracts(t *testing.T) {
	ex := newTestExtractor()

	text := ex.NormalizeRelative("есть номера на завтра?")
	p, ok := ex.FromText(text)
	if !ok {
		t.Fatal("normalized text must yield a period")
	}
	if p.Raw != "11 февраля" {
		t.Errorf("Raw = %q, want %q", p.Raw, "11 февраля")
	}
}
