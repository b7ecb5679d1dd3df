// Package tokens estimates token counts for usage accounting.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	tk     *tiktoken.Tiktoken
	tkErr  error
	tkOnce sync.Once
)

func encoder() (*tiktoken.Tiktoken, error) {
	tkOnce.Do(func() {
		tk, tkErr = tiktoken.GetEncoding("cl100k_base")
	})
	return tk, tkErr
}

// Estimate returns the token count for text. When the encoding cannot be
// loaded (offline start, missing cache) it falls back to a chars/4 heuristic,
// which is close enough for usage accounting.
func Estimate(text string) int {
	if text == "" {
		return 0
	}
	enc, err := encoder()
	if err != nil {
		return len([]rune(text)) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// EstimateCapped bounds the estimate, matching how embedding-query usage is
// accounted: queries are short, anything above the limit is billed flat.
func EstimateCapped(text string, limit int) int {
	n := Estimate(text)
	if limit > 0 && n > limit {
		return limit
	}
	return n
}
