package retrieval

import "sync"

// overlapWindow is a fixed-size ring of low-overlap flags across recent
// requests. When the low-overlap rate climbs over the threshold the next
// requests start with the fallback top-K instead of the default one.
type overlapWindow struct {
	mu        sync.Mutex
	flags     []bool
	next      int
	filled    int
	threshold float64
}

func newOverlapWindow(size int, threshold float64) *overlapWindow {
	if size <= 0 {
		size = 50
	}
	return &overlapWindow{
		flags:     make([]bool, size),
		threshold: threshold,
	}
}

func (w *overlapWindow) record(lowOverlap bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.flags[w.next] = lowOverlap
	w.next = (w.next + 1) % len(w.flags)
	if w.filled < len(w.flags) {
		w.filled++
	}
}

func (w *overlapWindow) rate() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filled == 0 {
		return 0
	}
	low := 0
	for i := 0; i < w.filled; i++ {
		if w.flags[i] {
			low++
		}
	}
	return float64(low) / float64(w.filled)
}

func (w *overlapWindow) degraded() bool {
	return w.rate() > w.threshold
}
