package tokens

import "testing"

func TestEstimate(t *testing.T) {
	if got := Estimate(""); got != 0 {
		t.Errorf("Estimate(\"\") = %d, want 0", got)
	}

	short := Estimate("сколько стоит номер")
	long := Estimate("сколько стоит номер стандарт на двоих с завтраком в марте после раннего заезда")
	if short <= 0 {
		t.Errorf("short estimate = %d, want > 0", short)
	}
	if long <= short {
		t.Errorf("long estimate %d must exceed short estimate %d", long, short)
	}
}

func TestEstimateCapped(t *testing.T) {
	text := "сколько стоит номер стандарт на двоих"
	n := Estimate(text)

	if got := EstimateCapped(text, n+10); got != n {
		t.Errorf("EstimateCapped below limit = %d, want %d", got, n)
	}
	if got := EstimateCapped(text, 2); got != 2 {
		t.Errorf("EstimateCapped above limit = %d, want 2", got)
	}
	if got := EstimateCapped(text, 0); got != n {
		t.Errorf("EstimateCapped with no limit = %d, want %d", got, n)
	}
}
