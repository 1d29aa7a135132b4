package services

import "testing"

func TestCronbachAlphaPerfectCorrelation(t *testing.T) {
	// 4 users, 3 items, perfectly correlated: population-variance alpha is 1.
	data := [][]float64{
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
		{4, 4, 4},
	}
	got := CronbachAlpha(data)
	if got < 0.999 || got > 1.001 {
		t.Fatalf("alpha expected ~1.0, got %f", got)
	}
}

func TestCronbachAlphaBounds(t *testing.T) {
	data := [][]float64{
		{1, 2, 3},
		{2, 1, 4},
		{3, 0, 5},
		{4, -1, 6},
	}
	got := CronbachAlpha(data)
	if got < 0 || got > 1 {
		t.Fatalf("alpha out of bounds [0,1]: %f", got)
	}
}

func TestCronbachAlphaDegenerateInput(t *testing.T) {
	if got := CronbachAlpha(nil); got != 0 {
		t.Fatalf("empty matrix alpha = %f, want 0", got)
	}
	if got := CronbachAlpha([][]float64{{1}, {2}}); got != 0 {
		t.Fatalf("single-item alpha = %f, want 0", got)
	}
	if got := CronbachAlpha([][]float64{{1, 2}, {1, 2, 3}}); got != 0 {
		t.Fatalf("ragged matrix alpha = %f, want 0", got)
	}
	if got := CronbachAlpha([][]float64{{2, 2}, {2, 2}}); got != 0 {
		t.Fatalf("zero-variance alpha = %f, want 0", got)
	}
}
