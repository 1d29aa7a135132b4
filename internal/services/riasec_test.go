package services

import (
	"strings"
	"testing"
	"time"
)

func repeatAnswers(cat string, weights ...int) []RiasecAnswer {
	out := make([]RiasecAnswer, 0, len(weights))
	for _, w := range weights {
		out = append(out, RiasecAnswer{Category: cat, Weight: w})
	}
	return out
}

func TestComputeRiasecTopCode(t *testing.T) {
	// Normalized: R 8.0, I 7.5, A 3.0, S 6.0, E 2.0, C 5.0 => "RIS".
	var answers []RiasecAnswer
	answers = append(answers, repeatAnswers("R", 4, 4)...)
	answers = append(answers, repeatAnswers("I", 4, 4, 4, 3)...)
	answers = append(answers, repeatAnswers("A", 2, 1)...)
	answers = append(answers, repeatAnswers("S", 3, 3)...)
	answers = append(answers, repeatAnswers("E", 1, 1)...)
	answers = append(answers, repeatAnswers("C", 3, 2)...)

	scores, topCode, err := ComputeRiasec(answers)
	if err != nil {
		t.Fatalf("ComputeRiasec returned error: %v", err)
	}
	want := RiasecScores{"R": 8.0, "I": 7.5, "A": 3.0, "S": 6.0, "E": 2.0, "C": 5.0}
	for cat, w := range want {
		if scores[cat] != w {
			t.Fatalf("score[%s] = %f, want %f", cat, scores[cat], w)
		}
	}
	if topCode != "RIS" {
		t.Fatalf("topCode = %q, want RIS", topCode)
	}
}

func TestComputeRiasecTieBreak(t *testing.T) {
	// All categories equal: the fixed priority R>I>A>S>E>C decides.
	var answers []RiasecAnswer
	for _, cat := range []string{"R", "I", "A", "S", "E", "C"} {
		answers = append(answers, RiasecAnswer{Category: cat, Weight: 3})
	}
	_, topCode, err := ComputeRiasec(answers)
	if err != nil {
		t.Fatalf("ComputeRiasec returned error: %v", err)
	}
	if topCode != "RIA" {
		t.Fatalf("topCode = %q, want RIA on full tie", topCode)
	}
}

func TestComputeRiasecCodeShape(t *testing.T) {
	scores, topCode, err := ComputeRiasec(repeatAnswers("S", 5, 5, 4))
	if err != nil {
		t.Fatalf("ComputeRiasec returned error: %v", err)
	}
	if len(topCode) != 3 {
		t.Fatalf("topCode %q must have 3 letters", topCode)
	}
	seen := map[byte]bool{}
	for i := 0; i < len(topCode); i++ {
		if !strings.ContainsAny(string(topCode[i]), "RIASEC") {
			t.Fatalf("topCode %q contains invalid letter", topCode)
		}
		if seen[topCode[i]] {
			t.Fatalf("topCode %q repeats a letter", topCode)
		}
		seen[topCode[i]] = true
	}
	// Non-increasing scores along the code.
	for i := 1; i < len(topCode); i++ {
		if scores[string(topCode[i])] > scores[string(topCode[i-1])] {
			t.Fatalf("topCode %q not ordered by descending score: %v", topCode, scores)
		}
	}
	// Answered category leads even though every other score is zero.
	if topCode[0] != 'S' {
		t.Fatalf("topCode = %q, want S first", topCode)
	}
}

func TestComputeRiasecNormalizationBounds(t *testing.T) {
	scores, _, err := ComputeRiasec(repeatAnswers("E", 5, 5, 5, 5))
	if err != nil {
		t.Fatalf("ComputeRiasec returned error: %v", err)
	}
	if scores["E"] != 10 {
		t.Fatalf("all-max answers should normalize to 10, got %f", scores["E"])
	}
	scores, _, err = ComputeRiasec(repeatAnswers("E", 0, 0))
	if err != nil {
		t.Fatalf("ComputeRiasec returned error: %v", err)
	}
	if scores["E"] != 0 {
		t.Fatalf("all-zero answers should normalize to 0, got %f", scores["E"])
	}
}

func TestComputeRiasecRejectsBadInput(t *testing.T) {
	if _, _, err := ComputeRiasec(nil); err == nil {
		t.Fatalf("expected error for empty answers")
	}
	if _, _, err := ComputeRiasec([]RiasecAnswer{{Category: "X", Weight: 3}}); err == nil {
		t.Fatalf("expected error for unknown category")
	}
	if _, _, err := ComputeRiasec([]RiasecAnswer{{Category: "R", Weight: 6}}); err == nil {
		t.Fatalf("expected error for out-of-range weight")
	}
}

type riasecStubStore struct {
	saved *RiasecResult
}

func (s *riasecStubStore) SaveRiasecResult(r *RiasecResult) error {
	s.saved = r
	return nil
}

func (s *riasecStubStore) GetRiasecResult(userID string) (*RiasecResult, error) {
	if s.saved != nil && s.saved.UserID == userID {
		return s.saved, nil
	}
	return nil, nil
}

func TestRiasecServiceReplacesOnRetest(t *testing.T) {
	store := &riasecStubStore{}
	svc := NewRiasecService(store)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC) }

	first, err := svc.Submit("u1", repeatAnswers("R", 5, 5))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if first.TopCode[0] != 'R' {
		t.Fatalf("topCode = %q, want R first", first.TopCode)
	}

	second, err := svc.Submit("u1", repeatAnswers("A", 5, 5))
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if second.TopCode[0] != 'A' {
		t.Fatalf("topCode = %q, want A first after retest", second.TopCode)
	}

	got, err := svc.Result("u1")
	if err != nil {
		t.Fatalf("Result returned error: %v", err)
	}
	if got.TopCode != second.TopCode {
		t.Fatalf("stored result not replaced: %q vs %q", got.TopCode, second.TopCode)
	}

	if _, err := svc.Result("nobody"); err == nil {
		t.Fatalf("expected not found for unknown user")
	}
}
