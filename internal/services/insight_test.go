package services

import "testing"

func TestGenerateInsightsFullInput(t *testing.T) {
	out, err := GenerateInsights(InsightInput{
		Dominant:            "form",
		ProfileCode:         "FCVS",
		BehavioralCompleted: true,
		RiasecTopCode:       "RIS",
	})
	if err != nil {
		t.Fatalf("GenerateInsights returned error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 insights, got %d", len(out))
	}
	types := map[string]int{}
	for _, in := range out {
		types[in.Type]++
		if in.Title == "" || in.Description == "" {
			t.Fatalf("insight missing copy: %+v", in)
		}
	}
	for _, typ := range []string{InsightStrength, InsightChallenge, InsightCareer, InsightLearning} {
		if types[typ] != 1 {
			t.Fatalf("expected one %s insight, got %d", typ, types[typ])
		}
	}
}

func TestGenerateInsightsWithoutOptionalAssessments(t *testing.T) {
	out, err := GenerateInsights(InsightInput{Dominant: "sound"})
	if err != nil {
		t.Fatalf("GenerateInsights returned error: %v", err)
	}
	for _, in := range out {
		if in.Type == InsightCareer {
			t.Fatalf("career insight requires a RIASEC code")
		}
		if in.Type == InsightLearning {
			t.Fatalf("learning insight requires completed behavioral tests")
		}
	}
	if len(out) != 2 {
		t.Fatalf("expected strength+challenge only, got %d", len(out))
	}
}

func TestGenerateInsightsIsDeterministic(t *testing.T) {
	in := InsightInput{Dominant: "volume", BehavioralCompleted: true, RiasecTopCode: "ASE"}
	a, err := GenerateInsights(in)
	if err != nil {
		t.Fatalf("GenerateInsights returned error: %v", err)
	}
	b, err := GenerateInsights(in)
	if err != nil {
		t.Fatalf("GenerateInsights returned error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("non-deterministic insight count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic insight at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestGenerateInsightsRejectsUnknownDominant(t *testing.T) {
	if _, err := GenerateInsights(InsightInput{Dominant: "taste"}); err == nil {
		t.Fatalf("expected error for unknown dominant cognition")
	}
}
