package services

import (
	"math"
	"testing"
	"time"
)

func stroopTrials(congRTs, incongRTs []float64) []StroopTrial {
	var trials []StroopTrial
	for _, rt := range congRTs {
		trials = append(trials, StroopTrial{Congruent: true, Correct: true, RTMillis: rt})
	}
	for _, rt := range incongRTs {
		trials = append(trials, StroopTrial{Congruent: false, Correct: true, RTMillis: rt})
	}
	return trials
}

func TestExtractStroopInterference(t *testing.T) {
	// Congruent mean 500, incongruent mean 650 => interference 150.
	m, err := ExtractStroop(stroopTrials(
		[]float64{480, 500, 520, 500},
		[]float64{630, 650, 670, 650},
	))
	if err != nil {
		t.Fatalf("ExtractStroop returned error: %v", err)
	}
	if m.MeanCongruentRT != 500 {
		t.Fatalf("mean congruent = %f, want 500", m.MeanCongruentRT)
	}
	if m.MeanIncongruentRT != 650 {
		t.Fatalf("mean incongruent = %f, want 650", m.MeanIncongruentRT)
	}
	if m.InterferenceEffect != 150 {
		t.Fatalf("interference = %f, want 150", m.InterferenceEffect)
	}
}

func TestExtractStroopErrorRates(t *testing.T) {
	trials := stroopTrials([]float64{500, 500, 500, 500}, []float64{600, 600, 600, 600})
	trials[0].Correct = false // one congruent error out of four
	trials[4].Correct = false
	trials[5].Correct = false // two incongruent errors out of four
	m, err := ExtractStroop(trials)
	if err != nil {
		t.Fatalf("ExtractStroop returned error: %v", err)
	}
	if m.ErrorRateCongruent != 0.25 {
		t.Fatalf("congruent error rate = %f, want 0.25", m.ErrorRateCongruent)
	}
	if m.ErrorRateIncongruent != 0.5 {
		t.Fatalf("incongruent error rate = %f, want 0.5", m.ErrorRateIncongruent)
	}
}

func TestExtractStroopEmptyConditionBucket(t *testing.T) {
	// All-congruent session: the incongruent mean must be 0, not NaN.
	m, err := ExtractStroop(stroopTrials([]float64{500, 510, 490, 505, 495, 500, 500, 500}, nil))
	if err != nil {
		t.Fatalf("ExtractStroop returned error: %v", err)
	}
	if m.MeanIncongruentRT != 0 {
		t.Fatalf("empty bucket mean = %f, want 0", m.MeanIncongruentRT)
	}
	if math.IsNaN(m.InterferenceEffect) || math.IsInf(m.InterferenceEffect, 0) {
		t.Fatalf("interference must stay finite, got %f", m.InterferenceEffect)
	}
	if m.ErrorRateIncongruent != 0 {
		t.Fatalf("empty bucket error rate = %f, want 0", m.ErrorRateIncongruent)
	}
}

func TestExtractStroopRejectsShortSession(t *testing.T) {
	_, err := ExtractStroop(stroopTrials([]float64{500, 500}, []float64{600}))
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorInvalid {
		t.Fatalf("expected invalid error, got %v", err)
	}
}

func TestExtractReaction(t *testing.T) {
	m, err := ExtractReaction([]ReactionTrial{
		{RTMillis: 100}, {RTMillis: 200}, {RTMillis: 300}, {RTMillis: 400}, {RTMillis: 600},
	})
	if err != nil {
		t.Fatalf("ExtractReaction returned error: %v", err)
	}
	if m.MeanRT != 320 {
		t.Fatalf("mean rt = %f, want 320", m.MeanRT)
	}
	if m.FastestRT != 100 || m.SlowestRT != 600 {
		t.Fatalf("fastest/slowest = %f/%f, want 100/600", m.FastestRT, m.SlowestRT)
	}
	if m.Anticipations != 1 {
		t.Fatalf("anticipations = %d, want 1", m.Anticipations)
	}
	if m.Lapses != 1 {
		t.Fatalf("lapses = %d, want 1", m.Lapses)
	}
}

func TestExtractTrail(t *testing.T) {
	clicks := []TimedClick{
		{AtMillis: 0, Correct: true},
		{AtMillis: 800, Correct: true},
		{AtMillis: 1600, Correct: false},
		{AtMillis: 2400, Correct: true},
		{AtMillis: 3200, Correct: true},
	}
	m, err := ExtractTrail(clicks)
	if err != nil {
		t.Fatalf("ExtractTrail returned error: %v", err)
	}
	if m.TotalTimeMillis != 3200 {
		t.Fatalf("total time = %f, want 3200", m.TotalTimeMillis)
	}
	if m.MeanInterval != 800 {
		t.Fatalf("mean interval = %f, want 800", m.MeanInterval)
	}
	if m.Errors != 1 {
		t.Fatalf("errors = %d, want 1", m.Errors)
	}
	if m.CorrectClickRate != 0.8 {
		t.Fatalf("correct rate = %f, want 0.8", m.CorrectClickRate)
	}
}

func TestExtractTrailRejectsOutOfOrderClicks(t *testing.T) {
	clicks := []TimedClick{
		{AtMillis: 0}, {AtMillis: 500}, {AtMillis: 400}, {AtMillis: 900}, {AtMillis: 1200},
	}
	if _, err := ExtractTrail(clicks); err == nil {
		t.Fatalf("expected error for out-of-order clicks")
	}
}

func TestExtractRAN(t *testing.T) {
	// Gaps: 500, 500, 500, 2500 -> mean 1000, one gap above 2x mean.
	clicks := []TimedClick{
		{AtMillis: 0, Correct: true},
		{AtMillis: 500, Correct: true},
		{AtMillis: 1000, Correct: true},
		{AtMillis: 1500, Correct: true},
		{AtMillis: 4000, Correct: true},
	}
	m, err := ExtractRAN(clicks)
	if err != nil {
		t.Fatalf("ExtractRAN returned error: %v", err)
	}
	if m.TotalTimeMillis != 4000 {
		t.Fatalf("total time = %f, want 4000", m.TotalTimeMillis)
	}
	if m.MeanGap != 1000 {
		t.Fatalf("mean gap = %f, want 1000", m.MeanGap)
	}
	if m.MicroBlockages != 1 {
		t.Fatalf("micro blockages = %d, want 1", m.MicroBlockages)
	}
	if m.Rhythmicity < 0 || m.Rhythmicity > 100 {
		t.Fatalf("rhythmicity out of range: %f", m.Rhythmicity)
	}
}

func TestExtractRANPerfectRhythm(t *testing.T) {
	clicks := []TimedClick{
		{AtMillis: 0}, {AtMillis: 400}, {AtMillis: 800}, {AtMillis: 1200}, {AtMillis: 1600},
	}
	m, err := ExtractRAN(clicks)
	if err != nil {
		t.Fatalf("ExtractRAN returned error: %v", err)
	}
	if m.Rhythmicity != 100 {
		t.Fatalf("rhythmicity = %f, want 100 for constant gaps", m.Rhythmicity)
	}
	if m.MicroBlockages != 0 {
		t.Fatalf("micro blockages = %d, want 0", m.MicroBlockages)
	}
}

type behavioralStubStore struct {
	saved []*BehavioralMetrics
}

func (s *behavioralStubStore) SaveBehavioralMetrics(m *BehavioralMetrics) error {
	s.saved = append(s.saved, m)
	return nil
}

func (s *behavioralStubStore) ListBehavioralMetrics(userID string) ([]*BehavioralMetrics, error) {
	var out []*BehavioralMetrics
	for _, m := range s.saved {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func TestBehavioralServicePersistsSummary(t *testing.T) {
	store := &behavioralStubStore{}
	svc := NewBehavioralService(store)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	svc.idGen = func() string { return "SESSION1" }

	m, err := svc.SubmitStroop("u1", stroopTrials(
		[]float64{500, 500, 500, 500},
		[]float64{650, 650, 650, 650},
	))
	if err != nil {
		t.Fatalf("SubmitStroop returned error: %v", err)
	}
	if m.SessionID != "SESSION1" || m.TestKind != TestStroop {
		t.Fatalf("unexpected metrics identity: %+v", m)
	}
	if m.Summary["interference_effect"] != 150 {
		t.Fatalf("stored interference = %f, want 150", m.Summary["interference_effect"])
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one stored metrics row, got %d", len(store.saved))
	}

	done, err := svc.CompletedKinds("u1")
	if err != nil {
		t.Fatalf("CompletedKinds returned error: %v", err)
	}
	if !done[TestStroop] || done[TestRAN] {
		t.Fatalf("unexpected completion flags: %+v", done)
	}
}

func TestBehavioralServiceRequiresUser(t *testing.T) {
	svc := NewBehavioralService(&behavioralStubStore{})
	_, err := svc.SubmitReaction("", []ReactionTrial{{100}, {100}, {100}, {100}, {100}})
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
}
