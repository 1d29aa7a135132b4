package services

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Behavioral test kinds accepted by the extractor pipeline.
const (
	TestStroop   = "stroop"
	TestReaction = "reaction"
	TestTrail    = "trail"
	TestRAN      = "ran"
)

// Minimum trial counts per test. Shorter sessions are rejected outright; there
// is no partial scoring, the caller restarts the test.
const (
	minStroopTrials   = 8
	minReactionTrials = 5
	minTrailClicks    = 5
	minRANClicks      = 5
)

// StroopTrial is one timed color-word response.
type StroopTrial struct {
	Congruent bool    `json:"congruent"`
	Correct   bool    `json:"correct"`
	RTMillis  float64 `json:"rt_ms"`
}

// ReactionTrial is one simple reaction-time response.
type ReactionTrial struct {
	RTMillis float64 `json:"rt_ms"`
}

// TimedClick is one click in a sequential task (trail-making, RAN-visual),
// expressed as milliseconds since session start. Clicks must be ordered.
type TimedClick struct {
	AtMillis float64 `json:"at_ms"`
	Correct  bool    `json:"correct"`
}

// StroopMetrics summarizes a Stroop session. InterferenceEffect is the classic
// incongruent-minus-congruent mean RT difference.
type StroopMetrics struct {
	MeanCongruentRT      float64 `json:"mean_congruent_rt"`
	MeanIncongruentRT    float64 `json:"mean_incongruent_rt"`
	InterferenceEffect   float64 `json:"interference_effect"`
	ErrorRateCongruent   float64 `json:"error_rate_congruent"`
	ErrorRateIncongruent float64 `json:"error_rate_incongruent"`
	RTStdDev             float64 `json:"rt_std_dev"`
}

type ReactionMetrics struct {
	MeanRT        float64 `json:"mean_rt"`
	RTStdDev      float64 `json:"rt_std_dev"`
	FastestRT     float64 `json:"fastest_rt"`
	SlowestRT     float64 `json:"slowest_rt"`
	Anticipations int     `json:"anticipations"` // responses under 150 ms
	Lapses        int     `json:"lapses"`        // responses over 500 ms
}

type TrailMetrics struct {
	TotalTimeMillis  float64 `json:"total_time_ms"`
	MeanInterval     float64 `json:"mean_interval"`
	IntervalStdDev   float64 `json:"interval_std_dev"`
	Errors           int     `json:"errors"`
	CorrectClickRate float64 `json:"correct_click_rate"`
}

// RANMetrics summarizes a rapid-automatized-naming scan. A micro-blockage is an
// inter-item gap exceeding twice the mean gap (fixed threshold). Rhythmicity is
// clamp(0,100,(1-CV)*100) where CV is the coefficient of variation of gaps.
type RANMetrics struct {
	TotalTimeMillis float64 `json:"total_time_ms"`
	MeanGap         float64 `json:"mean_gap"`
	GapStdDev       float64 `json:"gap_std_dev"`
	MicroBlockages  int     `json:"micro_blockages"`
	Rhythmicity     float64 `json:"rhythmicity"`
}

const (
	anticipationThresholdMillis = 150
	lapseThresholdMillis        = 500
)

// ExtractStroop reduces Stroop trials to summary metrics. A condition bucket
// with zero trials contributes a 0 mean instead of NaN.
func ExtractStroop(trials []StroopTrial) (*StroopMetrics, error) {
	if len(trials) < minStroopTrials {
		return nil, NewInvalidError("stroop session too short")
	}
	var congRT, incongRT []float64
	congErr, incongErr := 0, 0
	all := make([]float64, 0, len(trials))
	for _, tr := range trials {
		if tr.RTMillis < 0 {
			return nil, NewInvalidError("negative response time")
		}
		all = append(all, tr.RTMillis)
		if tr.Congruent {
			congRT = append(congRT, tr.RTMillis)
			if !tr.Correct {
				congErr++
			}
		} else {
			incongRT = append(incongRT, tr.RTMillis)
			if !tr.Correct {
				incongErr++
			}
		}
	}
	meanCong := safeMean(congRT)
	meanIncong := safeMean(incongRT)
	return &StroopMetrics{
		MeanCongruentRT:      meanCong,
		MeanIncongruentRT:    meanIncong,
		InterferenceEffect:   meanIncong - meanCong,
		ErrorRateCongruent:   safeRatio(float64(congErr), float64(len(congRT))),
		ErrorRateIncongruent: safeRatio(float64(incongErr), float64(len(incongRT))),
		RTStdDev:             stdDev(all),
	}, nil
}

// ExtractReaction reduces simple reaction-time trials.
func ExtractReaction(trials []ReactionTrial) (*ReactionMetrics, error) {
	if len(trials) < minReactionTrials {
		return nil, NewInvalidError("reaction session too short")
	}
	rts := make([]float64, 0, len(trials))
	anticipations, lapses := 0, 0
	fastest, slowest := math.MaxFloat64, 0.0
	for _, tr := range trials {
		if tr.RTMillis < 0 {
			return nil, NewInvalidError("negative response time")
		}
		rts = append(rts, tr.RTMillis)
		if tr.RTMillis < anticipationThresholdMillis {
			anticipations++
		}
		if tr.RTMillis > lapseThresholdMillis {
			lapses++
		}
		if tr.RTMillis < fastest {
			fastest = tr.RTMillis
		}
		if tr.RTMillis > slowest {
			slowest = tr.RTMillis
		}
	}
	return &ReactionMetrics{
		MeanRT:        safeMean(rts),
		RTStdDev:      stdDev(rts),
		FastestRT:     fastest,
		SlowestRT:     slowest,
		Anticipations: anticipations,
		Lapses:        lapses,
	}, nil
}

// ExtractTrail reduces an ordered trail-making click sequence.
func ExtractTrail(clicks []TimedClick) (*TrailMetrics, error) {
	if len(clicks) < minTrailClicks {
		return nil, NewInvalidError("trail session too short")
	}
	intervals, err := clickIntervals(clicks)
	if err != nil {
		return nil, err
	}
	errors := 0
	for _, c := range clicks {
		if !c.Correct {
			errors++
		}
	}
	return &TrailMetrics{
		TotalTimeMillis:  clicks[len(clicks)-1].AtMillis - clicks[0].AtMillis,
		MeanInterval:     safeMean(intervals),
		IntervalStdDev:   stdDev(intervals),
		Errors:           errors,
		CorrectClickRate: safeRatio(float64(len(clicks)-errors), float64(len(clicks))),
	}, nil
}

// ExtractRAN reduces a RAN-visual scan performed in fixed item order.
func ExtractRAN(clicks []TimedClick) (*RANMetrics, error) {
	if len(clicks) < minRANClicks {
		return nil, NewInvalidError("ran session too short")
	}
	gaps, err := clickIntervals(clicks)
	if err != nil {
		return nil, err
	}
	meanGap := safeMean(gaps)
	sd := stdDev(gaps)
	blockages := 0
	for _, g := range gaps {
		if meanGap > 0 && g > 2*meanGap {
			blockages++
		}
	}
	rhythmicity := 0.0
	if meanGap > 0 {
		cv := sd / meanGap
		rhythmicity = clampFloat((1-cv)*100, 0, 100)
	}
	return &RANMetrics{
		TotalTimeMillis: clicks[len(clicks)-1].AtMillis - clicks[0].AtMillis,
		MeanGap:         meanGap,
		GapStdDev:       sd,
		MicroBlockages:  blockages,
		Rhythmicity:     rhythmicity,
	}, nil
}

func clickIntervals(clicks []TimedClick) ([]float64, error) {
	intervals := make([]float64, 0, len(clicks)-1)
	for i := 1; i < len(clicks); i++ {
		d := clicks[i].AtMillis - clicks[i-1].AtMillis
		if d < 0 {
			return nil, NewInvalidError("clicks out of order")
		}
		intervals = append(intervals, d)
	}
	return intervals, nil
}

func safeMean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stdDev is the population standard deviation, consistent with the reliability
// computation elsewhere in this package.
func stdDev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := safeMean(vals)
	var sum float64
	for _, v := range vals {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(vals)))
}

func safeRatio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// BehavioralMetrics is the persisted reduction of one completed session.
type BehavioralMetrics struct {
	SessionID   string
	UserID      string
	TestKind    string
	Summary     map[string]float64
	CompletedAt time.Time
}

// BehavioralStore abstracts persistence operations required by BehavioralService.
type BehavioralStore interface {
	SaveBehavioralMetrics(m *BehavioralMetrics) error
	ListBehavioralMetrics(userID string) ([]*BehavioralMetrics, error)
}

// BehavioralService reduces raw session events and persists the summary.
type BehavioralService struct {
	store BehavioralStore
	now   func() time.Time
	idGen func() string
}

func NewBehavioralService(store BehavioralStore) *BehavioralService {
	return &BehavioralService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:12] },
	}
}

// SubmitStroop scores and stores a Stroop session.
func (s *BehavioralService) SubmitStroop(userID string, trials []StroopTrial) (*BehavioralMetrics, error) {
	m, err := ExtractStroop(trials)
	if err != nil {
		return nil, err
	}
	return s.save(userID, TestStroop, map[string]float64{
		"mean_congruent_rt":      m.MeanCongruentRT,
		"mean_incongruent_rt":    m.MeanIncongruentRT,
		"interference_effect":    m.InterferenceEffect,
		"error_rate_congruent":   m.ErrorRateCongruent,
		"error_rate_incongruent": m.ErrorRateIncongruent,
		"rt_std_dev":             m.RTStdDev,
	})
}

// SubmitReaction scores and stores a simple reaction-time session.
func (s *BehavioralService) SubmitReaction(userID string, trials []ReactionTrial) (*BehavioralMetrics, error) {
	m, err := ExtractReaction(trials)
	if err != nil {
		return nil, err
	}
	return s.save(userID, TestReaction, map[string]float64{
		"mean_rt":       m.MeanRT,
		"rt_std_dev":    m.RTStdDev,
		"fastest_rt":    m.FastestRT,
		"slowest_rt":    m.SlowestRT,
		"anticipations": float64(m.Anticipations),
		"lapses":        float64(m.Lapses),
	})
}

// SubmitTrail scores and stores a trail-making session.
func (s *BehavioralService) SubmitTrail(userID string, clicks []TimedClick) (*BehavioralMetrics, error) {
	m, err := ExtractTrail(clicks)
	if err != nil {
		return nil, err
	}
	return s.save(userID, TestTrail, map[string]float64{
		"total_time_ms":      m.TotalTimeMillis,
		"mean_interval":      m.MeanInterval,
		"interval_std_dev":   m.IntervalStdDev,
		"errors":             float64(m.Errors),
		"correct_click_rate": m.CorrectClickRate,
	})
}

// SubmitRAN scores and stores a RAN-visual session.
func (s *BehavioralService) SubmitRAN(userID string, clicks []TimedClick) (*BehavioralMetrics, error) {
	m, err := ExtractRAN(clicks)
	if err != nil {
		return nil, err
	}
	return s.save(userID, TestRAN, map[string]float64{
		"total_time_ms":   m.TotalTimeMillis,
		"mean_gap":        m.MeanGap,
		"gap_std_dev":     m.GapStdDev,
		"micro_blockages": float64(m.MicroBlockages),
		"rhythmicity":     m.Rhythmicity,
	})
}

// CompletedKinds reports which behavioral tests the user has finished at least once.
func (s *BehavioralService) CompletedKinds(userID string) (map[string]bool, error) {
	ms, err := s.store.ListBehavioralMetrics(userID)
	if err != nil {
		return nil, err
	}
	done := map[string]bool{}
	for _, m := range ms {
		done[m.TestKind] = true
	}
	return done, nil
}

func (s *BehavioralService) save(userID, kind string, summary map[string]float64) (*BehavioralMetrics, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	m := &BehavioralMetrics{
		SessionID:   s.idGen(),
		UserID:      userID,
		TestKind:    kind,
		Summary:     summary,
		CompletedAt: s.now(),
	}
	if err := s.store.SaveBehavioralMetrics(m); err != nil {
		return nil, err
	}
	return m, nil
}
