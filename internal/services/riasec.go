package services

import (
	"math"
	"sort"
	"time"
)

// Holland categories in canonical order, which doubles as the tie-break
// priority when two categories score exactly equal.
var riasecOrder = []string{"R", "I", "A", "S", "E", "C"}

// RiasecAnswer is one Likert response attributed to a Holland category.
type RiasecAnswer struct {
	Category string
	Weight   int // 0..5
}

// RiasecScores maps category letter to its normalized 0..10 score.
type RiasecScores map[string]float64

// ComputeRiasec sums Likert weights per category, normalizes each to 0..10 by
// dividing by the category's maximum attainable sum (count x 5), and derives
// the three-letter code from the descending ranking.
func ComputeRiasec(answers []RiasecAnswer) (RiasecScores, string, error) {
	if len(answers) == 0 {
		return nil, "", NewComputationError("no answers to aggregate")
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	valid := map[string]bool{}
	for _, c := range riasecOrder {
		valid[c] = true
	}
	for _, a := range answers {
		if !valid[a.Category] {
			return nil, "", NewInvalidError("unknown category " + a.Category)
		}
		if a.Weight < 0 || a.Weight > 5 {
			return nil, "", NewInvalidError("weight out of range")
		}
		sums[a.Category] += float64(a.Weight)
		counts[a.Category]++
	}

	scores := RiasecScores{}
	for _, c := range riasecOrder {
		if counts[c] == 0 {
			scores[c] = 0
			continue
		}
		norm := sums[c] / float64(counts[c]*5) * 10
		scores[c] = math.Round(norm*10) / 10
	}

	ranked := append([]string(nil), riasecOrder...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i]] > scores[ranked[j]]
	})
	return scores, ranked[0] + ranked[1] + ranked[2], nil
}

// RiasecResult is the persisted outcome of one RIASEC assessment.
type RiasecResult struct {
	UserID     string
	Scores     RiasecScores
	TopCode    string
	ComputedAt time.Time
}

// RiasecStore abstracts persistence operations required by RiasecService.
type RiasecStore interface {
	SaveRiasecResult(r *RiasecResult) error
	GetRiasecResult(userID string) (*RiasecResult, error)
}

// RiasecService computes and stores RIASEC results, one per user, replaced on retest.
type RiasecService struct {
	store RiasecStore
	now   func() time.Time
}

func NewRiasecService(store RiasecStore) *RiasecService {
	return &RiasecService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *RiasecService) Submit(userID string, answers []RiasecAnswer) (*RiasecResult, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	scores, topCode, err := ComputeRiasec(answers)
	if err != nil {
		return nil, err
	}
	res := &RiasecResult{UserID: userID, Scores: scores, TopCode: topCode, ComputedAt: s.now()}
	if err := s.store.SaveRiasecResult(res); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *RiasecService) Result(userID string) (*RiasecResult, error) {
	if userID == "" {
		return nil, NewUnauthorizedError("user required")
	}
	res, err := s.store.GetRiasecResult(userID)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, NewNotFoundError("riasec result not found")
	}
	return res, nil
}
