package services

import (
	"math"
	"sort"
)

// The four cognitive dimensions, in tie-break priority order. When two
// dimensions score exactly equal, the earlier one wins.
var dimensionPriority = []string{"form", "color", "volume", "sound"}

var dimensionInitial = map[string]byte{
	"form":   'F',
	"color":  'C',
	"volume": 'V',
	"sound":  'S',
}

// DimensionScores holds the normalized scores of the four cognitive
// dimensions. A valid set sums to 100 within a 0.01 tolerance.
type DimensionScores struct {
	Form   float64 `json:"form"`
	Color  float64 `json:"color"`
	Volume float64 `json:"volume"`
	Sound  float64 `json:"sound"`
}

func (d DimensionScores) byName() map[string]float64 {
	return map[string]float64{"form": d.Form, "color": d.Color, "volume": d.Volume, "sound": d.Sound}
}

// Sum returns the total of the four scores.
func (d DimensionScores) Sum() float64 { return d.Form + d.Color + d.Volume + d.Sound }

// Validate rejects score sets that do not total 100 or carry out-of-range values.
func (d DimensionScores) Validate() error {
	for name, v := range d.byName() {
		if v < 0 || v > 100 {
			return NewInvalidError("dimension " + name + " out of range")
		}
	}
	if math.Abs(d.Sum()-100) > 0.01 {
		return NewInvalidError("dimension scores must sum to 100")
	}
	return nil
}

// WeightedAnswer is the (dimension, weight) contribution of one answered
// cognitive question.
type WeightedAnswer struct {
	Dimension string
	Weight    int // 1..5
}

// AggregateDimensions sums per-dimension weights and rescales the four raw
// sums proportionally so they total exactly 100. Scores are rounded to two
// decimals with the rounding residual assigned to the largest dimension.
func AggregateDimensions(answers []WeightedAnswer) (DimensionScores, error) {
	if len(answers) == 0 {
		return DimensionScores{}, NewComputationError("no answers to aggregate")
	}
	raw := map[string]float64{}
	for _, a := range answers {
		if _, ok := dimensionInitial[a.Dimension]; !ok {
			return DimensionScores{}, NewInvalidError("unknown dimension " + a.Dimension)
		}
		if a.Weight < 1 || a.Weight > 5 {
			return DimensionScores{}, NewInvalidError("weight out of range")
		}
		raw[a.Dimension] += float64(a.Weight)
	}
	var total float64
	for _, v := range raw {
		total += v
	}
	if total == 0 {
		return DimensionScores{}, NewComputationError("zero total weight")
	}

	scaled := map[string]float64{}
	largest := dimensionPriority[0]
	for _, name := range dimensionPriority {
		scaled[name] = math.Round(raw[name]/total*100*100) / 100
		if raw[name] > raw[largest] {
			largest = name
		}
	}
	// Absorb rounding drift so the invariant holds exactly.
	var sum float64
	for _, v := range scaled {
		sum += v
	}
	scaled[largest] = math.Round((scaled[largest]+100-sum)*100) / 100

	return DimensionScores{
		Form:   scaled["form"],
		Color:  scaled["color"],
		Volume: scaled["volume"],
		Sound:  scaled["sound"],
	}, nil
}

// CognitiveTraits are the qualitative labels derived from the dominant dimension.
type CognitiveTraits struct {
	CommunicationStyle string
	DetailLevel        string
	LearningPreference string
}

var traitsByDominant = map[string]CognitiveTraits{
	"form":   {CommunicationStyle: "analytical", DetailLevel: "high", LearningPreference: "sequential"},
	"color":  {CommunicationStyle: "intuitive", DetailLevel: "medium", LearningPreference: "visual"},
	"volume": {CommunicationStyle: "pragmatic", DetailLevel: "medium", LearningPreference: "kinesthetic"},
	"sound":  {CommunicationStyle: "narrative", DetailLevel: "low", LearningPreference: "auditory"},
}

// Classification is the deterministic mapping of a score set to a profile.
type Classification struct {
	Dominant    string
	ProfileCode string // initials of all four dimensions, descending score
	Traits      CognitiveTraits
}

// Classify ranks the four dimensions and derives the profile. The full ranking
// is preserved in ProfileCode so secondary dimensions remain visible. Exact
// ties resolve by the fixed priority form > color > volume > sound.
func Classify(scores DimensionScores) (Classification, error) {
	if err := scores.Validate(); err != nil {
		return Classification{}, err
	}
	byName := scores.byName()
	ranked := append([]string(nil), dimensionPriority...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return byName[ranked[i]] > byName[ranked[j]]
	})
	code := make([]byte, 0, 4)
	for _, name := range ranked {
		code = append(code, dimensionInitial[name])
	}
	dominant := ranked[0]
	return Classification{
		Dominant:    dominant,
		ProfileCode: string(code),
		Traits:      traitsByDominant[dominant],
	}, nil
}
