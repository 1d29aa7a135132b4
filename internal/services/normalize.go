package services

// Band buckets a raw 0..100 score into one of five ordinal levels. The step is
// deliberately irreversible: external views carry bands only, never raw scores.
// Thresholds follow the product's historical 10/20/30/40 banding.
func Band(score float64) int {
	switch {
	case score < 10:
		return 1
	case score < 20:
		return 2
	case score < 30:
		return 3
	case score < 40:
		return 4
	default:
		return 5
	}
}

var bandLabels = [...]string{"very_low", "low", "moderate", "high", "very_high"}

// BandLabel names a band produced by Band. Out-of-range bands clamp to the scale ends.
func BandLabel(band int) string {
	if band < 1 {
		band = 1
	}
	if band > len(bandLabels) {
		band = len(bandLabels)
	}
	return bandLabels[band-1]
}
