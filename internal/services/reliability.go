package services

// CronbachAlpha computes Cronbach's alpha for a response matrix shaped as
// [nUsers][nItems]. Population variance (divide by N) is used throughout, so
// perfectly correlated items yield exactly 1. Degenerate input (fewer than two
// items, ragged rows, zero total variance) returns 0; the result is clamped to
// [0,1].
func CronbachAlpha(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	k := len(matrix[0])
	if k < 2 {
		return 0
	}
	for _, row := range matrix {
		if len(row) != k {
			return 0
		}
	}

	totals := make([]float64, n)
	var sumItemVars float64
	column := make([]float64, n)
	for j := 0; j < k; j++ {
		for i := 0; i < n; i++ {
			column[i] = matrix[i][j]
			totals[i] += matrix[i][j]
		}
		sumItemVars += populationVariance(column)
	}

	totalVar := populationVariance(totals)
	if totalVar == 0 {
		return 0
	}
	kf := float64(k)
	alpha := (kf / (kf - 1)) * (1 - sumItemVars/totalVar)
	return clampFloat(alpha, 0, 1)
}

func populationVariance(vals []float64) float64 {
	sd := stdDev(vals)
	return sd * sd
}
