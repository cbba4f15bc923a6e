package aggregation

import "github.com/shopspring/decimal"

// TrailingWindow is the number of most recent months averaged by PredictNextPeriod.
const TrailingWindow = 3

// PredictNextPeriod forecasts next month's spend as the mean of the last
// TrailingWindow buckets, rounded half away from zero to a whole currency unit.
// Shorter histories use every bucket available; an empty history predicts 0.
// history must be ordered oldest first, as returned by MonthlyHistory.
func PredictNextPeriod(history []MonthBucket) int64 {
	if len(history) == 0 {
		return 0
	}

	window := history
	if len(window) > TrailingWindow {
		window = window[len(window)-TrailingWindow:]
	}

	sum := decimal.Zero
	for _, bucket := range window {
		sum = sum.Add(bucket.Total)
	}

	mean := sum.Div(decimal.NewFromInt(int64(len(window))))
	return mean.Round(0).IntPart()
}
