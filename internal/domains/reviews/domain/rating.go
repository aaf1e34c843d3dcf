package domain

import "math"

// RatingSummary is the derived rating of a service.
type RatingSummary struct {
	Average float64
	Count   int
}

// Summarize averages count ratings whose total is sum, rounded half-to-even to one decimal.
// No reviews yields a zero summary.
func Summarize(count int, sum int64) RatingSummary {
	if count <= 0 {
		return RatingSummary{}
	}
	avg := float64(sum) / float64(count)
	return RatingSummary{Average: math.RoundToEven(avg*10) / 10, Count: count}
}
