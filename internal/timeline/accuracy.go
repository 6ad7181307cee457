package timeline

import "math"

// Accuracy buckets the relative error of a score estimate.
type Accuracy string

const (
	AccuracyGood Accuracy = "good"
	AccuracyOK   Accuracy = "ok"
	AccuracyBad  Accuracy = "bad"
)

// ClassifyAccuracy buckets a relative score error by magnitude. The bounds
// are strict, so an error of exactly 0.20 is ok and exactly 0.50 is bad.
func ClassifyAccuracy(err float64) Accuracy {
	switch {
	case math.Abs(err) < 0.20:
		return AccuracyGood
	case math.Abs(err) < 0.50:
		return AccuracyOK
	default:
		return AccuracyBad
	}
}

// AccuracyPercent is the display value of a relative error: the signed
// percentage rounded to the nearest integer.
func AccuracyPercent(err float64) int {
	return int(math.Round(err * 100))
}
