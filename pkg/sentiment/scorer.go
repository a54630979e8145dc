// Package sentiment scores headline polarity and buckets it into classes.
package sentiment

import "context"

// Class is the categorical sentiment of a headline or a day of headlines.
type Class string

const (
	Positive Class = "positive"
	Negative Class = "negative"
	Neutral  Class = "neutral"
)

// Classes lists every class in report order.
var Classes = []Class{Positive, Neutral, Negative}

const (
	PositiveThreshold = 0.1
	NegativeThreshold = -0.1
)

// Scorer returns a polarity in [-1, 1] for a piece of text. Empty text must score 0.
type Scorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// Classify maps a polarity onto a class. Both thresholds are strict, so
// exactly 0.1 and -0.1 are neutral.
func Classify(polarity float64) Class {
	switch {
	case polarity > PositiveThreshold:
		return Positive
	case polarity < NegativeThreshold:
		return Negative
	default:
		return Neutral
	}
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
