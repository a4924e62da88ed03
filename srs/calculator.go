package srs

import (
	"math"
	"time"
)

const (
	MinEaseFactor     = 1.3
	MaxEaseFactor     = 2.8
	DefaultEaseFactor = 2.5

	DefaultIntervalDays = 1

	easeReward  = 0.1
	easePenalty = 0.2
)

// Result is the calculator output for one answer.
type Result struct {
	EaseFactor   float64
	IntervalDays int
}

// NextReview computes the next repetition interval and ease factor from the
// current state and an answer outcome. Correct answers grow the interval by
// the ease factor (round half up, never below one day) and reward the ease up
// to 2.8; incorrect answers reset the interval to one day and penalize the
// ease down to 1.3. Pure and total: same inputs, same outputs.
func NextReview(ease float64, intervalDays int, wasCorrect bool) Result {
	if wasCorrect {
		next := roundHalfUp(float64(intervalDays) * ease)
		if next < 1 {
			next = 1
		}
		return Result{
			EaseFactor:   math.Min(MaxEaseFactor, ease+easeReward),
			IntervalDays: next,
		}
	}

	return Result{
		EaseFactor:   math.Max(MinEaseFactor, ease-easePenalty),
		IntervalDays: 1,
	}
}

// DueAt returns the review due time for an interval starting at now.
func DueAt(now time.Time, intervalDays int) time.Time {
	return now.AddDate(0, 0, intervalDays)
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
