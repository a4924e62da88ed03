package srs

import (
	"errors"
	"fmt"
)

// Status is the learning lifecycle of one user/word pair. It is a closed set:
// every persisted value comes out of Transition or the initial default.
type Status string

const (
	StatusWantToLearn Status = "want_to_learn"
	StatusLearning    Status = "learning"
	StatusLearned     Status = "learned"
	StatusMastered    Status = "mastered"
	StatusReview      Status = "review"
)

// MasteredIntervalDays is the repetition interval at which a correctly
// answered review promotes to mastered instead of learned.
const MasteredIntervalDays = 30

// ErrInvalidTransition is returned for every (status, event) pair outside the
// transition table. Callers must surface it, not swallow it.
var ErrInvalidTransition = errors.New("invalid status transition")

func (s Status) Valid() bool {
	switch s {
	case StatusWantToLearn, StatusLearning, StatusLearned, StatusMastered, StatusReview:
		return true
	}
	return false
}

type eventKind int

const (
	eventBatchShown eventKind = iota
	eventBatchCompleted
	eventReviewAnswered
	eventSweptOverdue
	eventManualReview
)

// Event is a lifecycle trigger. Construct events through the helpers below so
// the payload carried by each kind stays fixed.
type Event struct {
	kind            eventKind
	practiceCorrect bool
	quizCorrect     bool
	correct         bool
	newIntervalDays int
}

// BatchShown marks a word as presented to the user for the first time.
func BatchShown() Event {
	return Event{kind: eventBatchShown}
}

// BatchCompleted carries the per-word outcome of a finished batch: the
// practice gate and the quiz gate.
func BatchCompleted(practiceCorrect, quizCorrect bool) Event {
	return Event{kind: eventBatchCompleted, practiceCorrect: practiceCorrect, quizCorrect: quizCorrect}
}

// ReviewAnswered carries the outcome of a review answer together with the
// interval the calculator produced for it, which decides mastery promotion.
func ReviewAnswered(correct bool, newIntervalDays int) Event {
	return Event{kind: eventReviewAnswered, correct: correct, newIntervalDays: newIntervalDays}
}

// SweptOverdue regresses a decayed word back into review.
func SweptOverdue() Event {
	return Event{kind: eventSweptOverdue}
}

// ManualReview is a user-requested immediate review.
func ManualReview() Event {
	return Event{kind: eventManualReview}
}

func (e Event) String() string {
	switch e.kind {
	case eventBatchShown:
		return "batch_shown"
	case eventBatchCompleted:
		return fmt.Sprintf("batch_completed(practice=%t,quiz=%t)", e.practiceCorrect, e.quizCorrect)
	case eventReviewAnswered:
		return fmt.Sprintf("review_answered(correct=%t)", e.correct)
	case eventSweptOverdue:
		return "swept_overdue"
	case eventManualReview:
		return "manual_review"
	}
	return "unknown"
}

// Transition is the exhaustive lifecycle function. It never mutates anything;
// callers persist the returned status themselves.
func Transition(current Status, ev Event) (Status, error) {
	switch ev.kind {
	case eventBatchShown:
		if current == StatusWantToLearn {
			return StatusLearning, nil
		}

	case eventBatchCompleted:
		if current == StatusLearning {
			if ev.practiceCorrect && ev.quizCorrect {
				return StatusLearned, nil
			}
			return StatusLearning, nil
		}
		// A review word can sit in a batch; its double-gate outcome counts
		// as a review answer.
		if current == StatusReview {
			return reviewOutcome(ev.practiceCorrect && ev.quizCorrect, ev.newIntervalDays), nil
		}

	case eventReviewAnswered:
		if current == StatusReview {
			return reviewOutcome(ev.correct, ev.newIntervalDays), nil
		}

	case eventSweptOverdue, eventManualReview:
		if current == StatusLearned || current == StatusMastered {
			return StatusReview, nil
		}
	}

	return current, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, current)
}

func reviewOutcome(correct bool, newIntervalDays int) Status {
	if !correct {
		return StatusReview
	}
	if newIntervalDays >= MasteredIntervalDays {
		return StatusMastered
	}
	return StatusLearned
}
