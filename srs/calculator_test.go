package srs

import (
	"math"
	"testing"
	"time"
)

func TestNextReviewCorrect(t *testing.T) {
	tests := []struct {
		name         string
		ease         float64
		interval     int
		wantEase     float64
		wantInterval int
	}{
		{
			name:         "first review on defaults",
			ease:         2.5,
			interval:     1,
			wantEase:     2.6,
			wantInterval: 3, // 1 * 2.5 = 2.5, half up
		},
		{
			name:         "growing interval",
			ease:         2.6,
			interval:     3,
			wantEase:     2.7,
			wantInterval: 8, // 3 * 2.6 = 7.8
		},
		{
			name:         "ease capped at 2.8",
			ease:         2.8,
			interval:     10,
			wantEase:     2.8,
			wantInterval: 28,
		},
		{
			name:         "half values round up",
			ease:         1.5,
			interval:     1,
			wantEase:     1.6,
			wantInterval: 2, // 1.5 rounds up
		},
		{
			name:         "interval never below one day",
			ease:         1.3,
			interval:     0,
			wantEase:     1.4,
			wantInterval: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReview(tt.ease, tt.interval, true)
			if got.IntervalDays != tt.wantInterval {
				t.Errorf("NextReview(%v, %v, true).IntervalDays = %v, want %v", tt.ease, tt.interval, got.IntervalDays, tt.wantInterval)
			}
			if math.Abs(got.EaseFactor-tt.wantEase) > 1e-9 {
				t.Errorf("NextReview(%v, %v, true).EaseFactor = %v, want %v", tt.ease, tt.interval, got.EaseFactor, tt.wantEase)
			}
		})
	}
}

func TestNextReviewIncorrect(t *testing.T) {
	tests := []struct {
		name     string
		ease     float64
		interval int
		wantEase float64
	}{
		{name: "interval resets and ease drops", ease: 2.5, interval: 14, wantEase: 2.3},
		{name: "ease floored at 1.3", ease: 1.4, interval: 3, wantEase: 1.3},
		{name: "ease already at floor", ease: 1.3, interval: 1, wantEase: 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextReview(tt.ease, tt.interval, false)
			if got.IntervalDays != 1 {
				t.Errorf("incorrect answer must reset interval to 1, got %v", got.IntervalDays)
			}
			if math.Abs(got.EaseFactor-tt.wantEase) > 1e-9 {
				t.Errorf("NextReview(%v, %v, false).EaseFactor = %v, want %v", tt.ease, tt.interval, got.EaseFactor, tt.wantEase)
			}
		})
	}
}

func TestNextReviewMonotonicOnCorrectStreak(t *testing.T) {
	ease := DefaultEaseFactor
	interval := DefaultIntervalDays

	for i := 0; i < 20; i++ {
		got := NextReview(ease, interval, true)
		if got.IntervalDays < interval {
			t.Fatalf("interval decreased on correct answer %d: %d -> %d", i, interval, got.IntervalDays)
		}
		if got.EaseFactor < ease {
			t.Fatalf("ease decreased on correct answer %d: %v -> %v", i, ease, got.EaseFactor)
		}
		if got.EaseFactor > MaxEaseFactor {
			t.Fatalf("ease exceeded cap: %v", got.EaseFactor)
		}
		ease = got.EaseFactor
		interval = got.IntervalDays
	}
}

func TestDueAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	due := DueAt(now, 3)
	want := time.Date(2025, 6, 4, 12, 0, 0, 0, time.UTC)
	if !due.Equal(want) {
		t.Errorf("DueAt = %v, want %v", due, want)
	}
}
