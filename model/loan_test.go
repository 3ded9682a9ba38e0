package model

import (
	"testing"
	"time"
)

func TestFineAt(t *testing.T) {
	due := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	l := Loan{DueDate: due}

	cases := []struct {
		at   time.Time
		want int64
	}{
		{due.AddDate(0, 0, -5), 0},
		{due, 0},
		{due.Add(time.Minute), 10}, // a started day counts whole
		{due.Add(24 * time.Hour), 10},
		{due.Add(25 * time.Hour), 20},
		{due.AddDate(0, 0, 6), 60},
	}
	for _, c := range cases {
		if got := l.FineAt(c.at, 10); got != c.want {
			t.Fatalf("FineAt(%v) = %d; want %d", c.at, got, c.want)
		}
	}
}

func TestFineAt_NonNegativeAndMonotonic(t *testing.T) {
	due := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	l := Loan{DueDate: due}

	prev := int64(-1)
	for h := -48; h <= 240; h += 6 {
		got := l.FineAt(due.Add(time.Duration(h)*time.Hour), 10)
		if got < 0 {
			t.Fatalf("negative fine at %dh", h)
		}
		if got < prev {
			t.Fatalf("fine decreased at %dh: %d -> %d", h, prev, got)
		}
		prev = got
	}
}

func TestFineAt_ZeroRate(t *testing.T) {
	l := Loan{DueDate: time.Now().Add(-72 * time.Hour)}
	if got := l.FineAt(time.Now(), 0); got != 0 {
		t.Fatalf("waived fines should be 0, got %d", got)
	}
}
