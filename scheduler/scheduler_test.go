package scheduler_test

import (
	"testing"
	"time"

	"github.com/jasonkiller200/Todothis/scheduler"
)

func TestNextRun(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{
			"mid-week waits for next monday",
			time.Date(2024, time.May, 15, 10, 0, 0, 0, loc), // Wednesday
			time.Date(2024, time.May, 20, 0, 1, 0, 0, loc),
		},
		{
			"sunday night rolls to monday",
			time.Date(2024, time.May, 19, 23, 59, 0, 0, loc),
			time.Date(2024, time.May, 20, 0, 1, 0, 0, loc),
		},
		{
			"monday before 00:01 fires same day",
			time.Date(2024, time.May, 20, 0, 0, 30, 0, loc),
			time.Date(2024, time.May, 20, 0, 1, 0, 0, loc),
		},
		{
			"monday after 00:01 waits a week",
			time.Date(2024, time.May, 20, 0, 1, 0, 0, loc),
			time.Date(2024, time.May, 27, 0, 1, 0, 0, loc),
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := scheduler.NextRun(tc.now)
			if !got.Equal(tc.want) {
				t.Fatalf("NextRun(%s) = %s, want %s", tc.now, got, tc.want)
			}
			if got.Weekday() != time.Monday {
				t.Fatalf("NextRun must land on Monday, got %s", got.Weekday())
			}
			if !got.After(tc.now) {
				t.Fatalf("NextRun must be strictly after now")
			}
		})
	}
}
