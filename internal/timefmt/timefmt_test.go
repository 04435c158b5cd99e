package timefmt

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)

func ts(d time.Duration) *time.Time {
	t := testNow.Add(-d)
	return &t
}

func TestFormatRelativeTime(t *testing.T) {
	cases := []struct {
		name string
		in   *time.Time
		want string
	}{
		{"nil", nil, Unknown},
		{"zero", &time.Time{}, Unknown},
		{"30 seconds", ts(30 * time.Second), "just now"},
		{"1 minute", ts(1 * time.Minute), "1 min ago"},
		{"5 minutes", ts(5 * time.Minute), "5 mins ago"},
		{"1 hour", ts(1 * time.Hour), "1 hour ago"},
		{"7 hours", ts(7 * time.Hour), "7 hours ago"},
		{"1 day", ts(25 * time.Hour), "1 day ago"},
		{"3 days", ts(72 * time.Hour), "3 days ago"},
		{"future clamps to now", ts(-10 * time.Second), "just now"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := FormatRelativeTime(c.in, testNow); got != c.want {
				t.Fatalf("FormatRelativeTime = %q, want %q", got, c.want)
			}
		})
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(nil); got != Unknown {
		t.Fatalf("nil should render %q, got %q", Unknown, got)
	}
	v := time.Date(2026, 3, 10, 15, 4, 0, 0, time.UTC)
	if got := FormatTime(&v); got != "3:04 PM" {
		t.Fatalf("FormatTime = %q", got)
	}
}

func TestFormatDateTime(t *testing.T) {
	v := time.Date(2026, 1, 2, 9, 5, 0, 0, time.UTC)
	if got := FormatDateTime(&v); got != "Jan 02, 2026, 9:05 AM" {
		t.Fatalf("FormatDateTime = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	end := func(start time.Time, d time.Duration) *time.Time {
		e := start.Add(d)
		return &e
	}
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"sub-minute rounds up to 1", 20 * time.Second, "1 min"},
		{"90 seconds rounds to 2", 90 * time.Second, "2 mins"},
		{"45 minutes", 45 * time.Minute, "45 mins"},
		{"exactly one hour", 60 * time.Minute, "1 hour"},
		{"two hours five minutes", 125 * time.Minute, "2h 5m"},
		{"exactly three hours", 180 * time.Minute, "3 hours"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := FormatDuration(&start, end(start, c.d), testNow)
			if got != c.want {
				t.Fatalf("FormatDuration = %q, want %q", got, c.want)
			}
		})
	}

	// end 缺省时按 now 计
	if got := FormatDuration(ts(10*time.Minute), nil, testNow); got != "10 mins" {
		t.Fatalf("open-ended duration = %q", got)
	}
	if got := FormatDuration(nil, nil, testNow); got != Unknown {
		t.Fatalf("nil start = %q", got)
	}
}
