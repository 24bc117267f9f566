package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-06-03")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if _, ok := ParseDay("06/03/2024"); ok {
		t.Fatalf("expected parse failure")
	}
}

func TestStartOfWeek(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"wednesday", time.Date(2024, 6, 5, 15, 30, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)},
		{"sunday rolls back six days", time.Date(2024, 6, 9, 23, 59, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"saturday", time.Date(2024, 6, 8, 1, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := StartOfWeek(c.in); !got.Equal(c.want) {
			t.Fatalf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestWeekdayLabel(t *testing.T) {
	if got := WeekdayLabel(time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)); got != "Mon" {
		t.Fatalf("got %q", got)
	}
	if got := WeekdayLabel(time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)); got != "Fri" {
		t.Fatalf("got %q", got)
	}
}
