package forecast

import (
	"reflect"
	"testing"
	"time"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return parsed
}

func TestContainsRange(t *testing.T) {
	f := LocationForecast{Area: "harbor", StartDate: mustTime(t, "2024-01-01T00:00:00Z")}

	cases := []struct {
		at   string
		want bool
	}{
		{at: "2023-12-31T23:59:59Z", want: false},
		{at: "2024-01-01T00:00:00Z", want: true},
		{at: "2024-01-28T23:59:59Z", want: true},
		{at: "2024-01-29T00:00:00Z", want: false},
	}
	for _, tc := range cases {
		if got := f.Contains(mustTime(t, tc.at)); got != tc.want {
			t.Fatalf("Contains(%s) = %v, want %v", tc.at, got, tc.want)
		}
	}
}

func TestDaysRemaining(t *testing.T) {
	f := LocationForecast{Area: "harbor", StartDate: mustTime(t, "2024-01-01T00:00:00Z")}

	cases := []struct {
		at   string
		want int
	}{
		{at: "2024-01-01T00:00:00Z", want: 28},
		{at: "2024-01-21T00:00:00Z", want: 8},
		{at: "2024-01-22T00:00:00Z", want: 7},
		{at: "2024-01-28T12:00:00Z", want: 1},
		{at: "2024-01-30T12:00:00Z", want: 0},
		{at: "2023-12-25T00:00:00Z", want: 0},
	}
	for _, tc := range cases {
		if got := f.DaysRemaining(mustTime(t, tc.at)); got != tc.want {
			t.Fatalf("DaysRemaining(%s) = %d, want %d", tc.at, got, tc.want)
		}
	}
}

func TestNeedsNew(t *testing.T) {
	start := mustTime(t, "2024-01-01T00:00:00Z")
	byArea := map[string]LocationForecast{
		"harbor": {Area: "harbor", StartDate: start},
	}

	if NeedsNew(byArea, "mountains", start) != true {
		t.Fatal("expected NeedsNew for unknown area")
	}
	if NeedsNew(byArea, "harbor", mustTime(t, "2024-01-21T00:00:00Z")) {
		t.Fatal("expected 8 remaining days to be sufficient")
	}
	if !NeedsNew(byArea, "harbor", mustTime(t, "2024-01-22T00:00:00Z")) {
		t.Fatal("expected 7 remaining days to be stale")
	}
	if !NeedsNew(byArea, "harbor", mustTime(t, "2024-02-15T00:00:00Z")) {
		t.Fatal("expected out-of-range time to be stale")
	}
}

func TestSampleAtOutsideRange(t *testing.T) {
	f := Generate("harbor", mustTime(t, "2024-01-01T00:00:00Z"))

	if _, ok := f.SampleAt(mustTime(t, "2024-03-01T00:00:00Z")); ok {
		t.Fatal("expected no sample outside the forecast range")
	}
	sample, ok := f.SampleAt(mustTime(t, "2024-01-10T15:00:00Z"))
	if !ok {
		t.Fatal("expected a sample inside the forecast range")
	}
	if sample.Condition == "" {
		t.Fatal("expected a generated condition")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	start := mustTime(t, "2024-06-01T08:30:00Z")
	first := Generate("verdant-valley", start)
	second := Generate("verdant-valley", start)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expected identical tables for the same area and start date")
	}

	other := Generate("iron-coast", start)
	if reflect.DeepEqual(first.Days, other.Days) {
		t.Fatal("expected different areas to differ")
	}

	if !first.StartDate.Equal(mustTime(t, "2024-06-01T00:00:00Z")) {
		t.Fatalf("expected start date normalized to midnight, got %v", first.StartDate)
	}
}
