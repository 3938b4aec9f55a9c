// Package forecast provides the deterministic climate oracle.
//
// Weather is derived from synthetic 28-day forecast tables stored as
// ordinary events in the log, so climate is a pure table lookup during
// projection instead of being re-derived nondeterministically on every
// message. A new table is only requested when coverage is about to run out
// or the narrative moves to a new area.
package forecast

import "time"

const (
	// Days is the number of daily entries every forecast carries.
	Days = 28
	// HoursPerDay is the number of hourly samples per day.
	HoursPerDay = 24
	// MinDays is the minimum forward coverage, in days, a forecast must
	// retain at query time before a replacement is needed.
	MinDays = 8
)

// Sample is one hourly weather reading.
type Sample struct {
	Condition    string  `json:"condition"`
	TemperatureC float64 `json:"temperature_c"`
	WindKPH      float64 `json:"wind_kph"`
	Humidity     int     `json:"humidity"`
}

// Day is one day of hourly samples.
type Day struct {
	Hours [HoursPerDay]Sample `json:"hours"`
}

// LocationForecast is a 28-day hourly weather table for one area. StartDate
// is normalized to midnight UTC.
type LocationForecast struct {
	Area      string    `json:"area"`
	StartDate time.Time `json:"start_date"`
	Days      [Days]Day `json:"days"`
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dayIndex returns the number of whole calendar days between the forecast
// start and t. Negative when t precedes the start.
func (f LocationForecast) dayIndex(t time.Time) int {
	start := startOfDay(f.StartDate)
	moment := startOfDay(t)
	return int(moment.Sub(start).Hours() / 24)
}

// Contains reports whether t falls inside [StartDate, StartDate+28d).
func (f LocationForecast) Contains(t time.Time) bool {
	index := f.dayIndex(t)
	return index >= 0 && index < Days
}

// DaysRemaining returns 28 − dayIndex(t) for t inside the range, and 0 for
// t before the start or at/after the end.
func (f LocationForecast) DaysRemaining(t time.Time) int {
	if !f.Contains(t) {
		return 0
	}
	return Days - f.dayIndex(t)
}

// SampleAt returns the hourly sample covering t. The second return is false
// when the forecast does not cover t; callers render an unknown-weather
// state instead of failing.
func (f LocationForecast) SampleAt(t time.Time) (Sample, bool) {
	if !f.Contains(t) {
		return Sample{}, false
	}
	return f.Days[f.dayIndex(t)].Hours[t.UTC().Hour()], true
}

// NeedsNew reports whether a fresh forecast must be generated for area at
// narrative time t: there is none, t is outside its range, or fewer than
// MinDays of coverage remain.
func NeedsNew(byArea map[string]LocationForecast, area string, t time.Time) bool {
	f, ok := byArea[area]
	if !ok {
		return true
	}
	return f.DaysRemaining(t) < MinDays
}
