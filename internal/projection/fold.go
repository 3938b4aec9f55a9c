package projection

import (
	"github.com/talekeeper/chronicle/internal/event"
)

// Project folds the active event sequence into a snapshot. It is a pure
// function: identical input sequences always yield an identical snapshot.
// Callers must not mutate the slice while the fold runs.
//
// Events that reference unseen characters or pairs are tolerated as
// implicit first appearances; the fold always produces a best-effort
// snapshot and never fails.
func Project(events []event.Event) Snapshot {
	var s Snapshot
	for _, evt := range events {
		s.apply(evt)
	}
	s.refreshWeather()
	return s
}

// apply routes one event to its kind-specific reducer. Unknown kinds are
// skipped; the registry keeps them out of the log in the first place.
func (s *Snapshot) apply(evt event.Event) {
	switch evt.Kind {
	case event.KindTime:
		s.applyTime(evt)
	case event.KindLocation:
		s.applyLocation(evt)
	case event.KindCharacter:
		s.applyCharacter(evt)
	case event.KindRelationship:
		s.applyRelationship(evt)
	case event.KindTopicTone:
		s.applyTopicTone(evt)
	case event.KindTension:
		s.applyTension(evt)
	case event.KindNarrativeDescription:
		s.applyNarrativeDescription(evt)
	case event.KindChapter:
		s.applyChapter(evt)
	case event.KindForecastGenerated:
		s.applyForecast(evt)
	}
}

// refreshWeather resolves the weather sample for the current area and
// moment from the stored forecast tables. A missing or stale table leaves
// the weather unknown rather than erroring.
func (s *Snapshot) refreshWeather() {
	s.Weather = WeatherState{}
	if !s.Time.Known || s.Location.Area == "" {
		return
	}
	f, ok := s.Forecasts[s.Location.Area]
	if !ok {
		return
	}
	sample, ok := f.SampleAt(s.Time.Moment)
	if !ok {
		return
	}
	s.Weather = WeatherState{Sample: sample, Known: true}
}
