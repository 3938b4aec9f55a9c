package projection

import (
	"encoding/json"
	"time"

	"github.com/talekeeper/chronicle/internal/event"
	"github.com/talekeeper/chronicle/internal/forecast"
)

func (s *Snapshot) applyTopicTone(evt event.Event) {
	var payload event.TopicTonePayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		return
	}
	s.TopicTone.Previous = s.TopicTone.Current
	s.TopicTone.Current = &TopicToneValue{Topic: payload.Topic, Tone: payload.Tone}
}

func (s *Snapshot) applyTension(evt event.Event) {
	var payload event.TensionPayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		return
	}
	s.Tension.Previous = s.Tension.Current
	s.Tension.Current = &TensionValue{
		Level:     payload.Level,
		Type:      payload.Type,
		Direction: payload.Direction,
	}
}

func (s *Snapshot) applyNarrativeDescription(evt event.Event) {
	var payload event.NarrativeDescriptionPayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		return
	}
	// Witnesses are implicit appearances; the description text itself is
	// chapter material and does not change scene state.
	for _, name := range payload.Witnesses {
		s.character(name).Present = true
	}
}

func (s *Snapshot) applyChapter(evt event.Event) {
	if evt.Subkind != event.SubkindChapterEnded {
		return
	}
	// Each ended event advances the active chapter for all later events.
	// Titles and summaries are the chapter segmenter's concern.
	s.ChapterIndex++
}

func (s *Snapshot) applyForecast(evt event.Event) {
	var payload event.ForecastGeneratedPayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		return
	}
	start, err := time.Parse(time.RFC3339, payload.StartDate)
	if err != nil {
		return
	}
	if len(payload.Days) != forecast.Days {
		return
	}

	f := forecast.LocationForecast{
		Area:      payload.Area,
		StartDate: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
	}
	for d, day := range payload.Days {
		if len(day.Hours) != forecast.HoursPerDay {
			return
		}
		for h, sample := range day.Hours {
			f.Days[d].Hours[h] = forecast.Sample{
				Condition:    sample.Condition,
				TemperatureC: sample.TemperatureC,
				WindKPH:      sample.WindKPH,
				Humidity:     sample.Humidity,
			}
		}
	}

	if s.Forecasts == nil {
		s.Forecasts = make(map[string]forecast.LocationForecast)
	}
	s.Forecasts[payload.Area] = f
}
