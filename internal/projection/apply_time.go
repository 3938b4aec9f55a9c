package projection

import (
	"encoding/json"
	"time"

	"github.com/talekeeper/chronicle/internal/event"
)

func (s *Snapshot) applyTime(evt event.Event) {
	s.Time = AdvanceTime(s.Time, evt)
}

// AdvanceTime folds one time event into a time state. Exported so the
// chapter segmenter can track narrative time with the same arithmetic as
// the projection.
//
// Deltas use calendar-aware day arithmetic (variable month lengths, leap
// years) and fixed durations for hours, minutes, and seconds.
func AdvanceTime(state TimeState, evt event.Event) TimeState {
	if evt.Kind != event.KindTime {
		return state
	}
	switch evt.Subkind {
	case event.SubkindTimeInitial:
		var payload event.TimeInitialPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state
		}
		moment, err := time.Parse(time.RFC3339, payload.Moment)
		if err != nil {
			return state
		}
		state.Moment = moment.UTC()
		state.Known = true
	case event.SubkindTimeDelta:
		if !state.Known {
			return state
		}
		var payload event.TimeDeltaPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return state
		}
		if payload.Days < 0 || payload.Hours < 0 || payload.Minutes < 0 || payload.Seconds < 0 {
			return state
		}
		moment := state.Moment.AddDate(0, 0, payload.Days)
		moment = moment.Add(
			time.Duration(payload.Hours)*time.Hour +
				time.Duration(payload.Minutes)*time.Minute +
				time.Duration(payload.Seconds)*time.Second,
		)
		state.Moment = moment
	}
	return state
}
