package projection

import (
	"encoding/json"

	"github.com/talekeeper/chronicle/internal/event"
)

func (s *Snapshot) applyLocation(evt event.Event) {
	switch evt.Subkind {
	case event.SubkindLocationMoved:
		var payload event.LocationMovedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		// Area, place, and position are replaced wholesale. The prop set is
		// carried over: the extractor emits explicit prop events alongside a
		// move when the scene's objects change, and the fold does not invent
		// prop clearing on its own.
		s.Location.Area = payload.Area
		s.Location.Place = payload.Place
		s.Location.Position = payload.Position
	case event.SubkindLocationPropAdded:
		var payload event.LocationPropPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		s.Location.Props = addToSet(s.Location.Props, payload.Prop)
	case event.SubkindLocationPropRemoved:
		var payload event.LocationPropPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		s.Location.Props = removeFromSet(s.Location.Props, payload.Prop)
	}
}
