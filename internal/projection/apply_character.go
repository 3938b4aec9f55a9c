package projection

import (
	"encoding/json"

	"github.com/talekeeper/chronicle/internal/event"
)

func (s *Snapshot) applyCharacter(evt event.Event) {
	switch evt.Subkind {
	case event.SubkindCharacterAppeared:
		var payload event.CharacterAppearedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		c := s.character(payload.Name)
		c.Present = true
		// Optional fields only seed state that is not already present, so a
		// re-appearance keeps continuity from the last departure.
		if c.Position == "" {
			c.Position = payload.Position
		}
		if c.Activity == "" {
			c.Activity = payload.Activity
		}
		if len(c.Moods) == 0 {
			for _, mood := range payload.Moods {
				c.Moods = addToSet(c.Moods, mood)
			}
		}
		if len(c.Physical) == 0 {
			for _, state := range payload.Physical {
				c.Physical = addToSet(c.Physical, state)
			}
		}
	case event.SubkindCharacterDeparted:
		var payload event.CharacterDepartedPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		s.character(payload.Name).Present = false
	case event.SubkindCharacterPositionChanged:
		var payload event.CharacterPositionPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		s.character(payload.Name).Position = payload.Position
	case event.SubkindCharacterActivityChanged:
		var payload event.CharacterActivityPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		s.character(payload.Name).Activity = payload.Activity
	case event.SubkindCharacterOutfitChanged:
		var payload event.CharacterOutfitPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		c := s.character(payload.Name)
		if payload.Item == "" {
			delete(c.Outfit, payload.Slot)
			if len(c.Outfit) == 0 {
				c.Outfit = nil
			}
			return
		}
		if c.Outfit == nil {
			c.Outfit = make(map[string]string)
		}
		c.Outfit[payload.Slot] = payload.Item
	case event.SubkindCharacterMoodAdded:
		var payload event.CharacterTraitPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		c := s.character(payload.Name)
		c.Moods = addToSet(c.Moods, payload.Value)
	case event.SubkindCharacterMoodRemoved:
		var payload event.CharacterTraitPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		c := s.character(payload.Name)
		c.Moods = removeFromSet(c.Moods, payload.Value)
	case event.SubkindCharacterPhysicalAdded:
		var payload event.CharacterTraitPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		c := s.character(payload.Name)
		c.Physical = addToSet(c.Physical, payload.Value)
	case event.SubkindCharacterPhysicalRemoved:
		var payload event.CharacterTraitPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		c := s.character(payload.Name)
		c.Physical = removeFromSet(c.Physical, payload.Value)
	case event.SubkindCharacterProfileSet:
		var payload event.CharacterProfilePayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		c := s.character(payload.Name)
		// A profile is set once; later profile events are ignored.
		if c.Profile != nil {
			return
		}
		c.Profile = &Profile{
			Sex:         payload.Sex,
			Species:     payload.Species,
			Age:         payload.Age,
			Appearance:  payload.Appearance,
			Personality: payload.Personality,
		}
	}
}
