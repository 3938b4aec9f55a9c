package projection

import (
	"sort"
	"time"

	"github.com/talekeeper/chronicle/internal/forecast"
)

// TimeState is the absolute narrative moment, advanced only by time events.
type TimeState struct {
	Moment time.Time `json:"moment"`
	// Known is false until a time:initial event anchors the clock.
	Known bool `json:"known"`
}

// LocationState is the active scene location. Area, place, and position are
// wholesale-replaced by moved events; props behave as a set.
type LocationState struct {
	Area     string   `json:"area,omitempty"`
	Place    string   `json:"place,omitempty"`
	Position string   `json:"position,omitempty"`
	Props    []string `json:"props,omitempty"`
}

// Profile is a character's one-shot descriptive profile.
type Profile struct {
	Sex         string `json:"sex,omitempty"`
	Species     string `json:"species,omitempty"`
	Age         string `json:"age,omitempty"`
	Appearance  string `json:"appearance,omitempty"`
	Personality string `json:"personality,omitempty"`
}

// CharacterState is the tracked state of one character. Departed characters
// keep their last known state for continuity on re-appearance.
type CharacterState struct {
	Name     string            `json:"name"`
	Present  bool              `json:"present"`
	Position string            `json:"position,omitempty"`
	Activity string            `json:"activity,omitempty"`
	Moods    []string          `json:"moods,omitempty"`
	Physical []string          `json:"physical,omitempty"`
	Outfit   map[string]string `json:"outfit,omitempty"`
	Profile  *Profile          `json:"profile,omitempty"`
}

// Attitude is one character's directional stance toward the other member of
// a relationship pair. All three fields behave as sets.
type Attitude struct {
	Feelings []string `json:"feelings,omitempty"`
	Secrets  []string `json:"secrets,omitempty"`
	Wants    []string `json:"wants,omitempty"`
}

// SubjectOccurrence is one interaction-type tag recorded between a pair.
// The first occurrence of a (pair, subject) combination that carries a
// milestone description is flagged a milestone.
type SubjectOccurrence struct {
	Subject     string `json:"subject"`
	Milestone   bool   `json:"milestone,omitempty"`
	Description string `json:"description,omitempty"`
}

// RelationshipState tracks one alphabetically-sorted character pair.
type RelationshipState struct {
	// Pair is the sorted two-element tuple identifying the relationship.
	Pair [2]string `json:"pair"`
	// Status is the single enumerated relationship status, overwritten by
	// status_changed events.
	Status string `json:"status,omitempty"`
	// Attitudes holds the two directional attitudes, keyed by the
	// originating character's name.
	Attitudes map[string]*Attitude `json:"attitudes,omitempty"`
	// History records subject occurrences in log order.
	History []SubjectOccurrence `json:"history,omitempty"`
}

// TensionValue is the (level, type, direction) triple describing dramatic
// intensity.
type TensionValue struct {
	Level     int    `json:"level"`
	Type      string `json:"type,omitempty"`
	Direction string `json:"direction,omitempty"`
}

// TensionState is the current tension with the immediately preceding value
// retained for diff display.
type TensionState struct {
	Current  *TensionValue `json:"current,omitempty"`
	Previous *TensionValue `json:"previous,omitempty"`
}

// TopicToneValue is the current conversation topic and tone.
type TopicToneValue struct {
	Topic string `json:"topic,omitempty"`
	Tone  string `json:"tone,omitempty"`
}

// TopicToneState is the current topic/tone with the immediately preceding
// value retained for diff display.
type TopicToneState struct {
	Current  *TopicToneValue `json:"current,omitempty"`
	Previous *TopicToneValue `json:"previous,omitempty"`
}

// WeatherState is the hourly sample covering the current narrative moment.
// Known is false when no stored forecast covers the moment; display layers
// render unknown weather rather than failing.
type WeatherState struct {
	Sample forecast.Sample `json:"sample"`
	Known  bool            `json:"known"`
}

// Snapshot is the derived narrative state at a point in the log. Snapshots
// are never stored; they are recomputed on demand from the active events.
type Snapshot struct {
	Time          TimeState                            `json:"time"`
	Location      LocationState                        `json:"location"`
	Characters    map[string]*CharacterState           `json:"characters,omitempty"`
	Relationships map[string]*RelationshipState        `json:"relationships,omitempty"`
	Tension       TensionState                         `json:"tension"`
	TopicTone     TopicToneState                       `json:"topic_tone"`
	ChapterIndex  int                                  `json:"chapter_index"`
	Forecasts     map[string]forecast.LocationForecast `json:"forecasts,omitempty"`
	Weather       WeatherState                         `json:"weather"`
}

// PairKey returns the alphabetically-sorted pair for two character names.
// Directional events derive their pair this way; it is never stored
// redundantly on the event.
func PairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

// pairMapKey flattens a pair into a stable map key.
func pairMapKey(pair [2]string) string {
	return pair[0] + "|" + pair[1]
}

// character returns the state entry for name, creating it if the character
// has not appeared yet. Upstream extraction is approximate, so referencing
// an unseen character is an implicit first appearance, never an error.
func (s *Snapshot) character(name string) *CharacterState {
	if s.Characters == nil {
		s.Characters = make(map[string]*CharacterState)
	}
	c, ok := s.Characters[name]
	if !ok {
		c = &CharacterState{Name: name, Present: true}
		s.Characters[name] = c
	}
	return c
}

// relationship returns the state entry for the pair of a and b, creating it
// on first reference.
func (s *Snapshot) relationship(a, b string) *RelationshipState {
	pair := PairKey(a, b)
	key := pairMapKey(pair)
	if s.Relationships == nil {
		s.Relationships = make(map[string]*RelationshipState)
	}
	r, ok := s.Relationships[key]
	if !ok {
		r = &RelationshipState{Pair: pair, Attitudes: make(map[string]*Attitude)}
		s.Relationships[key] = r
	}
	return r
}

// attitude returns the directional attitude held by from within its pair.
func (r *RelationshipState) attitude(from string) *Attitude {
	if r.Attitudes == nil {
		r.Attitudes = make(map[string]*Attitude)
	}
	a, ok := r.Attitudes[from]
	if !ok {
		a = &Attitude{}
		r.Attitudes[from] = a
	}
	return a
}

// PresentCharacters returns the names of characters currently in the scene,
// sorted for stable output.
func (s *Snapshot) PresentCharacters() []string {
	var names []string
	for name, c := range s.Characters {
		if c.Present {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
