package event

// TimeInitialPayload captures the payload for time:initial events. Moment is
// a round-trippable RFC 3339 timestamp string holding the absolute narrative
// moment.
type TimeInitialPayload struct {
	Moment string `json:"moment"`
}

// TimeDeltaPayload captures the payload for time:delta events. All fields
// are non-negative; days advance with calendar arithmetic while hours,
// minutes, and seconds are fixed durations.
type TimeDeltaPayload struct {
	Days    int `json:"days,omitempty"`
	Hours   int `json:"hours,omitempty"`
	Minutes int `json:"minutes,omitempty"`
	Seconds int `json:"seconds,omitempty"`
}

// LocationMovedPayload captures the payload for location:moved events.
// Area, place, and position replace the previous location wholesale.
type LocationMovedPayload struct {
	Area     string `json:"area"`
	Place    string `json:"place,omitempty"`
	Position string `json:"position,omitempty"`
}

// LocationPropPayload captures the payload for location:prop_added and
// location:prop_removed events.
type LocationPropPayload struct {
	Prop string `json:"prop"`
}

// CharacterAppearedPayload captures the payload for character:appeared
// events. Optional fields seed initial state only when not already present.
type CharacterAppearedPayload struct {
	Name     string   `json:"name"`
	Position string   `json:"position,omitempty"`
	Activity string   `json:"activity,omitempty"`
	Moods    []string `json:"moods,omitempty"`
	Physical []string `json:"physical,omitempty"`
}

// CharacterDepartedPayload captures the payload for character:departed events.
type CharacterDepartedPayload struct {
	Name string `json:"name"`
}

// CharacterPositionPayload captures the payload for
// character:position_changed events.
type CharacterPositionPayload struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// CharacterActivityPayload captures the payload for
// character:activity_changed events. An empty activity clears the field.
type CharacterActivityPayload struct {
	Name     string `json:"name"`
	Activity string `json:"activity,omitempty"`
}

// CharacterOutfitPayload captures the payload for character:outfit_changed
// events. An empty item clears the slot.
type CharacterOutfitPayload struct {
	Name string `json:"name"`
	Slot string `json:"slot"`
	Item string `json:"item,omitempty"`
}

// CharacterTraitPayload captures the payload for mood_added/mood_removed and
// physical_added/physical_removed events.
type CharacterTraitPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// CharacterProfilePayload captures the payload for character:profile_set
// events. A profile is set once; later profile events for the same
// character are ignored by the fold.
type CharacterProfilePayload struct {
	Name        string `json:"name"`
	Sex         string `json:"sex,omitempty"`
	Species     string `json:"species,omitempty"`
	Age         string `json:"age,omitempty"`
	Appearance  string `json:"appearance,omitempty"`
	Personality string `json:"personality,omitempty"`
}

// RelationshipAttitudePayload captures the payload for directional
// relationship events (feeling/secret/want added/removed). The relationship
// pair is derived by sorting the two names; it is never stored redundantly.
type RelationshipAttitudePayload struct {
	FromCharacter   string `json:"from_character"`
	TowardCharacter string `json:"toward_character"`
	Value           string `json:"value"`
}

// RelationshipStatusPayload captures the payload for
// relationship:status_changed events.
type RelationshipStatusPayload struct {
	CharacterA string `json:"character_a"`
	CharacterB string `json:"character_b"`
	Status     string `json:"status"`
}

// RelationshipSubjectPayload captures the payload for relationship:subject
// events. The first occurrence of a (pair, subject) combination that carries
// a milestone description is marked a milestone.
type RelationshipSubjectPayload struct {
	CharacterA           string `json:"character_a"`
	CharacterB           string `json:"character_b"`
	Subject              string `json:"subject"`
	MilestoneDescription string `json:"milestone_description,omitempty"`
}

// TopicTonePayload captures the payload for topic_tone events.
type TopicTonePayload struct {
	Topic string `json:"topic"`
	Tone  string `json:"tone"`
}

// TensionPayload captures the payload for tension events.
type TensionPayload struct {
	Level     int    `json:"level"`
	Type      string `json:"type"`
	Direction string `json:"direction"`
}

// NarrativeDescriptionPayload captures the payload for
// narrative_description events.
type NarrativeDescriptionPayload struct {
	Text      string   `json:"text"`
	Witnesses []string `json:"witnesses,omitempty"`
}

// ChapterEndedPayload captures the payload for chapter:ended events. The
// reason is produced by the external extractor and treated as ground truth.
type ChapterEndedPayload struct {
	Reason string `json:"reason"`
}

// ChapterDescribedPayload captures the payload for chapter:described
// events. It attaches a title and summary to a chapter index retroactively
// and may arrive before or after the matching ended event.
type ChapterDescribedPayload struct {
	ChapterIndex int    `json:"chapter_index"`
	Title        string `json:"title"`
	Summary      string `json:"summary,omitempty"`
}

// ForecastGeneratedPayload captures the payload for forecast_generated
// events: the area key, start date (RFC 3339), and the 28-day hourly table.
type ForecastGeneratedPayload struct {
	Area      string               `json:"area"`
	StartDate string               `json:"start_date"`
	Days      []ForecastDayPayload `json:"days"`
}

// ForecastDayPayload is one day of a stored forecast table.
type ForecastDayPayload struct {
	Hours []ForecastSamplePayload `json:"hours"`
}

// ForecastSamplePayload is one hourly weather sample of a stored forecast.
type ForecastSamplePayload struct {
	Condition    string  `json:"condition"`
	TemperatureC float64 `json:"temperature_c"`
	WindKPH      float64 `json:"wind_kph"`
	Humidity     int     `json:"humidity"`
}
