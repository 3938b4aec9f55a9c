package event

import (
	"strings"
	"time"
)

// Kind identifies the family of fact an event records.
type Kind string

const (
	// KindTime advances or anchors the narrative clock.
	KindTime Kind = "time"
	// KindLocation tracks the active scene location and its props.
	KindLocation Kind = "location"
	// KindCharacter tracks per-character presence and state.
	KindCharacter Kind = "character"
	// KindRelationship tracks pairwise character relationships.
	KindRelationship Kind = "relationship"
	// KindTopicTone records the current conversation topic and tone.
	KindTopicTone Kind = "topic_tone"
	// KindTension records the current dramatic tension triple.
	KindTension Kind = "tension"
	// KindNarrativeDescription records a free-form scene beat with witnesses.
	KindNarrativeDescription Kind = "narrative_description"
	// KindChapter records chapter boundaries and retroactive descriptions.
	KindChapter Kind = "chapter"
	// KindForecastGenerated stores a synthetic weather table for an area.
	KindForecastGenerated Kind = "forecast_generated"
)

// Subkind identifies the shape of an event within its kind. Kinds with a
// single shape use SubkindNone.
type Subkind string

const (
	SubkindNone Subkind = ""

	// time
	SubkindTimeInitial Subkind = "initial"
	SubkindTimeDelta   Subkind = "delta"

	// location
	SubkindLocationMoved       Subkind = "moved"
	SubkindLocationPropAdded   Subkind = "prop_added"
	SubkindLocationPropRemoved Subkind = "prop_removed"

	// character
	SubkindCharacterAppeared        Subkind = "appeared"
	SubkindCharacterDeparted        Subkind = "departed"
	SubkindCharacterPositionChanged Subkind = "position_changed"
	SubkindCharacterActivityChanged Subkind = "activity_changed"
	SubkindCharacterOutfitChanged   Subkind = "outfit_changed"
	SubkindCharacterMoodAdded       Subkind = "mood_added"
	SubkindCharacterMoodRemoved     Subkind = "mood_removed"
	SubkindCharacterPhysicalAdded   Subkind = "physical_added"
	SubkindCharacterPhysicalRemoved Subkind = "physical_removed"
	SubkindCharacterProfileSet      Subkind = "profile_set"

	// relationship
	SubkindRelationshipFeelingAdded   Subkind = "feeling_added"
	SubkindRelationshipFeelingRemoved Subkind = "feeling_removed"
	SubkindRelationshipSecretAdded    Subkind = "secret_added"
	SubkindRelationshipSecretRemoved  Subkind = "secret_removed"
	SubkindRelationshipWantAdded      Subkind = "want_added"
	SubkindRelationshipWantRemoved    Subkind = "want_removed"
	SubkindRelationshipStatusChanged  Subkind = "status_changed"
	SubkindRelationshipSubject        Subkind = "subject"

	// chapter
	SubkindChapterEnded     Subkind = "ended"
	SubkindChapterDescribed Subkind = "described"
)

// Source identifies the conversation message and swipe that produced an
// event. Swipes are alternate regenerated continuations of a message; only
// events on the selected swipe for their message are visible to readers.
type Source struct {
	MessageIndex int `json:"message_index"`
	SwipeIndex   int `json:"swipe_index"`
}

// Event is an immutable fact in the append-only narrative log.
//
// Ordering is the event's Seq within the log, never its Timestamp; the
// timestamp exists for audit only. Editing a fact is modeled as a soft
// delete of the old event plus an append of a corrected one.
type Event struct {
	// ID is the unique identifier assigned at creation.
	ID string
	// ConversationID scopes the event to one conversation log.
	ConversationID string
	// Seq is the event's position in the log (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Source is the message/swipe address the event was extracted from.
	Source Source
	// Timestamp is the wall-clock creation time, for audit only.
	Timestamp time.Time
	// Kind identifies the fact family.
	Kind Kind
	// Subkind identifies the fact shape within the kind.
	Subkind Subkind
	// PayloadJSON holds kind-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the kind is usable.
func (k Kind) IsValid() bool {
	return strings.TrimSpace(string(k)) != ""
}
