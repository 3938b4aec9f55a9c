package event

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/talekeeper/chronicle/internal/platform/errors"
)

// forecastDays is the number of daily entries a stored forecast must carry.
const forecastDays = 28

// forecastHours is the number of hourly samples per forecast day.
const forecastHours = 24

// validator checks a payload for one kind/subkind combination.
type validator func(payload []byte) error

type registryKey struct {
	kind    Kind
	subkind Subkind
}

// Registry validates events against the closed kind/subkind enumeration
// before they are appended. Unknown combinations and malformed payloads are
// rejected so they never enter the log.
type Registry struct {
	validators map[registryKey]validator
}

// NewRegistry returns a registry with every core event type registered.
func NewRegistry() *Registry {
	r := &Registry{validators: make(map[registryKey]validator)}

	r.register(KindTime, SubkindTimeInitial, validateTimeInitial)
	r.register(KindTime, SubkindTimeDelta, validateTimeDelta)

	r.register(KindLocation, SubkindLocationMoved, validateLocationMoved)
	r.register(KindLocation, SubkindLocationPropAdded, validateLocationProp)
	r.register(KindLocation, SubkindLocationPropRemoved, validateLocationProp)

	r.register(KindCharacter, SubkindCharacterAppeared, validateNamed[CharacterAppearedPayload])
	r.register(KindCharacter, SubkindCharacterDeparted, validateNamed[CharacterDepartedPayload])
	r.register(KindCharacter, SubkindCharacterPositionChanged, validateNamed[CharacterPositionPayload])
	r.register(KindCharacter, SubkindCharacterActivityChanged, validateNamed[CharacterActivityPayload])
	r.register(KindCharacter, SubkindCharacterOutfitChanged, validateOutfit)
	r.register(KindCharacter, SubkindCharacterMoodAdded, validateTrait)
	r.register(KindCharacter, SubkindCharacterMoodRemoved, validateTrait)
	r.register(KindCharacter, SubkindCharacterPhysicalAdded, validateTrait)
	r.register(KindCharacter, SubkindCharacterPhysicalRemoved, validateTrait)
	r.register(KindCharacter, SubkindCharacterProfileSet, validateNamed[CharacterProfilePayload])

	r.register(KindRelationship, SubkindRelationshipFeelingAdded, validateAttitude)
	r.register(KindRelationship, SubkindRelationshipFeelingRemoved, validateAttitude)
	r.register(KindRelationship, SubkindRelationshipSecretAdded, validateAttitude)
	r.register(KindRelationship, SubkindRelationshipSecretRemoved, validateAttitude)
	r.register(KindRelationship, SubkindRelationshipWantAdded, validateAttitude)
	r.register(KindRelationship, SubkindRelationshipWantRemoved, validateAttitude)
	r.register(KindRelationship, SubkindRelationshipStatusChanged, validateRelationshipStatus)
	r.register(KindRelationship, SubkindRelationshipSubject, validateRelationshipSubject)

	r.register(KindTopicTone, SubkindNone, validateTopicTone)
	r.register(KindTension, SubkindNone, validateTension)
	r.register(KindNarrativeDescription, SubkindNone, validateNarrativeDescription)

	r.register(KindChapter, SubkindChapterEnded, validateChapterEnded)
	r.register(KindChapter, SubkindChapterDescribed, validateChapterDescribed)

	r.register(KindForecastGenerated, SubkindNone, validateForecastGenerated)

	return r
}

func (r *Registry) register(kind Kind, subkind Subkind, fn validator) {
	r.validators[registryKey{kind: kind, subkind: subkind}] = fn
}

// ValidateForAppend checks the event envelope and payload against the
// registry and returns the event ready for storage.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	if strings.TrimSpace(evt.ConversationID) == "" {
		return Event{}, apperrors.New(apperrors.CodeEventEmptySource, "conversation id is required")
	}
	if evt.Source.MessageIndex < 0 || evt.Source.SwipeIndex < 0 {
		return Event{}, apperrors.New(apperrors.CodeEventEmptySource, "event source indices must not be negative")
	}
	if !evt.Kind.IsValid() {
		return Event{}, apperrors.New(apperrors.CodeEventUnknownType, "event kind is required")
	}

	fn, ok := r.validators[registryKey{kind: evt.Kind, subkind: evt.Subkind}]
	if !ok {
		return Event{}, apperrors.WithMetadata(
			apperrors.CodeEventUnknownType,
			fmt.Sprintf("unknown event type %s:%s", evt.Kind, evt.Subkind),
			map[string]string{"kind": string(evt.Kind), "subkind": string(evt.Subkind)},
		)
	}
	if err := fn(evt.PayloadJSON); err != nil {
		return Event{}, apperrors.Wrap(
			apperrors.CodeEventInvalidPayload,
			fmt.Sprintf("invalid %s:%s payload", evt.Kind, evt.Subkind),
			err,
		)
	}

	return evt, nil
}

func decode[T any](payload []byte) (T, error) {
	var value T
	if len(payload) == 0 {
		return value, fmt.Errorf("payload is required")
	}
	if err := json.Unmarshal(payload, &value); err != nil {
		return value, fmt.Errorf("decode payload: %w", err)
	}
	return value, nil
}

// named is implemented by payloads addressed to a single character.
type named interface {
	characterName() string
}

func (p CharacterAppearedPayload) characterName() string { return p.Name }
func (p CharacterDepartedPayload) characterName() string { return p.Name }
func (p CharacterPositionPayload) characterName() string { return p.Name }
func (p CharacterActivityPayload) characterName() string { return p.Name }
func (p CharacterProfilePayload) characterName() string  { return p.Name }

func validateNamed[T named](payload []byte) error {
	value, err := decode[T](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.characterName()) == "" {
		return fmt.Errorf("character name is required")
	}
	return nil
}

func validateTimeInitial(payload []byte) error {
	value, err := decode[TimeInitialPayload](payload)
	if err != nil {
		return err
	}
	if _, err := time.Parse(time.RFC3339, value.Moment); err != nil {
		return fmt.Errorf("parse moment: %w", err)
	}
	return nil
}

func validateTimeDelta(payload []byte) error {
	value, err := decode[TimeDeltaPayload](payload)
	if err != nil {
		return err
	}
	if value.Days < 0 || value.Hours < 0 || value.Minutes < 0 || value.Seconds < 0 {
		return fmt.Errorf("time delta must not be negative")
	}
	if value.Days == 0 && value.Hours == 0 && value.Minutes == 0 && value.Seconds == 0 {
		return fmt.Errorf("time delta must advance time")
	}
	return nil
}

func validateLocationMoved(payload []byte) error {
	value, err := decode[LocationMovedPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Area) == "" {
		return fmt.Errorf("area is required")
	}
	return nil
}

func validateLocationProp(payload []byte) error {
	value, err := decode[LocationPropPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Prop) == "" {
		return fmt.Errorf("prop is required")
	}
	return nil
}

func validateOutfit(payload []byte) error {
	value, err := decode[CharacterOutfitPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Name) == "" {
		return fmt.Errorf("character name is required")
	}
	if strings.TrimSpace(value.Slot) == "" {
		return fmt.Errorf("outfit slot is required")
	}
	return nil
}

func validateTrait(payload []byte) error {
	value, err := decode[CharacterTraitPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Name) == "" {
		return fmt.Errorf("character name is required")
	}
	if strings.TrimSpace(value.Value) == "" {
		return fmt.Errorf("trait value is required")
	}
	return nil
}

func validateAttitude(payload []byte) error {
	value, err := decode[RelationshipAttitudePayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.FromCharacter) == "" || strings.TrimSpace(value.TowardCharacter) == "" {
		return fmt.Errorf("both characters are required")
	}
	if value.FromCharacter == value.TowardCharacter {
		return fmt.Errorf("characters must differ")
	}
	if strings.TrimSpace(value.Value) == "" {
		return fmt.Errorf("attitude value is required")
	}
	return nil
}

func validateRelationshipStatus(payload []byte) error {
	value, err := decode[RelationshipStatusPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.CharacterA) == "" || strings.TrimSpace(value.CharacterB) == "" {
		return fmt.Errorf("both characters are required")
	}
	if value.CharacterA == value.CharacterB {
		return fmt.Errorf("characters must differ")
	}
	if strings.TrimSpace(value.Status) == "" {
		return fmt.Errorf("status is required")
	}
	return nil
}

func validateRelationshipSubject(payload []byte) error {
	value, err := decode[RelationshipSubjectPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.CharacterA) == "" || strings.TrimSpace(value.CharacterB) == "" {
		return fmt.Errorf("both characters are required")
	}
	if value.CharacterA == value.CharacterB {
		return fmt.Errorf("characters must differ")
	}
	if strings.TrimSpace(value.Subject) == "" {
		return fmt.Errorf("subject is required")
	}
	return nil
}

func validateTopicTone(payload []byte) error {
	value, err := decode[TopicTonePayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Topic) == "" && strings.TrimSpace(value.Tone) == "" {
		return fmt.Errorf("topic or tone is required")
	}
	return nil
}

func validateTension(payload []byte) error {
	value, err := decode[TensionPayload](payload)
	if err != nil {
		return err
	}
	if value.Level < 0 {
		return fmt.Errorf("tension level must not be negative")
	}
	return nil
}

func validateNarrativeDescription(payload []byte) error {
	value, err := decode[NarrativeDescriptionPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

func validateChapterEnded(payload []byte) error {
	value, err := decode[ChapterEndedPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Reason) == "" {
		return fmt.Errorf("end reason is required")
	}
	return nil
}

func validateChapterDescribed(payload []byte) error {
	value, err := decode[ChapterDescribedPayload](payload)
	if err != nil {
		return err
	}
	if value.ChapterIndex < 0 {
		return fmt.Errorf("chapter index must not be negative")
	}
	if strings.TrimSpace(value.Title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

func validateForecastGenerated(payload []byte) error {
	value, err := decode[ForecastGeneratedPayload](payload)
	if err != nil {
		return err
	}
	if strings.TrimSpace(value.Area) == "" {
		return fmt.Errorf("area is required")
	}
	if _, err := time.Parse(time.RFC3339, value.StartDate); err != nil {
		return fmt.Errorf("parse start date: %w", err)
	}
	if len(value.Days) != forecastDays {
		return fmt.Errorf("forecast must carry %d days, got %d", forecastDays, len(value.Days))
	}
	for i, day := range value.Days {
		if len(day.Hours) != forecastHours {
			return fmt.Errorf("forecast day %d must carry %d hours, got %d", i, forecastHours, len(day.Hours))
		}
	}
	return nil
}
