package projection

import (
	"encoding/json"

	"github.com/talekeeper/chronicle/internal/event"
)

func (s *Snapshot) applyRelationship(evt event.Event) {
	switch evt.Subkind {
	case event.SubkindRelationshipFeelingAdded,
		event.SubkindRelationshipFeelingRemoved,
		event.SubkindRelationshipSecretAdded,
		event.SubkindRelationshipSecretRemoved,
		event.SubkindRelationshipWantAdded,
		event.SubkindRelationshipWantRemoved:
		s.applyAttitude(evt)
	case event.SubkindRelationshipStatusChanged:
		var payload event.RelationshipStatusPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		s.relationship(payload.CharacterA, payload.CharacterB).Status = payload.Status
	case event.SubkindRelationshipSubject:
		var payload event.RelationshipSubjectPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return
		}
		r := s.relationship(payload.CharacterA, payload.CharacterB)
		occurrence := SubjectOccurrence{Subject: payload.Subject}
		// The first occurrence of this (pair, subject) combination is a
		// milestone exactly when it carries a description.
		if payload.MilestoneDescription != "" && !r.hasSubject(payload.Subject) {
			occurrence.Milestone = true
			occurrence.Description = payload.MilestoneDescription
		}
		r.History = append(r.History, occurrence)
	}
}

func (s *Snapshot) applyAttitude(evt event.Event) {
	var payload event.RelationshipAttitudePayload
	if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
		return
	}
	r := s.relationship(payload.FromCharacter, payload.TowardCharacter)
	a := r.attitude(payload.FromCharacter)

	switch evt.Subkind {
	case event.SubkindRelationshipFeelingAdded:
		a.Feelings = addToSet(a.Feelings, payload.Value)
	case event.SubkindRelationshipFeelingRemoved:
		a.Feelings = removeFromSet(a.Feelings, payload.Value)
	case event.SubkindRelationshipSecretAdded:
		a.Secrets = addToSet(a.Secrets, payload.Value)
	case event.SubkindRelationshipSecretRemoved:
		a.Secrets = removeFromSet(a.Secrets, payload.Value)
	case event.SubkindRelationshipWantAdded:
		a.Wants = addToSet(a.Wants, payload.Value)
	case event.SubkindRelationshipWantRemoved:
		a.Wants = removeFromSet(a.Wants, payload.Value)
	}
}

// hasSubject reports whether the subject already occurs in the pair's
// history.
func (r *RelationshipState) hasSubject(subject string) bool {
	for _, occurrence := range r.History {
		if occurrence.Subject == subject {
			return true
		}
	}
	return false
}
