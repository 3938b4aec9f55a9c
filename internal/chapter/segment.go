// Package chapter segments an event log into narrative chapters. A chapter
// spans the events between two chapter boundary events; the decision of where
// a boundary falls is the extractor's, recorded as chapter:ended events, so
// segmentation here is a pure replay of those decisions.
package chapter

import (
	"encoding/json"
	"sort"

	"github.com/talekeeper/chronicle/internal/event"
	"github.com/talekeeper/chronicle/internal/projection"
)

// Chapter is one segment of the log with its aggregated metadata. Title and
// Summary come from chapter:described events and may be empty when no
// description has been generated for the segment yet.
type Chapter struct {
	Index      int                  `json:"index"`
	Title      string               `json:"title,omitempty"`
	Summary    string               `json:"summary,omitempty"`
	EndReason  string               `json:"end_reason,omitempty"`
	EventCount int                  `json:"event_count"`
	StartTime  projection.TimeState `json:"start_time"`
	EndTime    projection.TimeState `json:"end_time"`
	Characters []string             `json:"characters,omitempty"`
}

type described struct {
	title   string
	summary string
}

// Segment replays the event sequence and returns its chapters in order. The
// trailing chapter is always included, open or not; a log with no chapter
// events yields a single open chapter. Like the projection fold, Segment is
// pure and never fails.
func Segment(events []event.Event) []Chapter {
	var (
		chapters     []Chapter
		clock        projection.TimeState
		characters   = make(map[string]struct{})
		descriptions = make(map[int]described)
	)

	current := Chapter{Index: 0}
	flush := func() {
		current.EndTime = clock
		current.Characters = sortedNames(characters)
		chapters = append(chapters, current)
		characters = make(map[string]struct{})
		current = Chapter{Index: len(chapters), StartTime: clock}
	}

	for _, evt := range events {
		switch evt.Kind {
		case event.KindTime:
			clock = projection.AdvanceTime(clock, evt)
			if !current.StartTime.Known && clock.Known {
				// The first anchored moment backfills the chapter start.
				current.StartTime = clock
			}
			current.EventCount++
		case event.KindChapter:
			switch evt.Subkind {
			case event.SubkindChapterEnded:
				var payload event.ChapterEndedPayload
				if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
					current.EndReason = payload.Reason
				}
				// The boundary event belongs to the chapter it closes.
				current.EventCount++
				flush()
			case event.SubkindChapterDescribed:
				var payload event.ChapterDescribedPayload
				if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
					descriptions[payload.ChapterIndex] = described{
						title:   payload.Title,
						summary: payload.Summary,
					}
				}
			}
		default:
			recordCharacters(evt, characters)
			current.EventCount++
		}
	}

	current.EndTime = clock
	current.Characters = sortedNames(characters)
	chapters = append(chapters, current)

	// Descriptions address chapters by index and may precede or follow the
	// boundary they describe; attach them after the walk.
	for i := range chapters {
		if d, ok := descriptions[chapters[i].Index]; ok {
			chapters[i].Title = d.title
			chapters[i].Summary = d.summary
		}
	}
	return chapters
}

// recordCharacters collects every character name an event references.
func recordCharacters(evt event.Event, into map[string]struct{}) {
	switch evt.Kind {
	case event.KindCharacter:
		var payload struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil && payload.Name != "" {
			into[payload.Name] = struct{}{}
		}
	case event.KindRelationship:
		switch evt.Subkind {
		case event.SubkindRelationshipStatusChanged, event.SubkindRelationshipSubject:
			var payload struct {
				CharacterA string `json:"character_a"`
				CharacterB string `json:"character_b"`
			}
			if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
				if payload.CharacterA != "" {
					into[payload.CharacterA] = struct{}{}
				}
				if payload.CharacterB != "" {
					into[payload.CharacterB] = struct{}{}
				}
			}
		default:
			var payload struct {
				FromCharacter   string `json:"from_character"`
				TowardCharacter string `json:"toward_character"`
			}
			if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
				if payload.FromCharacter != "" {
					into[payload.FromCharacter] = struct{}{}
				}
				if payload.TowardCharacter != "" {
					into[payload.TowardCharacter] = struct{}{}
				}
			}
		}
	case event.KindNarrativeDescription:
		var payload event.NarrativeDescriptionPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
			for _, name := range payload.Witnesses {
				into[name] = struct{}{}
			}
		}
	}
}

func sortedNames(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
