package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talekeeper/chronicle/internal/chapter"
	"github.com/talekeeper/chronicle/internal/event"
	"github.com/talekeeper/chronicle/internal/generation"
	"github.com/talekeeper/chronicle/internal/platform/id"
	"github.com/talekeeper/chronicle/internal/ratelimit"
)

var (
	describeConversation string
	describeChapter      int
)

func describeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Generate a title and summary for a chapter and record it",
		Args:  cobra.NoArgs,
		RunE:  runDescribe,
	}
	cmd.Flags().StringVar(&describeConversation, "conversation", "", "Conversation id")
	cmd.Flags().IntVar(&describeChapter, "chapter", 0, "Chapter index to describe")
	return cmd
}

func runDescribe(cmd *cobra.Command, args []string) error {
	if describeConversation == "" {
		return fmt.Errorf("--conversation is required")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	store, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	events, err := store.ListActiveEvents(ctx, describeConversation, 0)
	if err != nil {
		return err
	}
	chapters := chapter.Segment(events)
	if describeChapter < 0 || describeChapter >= len(chapters) {
		return fmt.Errorf("chapter %d does not exist (log has %d)", describeChapter, len(chapters))
	}
	target := chapters[describeChapter]

	generator := generation.NewLimited(
		generation.NewOpenAIGenerator(cfg.GenerationAPIKey, cfg.GenerationModel, cfg.GenerationBaseURL),
		ratelimit.NewGenerationLimiter(cfg.MaxRequestsPerMinute),
	)

	content, err := generator.Generate(ctx, describePrompt(target, events), generation.Settings{MaxTokens: 300})
	if err != nil {
		return err
	}
	title, summary := splitDescription(content)

	payload, err := json.Marshal(event.ChapterDescribedPayload{
		ChapterIndex: target.Index,
		Title:        title,
		Summary:      summary,
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	messageIndex := 0
	if len(events) > 0 {
		messageIndex = events[len(events)-1].Source.MessageIndex
	}
	eventID, err := id.NewID()
	if err != nil {
		return fmt.Errorf("generate event id: %w", err)
	}
	appended, err := store.AppendEvent(ctx, event.Event{
		ID:             eventID,
		ConversationID: describeConversation,
		Source:         event.Source{MessageIndex: messageIndex},
		Kind:           event.KindChapter,
		Subkind:        event.SubkindChapterDescribed,
		PayloadJSON:    payload,
	})
	if err != nil {
		return err
	}
	cmd.Printf("chapter %d described as %q (seq=%d)\n", target.Index, title, appended.Seq)
	return nil
}

// describePrompt assembles the generation prompt from the chapter's events.
func describePrompt(target chapter.Chapter, events []event.Event) []generation.Message {
	var scene strings.Builder
	fmt.Fprintf(&scene, "Chapter %d", target.Index)
	if target.EndReason != "" {
		fmt.Fprintf(&scene, " (ended: %s)", target.EndReason)
	}
	scene.WriteString("\n")
	if len(target.Characters) > 0 {
		fmt.Fprintf(&scene, "Characters: %s\n", strings.Join(target.Characters, ", "))
	}
	if target.StartTime.Known {
		fmt.Fprintf(&scene, "From %s", target.StartTime.Moment.Format("2006-01-02 15:04"))
		if target.EndTime.Known {
			fmt.Fprintf(&scene, " to %s", target.EndTime.Moment.Format("2006-01-02 15:04"))
		}
		scene.WriteString("\n")
	}
	// Only quote scenes from the target chapter, tracking the chapter
	// counter the same way the segmenter does.
	index := 0
	for _, evt := range events {
		if evt.Kind == event.KindChapter {
			if evt.Subkind == event.SubkindChapterEnded {
				index++
			}
			continue
		}
		if index != target.Index || evt.Kind != event.KindNarrativeDescription {
			continue
		}
		var payload event.NarrativeDescriptionPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err == nil {
			fmt.Fprintf(&scene, "- %s\n", payload.Text)
		}
	}

	return []generation.Message{
		{
			Role: generation.RoleSystem,
			Content: "You summarize chapters of a role-play narrative. " +
				"Reply with the chapter title on the first line and a one-paragraph summary after it.",
		},
		{Role: generation.RoleUser, Content: scene.String()},
	}
}

// splitDescription separates the first line as the title and the remainder
// as the summary.
func splitDescription(content string) (title, summary string) {
	title, summary, found := strings.Cut(content, "\n")
	title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(title), "Title:"))
	if !found {
		return title, ""
	}
	return title, strings.TrimSpace(summary)
}
