package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/talekeeper/chronicle/internal/event"
	"github.com/talekeeper/chronicle/internal/platform/id"
)

// eventBatch is the YAML document accepted by the ingest command: one
// conversation and its extracted events in order.
type eventBatch struct {
	Conversation string       `yaml:"conversation"`
	Events       []batchEvent `yaml:"events"`
}

type batchEvent struct {
	Kind         string         `yaml:"kind"`
	Subkind      string         `yaml:"subkind,omitempty"`
	MessageIndex int            `yaml:"message_index"`
	SwipeIndex   int            `yaml:"swipe_index,omitempty"`
	Payload      map[string]any `yaml:"payload"`
}

func ingestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <batch.yaml>",
		Short: "Append a YAML batch of extracted events to the log",
		Args:  cobra.ExactArgs(1),
		RunE:  runIngest,
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read batch: %w", err)
	}
	var batch eventBatch
	if err := yaml.Unmarshal(raw, &batch); err != nil {
		return fmt.Errorf("parse batch: %w", err)
	}
	if batch.Conversation == "" {
		return fmt.Errorf("batch is missing a conversation id")
	}

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	for i, item := range batch.Events {
		payload, err := json.Marshal(item.Payload)
		if err != nil {
			return fmt.Errorf("encode payload for event %d: %w", i, err)
		}
		eventID, err := id.NewID()
		if err != nil {
			return fmt.Errorf("generate event id: %w", err)
		}
		appended, err := store.AppendEvent(ctx, event.Event{
			ID:             eventID,
			ConversationID: batch.Conversation,
			Source: event.Source{
				MessageIndex: item.MessageIndex,
				SwipeIndex:   item.SwipeIndex,
			},
			Kind:        event.Kind(item.Kind),
			Subkind:     event.Subkind(item.Subkind),
			PayloadJSON: payload,
		})
		if err != nil {
			return fmt.Errorf("append event %d (%s:%s): %w", i, item.Kind, item.Subkind, err)
		}
		cmd.Printf("appended seq=%d %s:%s id=%s\n", appended.Seq, appended.Kind, appended.Subkind, appended.ID)
	}
	return nil
}
