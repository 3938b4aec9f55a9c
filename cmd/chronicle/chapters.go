package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talekeeper/chronicle/internal/chapter"
)

var chaptersConversation string

func chaptersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chapters",
		Short: "Segment the active events into chapters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if chaptersConversation == "" {
				return fmt.Errorf("--conversation is required")
			}
			ctx := context.Background()
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.ListActiveEvents(ctx, chaptersConversation, 0)
			if err != nil {
				return err
			}
			chapters := chapter.Segment(events)

			out, err := json.MarshalIndent(chapters, "", "  ")
			if err != nil {
				return fmt.Errorf("encode chapters: %w", err)
			}
			cmd.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&chaptersConversation, "conversation", "", "Conversation id")
	return cmd
}
