package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talekeeper/chronicle/internal/projection"
)

var (
	stateConversation string
	stateUpToSeq      uint64
)

func stateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Project the narrative snapshot from the active events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if stateConversation == "" {
				return fmt.Errorf("--conversation is required")
			}
			ctx := context.Background()
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.ListActiveEvents(ctx, stateConversation, stateUpToSeq)
			if err != nil {
				return err
			}
			snapshot := projection.Project(events)

			out, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return fmt.Errorf("encode snapshot: %w", err)
			}
			cmd.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&stateConversation, "conversation", "", "Conversation id")
	cmd.Flags().Uint64Var(&stateUpToSeq, "seq", 0, "Project only events at or before this sequence (0 = all)")
	return cmd
}
