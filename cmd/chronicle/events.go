package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	eventsConversation string
	eventsAfterSeq     uint64
	eventsLimit        int
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect and edit the event log",
	}
	cmd.PersistentFlags().StringVar(&eventsConversation, "conversation", "", "Conversation id")
	cmd.AddCommand(eventsListCmd())
	cmd.AddCommand(eventsDeleteCmd())
	return cmd
}

func eventsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored events, tombstoned ones included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			events, err := store.ListEvents(ctx, eventsConversation, eventsAfterSeq, eventsLimit)
			if err != nil {
				return err
			}
			for _, evt := range events {
				cmd.Printf("seq=%d id=%s msg=%d swipe=%d %s:%s %s\n",
					evt.Seq, evt.ID, evt.Source.MessageIndex, evt.Source.SwipeIndex,
					evt.Kind, evt.Subkind, evt.PayloadJSON)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&eventsAfterSeq, "after", 0, "Only list events after this sequence")
	cmd.Flags().IntVar(&eventsLimit, "limit", 100, "Maximum events to list")
	return cmd
}

func eventsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Soft-delete an event; the stored row is kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if eventsConversation == "" {
				return fmt.Errorf("--conversation is required")
			}
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SoftDeleteEvent(context.Background(), eventsConversation, args[0]); err != nil {
				return err
			}
			cmd.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}
