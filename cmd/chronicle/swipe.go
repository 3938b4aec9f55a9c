package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	swipeConversation string
	swipeMessage      int
	swipeIndex        int
)

func swipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swipe",
		Short: "Select the active swipe for a message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if swipeConversation == "" {
				return fmt.Errorf("--conversation is required")
			}
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.SelectSwipe(context.Background(), swipeConversation, swipeMessage, swipeIndex); err != nil {
				return err
			}
			cmd.Printf("message %d now shows swipe %d\n", swipeMessage, swipeIndex)
			return nil
		},
	}
	cmd.Flags().StringVar(&swipeConversation, "conversation", "", "Conversation id")
	cmd.Flags().IntVar(&swipeMessage, "message", 0, "Message index")
	cmd.Flags().IntVar(&swipeIndex, "swipe", 0, "Swipe index to activate")
	return cmd
}
