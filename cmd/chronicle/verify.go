package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var verifyConversation string

func verifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the log for sequence gaps and invalid stored events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verifyConversation == "" {
				return fmt.Errorf("--conversation is required")
			}
			store, _, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.VerifyLog(context.Background(), verifyConversation); err != nil {
				return err
			}
			cmd.Println("log ok")
			return nil
		},
	}
	cmd.Flags().StringVar(&verifyConversation, "conversation", "", "Conversation id")
	return cmd
}
