package main

import (
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the event database and apply migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			cmd.Printf("initialized %s\n", cfg.DatabasePath)
			return nil
		},
	}
}
