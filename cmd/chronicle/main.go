package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "chronicle",
		Short: "Event-sourced narrative state tracker",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.AddCommand(initCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(eventsCmd())
	root.AddCommand(swipeCmd())
	root.AddCommand(stateCmd())
	root.AddCommand(chaptersCmd())
	root.AddCommand(describeCmd())
	root.AddCommand(forecastCmd())
	root.AddCommand(verifyCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
