package main

import (
	"fmt"
	"os"

	"github.com/Farerworks/secondbrain-coach/internal/cli"
	"github.com/Farerworks/secondbrain-coach/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "secondbrain",
		Short: "Second brain coaching daemon and CLI",
		Long:  "Coaching assistant daemon for running the API server and managing notebook ingestion",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IngestCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
