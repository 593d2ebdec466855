package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "netanomics",
	Short:         "MPLADS expenditure auditor",
	Long:          "Ingests MPLADS utilisation reports, audits the extracted projects and serves the results over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command line. Errors are printed here so main only sets
// the exit code.
func Execute(ctx context.Context) error {
	rootCmd.SetContext(ctx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, processCmd, auditCmd, emailPreviewCmd)
}
