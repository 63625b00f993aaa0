package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/cli"
	"github.com/example/cruisebot/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "cruisebot",
		Short:   "cruisebot - carrier ledger for the wine cruise",
		Version: version.String(),
		Long: `cruisebot tracks the carriers signed up for the seasonal wine cruise:
it reconciles the sign-up spreadsheet into a local ledger, drives the
unload lifecycle, and archives each event window into history.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ReconcileCmd())
	rootCmd.AddCommand(cli.CarrierCmd())
	rootCmd.AddCommand(cli.UnloadCmd())
	rootCmd.AddCommand(cli.ArchiveCmd())
	rootCmd.AddCommand(cli.SourceCmd())
	rootCmd.AddCommand(cli.EventCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.DaemonCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
