package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/app"
	"github.com/example/cruisebot/internal/wire"
)

var archiveCmd = &cobra.Command{
	Use:   "archive [window-start]",
	Short: "Archive the active ledger for an event window (YYYY-MM-DD)",
	Long: `Snapshots every active carrier into history for the given window start
date, clears the active ledger, and suspends reconciliation until a new
data source is configured.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outcome, _ := cmd.Flags().GetString("outcome")

		if err := wire.LedgerService().Archive(context.Background(), args[0], outcome); err != nil {
			return err
		}

		fmt.Printf("%s Ledger archived for window %s\n",
			color.New(color.FgGreen).Sprint("✓"), args[0])
		fmt.Println("Reconciliation is suspended until 'cruisebot source set' runs.")
		return nil
	},
}

// ArchiveCmd returns the archive command.
func ArchiveCmd() *cobra.Command {
	archiveCmd.Flags().String("outcome", app.OutcomeHeld,
		fmt.Sprintf("Window outcome: %q or %q", app.OutcomeHeld, app.OutcomeNotHeld))
	return archiveCmd
}
