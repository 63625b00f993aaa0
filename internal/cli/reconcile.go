package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/wire"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Fetch the spreadsheet and merge it into the ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := wire.LedgerService().Reconcile(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%s Reconciled: %d added, %d updated, %d unchanged\n",
			color.New(color.FgGreen).Sprint("✓"),
			result.Added, result.Updated, result.Unchanged)

		for _, c := range result.NewCarriers {
			fmt.Printf("  + %s (%s)\n", c.Name, c.ID)
		}
		if len(result.Orphans) > 0 {
			fmt.Printf("%s %d carrier(s) in the ledger but not in the sheet:\n",
				color.New(color.FgYellow).Sprint("!"), len(result.Orphans))
			for _, c := range result.Orphans {
				fmt.Printf("  - %s (%s)\n", c.Name, c.ID)
			}
		}
		return nil
	},
}

// ReconcileCmd returns the reconcile command.
func ReconcileCmd() *cobra.Command {
	return reconcileCmd
}
