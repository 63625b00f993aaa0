package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/wire"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Inspect the event window",
}

var eventStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the event window state",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := wire.LedgerService().EventStatus(context.Background())
		if err != nil {
			return err
		}

		if status.Active {
			fmt.Printf("Event: %s", color.New(color.FgGreen).Sprint("ACTIVE"))
			if !status.FlippedAt.IsZero() {
				fmt.Printf(" since %s", status.FlippedAt.Format("2006-01-02 15:04 MST"))
			}
			fmt.Println()
			fmt.Printf("Estimated remaining: %s\n", status.Remaining.Round(time.Minute))
		} else {
			fmt.Printf("Event: %s\n", color.New(color.FgRed).Sprint("inactive"))
		}
		if status.UpdatesSuspended {
			fmt.Println(color.New(color.FgYellow).Sprint("Ledger updates are suspended"))
		}
		return nil
	},
}

var eventRemainingCmd = &cobra.Command{
	Use:   "remaining",
	Short: "Estimate time left in the active window",
	RunE: func(cmd *cobra.Command, args []string) error {
		left, err := wire.LedgerService().RemainingDuration(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("About %s left in the window\n", left.Round(time.Minute))
		return nil
	},
}

// EventCmd returns the event command tree.
func EventCmd() *cobra.Command {
	eventCmd.AddCommand(eventStatusCmd)
	eventCmd.AddCommand(eventRemainingCmd)
	return eventCmd
}
