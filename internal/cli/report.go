package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/wire"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Manage pinned report messages",
}

var reportPinCmd = &cobra.Command{
	Use:   "pin [channel-id] [message-id]",
	Short: "Register a report message to refresh on ledger change",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.LedgerService().PinReport(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Report pinned")
		return nil
	},
}

var reportUnpinCmd = &cobra.Command{
	Use:   "unpin [channel-id] [message-id]",
	Short: "Remove a registered report message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.LedgerService().UnpinReport(context.Background(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("Report unpinned")
		return nil
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered report messages",
	RunE: func(cmd *cobra.Command, args []string) error {
		reports, err := wire.LedgerService().ListPinnedReports(context.Background())
		if err != nil {
			return err
		}
		if len(reports) == 0 {
			fmt.Println("No pinned reports")
			return nil
		}
		for _, r := range reports {
			fmt.Printf("%s / %s\n", r.ChannelID, r.MessageID)
		}
		return nil
	},
}

// ReportCmd returns the report command tree.
func ReportCmd() *cobra.Command {
	reportCmd.AddCommand(reportPinCmd)
	reportCmd.AddCommand(reportUnpinCmd)
	reportCmd.AddCommand(reportListCmd)
	return reportCmd
}
