package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/wire"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage the spreadsheet data source",
}

var sourceSetCmd = &cobra.Command{
	Use:   "set [spreadsheet-id]",
	Short: "Point at a new spreadsheet and run the seeding pass",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		worksheet, _ := cmd.Flags().GetString("worksheet")
		submission, _ := cmd.Flags().GetString("submission-url")

		result, err := wire.LedgerService().ConfigureSource(context.Background(), primary.SourcePointer{
			SpreadsheetID: args[0],
			Worksheet:     worksheet,
			SubmissionURL: submission,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s Source configured, seeded %d carrier(s)\n",
			color.New(color.FgGreen).Sprint("✓"), result.Added)
		return nil
	},
}

var sourceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configured data source",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		ptr, ok, err := wire.LedgerService().GetSource(ctx)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No data source configured")
			return nil
		}

		fmt.Printf("Spreadsheet: %s\n", ptr.SpreadsheetID)
		fmt.Printf("Worksheet:   %s\n", ptr.Worksheet)
		if ptr.SubmissionURL != "" {
			fmt.Printf("Submissions: %s\n", ptr.SubmissionURL)
		}

		status, err := wire.LedgerService().EventStatus(ctx)
		if err != nil {
			return err
		}
		if status.UpdatesSuspended {
			fmt.Println(color.New(color.FgYellow).Sprint("Updates are suspended (ledger was archived)"))
		}
		return nil
	},
}

// SourceCmd returns the source command tree.
func SourceCmd() *cobra.Command {
	sourceSetCmd.Flags().StringP("worksheet", "w", "", "Worksheet (tab) name")
	sourceSetCmd.Flags().String("submission-url", "", "Form URL participants submit through")
	sourceSetCmd.MarkFlagRequired("worksheet")

	sourceCmd.AddCommand(sourceSetCmd)
	sourceCmd.AddCommand(sourceShowCmd)
	return sourceCmd
}
