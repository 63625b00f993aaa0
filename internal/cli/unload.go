package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/wire"
)

var unloadCmd = &cobra.Command{
	Use:   "unload",
	Short: "Drive the unload lifecycle",
}

var unloadStartCmd = &cobra.Command{
	Use:   "start [carrier-id]",
	Short: "Open an unload cycle (consumes one run slot)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		operator, _ := cmd.Flags().GetString("operator")
		opens, _ := cmd.Flags().GetString("opens")

		req := primary.StartUnloadRequest{
			CarrierID: args[0],
			Location:  location,
			Operator:  operator,
		}
		if opens != "" {
			t, err := time.Parse(time.RFC3339, opens)
			if err != nil {
				return fmt.Errorf("--opens must be an RFC3339 time: %w", err)
			}
			req.MarketOpensAt = t
		}

		c, err := wire.LedgerService().StartUnload(context.Background(), req)
		if err != nil {
			return err
		}

		fmt.Printf("%s Unload started for %s (%s), run %d of %d\n",
			color.New(color.FgGreen).Sprint("✓"), c.Name, c.ID, c.TotalUnloads, c.RunCount)
		if !c.MarketOpensAt.IsZero() {
			fmt.Printf("  market opens %s\n", c.MarketOpensAt.Format("2006-01-02 15:04 MST"))
		}
		return nil
	},
}

var unloadCompleteCmd = &cobra.Command{
	Use:   "complete [carrier-id]",
	Short: "Complete the open unload cycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := wire.LedgerService().CompleteUnload(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s Unload complete for %s (%s) in %s\n",
			color.New(color.FgGreen).Sprint("✓"),
			result.Carrier.Name, result.Carrier.ID, result.Duration.Round(time.Second))
		return nil
	},
}

var unloadForceCmd = &cobra.Command{
	Use:   "force [carrier-id]",
	Short: "Force-complete an unload, bypassing the lifecycle guards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := wire.LedgerService().ForceComplete(context.Background(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s Force-completed %s (%s), %d of %d runs recorded\n",
			color.New(color.FgYellow).Sprint("!"), c.Name, c.ID, c.TotalUnloads, c.RunCount)
		return nil
	},
}

// UnloadCmd returns the unload command tree.
func UnloadCmd() *cobra.Command {
	unloadStartCmd.Flags().StringP("location", "l", "", "Where the carrier is unloading")
	unloadStartCmd.Flags().StringP("operator", "o", "", "Who is running the unload")
	unloadStartCmd.Flags().String("opens", "", "Market open time (RFC3339) for a timed unload")

	unloadCmd.AddCommand(unloadStartCmd)
	unloadCmd.AddCommand(unloadCompleteCmd)
	unloadCmd.AddCommand(unloadForceCmd)
	return unloadCmd
}
