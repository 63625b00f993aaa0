package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/ports/primary"
	"github.com/example/cruisebot/internal/wire"
)

var carrierCmd = &cobra.Command{
	Use:   "carrier",
	Short: "Inspect and manage ledger carriers",
}

var carrierListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active carriers",
	RunE: func(cmd *cobra.Command, args []string) error {
		carriers, err := wire.LedgerService().ListCarriers(context.Background())
		if err != nil {
			return err
		}

		if len(carriers) == 0 {
			fmt.Println("No carriers in the ledger")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tWINE\tRUNS\tUNLOADS\tSTATUS")
		for _, c := range carriers {
			wine := "?"
			if c.WineTotalKnown {
				wine = fmt.Sprintf("%d", c.WineTotal)
			}
			status := ""
			if c.Unloading() {
				status = color.New(color.FgCyan).Sprint("unloading")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				c.ID, c.Name, wine, c.RunCount, c.TotalUnloads, status)
		}
		w.Flush()

		fmt.Printf("\n%d carrier(s)\n", len(carriers))
		return nil
	},
}

var carrierShowCmd = &cobra.Command{
	Use:   "show [carrier-id]",
	Short: "Show one carrier in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := wire.LedgerService().GetCarrier(context.Background(), args[0])
		if err != nil {
			return err
		}

		printCarrier(c)
		return nil
	},
}

var carrierDeleteCmd = &cobra.Command{
	Use:   "delete [carrier-id]",
	Short: "Delete one carrier from the active ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := wire.LedgerService().DeleteCarrier(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Carrier deleted")
		return nil
	},
}

func printCarrier(c *primary.Carrier) {
	fmt.Printf("\nCarrier: %s (%s)\n", c.Name, c.ID)
	if c.WineTotalKnown {
		fmt.Printf("Wine total:   %d\n", c.WineTotal)
	} else {
		fmt.Printf("Wine total:   unknown\n")
	}
	fmt.Printf("Platform:     %s\n", c.Platform)
	if c.DiscordUsername != "" {
		fmt.Printf("Discord:      %s\n", c.DiscordUsername)
	}
	if c.Timezone != "" {
		fmt.Printf("Timezone:     %s\n", c.Timezone)
	}
	fmt.Printf("Runs:         %d signed up, %d unloaded\n", c.RunCount, c.TotalUnloads)
	if c.Unloading() {
		fmt.Printf("Status:       %s", color.New(color.FgCyan).Sprint("unloading"))
		if c.UnloadStartedBy != "" {
			fmt.Printf(" (started by %s)", c.UnloadStartedBy)
		}
		fmt.Println()
		if !c.MarketOpensAt.IsZero() {
			fmt.Printf("Market opens: %s\n", c.MarketOpensAt.Format("2006-01-02 15:04 MST"))
		}
	}
	fmt.Println()
}

// CarrierCmd returns the carrier command tree.
func CarrierCmd() *cobra.Command {
	carrierCmd.AddCommand(carrierListCmd)
	carrierCmd.AddCommand(carrierShowCmd)
	carrierCmd.AddCommand(carrierDeleteCmd)
	return carrierCmd
}
