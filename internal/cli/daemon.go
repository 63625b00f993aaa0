package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/wire"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the background loops until interrupted",
	Long: `Runs the event-state poll, the periodic reconciliation pass, and the
idle-reminder check on their configured intervals. Stops cleanly on
SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err := wire.Scheduler().Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// DaemonCmd returns the daemon command.
func DaemonCmd() *cobra.Command {
	return daemonCmd
}
