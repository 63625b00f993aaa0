package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/cruisebot/internal/config"
	"github.com/example/cruisebot/internal/db"
)

const configTemplate = `# cruisebot configuration. Every key is optional; these are the defaults.
# db_path: %s
# dump_path: %s
# log_level: info
# sheet_url_template: "https://docs.google.com/spreadsheets/d/%%s/gviz/tq?tqx=out:csv&sheet=%%s"
# webhook_url: ""
# event_state_url: ""
# event_duration: 48h
# reminder_after: 20m
# confirm_timeout: 30s
# poll_interval: 1m
# reconcile_every: 5m
# reminder_every: 1m
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config directory and initialize the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}

		cfgPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			content := fmt.Sprintf(configTemplate,
				filepath.Join(dir, "cruisebot.db"),
				filepath.Join(dir, "ledger_dump.json"))
			if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Printf("Wrote %s\n", cfgPath)
		}

		cfg, err := config.Load(dir)
		if err != nil {
			return err
		}
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer database.Close()

		fmt.Printf("%s Database ready at %s\n",
			color.New(color.FgGreen).Sprint("✓"), cfg.DBPath)
		return nil
	},
}

// InitCmd returns the init command.
func InitCmd() *cobra.Command {
	return initCmd
}
