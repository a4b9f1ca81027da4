package workload

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show workload capacity settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.GetWorkloadSettings(cmd.Context(), cli.UserID())
		if !result.Success {
			return fmt.Errorf("failed to load workload settings: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		fmt.Printf("Workload settings for %s:\n", cli.UserID())
		printSettings(result.Settings)
		return nil
	},
}
