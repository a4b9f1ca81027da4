package preference

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		if !clearForce {
			return fmt.Errorf("this removes every preference for %s; re-run with --force to confirm", cli.UserID())
		}

		result := app.Service.ClearPreferences(cmd.Context(), cli.UserID())
		if !result.Success {
			return fmt.Errorf("failed to clear preferences: %s", result.Error)
		}

		fmt.Println("All preferences cleared.")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "skip the confirmation")
}
