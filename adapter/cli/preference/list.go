package preference

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all preferences",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.GetPreferences(cmd.Context(), cli.UserID())
		if !result.Success {
			return fmt.Errorf("failed to list preferences: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		if len(result.Preferences) == 0 {
			fmt.Println("No preferences set.")
			return nil
		}

		fmt.Printf("Preferences (%d):\n", len(result.Preferences))
		fmt.Println(strings.Repeat("-", 60))
		for _, pref := range result.Preferences {
			fmt.Printf("%-28s %v (weight %.2f)\n", pref.Type, pref.Value, pref.Weight)
		}
		return nil
	},
}
