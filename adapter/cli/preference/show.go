package preference

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var showCmd = &cobra.Command{
	Use:   "show <type>",
	Short: "Show one preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		ptype, err := parseType(args[0])
		if err != nil {
			return err
		}

		result := app.Service.GetPreference(cmd.Context(), cli.UserID(), ptype)
		if !result.Success {
			return fmt.Errorf("%s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		pref := result.Preference
		fmt.Printf("Type:    %s\n", pref.Type)
		fmt.Printf("Value:   %v\n", pref.Value)
		fmt.Printf("Weight:  %.2f\n", pref.Weight)
		fmt.Printf("Updated: %s\n", pref.UpdatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}
