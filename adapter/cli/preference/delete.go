package preference

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <type>",
	Short:   "Delete one preference",
	Aliases: []string{"rm"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		ptype, err := parseType(args[0])
		if err != nil {
			return err
		}

		result := app.Service.DeletePreference(cmd.Context(), cli.UserID(), ptype)
		if !result.Success {
			return fmt.Errorf("failed to delete preference: %s", result.Error)
		}

		fmt.Printf("Preference %s deleted.\n", ptype)
		return nil
	},
}
