package preference

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var (
	setWeight float64
	setList   bool
)

var setCmd = &cobra.Command{
	Use:   "set <type> <value>",
	Short: "Set a preference",
	Long: `Set a preference, overwriting any existing preference of the same type.

Use --list for preferences that hold multiple values, such as learning
interests; the value is then split on commas.

Examples:
  tascade preference set tag backend
  tascade preference set priority high --weight 0.8
  tascade preference set learning rust,distributed-systems --list
  tascade preference set collaboration solo`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		ptype, err := parseType(args[0])
		if err != nil {
			return err
		}

		var value any = args[1]
		if setList {
			parts := strings.Split(args[1], ",")
			values := make([]string, 0, len(parts))
			for _, part := range parts {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					values = append(values, trimmed)
				}
			}
			value = values
		}

		result := app.Service.SetPreference(cmd.Context(), cli.UserID(), ptype, value, setWeight)
		if !result.Success {
			return fmt.Errorf("failed to set preference: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		fmt.Println("Preference saved.")
		fmt.Printf("  Type:   %s\n", result.Preference.Type)
		fmt.Printf("  Value:  %v\n", result.Preference.Value)
		fmt.Printf("  Weight: %.2f\n", result.Preference.Weight)
		return nil
	},
}

func init() {
	setCmd.Flags().Float64VarP(&setWeight, "weight", "w", 1.0, "how strongly this preference counts (0-1]")
	setCmd.Flags().BoolVar(&setList, "list", false, "treat the value as a comma-separated list")
}
