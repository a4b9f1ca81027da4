package history

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var patternsType string

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show behavioral completion patterns",
	Long: `Show when and how you complete tasks: preferred weekdays, times
of day, task sizes, and common type-to-type sequences.

Examples:
  tascade history patterns
  tascade history patterns --type bugfix`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.GetCompletionPatterns(cmd.Context(), cli.UserID(), patternsType)
		if !result.Success {
			return fmt.Errorf("pattern analysis failed: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		patterns := result.Patterns
		if patterns.TaskCount == 0 {
			fmt.Println("No completions recorded yet.")
			return nil
		}

		fmt.Printf("Completion patterns for %s (%d completions):\n", patterns.UserID, patterns.TaskCount)
		if len(patterns.DayOfWeek.Preferred) > 0 {
			fmt.Printf("  Preferred days:  %s\n", strings.Join(patterns.DayOfWeek.Preferred, ", "))
		}
		if len(patterns.TimeOfDay.Preferred) > 0 {
			fmt.Printf("  Preferred times: %s\n", strings.Join(patterns.TimeOfDay.Preferred, ", "))
		}
		if len(patterns.TaskSize.Preferred) > 0 {
			fmt.Printf("  Best task sizes: %s\n", strings.Join(patterns.TaskSize.Preferred, ", "))
		}

		if len(patterns.Sequential.Transitions) > 0 {
			fmt.Println("\nCommon sequences:")
			for from, targets := range patterns.Sequential.Transitions {
				for to, count := range targets {
					fmt.Printf("  %s -> %s (%dx)\n", from, to, count)
				}
			}
		}
		return nil
	},
}

func init() {
	patternsCmd.Flags().StringVar(&patternsType, "type", "", "only consider completions of this task type")
}
