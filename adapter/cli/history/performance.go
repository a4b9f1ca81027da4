package history

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
	"github.com/felixgeelhaar/tascade/internal/recommendation/application/services"
)

var performanceDays int

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Summarize your completion performance",
	Long: `Summarize estimation accuracy and completion time across your
history, grouped by category, type, priority, tag, and time of day.

Examples:
  tascade history performance
  tascade history performance --days 30`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.AnalyzeUserPerformance(cmd.Context(), cli.UserID(), performanceDays)
		if !result.Success {
			return fmt.Errorf("analysis failed: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		summary := result.Performance
		if summary.TaskCount == 0 {
			fmt.Println("No completions recorded yet.")
			return nil
		}

		fmt.Printf("Performance for %s:\n", summary.UserID)
		fmt.Printf("  Completions:      %d\n", summary.TaskCount)
		fmt.Printf("  Average accuracy: %.0f%%\n", summary.AverageAccuracy)

		printStats("By category", summary.ByCategory)
		printStats("By type", summary.ByType)
		printStats("By priority", summary.ByPriority)
		printStats("By time of day", summary.ByTimeOfDay)
		return nil
	},
}

func printStats(label string, stats map[string]services.AttributeStats) {
	keys := make([]string, 0, len(stats))
	for key, s := range stats {
		if s.Count > 0 {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return
	}
	sort.Strings(keys)

	fmt.Printf("\n%s:\n", label)
	for _, key := range keys {
		s := stats[key]
		fmt.Printf("  %-16s %d done, %.0f%% accuracy, %.0f min avg\n",
			key, s.Count, s.AverageAccuracy, s.AverageCompletionTime)
	}
}

func init() {
	performanceCmd.Flags().IntVar(&performanceDays, "days", 0, "only consider the last N days (0 = all)")
}
