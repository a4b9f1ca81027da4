package workload

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show how your pending tasks distribute",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.GetWorkloadMetrics(cmd.Context(), cli.UserID(), nil)
		if !result.Success {
			return fmt.Errorf("failed to compute metrics: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		metrics := result.Metrics
		fmt.Printf("Workload metrics for %s:\n", cli.UserID())
		fmt.Printf("  Tasks:           %d\n", metrics.TotalTasks)
		fmt.Printf("  Estimated total: %d min\n", metrics.TotalEstimatedMinutes)
		fmt.Printf("  Daily capacity:  %.0f%% used\n", metrics.WorkloadPercentage)

		printBalance("By category", metrics.CategoryBalance)
		printBalance("By priority", metrics.PriorityBalance)
		printBalance("By size", metrics.SizeBalance)
		return nil
	},
}

func printBalance(label string, balance map[string]float64) {
	if len(balance) == 0 {
		return
	}
	keys := make([]string, 0, len(balance))
	for key := range balance {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("\n%s:\n", label)
	for _, key := range keys {
		fmt.Printf("  %-16s %.0f%%\n", key, balance[key]*100)
	}
}
