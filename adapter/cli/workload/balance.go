package workload

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var balancePeriod time.Duration

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Select the tasks that fit your capacity",
	Long: `Select a subset of your pending tasks that fits the capacity
configured for the period. Higher-weighted priorities are admitted
first; tasks that would overflow the remaining capacity are skipped,
not queued.

Examples:
  tascade workload balance
  tascade workload balance --period 8h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.BalanceWorkload(cmd.Context(), cli.UserID(), nil, balancePeriod)
		if !result.Success {
			return fmt.Errorf("balancing failed: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		if len(result.Balanced) == 0 {
			fmt.Println("No tasks fit the configured capacity.")
			return nil
		}

		fmt.Printf("Balanced workload (%d tasks, %s period):\n", len(result.Balanced), balancePeriod)
		fmt.Println(strings.Repeat("-", 60))
		total := 0
		for i, task := range result.Balanced {
			title := task.Title
			if title == "" {
				title = task.ID
			}
			fmt.Printf("%d. %s\n", i+1, title)
			fmt.Printf("   ID: %s\n", task.ID)
			if task.EstimatedTime > 0 {
				fmt.Printf("   Estimate: %d min\n", task.EstimatedTime)
				total += task.EstimatedTime
			}
		}
		if total > 0 {
			fmt.Printf("\nTotal estimated: %d min\n", total)
		}
		return nil
	},
}

func init() {
	balanceCmd.Flags().DurationVar(&balancePeriod, "period", 24*time.Hour, "planning period")
}
