package workload

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var optimalPeriod time.Duration

var optimalCmd = &cobra.Command{
	Use:   "optimal",
	Short: "Estimate how many tasks fit the period",
	Long: `Estimate the optimal number of tasks for the period, based on your
capacity and the average completion time in your history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.GetOptimalTaskCount(cmd.Context(), cli.UserID(), optimalPeriod)
		if !result.Success {
			return fmt.Errorf("failed to estimate task count: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		fmt.Printf("Optimal task count for %s over %s: %d\n", cli.UserID(), optimalPeriod, result.TaskCount)
		return nil
	},
}

func init() {
	optimalCmd.Flags().DurationVar(&optimalPeriod, "period", 24*time.Hour, "planning period")
}
