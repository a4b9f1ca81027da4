package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var (
	recordMinutes  int
	recordEstimate int
)

var recordCmd = &cobra.Command{
	Use:   "record <task-id>",
	Short: "Record a task completion",
	Long: `Record that you completed a task and how long it took.

The task's category, type, and tags are captured with the record so
later analysis can group by them. When --estimate is omitted, the
task's own estimate is used.

Examples:
  tascade history record task-42 --minutes 45
  tascade history record task-42 --minutes 45 --estimate 30`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.RecordCompletion(cmd.Context(), cli.UserID(), args[0], recordMinutes, recordEstimate)
		if !result.Success {
			return fmt.Errorf("failed to record completion: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		record := result.Record
		fmt.Println("Completion recorded.")
		fmt.Printf("  Task:     %s\n", record.TaskID)
		fmt.Printf("  Took:     %d min\n", record.CompletionMinutes)
		if record.EstimatedMinutes > 0 {
			fmt.Printf("  Estimate: %d min\n", record.EstimatedMinutes)
			fmt.Printf("  Accuracy: %.0f%%\n", record.Accuracy)
		}
		return nil
	},
}

func init() {
	recordCmd.Flags().IntVarP(&recordMinutes, "minutes", "m", 0, "actual completion time in minutes")
	recordCmd.Flags().IntVarP(&recordEstimate, "estimate", "e", 0, "estimate in minutes (defaults to the task's own)")
}
