package history

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
)

var predictCmd = &cobra.Command{
	Use:   "predict <task-id>",
	Short: "Predict how long a task will take",
	Long: `Predict a task's completion time from similar tasks in your
history, blended with the task's own estimate when it has one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		result := app.Service.PredictCompletionTime(cmd.Context(), cli.UserID(), args[0])
		if !result.Success {
			return fmt.Errorf("prediction failed: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		prediction := result.Prediction
		fmt.Printf("Predicted time for %s: %d min\n", prediction.TaskID, prediction.PredictedMinutes)
		fmt.Printf("  Confidence: %.0f%%\n", prediction.Confidence*100)
		fmt.Printf("  Based on:   %s\n", prediction.Basis)
		if prediction.SimilarTasks > 0 {
			fmt.Printf("  Similar tasks considered: %d\n", prediction.SimilarTasks)
		}
		return nil
	},
}
