package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	explainFiles    []string
	explainDir      string
	explainCommands []string
	explainAll      bool
)

var explainCmd = &cobra.Command{
	Use:   "explain <task-id>",
	Short: "Explain why a task scored the way it did",
	Long: `Explain a task's recommendation score.

Shows the composite score, the factors that contributed most, and a
plain-language summary. Pass the same working context flags you used
with recommend to reproduce a context-sensitive score.

Examples:
  tascade explain task-42
  tascade explain task-42 --file auth/login.go
  tascade explain task-42 --all`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		wctx := workingContextFromFlags(explainFiles, explainDir, explainCommands)
		result := app.Service.ExplainRecommendation(cmd.Context(), UserID(), args[0], wctx)
		if !result.Success {
			return fmt.Errorf("explanation failed: %s", result.Error)
		}
		if OutputJSON(result) {
			return nil
		}

		explanation := result.Explanation
		fmt.Println(explanation.Text)
		fmt.Printf("\nOverall score: %.2f\n", explanation.OverallScore)

		if explainAll {
			fmt.Println("\nAll factors:")
			printFactorScores(explanation.AllFactors)
		} else {
			fmt.Println("\nTop factors:")
			for _, contribution := range explanation.TopFactors {
				fmt.Printf("   %-20s %.2f\n", contribution.Name, contribution.Score)
			}
		}

		return nil
	},
}

func init() {
	explainCmd.Flags().StringSliceVar(&explainFiles, "file", nil, "file you are currently working on (repeatable)")
	explainCmd.Flags().StringVar(&explainDir, "dir", "", "directory you are currently working in")
	explainCmd.Flags().StringSliceVar(&explainCommands, "command", nil, "recently run command (repeatable)")
	explainCmd.Flags().BoolVar(&explainAll, "all", false, "show every factor, not just the top ones")

	rootCmd.AddCommand(explainCmd)
}
