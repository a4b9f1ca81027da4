package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/internal/recommendation/application/services"
)

var (
	recommendLimit    int
	recommendFiles    []string
	recommendDir      string
	recommendCommands []string
	recommendFactors  bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend what to work on next",
	Long: `Score your pending tasks and show the best candidates.

The ranking combines task priority, deadline urgency, unblocked
dependencies, your preferences, your completion history, and your
current workload. Pass your working context to boost tasks related
to what you are doing right now.

Examples:
  tascade recommend
  tascade recommend --limit 3
  tascade recommend --file auth/login.go --dir auth
  tascade recommend --command "go test ./auth/..." --factors`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		wctx := workingContextFromFlags(recommendFiles, recommendDir, recommendCommands)
		result := app.Service.RecommendTasks(cmd.Context(), UserID(), nil, wctx, recommendLimit)
		if !result.Success {
			return fmt.Errorf("recommendation failed: %s", result.Error)
		}
		if OutputJSON(result) {
			return nil
		}

		if len(result.Recommendations) == 0 {
			fmt.Println("No pending tasks to recommend.")
			return nil
		}

		fmt.Printf("Recommended tasks for %s (%d):\n", result.UserID, len(result.Recommendations))
		fmt.Println(strings.Repeat("-", 60))

		for i, rec := range result.Recommendations {
			title := rec.Task.Title
			if title == "" {
				title = rec.Task.ID
			}
			fmt.Printf("%d. %s %s (score %.2f)\n", i+1, title, priorityBadge(rec.Task.NormalizedPriority()), rec.Score)
			fmt.Printf("   ID: %s\n", rec.Task.ID)
			if rec.Task.EstimatedTime > 0 {
				fmt.Printf("   Estimate: %d min\n", rec.Task.EstimatedTime)
			}
			if rec.Task.DueDate != nil {
				fmt.Printf("   Due: %s\n", rec.Task.DueDate.Format("2006-01-02"))
			}
			if recommendFactors {
				printFactorScores(rec.FactorScores)
			}
			fmt.Println()
		}

		return nil
	},
}

func workingContextFromFlags(files []string, dir string, commands []string) *services.WorkingContext {
	if len(files) == 0 && dir == "" && len(commands) == 0 {
		return nil
	}
	return &services.WorkingContext{
		CurrentFiles:     files,
		CurrentDirectory: dir,
		RecentCommands:   commands,
	}
}

func printFactorScores(scores map[string]float64) {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("   %-20s %.2f\n", name, scores[name])
	}
}

func priorityBadge(priority string) string {
	switch priority {
	case "critical":
		return "(!!!)"
	case "high":
		return "(!)"
	case "medium":
		return "(~)"
	case "low":
		return "(.)"
	default:
		return ""
	}
}

func init() {
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 0, "max number of recommendations (0 = default)")
	recommendCmd.Flags().StringSliceVar(&recommendFiles, "file", nil, "file you are currently working on (repeatable)")
	recommendCmd.Flags().StringVar(&recommendDir, "dir", "", "directory you are currently working in")
	recommendCmd.Flags().StringSliceVar(&recommendCommands, "command", nil, "recently run command (repeatable)")
	recommendCmd.Flags().BoolVar(&recommendFactors, "factors", false, "show the per-factor score breakdown")

	rootCmd.AddCommand(recommendCmd)
}
