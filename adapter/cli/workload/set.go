package workload

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/adapter/cli"
	"github.com/felixgeelhaar/tascade/internal/recommendation/domain"
)

var (
	setDailyMinutes  int
	setMaxConcurrent int
	setTaskSize      string
	setCategoryLimit []string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Set workload capacity settings",
	Long: `Set your workload capacity. Omitted values keep their defaults.

Examples:
  tascade workload set --daily-minutes 360
  tascade workload set --max-concurrent 3 --task-size small
  tascade workload set --category-limit backend=2 --category-limit docs=1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Service == nil {
			return fmt.Errorf("application not initialized")
		}

		limits, err := parseCategoryLimits(setCategoryLimit)
		if err != nil {
			return err
		}

		settings := domain.WorkloadSettings{
			UserID:               cli.UserID(),
			DailyCapacityMinutes: setDailyMinutes,
			MaxConcurrentTasks:   setMaxConcurrent,
			PreferredTaskSize:    setTaskSize,
			CategoryLimits:       limits,
		}

		result := app.Service.SetWorkloadSettings(cmd.Context(), settings)
		if !result.Success {
			return fmt.Errorf("failed to save workload settings: %s", result.Error)
		}
		if cli.OutputJSON(result) {
			return nil
		}

		fmt.Println("Workload settings saved.")
		printSettings(result.Settings)
		return nil
	},
}

func parseCategoryLimits(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	limits := make(map[string]int, len(pairs))
	for _, pair := range pairs {
		category, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --category-limit %q, expected category=count", pair)
		}
		count, err := strconv.Atoi(value)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("invalid --category-limit count in %q", pair)
		}
		limits[category] = count
	}
	return limits, nil
}

func printSettings(settings *domain.WorkloadSettings) {
	fmt.Printf("  Daily capacity:   %d min\n", settings.DailyCapacityMinutes)
	fmt.Printf("  Max concurrent:   %d tasks\n", settings.MaxConcurrentTasks)
	fmt.Printf("  Preferred size:   %s\n", settings.PreferredTaskSize)
	if len(settings.CategoryLimits) > 0 {
		fmt.Println("  Category limits:")
		for category, limit := range settings.CategoryLimits {
			fmt.Printf("    %-16s %d\n", category, limit)
		}
	}
}

func init() {
	setCmd.Flags().IntVar(&setDailyMinutes, "daily-minutes", 0, "daily capacity in minutes")
	setCmd.Flags().IntVar(&setMaxConcurrent, "max-concurrent", 0, "max concurrent tasks")
	setCmd.Flags().StringVar(&setTaskSize, "task-size", "", "preferred task size (small, medium, large)")
	setCmd.Flags().StringArrayVar(&setCategoryLimit, "category-limit", nil, "per-category task limit as category=count (repeatable)")
}
