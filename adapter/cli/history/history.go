// Package history contains the completion history command group.
package history

import (
	"github.com/spf13/cobra"
)

// Cmd is the history command group
var Cmd = &cobra.Command{
	Use:   "history",
	Short: "Record completions and analyze performance",
	Long:  `Record task completions and mine the history for performance, patterns, and predictions.`,
}

func init() {
	Cmd.AddCommand(recordCmd)
	Cmd.AddCommand(performanceCmd)
	Cmd.AddCommand(patternsCmd)
	Cmd.AddCommand(predictCmd)
}
