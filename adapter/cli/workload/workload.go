// Package workload contains the workload command group.
package workload

import (
	"github.com/spf13/cobra"
)

// Cmd is the workload command group
var Cmd = &cobra.Command{
	Use:   "workload",
	Short: "Manage workload capacity and balancing",
	Long:  `Configure your capacity and see how your pending tasks fit into it.`,
}

func init() {
	Cmd.AddCommand(setCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(balanceCmd)
	Cmd.AddCommand(metricsCmd)
	Cmd.AddCommand(optimalCmd)
}
