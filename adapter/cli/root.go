package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/tascade/pkg/observability"
)

var (
	cfgFile  string
	verbose  bool
	userFlag string
	logger   *slog.Logger
)

type commandTimerKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tascade",
	Short: "Tascade - Intelligent task recommendations",
	Long: `Tascade recommends what to work on next.

It scores your pending tasks against priorities, deadlines, your
preferences, and your completion history, and balances the result
against your configured workload capacity.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		// Correlation and request IDs travel on the command context so
		// the logging handler picks them up on every record.
		ctx := observability.NewRequestContext(cmd.Context(), "")
		ctx = observability.WithUserID(ctx, UserID())
		ctx = observability.WithOperation(ctx, cmd.CommandPath())
		ctx = context.WithValue(ctx, commandTimerKey{}, observability.StartTimer(cmd.CommandPath()))
		cmd.SetContext(ctx)

		logger.InfoContext(ctx, "command start",
			"command", cmd.CommandPath(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		ctx := cmd.Context()
		timer, ok := ctx.Value(commandTimerKey{}).(*observability.Timer)
		if !ok {
			return
		}
		logger.InfoContext(ctx, "command end",
			"command", cmd.CommandPath(),
			"duration_ms", timer.Elapsed().Milliseconds(),
		)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "act as this user instead of the configured one")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "print results as JSON envelopes")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}
