// File: cmd/simulate.go
package cmd

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/floatdock/internal/config"
	"github.com/xkilldash9x/floatdock/internal/dock"
	"github.com/xkilldash9x/floatdock/internal/observability"
	"github.com/xkilldash9x/floatdock/internal/replay"
	"go.uber.org/zap"
)

// newSimulateCmd creates the `simulate` command, which replays a recorded
// pointer trace and prints the resulting position stream.
func newSimulateCmd() *cobra.Command {
	var (
		outputPath string
		summary    bool
	)

	simulateCmd := &cobra.Command{
		Use:   "simulate <trace.json>",
		Short: "Replay a pointer trace against the engine and report every position write",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outputPath != "" {
				path, err := homedir.Expand(outputPath)
				if err != nil {
					return fmt.Errorf("error expanding output path: %w", err)
				}
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer f.Close()
				out = f
			}

			return runSimulate(observability.GetLogger(), cfg, args[0], out, summary)
		},
	}

	simulateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the report to a file instead of stdout")
	simulateCmd.Flags().BoolVar(&summary, "summary", false, "Omit the position stream from the report")
	return simulateCmd
}

// runSimulate loads the trace, replays it and writes the JSON report.
func runSimulate(logger *zap.Logger, cfg config.Interface, tracePath string, out io.Writer, summary bool) error {
	trace, err := replay.Load(tracePath)
	if err != nil {
		return err
	}

	runner := replay.NewRunner(dock.FromSettings(cfg.Dock()), logger)
	report, err := runner.Run(trace)
	if err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	logger.Debug("Replay finished",
		zap.String("trace", tracePath),
		zap.Int("writes", len(report.Writes)),
		zap.Int("activations", len(report.Activations)),
		zap.Float64("final_x", report.Final.X),
		zap.Float64("final_y", report.Final.Y))

	if summary {
		report.Writes = nil
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if _, err := fmt.Fprintln(out, string(data)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
