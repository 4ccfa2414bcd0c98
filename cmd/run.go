// File: cmd/run.go
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"github.com/xkilldash9x/floatdock/internal/config"
	"github.com/xkilldash9x/floatdock/internal/observability"
	"github.com/xkilldash9x/floatdock/internal/terminal"
	"go.uber.org/zap"
)

// screenProvider creates an initialized screen. Tests inject a simulation
// screen here.
type screenProvider func() (tcell.Screen, error)

func defaultScreenProvider() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	return screen, nil
}

// newRunCmd creates the `run` command, which mounts the control in the terminal.
func newRunCmd(provider screenProvider) *cobra.Command {
	var (
		anchor string
		fps    int
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Mount the floating control in the terminal",
		Long: `Draws the control in the bottom-right corner of the terminal. Drag it with
the mouse; on release it glides to the nearest side edge. Clicking it toggles a
placeholder panel. Quit with q, Esc or Ctrl-C.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationOwnsTerminal: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := getConfigFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("anchor") {
				cfg.SetDockAnchor(anchor)
			}
			if cmd.Flags().Changed("fps") {
				cfg.SetTerminalMaxFPS(fps)
			}
			return runTerminal(cmd.Context(), observability.GetLogger(), cfg, provider)
		},
	}

	runCmd.Flags().StringVar(&anchor, "anchor", "bottom-right", "Corner the control starts in (top-left, top-right, bottom-left, bottom-right)")
	runCmd.Flags().IntVar(&fps, "fps", 60, "Maximum redraw rate")
	return runCmd
}

// runTerminal validates overrides and runs the terminal host until it quits.
func runTerminal(ctx context.Context, logger *zap.Logger, cfg config.Interface, provider screenProvider) error {
	dockCfg := cfg.Dock()
	if err := dockCfg.Validate(); err != nil {
		return fmt.Errorf("invalid dock settings: %w", err)
	}
	termCfg := cfg.Terminal()
	if err := termCfg.Validate(); err != nil {
		return fmt.Errorf("invalid terminal settings: %w", err)
	}

	screen, err := provider()
	if err != nil {
		return err
	}

	app := terminal.NewApp(screen, cfg, logger)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("terminal host failed: %w", err)
	}
	return nil
}
