package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/flow"
	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/settings"
	"github.com/marcus/daygrid/internal/widget"
)

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Show the countdown grid",
	Long: `Show a grid of days from install to a target date, elapsed days filled.

On first run in a terminal you are asked for a theme, a title and the
target date. Without a terminal, or with --background, nothing is asked
and the standing surface is refreshed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTracker(cmd, settings.Countdown)
	},
}

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Check in and show the habit grid",
	Long: `Show this month's grid of days for one habit, checked-in days filled.

In a terminal you can check in for today or change settings first.
Without a terminal, or with --background, the standing surface is
refreshed instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTracker(cmd, settings.Habit)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{countdownCmd, habitCmd} {
		addInstanceFlag(cmd)
		cmd.Flags().Bool("background", false, "Refresh the standing surface without prompting")
		rootCmd.AddCommand(cmd)
	}
}

func runMode(cmd *cobra.Command) flow.Mode {
	background, _ := cmd.Flags().GetBool("background")
	if background || !isInteractive() {
		return flow.Background
	}
	return flow.Foreground
}

// newFlow wires a tracker to the terminal prompter and display.
func (e *env) newFlow(t settings.Tracker, p prompt.Prompter, interactive bool) *flow.Flow {
	display := &flow.Display{
		Presenter:  widget.NewPresenter(widget.NewRenderer(nil), interactive),
		SurfaceDir: e.cfg.ExpandedSurfaceDir(),
	}
	return flow.New(e.settingsFor(t), p, display, e.layouts())
}

func runTracker(cmd *cobra.Command, kind settings.Kind) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	t := trackerFromFlags(cmd, kind)
	mode := runMode(cmd)
	f := e.newFlow(t, prompt.NewTUI(), mode == flow.Foreground)

	res, err := f.Run(cmdContext(cmd), mode)
	if err != nil {
		return err
	}
	if mode == flow.Background {
		if res.Widget == nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s is not configured yet; run it in a terminal first\n", t)
		}
		return nil
	}
	// Keep the standing surface in step with what was just shown.
	if res.Widget != nil {
		if _, err := e.newFlow(t, prompt.NewScripted(), false).Run(cmdContext(cmd), flow.Background); err != nil {
			return err
		}
	}
	return nil
}
