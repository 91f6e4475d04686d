package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/flow"
	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/surface"
)

var settingsCmd = &cobra.Command{
	Use:       "settings countdown|habit",
	Short:     "Change the theme, label or dates of a tracker",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"countdown", "habit"},
	RunE:      runSettings,
}

func init() {
	addInstanceFlag(settingsCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettings(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args)
	if err != nil {
		return err
	}
	if !isInteractive() {
		return fmt.Errorf("settings needs a terminal")
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	t := trackerFromFlags(cmd, kind)
	action, ok := e.newFlow(t, prompt.NewTUI(), true).SettingsMenu(cmdContext(cmd))
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
		return nil
	}

	if action == flow.ResetAll {
		if err := surface.Remove(e.cfg.ExpandedSurfaceDir(), t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s reset.\n", t)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s done.\n", t, action)
	_, err = e.newFlow(t, prompt.NewScripted(), false).Run(cmdContext(cmd), flow.Background)
	return err
}
