package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/flow"
	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/settings"
	"github.com/marcus/daygrid/internal/surface"
)

var resetCmd = &cobra.Command{
	Use:   "reset countdown|habit",
	Short: "Forget a tracker's settings",
	Long: `Delete every stored value of a tracker so the next run starts from
setup. With --data-only a habit keeps its theme and name and only loses
its check-ins.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"countdown", "habit"},
	RunE:      runReset,
}

func init() {
	addInstanceFlag(resetCmd)
	resetCmd.Flags().Bool("data-only", false, "Only clear habit check-ins")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args)
	if err != nil {
		return err
	}
	dataOnly, _ := cmd.Flags().GetBool("data-only")
	if dataOnly && kind != settings.Habit {
		return fmt.Errorf("--data-only only applies to habit trackers")
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	t := trackerFromFlags(cmd, kind)
	s := e.settingsFor(t)
	if dataOnly {
		s.ResetCompletions()
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared check-ins of %s.\n", t)
		_, err = e.newFlow(t, prompt.NewScripted(), false).Run(cmdContext(cmd), flow.Background)
		return err
	}

	s.Reset()
	if err := surface.Remove(e.cfg.ExpandedSurfaceDir(), t); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reset %s.\n", t)
	return nil
}
