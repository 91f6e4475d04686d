package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/surface"
	"github.com/marcus/daygrid/internal/widget"
)

var showCmd = &cobra.Command{
	Use:   "show countdown|habit",
	Short: "Print a tracker's standing surface",
	Long: `Print the last background render of a tracker. With --live the
widget is rendered from the store instead, in color when the terminal
supports it.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"countdown", "habit"},
	RunE:      runShow,
}

func init() {
	addInstanceFlag(showCmd)
	showCmd.Flags().Bool("live", false, "Render from the store instead of the standing surface")
	showCmd.Flags().Bool("json", false, "Print the widget tree as JSON")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	kind, err := kindArg(args)
	if err != nil {
		return err
	}
	live, _ := cmd.Flags().GetBool("live")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	t := trackerFromFlags(cmd, kind)
	out := cmd.OutOrStdout()

	if live || jsonOutput {
		w := e.newFlow(t, prompt.NewScripted(), false).Widget()
		if w == nil {
			return fmt.Errorf("%s is not configured yet", t)
		}
		if jsonOutput {
			return writeJSON(out, w)
		}
		fmt.Fprintln(out, widget.NewRenderer(nil).Render(w))
		return nil
	}

	text, err := surface.Read(e.cfg.ExpandedSurfaceDir(), t)
	if errors.Is(err, surface.ErrNoSurface) {
		return fmt.Errorf("%w; run \"daygrid %s --background\" first", err, kind)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(out, strings.TrimRight(text, "\n"))
	return nil
}
