package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/dates"
	"github.com/marcus/daygrid/internal/flow"
	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/settings"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Toggle a habit check-in without prompts",
	Long: `Toggle the check-in of a habit for today, or for --date.

Checking in a day that is already checked in removes it. The standing
surface is refreshed afterwards.`,
	Args: cobra.NoArgs,
	RunE: runCheckin,
}

func init() {
	addInstanceFlag(checkinCmd)
	checkinCmd.Flags().String("date", "", "Day to toggle (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(checkinCmd)
}

func runCheckin(cmd *cobra.Command, args []string) error {
	dateFlag, _ := cmd.Flags().GetString("date")
	var day time.Time
	if dateFlag != "" {
		d, err := dates.Parse(dateFlag)
		if err != nil {
			return err
		}
		day = d
	}

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	t := trackerFromFlags(cmd, settings.Habit)
	s := e.settingsFor(t)
	if day.IsZero() {
		day = s.Today()
	}

	removed := s.Toggle(day)
	msg := flow.AddedMessage
	if removed {
		msg = flow.RemovedMessage
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s (%s)\n", s.LabelOrDefault(), msg, dates.Format(day))

	_, err = e.newFlow(t, prompt.NewScripted(), false).Run(cmdContext(cmd), flow.Background)
	return err
}
