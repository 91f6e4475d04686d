package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress and streaks",
	Long: `Display countdown progress and habit statistics for every tracker in
the store, or only for --instance. Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringP("instance", "i", "", "Only show trackers with this instance name")
	statsCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	instance, _ := cmd.Flags().GetString("instance")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()

	result, err := stats.New(e.db, nil).Compute(instance)
	if err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), result)
	}
	renderStatsHuman(cmd.OutOrStdout(), result)
	return nil
}

func renderStatsHuman(w io.Writer, r *stats.StatsResult) {
	if r.Empty() {
		fmt.Fprintln(w, "No trackers configured.")
		for _, t := range r.Unconfigured {
			fmt.Fprintf(w, "  %s has no target date yet\n", t)
		}
		return
	}

	if len(r.Countdowns) > 0 {
		fmt.Fprintln(w, "Countdowns")
		fmt.Fprintln(w, strings.Repeat("─", 40))
		for _, c := range r.Countdowns {
			fmt.Fprintf(w, "  %-20s D-%d  %d/%d days (%.0f%%)  target %s\n",
				c.Title, c.Remaining, c.Elapsed, c.TotalDays, c.Percent, c.Target)
		}
	}

	if len(r.Habits) > 0 {
		if len(r.Countdowns) > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "Habits")
		fmt.Fprintln(w, strings.Repeat("─", 40))
		for _, h := range r.Habits {
			today := " "
			if h.CheckedToday {
				today = "✓"
			}
			fmt.Fprintf(w, "  %s %-18s %d/%d this month (%.0f%%)  streak %d (best %d)  total %d\n",
				today, h.Name, h.ThisMonth, h.DaysInMonth, h.MonthRate, h.CurrentStreak, h.LongestStreak, h.Total)
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
