package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/flow"
	"github.com/marcus/daygrid/internal/logging"
	"github.com/marcus/daygrid/internal/prompt"
	"github.com/marcus/daygrid/internal/scheduler"
	"github.com/marcus/daygrid/internal/settings"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep standing surfaces up to date",
	Long: `Refresh the standing surface of every configured tracker shortly after
midnight (watch.refresh_cron) and whenever the store changes.

Use --once to refresh everything a single time and exit, for example
from an external cron job.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("once", false, "Refresh every tracker once and exit")
	rootCmd.AddCommand(watchCmd)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func runWatch(cmd *cobra.Command, args []string) error {
	once, _ := cmd.Flags().GetBool("once")

	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = e.Close() }()
	log := logging.Component("watch")

	if once {
		n, err := e.refreshAll(cmdContext(cmd))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Refreshed %d trackers\n", n)
		return nil
	}

	ctx, cancel := context.WithCancel(cmdContext(cmd))
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			fmt.Fprintln(cmd.ErrOrStderr(), "\ninterrupt received, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	refresh := func() {
		n, err := e.refreshAll(ctx)
		if err != nil {
			log.Err(err).Msg("refresh failed")
			return
		}
		log.Infof("refreshed %d trackers", n)
	}

	sched := scheduler.New()
	if err := sched.ScheduleCron(e.cfg.Watch.RefreshCron, refresh); err != nil {
		return err
	}
	if err := sched.Watch(e.db.Path(), refresh); err != nil {
		return err
	}
	sched.Schedule(time.Now(), refresh)

	fmt.Fprintf(cmd.OutOrStdout(), "--- Watching %s (Ctrl+C to exit) ---\n", e.db.Path())
	return sched.Run(ctx)
}

// refreshAll re-renders the standing surface of every tracker in the
// store and returns how many were written.
func (e *env) refreshAll(ctx context.Context) (int, error) {
	all, err := e.db.All()
	if err != nil {
		return 0, fmt.Errorf("reading store: %w", err)
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}

	n := 0
	for _, t := range settings.Discover(keys) {
		res, err := e.newFlow(t, prompt.NewScripted(), false).Run(ctx, flow.Background)
		if err != nil {
			return n, err
		}
		if res.Widget != nil {
			n++
		}
	}
	return n, nil
}
