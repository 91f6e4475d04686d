// Package commands implements the daygrid CLI commands using cobra.
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/marcus/daygrid/internal/config"
	"github.com/marcus/daygrid/internal/db"
	"github.com/marcus/daygrid/internal/logging"
	"github.com/marcus/daygrid/internal/settings"
)

var (
	// Version is set at build time
	Version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "daygrid",
	Short: "Countdown and habit day grids for the terminal",
	Long: `Daygrid draws calendar-like grids of days: a countdown to a target date
and single-habit check-in trackers for the current month.

Run a tracker in a terminal to set it up and see it. Run it with
--background (or from cron) to refresh its standing surface, which
"daygrid show" prints.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/daygrid/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Database path (overrides db_path)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

// isInteractive reports whether stdin and stdout are terminals. Override in tests.
var isInteractive = func() bool {
	return isTerminal(os.Stdout.Fd()) && isTerminal(os.Stdin.Fd())
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// env is what every command needs once flags are read.
type env struct {
	cfg *config.Config
	db  *db.DB
}

func (e *env) Close() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}

// openEnv loads config, initializes logging, applies --no-color and
// opens the database.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if err := initLogging(cfg, verbose); err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor || os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	database, err := db.Open(cfg.ExpandedDBPath())
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	logging.Component("cli").Debugf("%s using %s", cmd.Name(), database.Path())
	return &env{cfg: cfg, db: database}, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func initLogging(cfg *config.Config, verbose bool) error {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	return logging.Init(logging.Config{
		Level:         level,
		Path:          cfg.ExpandedLogPath(),
		Format:        cfg.Logging.Format,
		RetentionDays: cfg.Logging.RetentionDays,
	})
}

// addInstanceFlag registers --instance on cmd.
func addInstanceFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("instance", "i", settings.DefaultInstance, "Tracker instance name")
}

func trackerFromFlags(cmd *cobra.Command, kind settings.Kind) settings.Tracker {
	instance, _ := cmd.Flags().GetString("instance")
	if instance == "" {
		instance = settings.DefaultInstance
	}
	return settings.Tracker{Kind: kind, Instance: instance}
}

// kindArg parses the tracker kind positional argument.
func kindArg(args []string) (settings.Kind, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("missing tracker kind (countdown or habit)")
	}
	return settings.ParseKind(args[0])
}

func (e *env) settingsFor(t settings.Tracker) *settings.Settings {
	return settings.New(e.db, t, settings.WithLogger(logging.Component("settings")))
}

func (e *env) layouts() config.Layouts {
	return e.cfg.Layout
}
