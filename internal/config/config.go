// Package config loads daygrid configuration from YAML and the environment.
//
// Precedence is defaults < config file < DAYGRID_* environment variables.
// Nested keys map to variables with dots replaced by underscores, so
// layout.habit.widget_width is DAYGRID_LAYOUT_HABIT_WIDGET_WIDTH.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DAYGRID"

// Layout is the pixel geometry of one widget.
type Layout struct {
	Padding      int `mapstructure:"padding"`
	Spacing      int `mapstructure:"spacing"`
	Rows         int `mapstructure:"rows"`
	CornerRadius int `mapstructure:"corner_radius"`
	WidgetWidth  int `mapstructure:"widget_width"`
}

// Layouts holds one Layout per tracker kind.
type Layouts struct {
	Countdown Layout `mapstructure:"countdown"`
	Habit     Layout `mapstructure:"habit"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Path          string `mapstructure:"path"`
	Format        string `mapstructure:"format"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// WatchConfig controls the surface refresher.
type WatchConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
}

// Config holds all daygrid configuration.
type Config struct {
	DBPath     string        `mapstructure:"db_path"`
	SurfaceDir string        `mapstructure:"surface_dir"`
	Logging    LoggingConfig `mapstructure:"logging"`
	Layout     Layouts       `mapstructure:"layout"`
	Watch      WatchConfig   `mapstructure:"watch"`
}

// CountdownLayout matches an iPhone 13 mini medium widget.
var CountdownLayout = Layout{Padding: 8, Spacing: 3, Rows: 3, CornerRadius: 4, WidgetWidth: 342}

// HabitLayout is slightly wider than the countdown.
var HabitLayout = Layout{Padding: 8, Spacing: 3, Rows: 3, CornerRadius: 4, WidgetWidth: 364}

func dataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "daygrid")
}

// GlobalConfigPath returns ~/.config/daygrid/config.yaml.
func GlobalConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "daygrid", "config.yaml")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:     filepath.Join(dataDir(), "daygrid.db"),
		SurfaceDir: filepath.Join(dataDir(), "surface"),
		Logging: LoggingConfig{
			Level:         "info",
			Path:          filepath.Join(dataDir(), "logs"),
			Format:        "json",
			RetentionDays: 7,
		},
		Layout: Layouts{Countdown: CountdownLayout, Habit: HabitLayout},
		Watch:  WatchConfig{RefreshCron: "5 0 * * *"},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("db_path", d.DBPath)
	v.SetDefault("surface_dir", d.SurfaceDir)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.path", d.Logging.Path)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.retention_days", d.Logging.RetentionDays)
	setLayoutDefaults(v, "layout.countdown", d.Layout.Countdown)
	setLayoutDefaults(v, "layout.habit", d.Layout.Habit)
	v.SetDefault("watch.refresh_cron", d.Watch.RefreshCron)
}

func setLayoutDefaults(v *viper.Viper, prefix string, l Layout) {
	v.SetDefault(prefix+".padding", l.Padding)
	v.SetDefault(prefix+".spacing", l.Spacing)
	v.SetDefault(prefix+".rows", l.Rows)
	v.SetDefault(prefix+".corner_radius", l.CornerRadius)
	v.SetDefault(prefix+".widget_width", l.WidgetWidth)
}

// Load reads configuration from path, or from GlobalConfigPath when path
// is empty. A missing default file is not an error; a missing explicit
// file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = GlobalConfigPath()
	}
	v.SetConfigFile(path)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks layout geometry and the refresh schedule.
func (c *Config) Validate() error {
	for name, l := range map[string]Layout{"countdown": c.Layout.Countdown, "habit": c.Layout.Habit} {
		if l.Rows < 1 {
			return fmt.Errorf("layout.%s.rows must be at least 1, got %d", name, l.Rows)
		}
		if l.WidgetWidth <= 0 {
			return fmt.Errorf("layout.%s.widget_width must be positive, got %d", name, l.WidgetWidth)
		}
		if l.Padding < 0 || l.Spacing < 0 || l.CornerRadius < 0 {
			return fmt.Errorf("layout.%s: padding, spacing and corner_radius must not be negative", name)
		}
	}
	if strings.TrimSpace(c.Watch.RefreshCron) == "" {
		return errors.New("watch.refresh_cron must not be empty")
	}
	return nil
}

// ExpandedDBPath returns DBPath with ~ resolved.
func (c *Config) ExpandedDBPath() string {
	return ExpandPath(c.DBPath)
}

// ExpandedSurfaceDir returns SurfaceDir with ~ resolved.
func (c *Config) ExpandedSurfaceDir() string {
	return ExpandPath(c.SurfaceDir)
}

// ExpandedLogPath returns Logging.Path with ~ resolved.
func (c *Config) ExpandedLogPath() string {
	return ExpandPath(c.Logging.Path)
}

// Write saves cfg as YAML at path, creating parent directories.
func Write(cfg *Config, path string) error {
	if path == "" {
		path = GlobalConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("db_path", cfg.DBPath)
	v.Set("surface_dir", cfg.SurfaceDir)
	v.Set("logging.level", cfg.Logging.Level)
	v.Set("logging.path", cfg.Logging.Path)
	v.Set("logging.format", cfg.Logging.Format)
	v.Set("logging.retention_days", cfg.Logging.RetentionDays)
	for prefix, l := range map[string]Layout{"layout.countdown": cfg.Layout.Countdown, "layout.habit": cfg.Layout.Habit} {
		v.Set(prefix+".padding", l.Padding)
		v.Set(prefix+".spacing", l.Spacing)
		v.Set(prefix+".rows", l.Rows)
		v.Set(prefix+".corner_radius", l.CornerRadius)
		v.Set(prefix+".widget_width", l.WidgetWidth)
	}
	v.Set("watch.refresh_cron", cfg.Watch.RefreshCron)

	if err := v.WriteConfig(); err != nil {
		if os.IsNotExist(err) {
			return v.SafeWriteConfig()
		}
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ExpandPath resolves a leading ~/ to the home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
