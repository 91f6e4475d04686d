// Package stats computes countdown progress and habit statistics for every
// tracker in the store.
package stats

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/marcus/daygrid/internal/completion"
	"github.com/marcus/daygrid/internal/dates"
	"github.com/marcus/daygrid/internal/db"
	"github.com/marcus/daygrid/internal/logging"
	"github.com/marcus/daygrid/internal/progress"
	"github.com/marcus/daygrid/internal/settings"
)

// CountdownStats summarises one countdown.
type CountdownStats struct {
	Tracker   string  `json:"tracker"`
	Title     string  `json:"title"`
	Target    string  `json:"target"`
	Installed string  `json:"installed"`
	TotalDays int     `json:"total_days"`
	Elapsed   int     `json:"elapsed"`
	Remaining int     `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// HabitStats summarises one habit.
type HabitStats struct {
	Tracker       string `json:"tracker"`
	Name          string `json:"name"`
	Total         int    `json:"total"`
	ThisMonth     int    `json:"this_month"`
	DaysInMonth   int    `json:"days_in_month"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	CheckedToday  bool   `json:"checked_today"`
	// MonthRate is this month's check-ins over the days elapsed so far,
	// today included, as a percentage.
	MonthRate   float64 `json:"month_rate"`
	LastCheckIn string  `json:"last_check_in,omitempty"`
}

// StatsResult holds all computed statistics, JSON-serializable.
type StatsResult struct {
	Countdowns []CountdownStats `json:"countdowns"`
	Habits     []HabitStats     `json:"habits"`
	// Unconfigured lists trackers with some stored values but nothing to
	// show yet, such as a countdown without a target.
	Unconfigured []string `json:"unconfigured,omitempty"`
}

// Empty reports whether no tracker produced statistics.
func (r *StatsResult) Empty() bool {
	return len(r.Countdowns) == 0 && len(r.Habits) == 0
}

// Stats computes statistics from the store.
type Stats struct {
	db    *db.DB
	clock dates.Clock
}

// New creates a Stats reading from database. A nil clock uses time.Now.
func New(database *db.DB, clock dates.Clock) *Stats {
	if clock == nil {
		clock = time.Now
	}
	return &Stats{db: database, clock: clock}
}

// Compute returns statistics for every tracker, or only for trackers named
// instance when it is not empty.
func (s *Stats) Compute(instance string) (*StatsResult, error) {
	all, err := s.db.All()
	if err != nil {
		return nil, fmt.Errorf("reading store: %w", err)
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	result := &StatsResult{Countdowns: []CountdownStats{}, Habits: []HabitStats{}}
	log := logging.Component("settings")
	for _, t := range settings.Discover(keys) {
		if instance != "" && t.Instance != instance {
			continue
		}
		set := settings.New(s.db, t, settings.WithClock(s.clock), settings.WithLogger(log))
		switch t.Kind {
		case settings.Countdown:
			c, ok := countdown(set)
			if !ok {
				result.Unconfigured = append(result.Unconfigured, t.String())
				continue
			}
			result.Countdowns = append(result.Countdowns, c)
		case settings.Habit:
			result.Habits = append(result.Habits, habit(set))
		}
	}
	return result, nil
}

func countdown(s *settings.Settings) (CountdownStats, bool) {
	snap := s.Snapshot()
	if !snap.HasTarget || !snap.HasAnchor {
		return CountdownStats{}, false
	}
	p := progress.Compute(snap.Anchor, snap.Target, s.Today())
	return CountdownStats{
		Tracker:   s.Tracker().String(),
		Title:     snap.Label,
		Target:    dates.Format(snap.Target),
		Installed: dates.Format(snap.Anchor),
		TotalDays: p.TotalCells,
		Elapsed:   p.Filled(),
		Remaining: p.Remaining,
		Percent:   round1(p.Ratio() * 100),
	}, true
}

func habit(s *settings.Settings) HabitStats {
	set := s.Completions()
	today := s.Today()
	month := set.CountInMonth(today.Year(), today.Month())

	h := HabitStats{
		Tracker:       s.Tracker().String(),
		Name:          s.LabelOrDefault(),
		Total:         set.Len(),
		ThisMonth:     month,
		DaysInMonth:   dates.DaysInMonth(today.Year(), today.Month()),
		CurrentStreak: set.CurrentStreak(today),
		LongestStreak: set.LongestStreak(),
		CheckedToday:  set.Has(dates.Format(today)),
		MonthRate:     round1(float64(checkedSoFar(set, today)) / float64(today.Day()) * 100),
	}
	if keys := set.Keys(); len(keys) > 0 {
		h.LastCheckIn = keys[len(keys)-1]
	}
	return h
}

// checkedSoFar counts check-ins from the first of today's month up to and
// including today. Future-dated check-ins are left out.
func checkedSoFar(set completion.Set, today time.Time) int {
	first, _ := dates.MonthBounds(today)
	from, to := dates.Format(first), dates.Format(today)
	n := 0
	for _, k := range set.Keys() {
		if k >= from && k <= to {
			n++
		}
	}
	return n
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
