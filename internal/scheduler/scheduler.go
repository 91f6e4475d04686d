// Package scheduler triggers jobs on cron expressions, at fixed times and
// when files change. Every job runs on the goroutine that called Run, so
// jobs never overlap.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	"github.com/marcus/daygrid/internal/logging"
)

// DefaultDebounce is how long Watch waits for a burst of file events to
// settle before triggering.
const DefaultDebounce = 250 * time.Millisecond

// ErrRunning is returned when Run is called twice.
var ErrRunning = errors.New("scheduler already running")

type trigger struct {
	name string
	job  func()
}

type watch struct {
	name  string
	dir   string
	match func(string) bool
	job   func()
}

// Scheduler runs registered jobs until its context ends.
type Scheduler struct {
	cron     *cron.Cron
	queue    chan trigger
	debounce time.Duration
	log      *logging.Logger

	mu      sync.Mutex
	running bool
	timers  []*time.Timer
	watches []watch
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) { s.debounce = d }
}

// WithLocation evaluates cron expressions in loc instead of local time.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) { s.cron = cron.New(cron.WithLocation(loc)) }
}

// New creates a scheduler.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(time.Local)),
		queue:    make(chan trigger, 16),
		debounce: DefaultDebounce,
		log:      logging.Component("scheduler"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// enqueue hands a job to the run loop. A full queue drops the trigger;
// the backlog already holds a pending run.
func (s *Scheduler) enqueue(name string, job func()) {
	select {
	case s.queue <- trigger{name: name, job: job}:
	default:
		s.log.Debugf("dropping %s trigger, queue full", name)
	}
}

// Schedule adds a job to run once at the specified time. A time in the
// past runs as soon as the scheduler is running.
func (s *Scheduler) Schedule(at time.Time, job func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := time.AfterFunc(time.Until(at), func() { s.enqueue("once", job) })
	s.timers = append(s.timers, t)
}

// ScheduleCron adds a recurring job using a standard five-field cron
// expression or a descriptor such as @daily.
func (s *Scheduler) ScheduleCron(expr string, job func()) error {
	_, err := s.cron.AddFunc(expr, func() { s.enqueue("cron "+expr, job) })
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}

// Watch triggers job when path, or a sibling sharing its name as a prefix
// such as a SQLite -wal file, is written, created, removed or renamed.
// The -shm index is ignored since readers touch it too. Bursts of events
// within the debounce window trigger once.
func (s *Scheduler) Watch(path string, job func()) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watches = append(s.watches, watch{
		name:  "watch " + base,
		dir:   dir,
		match: func(name string) bool {
			name = filepath.Base(name)
			return strings.HasPrefix(name, base) && !strings.HasSuffix(name, "-shm")
		},
		job: job,
	})
	return nil
}

// Run starts every trigger and executes jobs one at a time until ctx is
// done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.running = true
	watches := append([]watch(nil), s.watches...)
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		for _, t := range s.timers {
			t.Stop()
		}
		s.running = false
		s.mu.Unlock()
	}()

	var watcher *fsnotify.Watcher
	if len(watches) > 0 {
		var err error
		watcher, err = fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}
		defer watcher.Close()
		for _, w := range watches {
			if err := watcher.Add(w.dir); err != nil {
				return fmt.Errorf("watching %s: %w", w.dir, err)
			}
		}
		go s.forward(ctx, watcher, watches)
	}

	s.cron.Start()
	defer func() { <-s.cron.Stop().Done() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case tr := <-s.queue:
			s.log.Debugf("running %s", tr.name)
			tr.job()
		}
	}
}

// forward turns file events into debounced triggers.
func (s *Scheduler) forward(ctx context.Context, watcher *fsnotify.Watcher, watches []watch) {
	pending := make(map[int]*time.Timer)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
	}()

	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&relevant == 0 {
				continue
			}
			for i, w := range watches {
				if filepath.Dir(event.Name) != w.dir || !w.match(event.Name) {
					continue
				}
				if t, ok := pending[i]; ok {
					t.Reset(s.debounce)
					continue
				}
				w := w
				pending[i] = time.AfterFunc(s.debounce, func() { s.enqueue(w.name, w.job) })
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.WarnErr(err).Msg("watcher error")
		}
	}
}
