package surface

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/marcus/daygrid/internal/config"
	"github.com/marcus/daygrid/internal/settings"
	"github.com/marcus/daygrid/internal/widget"
)

func testWidget() *widget.Widget {
	return widget.Countdown(widget.CountdownInput{
		Theme:  settings.Dark,
		Title:  "Launch",
		Anchor: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local),
		Target: time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local),
		Today:  time.Date(2025, 1, 5, 0, 0, 0, 0, time.Local),
		Layout: config.CountdownLayout,
	})
}

func TestWriteAndRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "surface")
	tr := settings.Tracker{Kind: settings.Countdown, Instance: settings.DefaultInstance}
	now := time.Date(2025, 1, 5, 0, 5, 0, 0, time.UTC)

	if err := write(dir, tr, testWidget(), now); err != nil {
		t.Fatalf("write: %v", err)
	}

	text, err := Read(dir, tr)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !strings.Contains(text, "Launch") || !strings.Contains(text, "D-6") {
		t.Errorf("text = %q", text)
	}
	if strings.Contains(text, "\x1b[") {
		t.Errorf("surface text should have no escape codes: %q", text)
	}

	entry, err := ReadEntry(dir, tr)
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if entry.Tracker != tr.String() || !entry.RenderedAt.Equal(now) {
		t.Errorf("entry = %+v", entry)
	}
	if strings.TrimSuffix(text, "\n") != entry.Text {
		t.Error("json text should match text file")
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "*.tmp"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestReadMissing(t *testing.T) {
	tr := settings.Tracker{Kind: settings.Habit, Instance: "gym"}
	if _, err := Read(t.TempDir(), tr); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Read err = %v, want ErrNoSurface", err)
	}
	if _, err := ReadEntry(t.TempDir(), tr); !errors.Is(err, ErrNoSurface) {
		t.Errorf("ReadEntry err = %v, want ErrNoSurface", err)
	}
}

func TestInstancesDoNotCollide(t *testing.T) {
	dir := t.TempDir()
	a := settings.Tracker{Kind: settings.Countdown, Instance: settings.DefaultInstance}
	b := settings.Tracker{Kind: settings.Countdown, Instance: "trip"}
	if err := Write(dir, a, testWidget()); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(dir, b); !errors.Is(err, ErrNoSurface) {
		t.Errorf("instance %s should have no surface, err = %v", b, err)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	tr := settings.Tracker{Kind: settings.Countdown, Instance: settings.DefaultInstance}
	if err := Remove(dir, tr); err != nil {
		t.Fatalf("Remove on empty dir: %v", err)
	}
	if err := Write(dir, tr, testWidget()); err != nil {
		t.Fatal(err)
	}
	if err := Remove(dir, tr); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty dir, got %d entries", len(entries))
	}
}

func TestWriteNilWidget(t *testing.T) {
	tr := settings.Tracker{Kind: settings.Habit, Instance: settings.DefaultInstance}
	if err := Write(t.TempDir(), tr, nil); err == nil {
		t.Error("expected error for nil widget")
	}
}
