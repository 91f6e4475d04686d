// Package surface persists the standing render of each tracker: the last
// widget produced in background mode, kept as plain text and as JSON.
package surface

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/marcus/daygrid/internal/settings"
	"github.com/marcus/daygrid/internal/widget"
)

// ErrNoSurface means the tracker has not been rendered in background yet.
var ErrNoSurface = errors.New("no standing surface")

// Entry is the JSON form of a standing surface.
type Entry struct {
	Tracker    string         `json:"tracker"`
	RenderedAt time.Time      `json:"rendered_at"`
	Text       string         `json:"text"`
	Widget     *widget.Widget `json:"widget"`
}

func textPath(dir string, t settings.Tracker) string {
	return filepath.Join(dir, t.Slug()+".txt")
}

func jsonPath(dir string, t settings.Tracker) string {
	return filepath.Join(dir, t.Slug()+".json")
}

func plainRenderer() *widget.Renderer {
	lr := lipgloss.NewRenderer(io.Discard)
	lr.SetColorProfile(termenv.Ascii)
	r := widget.NewRenderer(lr)
	r.Frame = false
	return r
}

// Write renders w without colour and stores it for t under dir.
func Write(dir string, t settings.Tracker, w *widget.Widget) error {
	return write(dir, t, w, time.Now())
}

func write(dir string, t settings.Tracker, w *widget.Widget, now time.Time) error {
	if w == nil {
		return fmt.Errorf("write surface %s: nil widget", t)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating surface dir: %w", err)
	}

	text := plainRenderer().Render(w)
	entry := Entry{Tracker: t.String(), RenderedAt: now, Text: text, Widget: w}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling surface: %w", err)
	}

	if err := writeAtomic(jsonPath(dir, t), data); err != nil {
		return err
	}
	return writeAtomic(textPath(dir, t), []byte(text+"\n"))
}

func writeAtomic(path string, data []byte) error {
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("writing surface: %w", err)
	}
	if err := os.Rename(tmpFile, path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("renaming surface: %w", err)
	}
	return nil
}

// Read returns the stored text render for t.
func Read(dir string, t settings.Tracker) (string, error) {
	data, err := os.ReadFile(textPath(dir, t))
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w for %s", ErrNoSurface, t)
		}
		return "", fmt.Errorf("reading surface: %w", err)
	}
	return string(data), nil
}

// ReadEntry returns the stored JSON form for t.
func ReadEntry(dir string, t settings.Tracker) (*Entry, error) {
	data, err := os.ReadFile(jsonPath(dir, t))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w for %s", ErrNoSurface, t)
		}
		return nil, fmt.Errorf("reading surface: %w", err)
	}
	// The widget tree is write-only; decode everything but the body.
	var raw struct {
		Tracker    string    `json:"tracker"`
		RenderedAt time.Time `json:"rendered_at"`
		Text       string    `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing surface: %w", err)
	}
	return &Entry{Tracker: raw.Tracker, RenderedAt: raw.RenderedAt, Text: raw.Text}, nil
}

// Remove deletes the standing surface for t. A missing surface is not an
// error.
func Remove(dir string, t settings.Tracker) error {
	for _, p := range []string{textPath(dir, t), jsonPath(dir, t)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing surface: %w", err)
		}
	}
	return nil
}
