package flow

import (
	"context"

	"github.com/marcus/daygrid/internal/settings"
	"github.com/marcus/daygrid/internal/surface"
	"github.com/marcus/daygrid/internal/widget"
)

// Display is the terminal sink: it presents through a widget.Presenter and
// keeps standing surfaces under SurfaceDir.
type Display struct {
	Presenter  *widget.Presenter
	SurfaceDir string
}

// Present implements Sink.
func (d *Display) Present(ctx context.Context, w *widget.Widget) error {
	return d.Presenter.Present(ctx, w)
}

// SetWidget implements Sink.
func (d *Display) SetWidget(t settings.Tracker, w *widget.Widget) error {
	return surface.Write(d.SurfaceDir, t, w)
}
