package viewer

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/meshview/internal/logger"
)

// Dialogs asks the user for paths. Implementations may block; the viewer
// calls them off the render goroutine.
type Dialogs interface {
	OpenModel() (string, error)
	OpenImage(title string) (string, error)
	OpenDirectory(title string) (string, error)
}

// ErrCancelled is returned by a dialog the user closed.
var ErrCancelled = errors.New("dialog cancelled")

// loadFunc is a load command of the viewer.
type loadFunc func(v *Viewer, path string) error

// pick runs ask on its own goroutine and posts load with the chosen path.
func (v *Viewer) pick(what string, ask func() (string, error), load loadFunc) {
	if v.dialogs == nil {
		return
	}
	go func() {
		path, err := ask()
		if err != nil {
			if !errors.Is(err, ErrCancelled) {
				logger.Warn("Dialog failed", zap.String("dialog", what), zap.Error(err))
			}
			return
		}
		// Load commands log their own failures.
		v.Post(func(v *Viewer) { _ = load(v, path) })
	}()
}

func (v *Viewer) openModelDialog() {
	v.pick("model", func() (string, error) { return v.dialogs.OpenModel() }, (*Viewer).LoadModel)
}

func (v *Viewer) openCubemapDialog(title string, load loadFunc) {
	v.pick(title, func() (string, error) { return v.dialogs.OpenDirectory(title) }, load)
}

func (v *Viewer) openImageDialog(title string, load loadFunc) {
	v.pick(title, func() (string, error) { return v.dialogs.OpenImage(title) }, load)
}
