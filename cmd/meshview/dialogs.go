package main

import (
	"errors"
	"strings"

	"github.com/sqweek/dialog"

	"github.com/Faultbox/meshview/internal/engine/mesh"
	"github.com/Faultbox/meshview/internal/engine/texture"
	"github.com/Faultbox/meshview/internal/viewer"
)

// nativeDialogs shows the platform file dialogs.
type nativeDialogs struct{}

func (nativeDialogs) OpenModel() (string, error) {
	path, err := dialog.File().
		Filter("Meshes", trimDots(mesh.Extensions)...).
		Filter("All Files", "*").
		Title("Load model").
		Load()
	return path, cancelled(err)
}

func (nativeDialogs) OpenImage(title string) (string, error) {
	path, err := dialog.File().
		Filter("Images", trimDots(texture.Extensions)...).
		Filter("All Files", "*").
		Title(title).
		Load()
	return path, cancelled(err)
}

func (nativeDialogs) OpenDirectory(title string) (string, error) {
	dir, err := dialog.Directory().Title(title).Browse()
	return dir, cancelled(err)
}

// trimDots turns ".png" style extensions into dialog filter patterns.
func trimDots(exts []string) []string {
	out := make([]string, len(exts))
	for i, ext := range exts {
		out[i] = strings.TrimPrefix(ext, ".")
	}
	return out
}

func cancelled(err error) error {
	if errors.Is(err, dialog.ErrCancelled) {
		return viewer.ErrCancelled
	}
	return err
}
