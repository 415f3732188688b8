package gpu

import (
	"errors"
	"fmt"
)

// Rebuildable is a GPU resource whose storage depends on the viewport size.
// Resize must be idempotent and safe to call before the resource was ever
// drawn with.
type Rebuildable interface {
	Resize(width, height int32) error
	Size() (width, height int32)
}

// ViewportSet resizes a group of resources together.
type ViewportSet struct {
	items  []Rebuildable
	width  int32
	height int32
}

// Add registers r and brings it to the current size.
func (s *ViewportSet) Add(r Rebuildable) error {
	s.items = append(s.items, r)
	if s.width > 0 && s.height > 0 {
		return r.Resize(s.width, s.height)
	}
	return nil
}

// Resize resizes every resource. Nonpositive sizes are raised to one. All
// resources are attempted; their failures are joined.
func (s *ViewportSet) Resize(width, height int32) error {
	s.width, s.height = max(width, 1), max(height, 1)
	var errs []error
	for i, r := range s.items {
		if err := r.Resize(s.width, s.height); err != nil {
			errs = append(errs, fmt.Errorf("resource %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Size returns the last size applied.
func (s *ViewportSet) Size() (width, height int32) {
	return s.width, s.height
}

// Len returns the number of registered resources.
func (s *ViewportSet) Len() int {
	return len(s.items)
}
