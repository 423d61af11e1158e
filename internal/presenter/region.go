package presenter

import (
	"html/template"
	"sync"
)

// Region is a display area whose content is always replaced as a whole.
type Region struct {
	mu      sync.RWMutex
	content template.HTML
	version uint64
}

// NewRegion returns an empty region.
func NewRegion() *Region {
	return &Region{}
}

// Replace swaps the full content of the region. Calling it on a nil region is
// a no-op.
func (r *Region) Replace(html template.HTML) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.content = html
	r.version++
	r.mu.Unlock()
}

// HTML returns the current content.
func (r *Region) HTML() template.HTML {
	if r == nil {
		return ""
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.content
}

// Version counts replacements, so callers can tell a re-render happened.
func (r *Region) Version() uint64 {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}
