package dataset

import (
	"github.com/ecopia-map/shapecloud/internal/shapes"
)

// Classes active when nothing else is requested
var DefaultActiveClasses = []string{string(shapes.Pyramid), string(shapes.Box), string(shapes.Cylinder)}

// Registry owns the set of shape classes taking part in generation. Label i of a dataset
// refers to the i-th active class at build time, so every accepted change bumps Generation
// and makes previously built datasets stale.
type Registry struct {
	all        []string
	active     []string
	generation uint64
}

// Builds a Registry with the given initial classes, falling back to DefaultActiveClasses when
// none of them is known.
func NewRegistry(initial ...string) *Registry {
	r := &Registry{
		all:    shapes.Names(),
		active: copyStrings(DefaultActiveClasses),
	}
	if len(initial) > 0 {
		r.SetActive(initial)
	}
	r.generation = 0
	return r
}

// SetActive keeps the known names of requested, without duplicates and in first occurrence
// order. An empty result is rejected and the current set is returned unchanged.
func (r *Registry) SetActive(requested []string) []string {
	seen := make(map[string]bool, len(requested))
	filtered := make([]string, 0, len(requested))
	for _, name := range requested {
		if seen[name] || !r.isKnown(name) {
			continue
		}
		seen[name] = true
		filtered = append(filtered, name)
	}

	if len(filtered) == 0 {
		return r.Active()
	}

	r.active = filtered
	r.generation++
	return r.Active()
}

// Active returns a copy of the active classes
func (r *Registry) Active() []string {
	return copyStrings(r.active)
}

// All returns every known class name
func (r *Registry) All() []string {
	return copyStrings(r.all)
}

func (r *Registry) NumActive() int {
	return len(r.active)
}

// Number of accepted SetActive calls
func (r *Registry) Generation() uint64 {
	return r.generation
}

// Index of the given class in the active set, -1 if inactive
func (r *Registry) IndexOf(name string) int {
	for i, c := range r.active {
		if c == name {
			return i
		}
	}
	return -1
}

func (r *Registry) isKnown(name string) bool {
	for _, c := range r.all {
		if c == name {
			return true
		}
	}
	return false
}

func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
