package action

import (
	"fmt"

	"github.com/kk-code-lab/vdir/internal/vfs"
)

// Payload carries the opaque structured value of an action request.
type Payload any

// Definition describes one user-invokable action: the metadata the UI reads
// (description, hotkeys) and the behavior the dispatcher enforces. A
// definition without an Effect is purely descriptive.
type Definition struct {
	ID          string
	Description string

	// RequiresSelection makes the dispatch a silent no-op when the
	// (filtered) selection is empty: the action is simply inert.
	RequiresSelection bool

	// FileFilter, when set, narrows the selection the effect sees.
	FileFilter func(*vfs.Node) bool

	Hotkeys []string

	Effect func(*Env) error
}

// Registry is the read-only catalog of action definitions. It is built once,
// from the built-ins plus whatever the caller composes in, and never changes
// during dispatch.
type Registry struct {
	order []string
	defs  map[string]Definition
}

// NewRegistry builds a registry. Duplicate or empty ids are construction
// errors: they mean the action graph is mis-wired.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[string]Definition, len(defs))}
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("action: definition with empty id")
		}
		if _, dup := r.defs[def.ID]; dup {
			return nil, fmt.Errorf("action: duplicate definition %q", def.ID)
		}
		r.defs[def.ID] = def
		r.order = append(r.order, def.ID)
	}
	return r, nil
}

// Lookup finds a definition by exact id.
func (r *Registry) Lookup(id string) (Definition, bool) {
	def, ok := r.defs[id]
	return def, ok
}

// Definitions returns the catalog in registration order, for keymap and
// toolbar construction.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.defs[id])
	}
	return out
}
