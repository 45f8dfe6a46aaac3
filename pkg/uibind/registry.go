// Package uibind owns the UI controls that options point at. Options keep
// only a UIItemID; the registry maps it to the live control and clears the
// option's reference when the control goes away.
package uibind

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-bookopts/pkg/option"
)

// Control is a live UI control presenting one option.
type Control struct {
	ID      option.UIItemID
	Widget  string
	Section string
	Name    string

	target *option.Option
}

// Registry allocates control identifiers and tracks the controls that are
// attached to options. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	next     option.UIItemID
	controls map[option.UIItemID]*Control
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{controls: make(map[option.UIItemID]*Control)}
}

// Attach creates a control for o and stores its identifier on the option.
// Internal options refuse controls with option.ErrLogic. An option already
// bound to a control of this registry is rebound to the new one.
func (r *Registry) Attach(o *option.Option, widget string) (Control, error) {
	if o == nil {
		return Control{}, fmt.Errorf("uibind: option is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.next++
	ctrl := &Control{
		ID:      r.next,
		Widget:  widget,
		Section: o.Section(),
		Name:    o.Name(),
		target:  o,
	}
	previous := o.UIItem()
	if err := o.SetUIItem(ctrl.ID); err != nil {
		return Control{}, fmt.Errorf("uibind: attach %s: %w", o, err)
	}
	if old, ok := r.controls[previous]; ok && old.target == o {
		delete(r.controls, previous)
	}
	r.controls[ctrl.ID] = ctrl
	return *ctrl, nil
}

// Detach destroys the control bound to o, if any, and clears the option's
// reference.
func (r *Registry) Detach(o *option.Option) {
	if o == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	id := o.UIItem()
	if ctrl, ok := r.controls[id]; ok && ctrl.target == o {
		delete(r.controls, id)
	}
	o.ClearUIItem()
}

// Destroy tears a control down by identifier, as a UI toolkit does when a
// dialog closes, and clears the reference held by its option.
func (r *Registry) Destroy(id option.UIItemID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.controls[id]
	if !ok {
		return false
	}
	delete(r.controls, id)
	if ctrl.target.UIItem() == id {
		ctrl.target.ClearUIItem()
	}
	return true
}

// DestroyAll tears down every control.
func (r *Registry) DestroyAll() {
	for _, ctrl := range r.Controls() {
		r.Destroy(ctrl.ID)
	}
}

// Lookup returns the control with the given identifier.
func (r *Registry) Lookup(id option.UIItemID) (Control, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ctrl, ok := r.controls[id]
	if !ok {
		return Control{}, false
	}
	return *ctrl, true
}

// ControlFor returns the control o currently points at.
func (r *Registry) ControlFor(o *option.Option) (Control, bool) {
	if o == nil || o.UIItem() == option.NoUIItem {
		return Control{}, false
	}
	return r.Lookup(o.UIItem())
}

// Controls lists live controls in allocation order.
func (r *Registry) Controls() []Control {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Control, 0, len(r.controls))
	for _, ctrl := range r.controls {
		out = append(out, *ctrl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
