// Package keys maps key presses to console actions, per page and global.
package keys

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/adminterm/internal/tui/ui"
)

// Action represents a keybinding action.
type Action struct {
	Key     tcell.Key
	Rune    rune
	Label   string // shown in the menu, e.g. "n" or "Ctrl-R"
	Help    string
	Handler func()
	Visible bool
	Numeric bool
}

// Matches returns true if the event matches this action.
func (a *Action) Matches(ev *tcell.EventKey) bool {
	if a.Key != tcell.KeyRune {
		return ev.Key() == a.Key
	}
	return ev.Key() == tcell.KeyRune && ev.Rune() == a.Rune
}

// Rune builds a visible single-rune action.
func Rune(r rune, help string, fn func()) *Action {
	return &Action{Key: tcell.KeyRune, Rune: r, Label: string(r), Help: help, Handler: fn, Visible: true}
}

// Registry holds keybindings in registration order. Page bindings shadow
// global ones.
type Registry struct {
	global []*Action
	views  map[string][]*Action
}

// NewRegistry creates a new keybinding registry.
func NewRegistry() *Registry {
	return &Registry{views: make(map[string][]*Action)}
}

// AddGlobal registers a global keybinding.
func (r *Registry) AddGlobal(a *Action) {
	r.global = append(r.global, a)
}

// AddView registers a page-specific keybinding.
func (r *Registry) AddView(view string, a *Action) {
	r.views[view] = append(r.views[view], a)
}

// Hints returns the visible bindings for a page, page bindings first.
func (r *Registry) Hints(view string) []ui.MenuHint {
	var hints []ui.MenuHint
	add := func(as []*Action) {
		for _, a := range as {
			if a.Visible {
				hints = append(hints, ui.MenuHint{Key: a.Label, Description: a.Help, Numeric: a.Numeric})
			}
		}
	}
	add(r.views[view])
	add(r.global)
	return hints
}

// HandleEvent dispatches a key event to the first matching action.
// Returns true if a handler matched.
func (r *Registry) HandleEvent(view string, ev *tcell.EventKey) bool {
	for _, as := range [][]*Action{r.views[view], r.global} {
		for _, a := range as {
			if a.Matches(ev) {
				a.Handler()
				return true
			}
		}
	}
	return false
}
