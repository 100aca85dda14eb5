package ui

// MenuHint describes a keyboard shortcut for display in the menu bar.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // page jumps, drawn in a different color
}

// Component is the lifecycle interface for console pages. Start runs each
// time the page becomes the visible one and Stop each time it stops being
// visible.
type Component interface {
	Name() string
	Init()
	Start()
	Stop()
	Hints() []MenuHint
}
