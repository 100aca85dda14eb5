package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages is a stack-based page manager wrapping tview.Pages. Pages added
// with a Component are started when they reach the top of the stack and
// stopped when they leave it.
type Pages struct {
	*tview.Pages
	stack      []string
	components map[string]Component
	onChange   func(stack []string)
}

// NewPages creates a new stack-based page manager.
func NewPages() *Pages {
	return &Pages{
		Pages:      tview.NewPages(),
		components: make(map[string]Component),
	}
}

// Add registers a hidden page. c may be nil for pages without a lifecycle.
func (p *Pages) Add(name string, item tview.Primitive, c Component) {
	p.AddPage(name, item, true, false)
	if c != nil {
		p.components[name] = c
		c.Init()
	}
}

// Component returns the lifecycle component registered for name, if any.
func (p *Pages) Component(name string) (Component, bool) {
	c, ok := p.components[name]
	return c, ok
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push adds a page to the top of the stack and shows it. Pushing the page
// already on top is a no-op.
func (p *Pages) Push(name string) {
	if p.Current() == name {
		return
	}
	p.leave()
	p.stack = append(p.stack, name)
	p.enter()
	p.notify()
}

// Pop removes the top page and shows the previous one. The last page is
// never popped. Returns the name of the popped page, or empty.
func (p *Pages) Pop() string {
	if len(p.stack) < 2 {
		return ""
	}
	top := p.Current()
	p.leave()
	p.stack = p.stack[:len(p.stack)-1]
	p.enter()
	p.notify()
	return top
}

// Current returns the name of the current (top) page.
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Stack returns a copy of the current page stack.
func (p *Pages) Stack() []string {
	return slices.Clone(p.stack)
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset clears the stack and shows only the given page.
func (p *Pages) Reset(name string) {
	p.leave()
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.enter()
	p.notify()
}

// Close stops the visible page. Used on shutdown.
func (p *Pages) Close() {
	p.leave()
	p.stack = nil
}

func (p *Pages) leave() {
	top := p.Current()
	if top == "" {
		return
	}
	p.HidePage(top)
	if c, ok := p.components[top]; ok {
		c.Stop()
	}
}

func (p *Pages) enter() {
	top := p.Current()
	p.ShowPage(top)
	p.SendToFront(top)
	if c, ok := p.components[top]; ok {
		c.Start()
	}
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
