package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// Composer is the text input for sending messages. Every edit is reported
// so the buffer can be persisted as a draft.
type Composer struct {
	*tview.InputField
	quiet    bool
	onChange func(text string)
	onSend   func()
}

// NewComposer creates a new message composer.
func NewComposer(theme *ui.Theme) *Composer {
	input := tview.NewInputField().
		SetLabel(" > ").
		SetFieldWidth(0)
	input.SetBorder(true)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)
	input.SetTitle(" Compose (i to focus) ")
	input.SetTitleColor(theme.TitleColor)

	c := &Composer{InputField: input}

	input.SetChangedFunc(func(text string) {
		if !c.quiet && c.onChange != nil {
			c.onChange(text)
		}
	})
	input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && c.GetText() != "" && c.onSend != nil {
			c.onSend()
		}
	})

	return c
}

// SetOnChange sets the callback for edits made by the user.
func (c *Composer) SetOnChange(fn func(text string)) {
	c.onChange = fn
}

// SetOnSend sets the callback for Enter on a non-empty buffer.
func (c *Composer) SetOnSend(fn func()) {
	c.onSend = fn
}

// Reset replaces the buffer without reporting an edit.
func (c *Composer) Reset(text string) {
	c.quiet = true
	c.SetText(text)
	c.quiet = false
}
