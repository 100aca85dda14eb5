package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/adminterm/internal/conversation"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// StatusBar displays the profile, the signed-in user, the chat channel
// state and a clock.
type StatusBar struct {
	*tview.TextView
	theme   *ui.Theme
	profile string
	user    string
	channel conversation.State
	busy    bool
	now     func() time.Time
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *ui.Theme) *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	sb := &StatusBar{TextView: tv, theme: theme, now: time.Now}
	sb.render()
	return sb
}

// SetProfile updates the profile name display.
func (sb *StatusBar) SetProfile(name string) {
	sb.profile = name
	sb.render()
}

// SetUser updates the signed-in user. Empty means signed out.
func (sb *StatusBar) SetUser(user string) {
	sb.user = user
	sb.render()
}

// SetChannel updates the chat channel state. Empty hides it.
func (sb *StatusBar) SetChannel(s conversation.State) {
	sb.channel = s
	sb.render()
}

// SetBusy updates the request-in-flight indicator.
func (sb *StatusBar) SetBusy(busy bool) {
	sb.busy = busy
	sb.render()
}

// Tick redraws the clock.
func (sb *StatusBar) Tick() {
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	user := sb.user
	if user == "" {
		user = "[::d]signed out[-:-:-]"
	} else {
		user = tview.Escape(user)
	}

	line := fmt.Sprintf(" [::b]%s[-:-:-] | %s", tview.Escape(sb.profile), user)
	if sb.channel != "" {
		line += fmt.Sprintf(" | chat [%s]%s[-]", sb.channelColor(), sb.channel)
	}
	if sb.busy {
		line += " | [green]~[-]"
	}
	line += " | " + sb.now().Format("15:04")

	_, _ = fmt.Fprint(sb, line)
}

func (sb *StatusBar) channelColor() string {
	switch sb.channel {
	case conversation.Connected:
		return colorHex(sb.theme.StateOKColor)
	case conversation.Closed:
		return colorHex(sb.theme.StateDownColor)
	}
	return colorHex(sb.theme.StatePendingColor)
}
