package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ProfileData is what the header shows about the running console.
type ProfileData struct {
	Profile string
	User    string
	Email   string
	Role    string
	Backend string
}

// ProfileInfo displays profile and user details in the header.
type ProfileInfo struct {
	*tview.TextView
	theme *Theme
}

// NewProfileInfo creates a new profile info panel.
func NewProfileInfo(theme *Theme) *ProfileInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ProfileInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the panel. Empty values show as "-".
func (pi *ProfileInfo) Update(data ProfileData) {
	pi.Clear()

	fg := colorName(pi.theme.FgColor)
	val := colorName(pi.theme.CounterColor)
	row := func(label, v string) string {
		if v == "" {
			v = "-"
		}
		return fmt.Sprintf("[%s::b]%-8s[-:-:-] [%s]%s[-]\n", fg, label+":", val, tview.Escape(v))
	}

	_, _ = fmt.Fprint(pi,
		row("Profile", data.Profile)+
			row("User", data.User)+
			row("Email", data.Email)+
			row("Role", data.Role)+
			row("Backend", data.Backend))
}
