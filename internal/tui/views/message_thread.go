package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/adminterm/internal/conversation"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread is the messages page: a search line, the message list and
// a composer.
type MessageThread struct {
	*tview.Flex
	lifecycle
	theme    *ui.Theme
	search   *tview.InputField
	messages *tview.TextView
	composer *Composer
	onQuery  func(q string)
	quiet    bool
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	search := tview.NewInputField().
		SetLabel(" / ").
		SetFieldWidth(0).
		SetPlaceholder("search messages")
	search.SetBackgroundColor(theme.BgColor)
	search.SetFieldBackgroundColor(theme.BgColor)
	search.SetFieldTextColor(theme.FgColor)
	search.SetLabelColor(theme.MenuKeyColor)

	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	composer := NewComposer(theme)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(search, 1, 0, false).
		AddItem(messages, 0, 1, true).
		AddItem(composer, 3, 0, false)

	mt := &MessageThread{
		Flex:     flex,
		theme:    theme,
		search:   search,
		messages: messages,
		composer: composer,
	}
	search.SetChangedFunc(func(text string) {
		if !mt.quiet && mt.onQuery != nil {
			mt.onQuery(text)
		}
	})
	return mt
}

// Name implements Component.
func (mt *MessageThread) Name() string { return "Messages" }

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "i", Description: "Compose"},
		{Key: "/", Description: "Search"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnQuery sets the callback for search edits.
func (mt *MessageThread) SetOnQuery(fn func(q string)) {
	mt.onQuery = fn
}

// SetOnCompose sets the callback for composer edits.
func (mt *MessageThread) SetOnCompose(fn func(text string)) {
	mt.composer.SetOnChange(fn)
}

// SetOnSend sets the callback for Enter in the composer.
func (mt *MessageThread) SetOnSend(fn func()) {
	mt.composer.SetOnSend(fn)
}

// Reset clears the page for a fresh session and preloads the composer.
func (mt *MessageThread) Reset(compose string) {
	mt.quiet = true
	mt.search.SetText("")
	mt.quiet = false
	mt.composer.Reset(compose)
	mt.messages.Clear()
}

// Update renders a session snapshot.
func (mt *MessageThread) Update(v conversation.View, now time.Time) {
	mt.messages.SetTitle(fmt.Sprintf(" Messages [%s]%s[-] ", mt.stateColor(v.State), v.State))
	mt.messages.SetBorderColor(mt.theme.BorderColor)
	if v.State == conversation.Closed {
		mt.messages.SetBorderColor(mt.theme.StateDownColor)
	}
	if v.Compose != mt.composer.GetText() {
		mt.composer.Reset(v.Compose)
	}

	mt.messages.Clear()
	if v.NoResults {
		_, _ = fmt.Fprintf(mt.messages, "\n [%s]no messages match %q[-]",
			colorHex(mt.theme.MutedColor), tview.Escape(v.Query))
		return
	}

	var b strings.Builder
	for _, m := range v.Messages {
		color := mt.theme.IncomingColor
		if m.Outgoing {
			color = mt.theme.OutgoingColor
		}
		history := ""
		if !m.Live {
			history = " [::d](history)[-:-:-]"
		}
		fmt.Fprintf(&b, "[%s::b]%s[-:-:-] [::d]%s[-:-:-]%s\n%s\n\n",
			colorHex(color), tview.Escape(sanitizeForTerminal(m.Username)),
			formatMessageTime(m.Time, now), history,
			tview.Escape(sanitizeForTerminal(m.Content)))
	}
	_, _ = fmt.Fprint(mt.messages, b.String())
	if v.Query == "" {
		mt.messages.ScrollToEnd()
	}
}

func (mt *MessageThread) stateColor(s conversation.State) string {
	switch s {
	case conversation.Connected:
		return colorHex(mt.theme.StateOKColor)
	case conversation.Closed:
		return colorHex(mt.theme.StateDownColor)
	}
	return colorHex(mt.theme.StatePendingColor)
}

// Messages returns the message list (for focus management).
func (mt *MessageThread) Messages() *tview.TextView {
	return mt.messages
}

// Composer returns the composer (for focus management).
func (mt *MessageThread) Composer() *Composer {
	return mt.composer
}

// Search returns the search input (for focus management).
func (mt *MessageThread) Search() *tview.InputField {
	return mt.search
}

func formatMessageTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.In(now.Location())
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02 15:04")
}

func colorHex(c interface{ Hex() int32 }) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
