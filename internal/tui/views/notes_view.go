package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// NotesView lists drafts other users shared with the current user.
type NotesView struct {
	*tview.Flex
	lifecycle
	Table   *RecordTable[backend.ReceivedNote]
	content *tview.TextView
}

// NewNotesView creates the received notes page.
func NewNotesView(theme *ui.Theme) *NotesView {
	now := time.Now
	table := NewRecordTable(theme, "Received notes", []Column[backend.ReceivedNote]{
		{Title: "TITLE", Expansion: 1, MaxWidth: 32, Value: func(n backend.ReceivedNote) string { return n.Title }},
		{Title: "FROM", Value: func(n backend.ReceivedNote) string { return n.SentBy }},
		{Title: "CONTENT", Expansion: 2, Value: func(n backend.ReceivedNote) string { return n.Content }},
		{Title: "SENT", AlignEnd: true, Value: func(n backend.ReceivedNote) string { return formatTimestamp(n.SentTime, now()) }},
	})

	content := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	content.SetBorder(true)
	content.SetBorderColor(theme.BorderColor)
	content.SetBackgroundColor(theme.BgColor)
	content.SetTextColor(theme.FgColor)
	content.SetTitleColor(theme.TitleColor)

	nv := &NotesView{
		Flex: tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(table, 0, 2, true).
			AddItem(content, 0, 1, false),
		Table:   table,
		content: content,
	}
	table.SetSelectionChangedFunc(func(row, _ int) {
		nv.show(row - 1)
	})
	return nv
}

// Name implements Component.
func (nv *NotesView) Name() string { return "Notes" }

// Hints implements Component.
func (nv *NotesView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "/", Description: "Filter"},
	}
}

// Refresh renders the filtered notes.
func (nv *NotesView) Refresh(rows []backend.ReceivedNote, total int, query string, loading bool) {
	nv.Table.SetLoading(loading)
	nv.Table.Update(rows, total, query)
	row, _ := nv.Table.GetSelection()
	nv.show(row - 1)
}

func (nv *NotesView) show(idx int) {
	nv.content.Clear()
	n, ok := nv.Table.At(idx)
	if !ok {
		nv.content.SetTitle("")
		return
	}
	nv.content.SetTitle(fmt.Sprintf(" %s from %s ", tview.Escape(singleLine(n.Title)), tview.Escape(singleLine(n.SentBy))))
	_, _ = fmt.Fprint(nv.content, tview.Escape(sanitizeForTerminal(n.Content)))
}
