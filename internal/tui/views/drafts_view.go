package views

import (
	"fmt"
	"strconv"
	"time"

	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// DraftsView is the drafts page: a filterable table and a detail pane for
// the selected draft.
type DraftsView struct {
	*tview.Flex
	lifecycle
	Table *RecordTable[backend.Draft]
	info  *DraftInfo
	now   func() time.Time
}

// NewDraftsView creates the drafts page.
func NewDraftsView(theme *ui.Theme) *DraftsView {
	dv := &DraftsView{now: time.Now}
	dv.Table = NewRecordTable(theme, "Drafts", []Column[backend.Draft]{
		{Title: "ID", MaxWidth: 6, AlignEnd: true, Value: func(d backend.Draft) string { return strconv.Itoa(d.DraftID) }},
		{Title: "TITLE", Expansion: 1, MaxWidth: 32, Value: func(d backend.Draft) string { return d.Title }},
		{Title: "CONTENT", Expansion: 2, Value: func(d backend.Draft) string { return d.Content }},
		{Title: "UPDATED", AlignEnd: true, Value: func(d backend.Draft) string {
			if d.LastUpdated != "" {
				return formatTimestamp(d.LastUpdated, dv.now())
			}
			return formatTimestamp(d.DateCreated, dv.now())
		}},
	})
	dv.info = NewDraftInfo(theme)

	dv.Flex = tview.NewFlex().
		AddItem(dv.Table, 0, 3, true).
		AddItem(dv.info, 0, 2, false)

	dv.Table.SetSelectionChangedFunc(func(row, _ int) {
		d, ok := dv.Table.At(row - 1)
		if ok {
			dv.info.Update(&d, dv.now())
		} else {
			dv.info.Update(nil, dv.now())
		}
	})
	return dv
}

// Name implements Component.
func (dv *DraftsView) Name() string { return "Drafts" }

// Hints implements Component.
func (dv *DraftsView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "n", Description: "New"},
		{Key: "e", Description: "Edit"},
		{Key: "d", Description: "Delete"},
		{Key: "/", Description: "Filter"},
	}
}

// Update renders the filtered drafts and refreshes the detail pane.
func (dv *DraftsView) Update(rows []backend.Draft, total int, query string, loading bool) {
	row, _ := dv.Table.GetSelection()
	dv.Table.SetLoading(loading)
	dv.Table.Update(rows, total, query)
	switch {
	case len(rows) == 0:
		dv.info.Update(nil, dv.now())
	case row < 1 || row > len(rows):
		dv.Table.Select(1, 0)
		dv.info.Update(&rows[0], dv.now())
	default:
		dv.info.Update(&rows[row-1], dv.now())
	}
}

// Selected returns the draft under the cursor.
func (dv *DraftsView) Selected() (backend.Draft, bool) {
	return dv.Table.Selected()
}

// DraftInfo displays the full content of one draft.
type DraftInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewDraftInfo creates a new draft detail pane.
func NewDraftInfo(theme *ui.Theme) *DraftInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &DraftInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders d, or clears the pane when d is nil.
func (di *DraftInfo) Update(d *backend.Draft, now time.Time) {
	di.Clear()
	if d == nil {
		di.SetTitle(" Details ")
		return
	}

	fg := colorHex(di.theme.FgColor)
	val := colorHex(di.theme.CounterColor)
	dash := func(s string) string {
		if s == "" {
			return "-"
		}
		return s
	}

	_, _ = fmt.Fprintf(di,
		" [%s::b]Title:[-:-:-]   [%s]%s[-]\n"+
			" [%s::b]Created:[-:-:-] [%s]%s[-]\n"+
			" [%s::b]Updated:[-:-:-] [%s]%s[-]\n\n%s",
		fg, val, tview.Escape(sanitizeForTerminal(d.Title)),
		fg, val, dash(formatTimestamp(d.DateCreated, now)),
		fg, val, dash(formatTimestamp(d.LastUpdated, now)),
		tview.Escape(sanitizeForTerminal(d.Content)),
	)
	di.SetTitle(fmt.Sprintf(" Draft #%d ", d.DraftID))
	di.ScrollToBeginning()
}
