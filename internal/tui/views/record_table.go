package views

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

// Column describes one table column over records of type R.
type Column[R any] struct {
	Title     string
	Expansion int
	MaxWidth  int
	AlignEnd  bool
	Value     func(R) string
}

// RecordTable is a titled table of records with a filter-aware title and a
// "no results" row when a query matches nothing.
type RecordTable[R any] struct {
	*tview.Table
	theme   *ui.Theme
	title   string
	columns []Column[R]
	rows    []R
	loading bool
}

// NewRecordTable creates a table with the given columns.
func NewRecordTable[R any](theme *ui.Theme, title string, columns []Column[R]) *RecordTable[R] {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitleColor(theme.TitleColor)

	rt := &RecordTable[R]{
		Table:   table,
		theme:   theme,
		title:   title,
		columns: columns,
	}
	rt.Update(nil, 0, "")
	return rt
}

// SetLoading marks the table as waiting for data.
func (rt *RecordTable[R]) SetLoading(loading bool) {
	rt.loading = loading
}

// Update renders rows. total is the unfiltered count and query the active
// filter.
func (rt *RecordTable[R]) Update(rows []R, total int, query string) {
	rt.rows = rows
	rt.Clear()

	for col, c := range rt.columns {
		cell := tview.NewTableCell(" " + c.Title).
			SetSelectable(false).
			SetTextColor(rt.theme.TableHeaderFg).
			SetBackgroundColor(rt.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(c.Expansion)
		rt.SetCell(0, col, cell)
	}

	for i, r := range rows {
		for col, c := range rt.columns {
			cell := tview.NewTableCell(" " + tview.Escape(singleLine(c.Value(r)))).
				SetExpansion(c.Expansion).
				SetTextColor(rt.theme.FgColor)
			if c.MaxWidth > 0 {
				cell.SetMaxWidth(c.MaxWidth)
			}
			if c.AlignEnd {
				cell.SetAlign(tview.AlignRight)
			}
			rt.SetCell(i+1, col, cell)
		}
	}

	if len(rows) == 0 {
		msg := " no records"
		switch {
		case rt.loading:
			msg = " loading..."
		case query != "":
			msg = " no results"
		}
		rt.SetCell(1, 0, tview.NewTableCell(msg).
			SetSelectable(false).
			SetTextColor(rt.theme.MutedColor))
	}

	switch {
	case query != "":
		rt.SetTitle(fmt.Sprintf(" %s (%d/%d) filter: %s ", rt.title, len(rows), total, tview.Escape(query)))
	default:
		rt.SetTitle(fmt.Sprintf(" %s (%d) ", rt.title, total))
	}
}

// Selected returns the record under the cursor.
func (rt *RecordTable[R]) Selected() (R, bool) {
	row, _ := rt.GetSelection()
	return rt.At(row - 1)
}

// At returns the idx-th visible record (0-based).
func (rt *RecordTable[R]) At(idx int) (R, bool) {
	var zero R
	if idx < 0 || idx >= len(rt.rows) {
		return zero, false
	}
	return rt.rows[idx], true
}

// Len returns the number of visible records.
func (rt *RecordTable[R]) Len() int { return len(rt.rows) }

// formatTimestamp renders a backend date as a short local time: clock time
// for today, month/day otherwise. Unparseable values are shown as is.
func formatTimestamp(s string, now time.Time) string {
	if s == "" {
		return ""
	}
	t, ok := parseTimestamp(s)
	if !ok {
		return s
	}
	t = t.In(now.Location())
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("01/02")
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
