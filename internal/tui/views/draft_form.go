package views

import (
	"fmt"

	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/form"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

const (
	labelTitle   = "Title"
	labelContent = "Content"
)

// DraftForm creates or edits one draft.
type DraftForm struct {
	*tview.Form
	lifecycle
	title   *tview.InputField
	content *tview.TextArea
	id      int
	onSave  func(id int, title, content string)
	onClose func()
}

// NewDraftForm creates the draft editor page.
func NewDraftForm(theme *ui.Theme) *DraftForm {
	f := tview.NewForm()
	f.SetBorder(true)
	f.SetBorderColor(theme.BorderColor)
	f.SetBackgroundColor(theme.BgColor)
	f.SetTitleColor(theme.TitleColor)
	f.SetFieldBackgroundColor(theme.BgColor)
	f.SetFieldTextColor(theme.FgColor)
	f.SetLabelColor(theme.MenuKeyColor)
	f.SetButtonBackgroundColor(theme.BorderColor)

	df := &DraftForm{Form: f}
	df.title = tview.NewInputField().
		SetLabel(labelTitle).
		SetFieldWidth(0)
	df.content = tview.NewTextArea().
		SetLabel(labelContent).
		SetSize(12, 0)
	df.title.SetAcceptanceFunc(func(text string, _ rune) bool {
		return len([]rune(text)) <= form.MaxTitleLen
	})

	f.AddFormItem(df.title)
	f.AddFormItem(df.content)
	f.AddButton("Save", func() {
		if df.onSave != nil {
			df.onSave(df.id, df.title.GetText(), df.content.GetText())
		}
	})
	f.AddButton("Cancel", df.close)
	f.SetCancelFunc(df.close)
	return df
}

func (df *DraftForm) close() {
	if df.onClose != nil {
		df.onClose()
	}
}

// Name implements Component.
func (df *DraftForm) Name() string {
	if df.id == 0 {
		return "New draft"
	}
	return "Edit draft"
}

// Hints implements Component.
func (df *DraftForm) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Cancel"},
	}
}

// SetOnSave sets the callback for the Save button. id is 0 for a new draft.
func (df *DraftForm) SetOnSave(fn func(id int, title, content string)) {
	df.onSave = fn
}

// SetOnClose sets the callback for Cancel and Esc.
func (df *DraftForm) SetOnClose(fn func()) {
	df.onClose = fn
}

// New clears the form for a new draft.
func (df *DraftForm) New() {
	df.load(0, "", "")
	df.SetTitle(" New draft ")
}

// Edit fills the form from d.
func (df *DraftForm) Edit(d backend.Draft) {
	df.load(d.DraftID, d.Title, d.Content)
	df.SetTitle(fmt.Sprintf(" Edit draft #%d ", d.DraftID))
}

func (df *DraftForm) load(id int, title, content string) {
	df.id = id
	df.title.SetText(title)
	df.content.SetText(content, false)
	df.SetFocus(0)
}

// Values returns the current field contents.
func (df *DraftForm) Values() (id int, title, content string) {
	return df.id, df.title.GetText(), df.content.GetText()
}
