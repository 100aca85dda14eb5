package views

import (
	"github.com/matheus3301/adminterm/internal/form"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/rivo/tview"
)

func styleForm(f *tview.Form, theme *ui.Theme, title string) {
	f.SetBorder(true)
	f.SetBorderColor(theme.BorderColor)
	f.SetBackgroundColor(theme.BgColor)
	f.SetTitle(title)
	f.SetTitleColor(theme.TitleColor)
	f.SetFieldBackgroundColor(theme.BgColor)
	f.SetFieldTextColor(theme.FgColor)
	f.SetLabelColor(theme.MenuKeyColor)
	f.SetButtonBackgroundColor(theme.BorderColor)
}

// centered wraps p in a fixed-size box in the middle of the screen.
func centered(p tview.Primitive, width, height int) *tview.Flex {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// AuthView is the sign-in page.
type AuthView struct {
	*tview.Flex
	lifecycle
	form       *tview.Form
	username   *tview.InputField
	password   *tview.InputField
	onLogin    func(username, password string)
	onRegister func()
}

// NewAuthView creates the sign-in page.
func NewAuthView(theme *ui.Theme) *AuthView {
	f := tview.NewForm()
	styleForm(f, theme, " Sign in ")

	av := &AuthView{form: f}
	av.username = tview.NewInputField().SetLabel("Username").SetFieldWidth(32)
	av.password = tview.NewInputField().SetLabel("Password").SetFieldWidth(32).SetMaskCharacter('*')
	f.AddFormItem(av.username)
	f.AddFormItem(av.password)
	f.AddButton("Login", func() {
		if av.onLogin != nil {
			av.onLogin(av.username.GetText(), av.password.GetText())
		}
	})
	f.AddButton("Register", func() {
		if av.onRegister != nil {
			av.onRegister()
		}
	})

	av.Flex = centered(f, 52, 9)
	return av
}

// Name implements Component.
func (av *AuthView) Name() string { return "Login" }

// Hints implements Component.
func (av *AuthView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
	}
}

// SetOnLogin sets the callback for the Login button.
func (av *AuthView) SetOnLogin(fn func(username, password string)) {
	av.onLogin = fn
}

// SetOnRegister sets the callback for the Register button.
func (av *AuthView) SetOnRegister(fn func()) {
	av.onRegister = fn
}

// Prefill sets the username and clears the password.
func (av *AuthView) Prefill(username string) {
	av.username.SetText(username)
	av.password.SetText("")
	av.form.SetFocus(0)
	if username != "" {
		av.form.SetFocus(1)
	}
}

// Form returns the underlying form (for focus management).
func (av *AuthView) Form() *tview.Form { return av.form }

// RegisterView is the sign-up page.
type RegisterView struct {
	*tview.Flex
	lifecycle
	form     *tview.Form
	fields   map[string]*tview.InputField
	onSubmit func(r form.Registration)
	onBack   func()
}

var registerFields = []struct {
	label  string
	masked bool
}{
	{"Name", false},
	{"Email", false},
	{"Phone", false},
	{"Password", true},
	{"Confirm", true},
}

// NewRegisterView creates the sign-up page.
func NewRegisterView(theme *ui.Theme) *RegisterView {
	f := tview.NewForm()
	styleForm(f, theme, " Create account ")

	rv := &RegisterView{form: f, fields: make(map[string]*tview.InputField)}
	for _, field := range registerFields {
		in := tview.NewInputField().SetLabel(field.label).SetFieldWidth(32)
		if field.masked {
			in.SetMaskCharacter('*')
		}
		rv.fields[field.label] = in
		f.AddFormItem(in)
	}
	f.AddButton("Register", func() {
		if rv.onSubmit != nil {
			rv.onSubmit(rv.Registration())
		}
	})
	f.AddButton("Back", func() {
		if rv.onBack != nil {
			rv.onBack()
		}
	})
	f.SetCancelFunc(func() {
		if rv.onBack != nil {
			rv.onBack()
		}
	})

	rv.Flex = centered(f, 52, 15)
	return rv
}

// Name implements Component.
func (rv *RegisterView) Name() string { return "Register" }

// Hints implements Component.
func (rv *RegisterView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Esc", Description: "Back"},
	}
}

// SetOnSubmit sets the callback for the Register button.
func (rv *RegisterView) SetOnSubmit(fn func(r form.Registration)) {
	rv.onSubmit = fn
}

// SetOnBack sets the callback for Back and Esc.
func (rv *RegisterView) SetOnBack(fn func()) {
	rv.onBack = fn
}

// Registration returns the form contents.
func (rv *RegisterView) Registration() form.Registration {
	return form.Registration{
		Name:     rv.fields["Name"].GetText(),
		Email:    rv.fields["Email"].GetText(),
		PhoneNum: rv.fields["Phone"].GetText(),
		Password: rv.fields["Password"].GetText(),
		Confirm:  rv.fields["Confirm"].GetText(),
	}
}

// Reset clears every field.
func (rv *RegisterView) Reset() {
	for _, in := range rv.fields {
		in.SetText("")
	}
	rv.form.SetFocus(0)
}

// Form returns the underlying form (for focus management).
func (rv *RegisterView) Form() *tview.Form { return rv.form }
