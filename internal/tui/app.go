// Package tui is the adminterm console: sign-in, drafts, received notes,
// the user directory and the live chat, drawn with tview.
package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/adminterm/internal/auth"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/channel"
	"github.com/matheus3301/adminterm/internal/draft"
	"github.com/matheus3301/adminterm/internal/form"
	"github.com/matheus3301/adminterm/internal/outbox"
	"github.com/matheus3301/adminterm/internal/tui/keys"
	"github.com/matheus3301/adminterm/internal/tui/model"
	"github.com/matheus3301/adminterm/internal/tui/ui"
	"github.com/matheus3301/adminterm/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageLogin    = "login"
	pageRegister = "register"
	pageDrafts   = "drafts"
	pageEditor   = "editor"
	pageNotes    = "notes"
	pageUsers    = "users"
	pageChat     = "chat"
	pageHelp     = "help"

	layerConfirm = "confirm"
)

// Options wires the console to its collaborators.
type Options struct {
	Profile string
	// BackendURL is shown in the header.
	BackendURL string
	Auth       *auth.Manager
	Backend    model.Backend
	Dialer     channel.Dialer
	Draft      *draft.Buffer
	Outbox     *outbox.Sender
	History    HistorySource
	Bus        *bus.Bus
	Logger     *zap.Logger
	// Screen overrides the terminal, for tests.
	Screen tcell.Screen
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	opts     Options
	logger   *zap.Logger
	theme    *ui.Theme
	vm       *model.ViewModel
	registry *keys.Registry
	flash    *ui.FlashModel

	root      *tview.Flex
	pages     *ui.Pages
	prompt    *ui.Prompt
	promptOn  bool
	crumbs    *ui.Crumbs
	menu      *ui.Menu
	info      *ui.ProfileInfo
	flashBar  *ui.FlashBar
	statusBar *views.StatusBar

	authV     *views.AuthView
	registerV *views.RegisterView
	draftsV   *views.DraftsView
	editor    *views.DraftForm
	notesV    *views.NotesView
	usersV    *views.UsersView
	thread    *views.MessageThread
	helpV     *views.HelpView
	chat      *chatPage

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	done   chan struct{}
}

// NewApp creates the TUI application.
func NewApp(opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:       tview.NewApplication(),
		opts:      opts,
		logger:    logger.Named("tui"),
		theme:     theme,
		vm:        model.NewViewModel(opts.Backend, opts.Bus, logger),
		registry:  keys.NewRegistry(),
		flash:     ui.NewFlashModel(),
		pages:     ui.NewPages(),
		prompt:    ui.NewPrompt(theme),
		menu:      ui.NewMenu(theme),
		info:      ui.NewProfileInfo(theme),
		flashBar:  ui.NewFlashBar(theme),
		statusBar: views.NewStatusBar(theme),
		authV:     views.NewAuthView(theme),
		registerV: views.NewRegisterView(theme),
		draftsV:   views.NewDraftsView(theme),
		editor:    views.NewDraftForm(theme),
		notesV:    views.NewNotesView(theme),
		usersV:    views.NewUsersView(theme),
		thread:    views.NewMessageThread(theme),
		helpV:     views.NewHelpView(theme),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	a.chat = &chatPage{
		view:    a.thread,
		dialer:  opts.Dialer,
		draft:   opts.Draft,
		outbox:  opts.Outbox,
		history: opts.History,
		bus:     opts.Bus,
		logger:  a.logger,
		session: a.vm.Session,
		now:     time.Now,
	}
	a.crumbs = ui.NewCrumbs(theme, a.pageLabel)
	if opts.Screen != nil {
		a.app.SetScreen(opts.Screen)
	}

	a.statusBar.SetProfile(opts.Profile)
	a.setupPages()
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupPages() {
	a.pages.Add(pageLogin, a.authV, a.authV)
	a.pages.Add(pageRegister, a.registerV, a.registerV)
	a.pages.Add(pageDrafts, a.draftsV, a.draftsV)
	a.pages.Add(pageEditor, a.editor, a.editor)
	a.pages.Add(pageNotes, a.notesV, a.notesV)
	a.pages.Add(pageUsers, a.usersV, a.usersV)
	a.pages.Add(pageChat, a.thread, a.thread)
	a.pages.Add(pageHelp, a.helpV, a.helpV)

	a.draftsV.SetOnStart(func() { a.load(a.vm.LoadDrafts) })
	a.notesV.SetOnStart(func() { a.load(a.vm.LoadNotes) })
	a.usersV.SetOnStart(func() { a.load(a.vm.LoadUsers) })
	a.thread.SetOnStart(a.chat.start)
	a.thread.SetOnStop(func() {
		a.chat.stop()
		a.statusBar.SetChannel("")
	})
	a.helpV.SetOnStart(func() { a.helpV.Update(a.helpSections()) })
}

func (a *App) setupBindings() {
	jump := func(r rune, help, page string) *keys.Action {
		act := keys.Rune(r, help, func() { a.pages.Reset(page) })
		act.Numeric = true
		return act
	}
	a.registry.AddGlobal(jump('1', "Drafts", pageDrafts))
	a.registry.AddGlobal(jump('2', "Notes", pageNotes))
	a.registry.AddGlobal(jump('3', "Users", pageUsers))
	a.registry.AddGlobal(jump('4', "Chat", pageChat))
	a.registry.AddGlobal(keys.Rune(':', "Command", func() { a.showPrompt(ui.PromptCommand) }))
	a.registry.AddGlobal(keys.Rune('/', "Filter", a.startFilter))
	a.registry.AddGlobal(keys.Rune('?', "Help", func() { a.pages.Push(pageHelp) }))
	a.registry.AddGlobal(&keys.Action{
		Key: tcell.KeyCtrlR, Label: "Ctrl-R", Help: "Refresh", Visible: true,
		Handler: a.refreshPage,
	})
	a.registry.AddGlobal(keys.Rune('q', "Quit", a.Stop))

	a.registry.AddView(pageDrafts, keys.Rune('n', "New", a.newDraft))
	a.registry.AddView(pageDrafts, keys.Rune('e', "Edit", a.editDraft))
	a.registry.AddView(pageDrafts, keys.Rune('d', "Delete", a.confirmDelete))
	a.registry.AddView(pageChat, keys.Rune('i', "Compose", func() {
		a.app.SetFocus(a.thread.Composer())
	}))
}

func (a *App) setupCallbacks() {
	a.authV.SetOnLogin(a.login)
	a.authV.SetOnRegister(func() {
		a.registerV.Reset()
		a.pages.Push(pageRegister)
	})
	a.registerV.SetOnBack(func() { a.pages.Pop() })
	a.registerV.SetOnSubmit(a.register)

	a.editor.SetOnSave(a.saveDraft)
	a.editor.SetOnClose(func() { a.pages.Pop() })

	a.thread.SetOnCompose(a.chat.compose)
	a.thread.SetOnSend(a.chat.submit)
	a.thread.SetOnQuery(a.chat.query)

	a.prompt.SetOnChange(func(text string) {
		a.setQuery(text)
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnCancel(a.hidePrompt)

	a.pages.SetOnChange(func(stack []string) {
		a.crumbs.Update(stack)
		a.focusCurrent()
		a.refresh()
	})
}

func (a *App) setupLayout() {
	header := tview.NewFlex().
		AddItem(a.info, 40, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(a.theme), 16, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 5, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.capture)
}

func (a *App) capture(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}
	// Prompt and confirmation dialog handle their own keys.
	if a.promptOn || a.pages.HasPage(layerConfirm) {
		return event
	}

	current := a.pages.Current()
	focused := a.app.GetFocus()

	if event.Key() == tcell.KeyEscape {
		if current == pageChat && focused != a.thread.Messages() {
			a.app.SetFocus(a.thread.Messages())
			return nil
		}
		switch current {
		case pageLogin, pageRegister, pageEditor:
			return event
		}
		if a.pages.Pop() != "" {
			return nil
		}
		return event
	}

	switch current {
	case pageLogin, pageRegister, pageEditor, "":
		return event
	}
	switch focused.(type) {
	case *tview.InputField, *tview.TextArea, *views.Composer:
		return event
	}

	if a.registry.HandleEvent(current, event) {
		return nil
	}
	return event
}

func (a *App) pageLabel(page string) string {
	if c, ok := a.pages.Component(page); ok {
		return c.Name()
	}
	return page
}

func (a *App) focusCurrent() {
	switch a.pages.Current() {
	case pageLogin:
		a.app.SetFocus(a.authV.Form())
	case pageRegister:
		a.app.SetFocus(a.registerV.Form())
	case pageDrafts:
		a.app.SetFocus(a.draftsV.Table)
	case pageEditor:
		a.app.SetFocus(a.editor)
	case pageNotes:
		a.app.SetFocus(a.notesV.Table)
	case pageUsers:
		a.app.SetFocus(a.usersV)
	case pageChat:
		a.app.SetFocus(a.thread.Messages())
	case pageHelp:
		a.app.SetFocus(a.helpV)
	}
}

// refresh redraws everything derived from the view model. Runs on the UI
// goroutine.
func (a *App) refresh() {
	vm := a.vm
	a.draftsV.Update(vm.Drafts.Results(), len(vm.Drafts.Records()), vm.Drafts.Query(), vm.Loading(model.PageDrafts))
	a.notesV.Refresh(vm.Notes.Results(), len(vm.Notes.Records()), vm.Notes.Query(), vm.Loading(model.PageNotes))
	a.usersV.Refresh(vm.Users.Results(), len(vm.Users.Records()), vm.Users.Query(), vm.Loading(model.PageUsers))

	a.statusBar.SetBusy(vm.Busy())
	a.statusBar.SetChannel(a.chat.state())
	a.renderHeader()
}

func (a *App) renderHeader() {
	data := ui.ProfileData{Profile: a.opts.Profile, Backend: a.opts.BackendURL}
	if s := a.vm.Session(); s != nil {
		data.User = s.Username
		data.Email = s.Claims.Email
		data.Role = s.Claims.Role
	}
	if p := a.vm.Profile(); p != nil {
		data.User, data.Email, data.Role = p.Name, p.Email, p.Role
	}
	a.info.Update(data)

	var hints []ui.MenuHint
	if c, ok := a.pages.Component(a.pages.Current()); ok {
		hints = c.Hints()
	}
	if a.vm.Session() != nil {
		hints = append(hints, a.registry.Hints("")...)
	}
	a.menu.Update(hints)
}

func (a *App) helpSections() []views.HelpSection {
	var sections []views.HelpSection
	for _, page := range []string{pageDrafts, pageNotes, pageUsers, pageChat} {
		c, _ := a.pages.Component(page)
		sections = append(sections, views.HelpSection{Title: c.Name(), Hints: c.Hints()})
	}
	sections = append(sections,
		views.HelpSection{Title: "Global", Hints: a.registry.Hints("")},
		views.HelpSection{Title: "Commands", Hints: []ui.MenuHint{
			{Key: ":drafts", Description: "Show drafts"},
			{Key: ":notes", Description: "Show received notes"},
			{Key: ":users", Description: "Show users"},
			{Key: ":chat", Description: "Open the chat"},
			{Key: ":share", Description: "Send the selected draft to a user (id or email)"},
			{Key: ":refresh", Description: "Reload the current page"},
			{Key: ":logout", Description: "Sign out"},
			{Key: ":quit", Description: "Quit"},
		}},
	)
	return sections
}

// queue schedules fn on the UI goroutine unless the app is shutting down.
func (a *App) queue(fn func()) {
	if a.ctx.Err() != nil {
		return
	}
	a.app.QueueUpdateDraw(fn)
}

// load runs fn off the UI goroutine. Results arrive through the view
// model's refresh signal.
func (a *App) load(fn func(ctx context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = fn(a.ctx)
	}()
}

func (a *App) refreshPage() {
	switch a.pages.Current() {
	case pageDrafts:
		a.load(a.vm.LoadDrafts)
	case pageNotes:
		a.load(a.vm.LoadNotes)
	case pageUsers:
		a.load(a.vm.LoadUsers)
	case pageChat:
		// A new visit reconnects.
		a.chat.stop()
		a.chat.start()
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode, a.query())
	a.promptOn = true
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.promptOn = false
	a.root.ResizeItem(a.prompt, 0, 0)
	a.focusCurrent()
}

func (a *App) startFilter() {
	switch a.pages.Current() {
	case pageChat:
		a.app.SetFocus(a.thread.Search())
	case pageDrafts, pageNotes, pageUsers:
		a.showPrompt(ui.PromptFilter)
	}
}

func (a *App) query() string {
	switch a.pages.Current() {
	case pageDrafts:
		return a.vm.Drafts.Query()
	case pageNotes:
		return a.vm.Notes.Query()
	case pageUsers:
		return a.vm.Users.Query()
	}
	return ""
}

func (a *App) setQuery(q string) {
	switch a.pages.Current() {
	case pageDrafts:
		a.vm.Drafts.SetQuery(q)
	case pageNotes:
		a.vm.Notes.SetQuery(q)
	case pageUsers:
		a.vm.Users.SetQuery(q)
	default:
		return
	}
	a.refresh()
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case "":
	case "drafts":
		a.pages.Reset(pageDrafts)
	case "notes":
		a.pages.Reset(pageNotes)
	case "users":
		a.pages.Reset(pageUsers)
	case "chat":
		a.pages.Reset(pageChat)
	case "share":
		a.shareDraft(cmd.Args)
	case "refresh":
		a.refreshPage()
	case "logout":
		a.logout()
	case "help":
		a.pages.Push(pageHelp)
	case "quit":
		a.Stop()
	default:
		a.flash.Warn(fmt.Sprintf("Unknown command %q", cmd.Name))
		a.flashBar.Update(a.flash.Get())
	}
}

func (a *App) login(username, password string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		s, err := a.opts.Auth.Login(a.ctx, username, password)
		if err != nil {
			a.opts.Bus.Error(loginFailure(err), err)
			return
		}
		a.opts.Bus.Info(fmt.Sprintf("Welcome, %s", s.Username))
		a.queue(func() { a.signedIn(s) })
	}()
}

func loginFailure(err error) string {
	var fe *form.Error
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return "Login failed"
}

func (a *App) register(r form.Registration) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.vm.Register(a.ctx, r); err != nil {
			return
		}
		a.queue(func() {
			a.pages.Pop()
			a.authV.Prefill(r.Email)
		})
	}()
}

func (a *App) signedIn(s *auth.Session) {
	a.vm.SetSession(s)
	a.statusBar.SetUser(s.Username)
	a.pages.Reset(pageDrafts)
	a.load(a.vm.LoadProfile)
}

func (a *App) logout() {
	s := a.vm.Session()
	a.pages.Reset(pageLogin)
	a.vm.SetSession(nil)
	a.statusBar.SetUser("")
	a.authV.Prefill("")
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.opts.Auth.Logout(a.ctx, s); err != nil {
			a.opts.Bus.Error("Logout failed", err)
			return
		}
		a.opts.Bus.Info("Signed out")
	}()
}

func (a *App) newDraft() {
	a.editor.New()
	a.pages.Push(pageEditor)
}

func (a *App) editDraft() {
	d, ok := a.draftsV.Selected()
	if !ok {
		return
	}
	a.editor.Edit(d)
	a.pages.Push(pageEditor)
}

func (a *App) saveDraft(id int, title, content string) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.vm.SaveDraft(a.ctx, id, title, content); err != nil {
			return
		}
		a.queue(func() {
			if a.pages.Current() == pageEditor {
				a.pages.Pop()
			}
		})
	}()
}

func (a *App) confirmDelete() {
	d, ok := a.draftsV.Selected()
	if !ok {
		return
	}
	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete draft %q?", d.Title)).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(_ int, label string) {
			a.pages.RemovePage(layerConfirm)
			a.focusCurrent()
			if label != "Delete" {
				return
			}
			a.load(func(ctx context.Context) error {
				return a.vm.DeleteDraft(ctx, d.DraftID)
			})
		})
	a.pages.AddPage(layerConfirm, modal, false, true)
	a.app.SetFocus(modal)
}

func (a *App) shareDraft(ref string) {
	d, ok := a.draftsV.Selected()
	if a.pages.Current() != pageDrafts || !ok {
		a.flash.Warn("Select a draft on the drafts page first")
		a.flashBar.Update(a.flash.Get())
		return
	}
	if ref == "" {
		a.flash.Warn("Usage: :share <user id or email>")
		a.flashBar.Update(a.flash.Get())
		return
	}
	a.load(func(ctx context.Context) error {
		if len(a.vm.Users.Records()) == 0 {
			if err := a.vm.LoadUsers(ctx); err != nil {
				return err
			}
		}
		u, err := a.vm.FindUser(ref)
		if err != nil {
			a.opts.Bus.Error("Note not sent", err)
			return err
		}
		return a.vm.ShareDraft(ctx, d.DraftID, u.UserID)
	})
}

// restore shows the drafts page for a stored session and the login page
// otherwise.
func (a *App) restore() {
	s, err := a.opts.Auth.Current()
	if err != nil {
		if !errors.Is(err, auth.ErrNotLoggedIn) {
			a.logger.Warn("restore session", zap.Error(err))
		}
		a.pages.Reset(pageLogin)
		return
	}
	a.logger.Info("session restored", zap.String("user", s.Username))
	a.signedIn(s)
}

// onEvent applies a bus event. Runs on the UI goroutine.
func (a *App) onEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.NoticeInfo, bus.NoticeError:
		n, _ := evt.Payload.(bus.Notice)
		if evt.Kind == bus.NoticeInfo {
			a.flash.Info(n.Text)
		} else {
			a.flash.Err(n.Text, n.Err)
		}
		a.flashBar.Update(a.flash.Get())
	case bus.ConversationStateChanged, bus.ConversationMessageAppended, bus.ConversationSendFailed:
		a.chat.render()
		a.statusBar.SetChannel(a.chat.state())
	}
}

func (a *App) watch() {
	events, unsub := a.opts.Bus.Subscribe("", 128)
	ticker := time.NewTicker(time.Second)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer unsub()
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case evt := <-events:
				a.queue(func() { a.onEvent(evt) })
			case <-a.vm.RefreshCh():
				a.queue(a.refresh)
			case <-ticker.C:
				a.queue(func() {
					a.statusBar.Tick()
					a.flashBar.Update(a.flash.Get())
				})
			}
		}
	}()
}

// Run starts the TUI application and blocks until it exits. The visible
// page is stopped before Run returns, so a mounted chat is always closed.
func (a *App) Run() error {
	defer close(a.done)
	if a.ctx.Err() != nil {
		return nil
	}

	a.watch()
	a.restore()
	err := a.app.Run()

	a.cancel()
	a.pages.Close()
	a.wg.Wait()
	a.logger.Info("console stopped")
	return err
}

// Stop asks the TUI to exit. Safe to call from any goroutine.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

// Done is closed once Run has returned.
func (a *App) Done() <-chan struct{} {
	return a.done
}
