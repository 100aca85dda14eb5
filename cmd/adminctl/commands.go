package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/matheus3301/adminterm/internal/auth"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/conversation"
	"github.com/matheus3301/adminterm/internal/filter"
	"github.com/matheus3301/adminterm/internal/form"
	"github.com/matheus3301/adminterm/internal/store"
	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

func usageError(usage string) error {
	return fmt.Errorf("usage: %s", usage)
}

func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func joinArgs(args []string) string {
	return strings.Join(args, " ")
}

// readSecret prompts on stderr and reads without echo from a terminal, or
// one line from piped stdin.
func readSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	return readLine(stdin)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// session returns the stored session and installs it on the view model.
func (e *env) session() (*auth.Session, error) {
	s, err := e.auth.Current()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return nil, errors.New("not logged in; run adminctl login <username>")
	}
	if err != nil {
		return nil, err
	}
	e.vm.SetSession(s)
	return s, nil
}

type whoami struct {
	User      string    `json:"user"`
	UserID    int       `json:"user_id"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func describe(s *auth.Session) whoami {
	return whoami{
		User:      s.Username,
		UserID:    s.UserID(),
		Email:     s.Claims.Email,
		Role:      s.Claims.Role,
		ExpiresAt: s.Claims.ExpiresAt,
	}
}

func (e *env) printSession(s *auth.Session) {
	w := describe(s)
	if e.jsonOut {
		outputJSON(w)
		return
	}
	fmt.Printf("User:    %s (id %d)\n", w.User, w.UserID)
	if w.Email != "" {
		fmt.Printf("Email:   %s\n", w.Email)
	}
	if w.Role != "" {
		fmt.Printf("Role:    %s\n", w.Role)
	}
	if !w.ExpiresAt.IsZero() {
		fmt.Printf("Expires: %s\n", w.ExpiresAt.Local().Format(time.DateTime))
	}
}

func cmdLogin(ctx context.Context, e *env, username string) error {
	password, err := readSecret("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	s, err := e.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	e.printSession(s)
	return nil
}

func cmdLogout(ctx context.Context, e *env) error {
	s, err := e.auth.Current()
	if errors.Is(err, auth.ErrNotLoggedIn) {
		fmt.Println("Not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	if err := e.auth.Logout(ctx, s); err != nil {
		return err
	}
	fmt.Println("Signed out")
	return nil
}

func cmdWhoami(e *env) error {
	s, err := e.session()
	if err != nil {
		return err
	}
	e.printSession(s)
	return nil
}

func cmdRegister(ctx context.Context, e *env, name, email, phone string) error {
	password, err := readSecret("Password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	confirm, err := readSecret("Confirm password: ")
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	return e.vm.Register(ctx, form.Registration{
		Name:     name,
		Email:    email,
		PhoneNum: phone,
		Password: password,
		Confirm:  confirm,
	})
}

func cmdUsers(ctx context.Context, e *env, query string) error {
	if _, err := e.session(); err != nil {
		return err
	}
	if err := e.vm.LoadUsers(ctx); err != nil {
		return err
	}
	e.vm.Users.SetQuery(query)
	users := e.vm.Users.Results()
	if e.jsonOut {
		outputJSON(users)
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tVERIFIED")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%v\n", u.UserID, u.Name, u.Email, u.Role, u.IsVerified)
	}
	return tw.Flush()
}

func cmdDrafts(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return usageError("adminctl drafts <list|create|update|delete>")
	}
	if _, err := e.session(); err != nil {
		return err
	}
	switch args[0] {
	case "list":
		if err := e.vm.LoadDrafts(ctx); err != nil {
			return err
		}
		e.vm.Drafts.SetQuery(optional(args, 1))
		drafts := e.vm.Drafts.Results()
		if e.jsonOut {
			outputJSON(drafts)
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tUPDATED\tCONTENT")
		for _, d := range drafts {
			updated := d.LastUpdated
			if updated == "" {
				updated = d.DateCreated
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", d.DraftID, d.Title, updated, preview(d.Content, 48))
		}
		return tw.Flush()
	case "create":
		if len(args) < 3 {
			return usageError("adminctl drafts create <title> <content>")
		}
		return e.vm.SaveDraft(ctx, 0, args[1], joinArgs(args[2:]))
	case "update":
		if len(args) < 4 {
			return usageError("adminctl drafts update <id> <title> <content>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return e.vm.SaveDraft(ctx, id, args[2], joinArgs(args[3:]))
	case "delete":
		if len(args) < 2 {
			return usageError("adminctl drafts delete <id>")
		}
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return e.vm.DeleteDraft(ctx, id)
	default:
		return fmt.Errorf("unknown drafts subcommand: %s", args[0])
	}
}

func cmdNotes(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return usageError("adminctl notes <received|send>")
	}
	if _, err := e.session(); err != nil {
		return err
	}
	switch args[0] {
	case "received":
		if err := e.vm.LoadNotes(ctx); err != nil {
			return err
		}
		notes := filter.Filter(e.vm.Notes.Records(), optional(args, 1))
		if e.jsonOut {
			outputJSON(notes)
			return nil
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "FROM\tSENT\tTITLE\tCONTENT")
		for _, n := range notes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.SentBy, n.SentTime, n.Title, preview(n.Content, 48))
		}
		return tw.Flush()
	case "send":
		if len(args) < 3 {
			return usageError("adminctl notes send <draft id> <user id or email>")
		}
		draftID, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := e.vm.LoadUsers(ctx); err != nil {
			return err
		}
		u, err := e.vm.FindUser(args[2])
		if err != nil {
			return err
		}
		return e.vm.ShareDraft(ctx, draftID, u.UserID)
	default:
		return fmt.Errorf("unknown notes subcommand: %s", args[0])
	}
}

// cmdSend runs one conversation: connect, post text, wait for the write
// to be recorded, disconnect. It never touches the console's chat draft.
func cmdSend(ctx context.Context, e *env, text string) error {
	s, err := e.session()
	if err != nil {
		return err
	}

	states, unsub := e.bus.Subscribe(bus.ConversationStateChanged, 8)
	defer unsub()

	conv := conversation.New(conversation.Config{
		Token:    s.Token(),
		Username: s.Username,
		Dialer:   e.dialer,
		Outbox:   e.sender,
		Bus:      e.bus,
		Logger:   e.logger,
	})
	defer conv.Unmount()

	if err := conv.Mount(); err != nil {
		return err
	}
	if err := waitConnected(ctx, conv, states); err != nil {
		return err
	}
	if err := conv.Compose(text); err != nil {
		return err
	}
	if err := conv.Submit(); err != nil {
		return err
	}

	entry, err := waitRecorded(ctx, e.db)
	if err != nil {
		return err
	}
	if entry.Status == store.SentFailed {
		msg := "send failed"
		if entry.Error != nil {
			msg = *entry.Error
		}
		return errors.New(msg)
	}
	if e.jsonOut {
		outputJSON(entry)
		return nil
	}
	fmt.Printf("Sent (request %s)\n", entry.RequestID)
	return nil
}

func waitConnected(ctx context.Context, conv *conversation.Session, states <-chan bus.Event) error {
	for {
		switch conv.State() {
		case conversation.Connected:
			return nil
		case conversation.Closed:
			return errors.New("could not connect to chat")
		}
		select {
		case <-states:
		case <-ctx.Done():
			return fmt.Errorf("connect: %w", ctx.Err())
		}
	}
}

// waitRecorded polls the sent log until the newest entry leaves the
// sending state.
func waitRecorded(ctx context.Context, db *store.DB) (store.SentEntry, error) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		entries, err := db.RecentSent(1)
		if err != nil {
			return store.SentEntry{}, err
		}
		if len(entries) == 1 && entries[0].Status != store.SentSending {
			return entries[0], nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return store.SentEntry{}, fmt.Errorf("send: %w", ctx.Err())
		}
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// preview flattens s to one line of at most n runes.
func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
