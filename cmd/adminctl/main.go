package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/matheus3301/adminterm/internal/auth"
	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/bus"
	"github.com/matheus3301/adminterm/internal/channel"
	"github.com/matheus3301/adminterm/internal/console"
	"github.com/matheus3301/adminterm/internal/outbox"
	"github.com/matheus3301/adminterm/internal/profile"
	"github.com/matheus3301/adminterm/internal/store"
	"github.com/matheus3301/adminterm/internal/tui/model"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// env is what every command runs against.
type env struct {
	client  *backend.Client
	auth    *auth.Manager
	db      *store.DB
	bus     *bus.Bus
	dialer  channel.Dialer
	sender  *outbox.Sender
	logger  *zap.Logger
	vm      *model.ViewModel
	jsonOut bool
}

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	timeoutFlag := flag.Duration("timeout", 30*time.Second, "overall command timeout")
	flag.Usage = printUsage
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	e := &env{jsonOut: *jsonFlag}
	app := fx.New(
		console.Logger(),
		console.Core(console.Params{Profile: name}),
		fx.Populate(&e.client, &e.auth, &e.db, &e.bus, &e.dialer, &e.sender, &e.logger),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeoutFlag)
	if err := app.Start(ctx); err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	e.vm = model.NewViewModel(e.client, e.bus, e.logger)
	notices, unsub := e.bus.Subscribe(bus.NoticeInfo, 32)

	err := run(ctx, e, args)

	unsub()
	printNotices(notices)
	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	_ = app.Stop(stopCtx)
	stopCancel()

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, e *env, args []string) error {
	switch args[0] {
	case "login":
		if len(args) < 2 {
			return usageError("adminctl login <username>")
		}
		return cmdLogin(ctx, e, args[1])
	case "logout":
		return cmdLogout(ctx, e)
	case "whoami":
		return cmdWhoami(e)
	case "register":
		if len(args) < 4 {
			return usageError("adminctl register <name> <email> <phone>")
		}
		return cmdRegister(ctx, e, args[1], args[2], args[3])
	case "users":
		return cmdUsers(ctx, e, optional(args, 1))
	case "drafts":
		return cmdDrafts(ctx, e, args[1:])
	case "notes":
		return cmdNotes(ctx, e, args[1:])
	case "send":
		if len(args) < 2 {
			return usageError("adminctl send <text>")
		}
		return cmdSend(ctx, e, joinArgs(args[1:]))
	default:
		printUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: adminctl [--profile <name>] [--json] [--timeout <d>] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  login <username>                     Sign in (password read from stdin)")
	fmt.Fprintln(os.Stderr, "  logout                               Sign out and forget the stored session")
	fmt.Fprintln(os.Stderr, "  whoami                               Show the stored session")
	fmt.Fprintln(os.Stderr, "  register <name> <email> <phone>      Create an account")
	fmt.Fprintln(os.Stderr, "  users [query]                        List users")
	fmt.Fprintln(os.Stderr, "  drafts list [query]                  List your drafts")
	fmt.Fprintln(os.Stderr, "  drafts create <title> <content>      Create a draft")
	fmt.Fprintln(os.Stderr, "  drafts update <id> <title> <content> Replace a draft")
	fmt.Fprintln(os.Stderr, "  drafts delete <id>                   Delete a draft")
	fmt.Fprintln(os.Stderr, "  notes received [query]               List drafts sent to you")
	fmt.Fprintln(os.Stderr, "  notes send <draft id> <user>         Send a draft to a user (id or email)")
	fmt.Fprintln(os.Stderr, "  send <text>                          Post one chat message")
}

func printNotices(events <-chan bus.Event) {
	for {
		select {
		case evt, ok := <-events:
			if !ok {
				return
			}
			if n, ok := evt.Payload.(bus.Notice); ok {
				fmt.Fprintln(os.Stderr, n.Text)
			}
		default:
			return
		}
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
