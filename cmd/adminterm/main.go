package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/matheus3301/adminterm/internal/console"
	"github.com/matheus3301/adminterm/internal/lock"
	"github.com/matheus3301/adminterm/internal/profile"
	"go.uber.org/fx"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	flag.Parse()

	name := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(name); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := fx.New(
		console.Logger(),
		console.Module(console.Params{Profile: name}),
	)
	if err := app.Err(); err != nil {
		var held *lock.HeldError
		if errors.As(err, &held) {
			fmt.Fprintf(os.Stderr, "error: another adminterm is running for profile %q (PID %d)\n", name, held.PID)
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}

	app.Run()
}
