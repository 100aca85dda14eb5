package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestRegistryShadowing(t *testing.T) {
	r := NewRegistry()
	var got []string
	r.AddGlobal(Rune('d', "drafts", func() { got = append(got, "global d") }))
	r.AddGlobal(Rune('q', "quit", func() { got = append(got, "quit") }))
	r.AddView("drafts", Rune('d', "delete", func() { got = append(got, "delete") }))

	press := func(view string, ch rune) bool {
		return r.HandleEvent(view, tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone))
	}

	if !press("drafts", 'd') || !press("users", 'd') || !press("drafts", 'q') {
		t.Fatal("expected all presses to match")
	}
	if press("drafts", 'x') {
		t.Fatal("unexpected match for x")
	}

	want := []string{"delete", "global d", "quit"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestRegistryKeyActions(t *testing.T) {
	r := NewRegistry()
	fired := false
	r.AddGlobal(&Action{Key: tcell.KeyCtrlR, Label: "Ctrl-R", Help: "refresh", Handler: func() { fired = true }})

	if !r.HandleEvent("any", tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)) || !fired {
		t.Fatal("expected Ctrl-R to fire")
	}
	if r.HandleEvent("any", tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone)) {
		t.Fatal("rune r must not match Ctrl-R")
	}
}

func TestRegistryHintsOrder(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(Rune('?', "help", func() {}))
	r.AddGlobal(&Action{Key: tcell.KeyCtrlC, Handler: func() {}})
	r.AddView("drafts", Rune('n', "new", func() {}))
	r.AddView("drafts", Rune('e', "edit", func() {}))

	hints := r.Hints("drafts")
	if len(hints) != 3 {
		t.Fatalf("expected 3 visible hints, got %+v", hints)
	}
	if hints[0].Key != "n" || hints[1].Key != "e" || hints[2].Key != "?" {
		t.Fatalf("unexpected order %+v", hints)
	}
}
