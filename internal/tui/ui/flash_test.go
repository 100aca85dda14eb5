package ui

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFlashExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	f.Info("Draft created")
	if m := f.Get(); m == nil || m.Text != "Draft created" || m.Level != FlashInfo {
		t.Fatalf("unexpected flash %+v", m)
	}

	now = now.Add(5 * time.Second)
	if m := f.Get(); m != nil {
		t.Fatalf("expected expired flash, got %+v", m)
	}
}

func TestFlashErrText(t *testing.T) {
	f := NewFlashModel()

	f.Err("Could not load drafts", errors.New("connection refused"))
	if m := f.Get(); m == nil || m.Text != "Could not load drafts: connection refused" || m.Level != FlashErr {
		t.Fatalf("unexpected flash %+v", m)
	}

	f.Err("PLEASE FILL ALL FIELDS", errors.New("PLEASE FILL ALL FIELDS"))
	if m := f.Get(); m.Text != "PLEASE FILL ALL FIELDS" {
		t.Fatalf("cause duplicated: %q", m.Text)
	}

	f.Clear()
	if f.Get() != nil {
		t.Fatal("expected cleared flash")
	}
}

func TestFlashBarUpdate(t *testing.T) {
	fb := NewFlashBar(DefaultTheme())
	fb.Update(&FlashMessage{Text: "bad [red]input", Level: FlashWarn})
	if got := fb.GetText(true); !strings.Contains(got, "input") {
		t.Fatalf("expected text to survive escaping, got %q", got)
	}

	fb.Update(nil)
	if got := fb.GetText(true); got != "" {
		t.Fatalf("expected empty bar, got %q", got)
	}
}
