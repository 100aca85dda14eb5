package views

import (
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/adminterm/internal/conversation"
	"github.com/matheus3301/adminterm/internal/tui/ui"
)

func TestMessageThreadUpdate(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mt.Update(conversation.View{
		State: conversation.Connected,
		Messages: []conversation.Message{
			{Username: "ada", Content: "from history", Time: now.Add(-time.Hour), Outgoing: true},
			{Username: "bob", Content: "hi [there]", Time: now, Live: true},
		},
		Compose: "draft text",
	}, now)

	text := mt.Messages().GetText(true)
	if strings.Index(text, "from history") > strings.Index(text, "there") {
		t.Fatalf("messages out of order:\n%s", text)
	}
	if !strings.Contains(text, "(history)") {
		t.Fatalf("expected history marker:\n%s", text)
	}
	if !strings.Contains(mt.Messages().GetTitle(), "CONNECTED") {
		t.Fatalf("expected state in title, got %q", mt.Messages().GetTitle())
	}
	if got := mt.Composer().GetText(); got != "draft text" {
		t.Fatalf("expected composer preload, got %q", got)
	}
}

func TestMessageThreadNoResults(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	mt.Update(conversation.View{State: conversation.Closed, Query: "zzz", NoResults: true}, time.Now())

	if got := mt.Messages().GetText(true); !strings.Contains(got, "no messages match") {
		t.Fatalf("expected no results notice, got %q", got)
	}
}

func TestMessageThreadCallbacks(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	var composed, queried []string
	mt.SetOnCompose(func(s string) { composed = append(composed, s) })
	mt.SetOnQuery(func(s string) { queried = append(queried, s) })

	mt.Composer().SetText("hel")
	mt.Search().SetText("bo")
	mt.Reset("restored")

	if len(composed) != 1 || composed[0] != "hel" {
		t.Fatalf("unexpected compose callbacks %v", composed)
	}
	if len(queried) != 1 || queried[0] != "bo" {
		t.Fatalf("unexpected query callbacks %v", queried)
	}
	if mt.Composer().GetText() != "restored" || mt.Search().GetText() != "" {
		t.Fatal("Reset did not restore fields")
	}
}
