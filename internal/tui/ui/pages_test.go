package ui

import (
	"slices"
	"testing"

	"github.com/rivo/tview"
)

type recorder struct {
	name string
	log  *[]string
}

func (r *recorder) Name() string      { return r.name }
func (r *recorder) Init()             { *r.log = append(*r.log, "init "+r.name) }
func (r *recorder) Start()            { *r.log = append(*r.log, "start "+r.name) }
func (r *recorder) Stop()             { *r.log = append(*r.log, "stop "+r.name) }
func (r *recorder) Hints() []MenuHint { return nil }

func newTestPages(t *testing.T) (*Pages, *[]string) {
	t.Helper()
	var log []string
	p := NewPages()
	for _, name := range []string{"drafts", "messages", "help"} {
		p.Add(name, tview.NewBox(), &recorder{name: name, log: &log})
	}
	log = nil
	return p, &log
}

func TestPagesLifecycle(t *testing.T) {
	p, log := newTestPages(t)

	p.Reset("drafts")
	p.Push("messages")
	p.Push("help")
	p.Pop()
	p.Pop()

	want := []string{
		"start drafts",
		"stop drafts", "start messages",
		"stop messages", "start help",
		"stop help", "start messages",
		"stop messages", "start drafts",
	}
	if !slices.Equal(*log, want) {
		t.Fatalf("lifecycle mismatch:\n got %v\nwant %v", *log, want)
	}
}

func TestPagesPopKeepsRoot(t *testing.T) {
	p, _ := newTestPages(t)
	p.Reset("drafts")

	if got := p.Pop(); got != "" {
		t.Fatalf("expected root to stay, popped %q", got)
	}
	if p.Current() != "drafts" || p.Depth() != 1 {
		t.Fatalf("unexpected stack %v", p.Stack())
	}
}

func TestPagesPushSameIsNoop(t *testing.T) {
	p, log := newTestPages(t)
	p.Reset("messages")
	*log = nil

	p.Push("messages")
	if len(*log) != 0 || p.Depth() != 1 {
		t.Fatalf("expected no-op, got log %v stack %v", *log, p.Stack())
	}
}

func TestPagesResetStopsTop(t *testing.T) {
	p, log := newTestPages(t)
	p.Reset("drafts")
	p.Push("messages")
	*log = nil

	var stacks [][]string
	p.SetOnChange(func(s []string) { stacks = append(stacks, s) })
	p.Reset("drafts")

	if !slices.Equal(*log, []string{"stop messages", "start drafts"}) {
		t.Fatalf("unexpected log %v", *log)
	}
	if len(stacks) != 1 || !slices.Equal(stacks[0], []string{"drafts"}) {
		t.Fatalf("unexpected change notifications %v", stacks)
	}
}

func TestPagesClose(t *testing.T) {
	p, log := newTestPages(t)
	p.Reset("messages")
	*log = nil

	p.Close()
	p.Close()
	if !slices.Equal(*log, []string{"stop messages"}) {
		t.Fatalf("expected a single stop, got %v", *log)
	}
}
