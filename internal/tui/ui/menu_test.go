package ui

import (
	"strings"
	"testing"
)

func TestMenuLayoutColumns(t *testing.T) {
	m := NewMenu(DefaultTheme())
	var hints []MenuHint
	for _, k := range []string{"n", "e", "d", "s", "r", "/", "?"} {
		hints = append(hints, MenuHint{Key: k, Description: "do " + k})
	}

	lines := strings.Split(strings.TrimRight(m.layout(hints), "\n"), "\n")
	if len(lines) != menuRows {
		t.Fatalf("expected %d rows, got %d", menuRows, len(lines))
	}
	if !strings.Contains(lines[0], "<n>") || !strings.Contains(lines[0], "</>") {
		t.Fatalf("expected first and sixth hint on row 0: %q", lines[0])
	}
	if m.layout(nil) != "" {
		t.Fatal("expected empty layout for no hints")
	}
}

func TestCrumbs(t *testing.T) {
	c := NewCrumbs(DefaultTheme(), func(p string) string { return strings.ToUpper(p) })
	c.Update([]string{"drafts", "editor"})
	got := c.GetText(true)
	if !strings.Contains(got, "<drafts>") || !strings.Contains(got, "<editor>") {
		t.Fatalf("unexpected crumbs %q", got)
	}
}
