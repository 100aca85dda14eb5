package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in    string
		name  string
		args  string
		known bool
	}{
		{"drafts", "drafts", "", true},
		{"  Q  ", "quit", "", true},
		{"m", "chat", "", true},
		{"share  bob@example.com ", "share", "bob@example.com", true},
		{"frobnicate now", "frobnicate", "now", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		cmd := ParseCommand(tt.in)
		if cmd.Name != tt.name || cmd.Args != tt.args || cmd.Known() != tt.known {
			t.Errorf("ParseCommand(%q) = %+v known=%v, want %s/%s known=%v",
				tt.in, cmd, cmd.Known(), tt.name, tt.args, tt.known)
		}
	}
}
