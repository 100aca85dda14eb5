package tui

import "strings"

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// commandAliases maps every accepted spelling to its canonical name.
var commandAliases = map[string]string{
	"drafts": "drafts", "d": "drafts",
	"users": "users", "u": "users",
	"notes": "notes", "n": "notes",
	"chat": "chat", "messages": "chat", "m": "chat",
	"share":   "share",
	"refresh": "refresh", "r": "refresh",
	"logout": "logout",
	"help":   "help", "h": "help",
	"quit": "quit", "q": "quit",
}

// ParseCommand parses a command string (without the leading ':'). Known
// aliases are resolved to their canonical names.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if canonical, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = canonical
	}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// Known reports whether the command name is recognised.
func (c Command) Known() bool {
	_, ok := commandAliases[c.Name]
	return ok
}
