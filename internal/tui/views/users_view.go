package views

import (
	"strconv"
	"time"

	"github.com/matheus3301/adminterm/internal/backend"
	"github.com/matheus3301/adminterm/internal/tui/ui"
)

// UsersView is the user directory page.
type UsersView struct {
	*RecordTable[backend.User]
	lifecycle
}

// NewUsersView creates the users page.
func NewUsersView(theme *ui.Theme) *UsersView {
	now := time.Now
	columns := []Column[backend.User]{
		{Title: "ID", MaxWidth: 6, AlignEnd: true, Value: func(u backend.User) string { return strconv.Itoa(u.UserID) }},
		{Title: "NAME", Expansion: 1, Value: func(u backend.User) string { return u.Name }},
		{Title: "EMAIL", Expansion: 1, Value: func(u backend.User) string { return u.Email }},
		{Title: "PHONE", Value: func(u backend.User) string { return u.PhoneNum }},
		{Title: "ROLE", Value: func(u backend.User) string { return u.Role }},
		{Title: "VERIFIED", Value: func(u backend.User) string {
			if u.IsVerified {
				return "yes"
			}
			return "no"
		}},
		{Title: "LAST LOGIN", AlignEnd: true, Value: func(u backend.User) string { return formatTimestamp(u.LastLogin, now()) }},
	}
	return &UsersView{RecordTable: NewRecordTable(theme, "Users", columns)}
}

// Name implements Component.
func (uv *UsersView) Name() string { return "Users" }

// Hints implements Component.
func (uv *UsersView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "/", Description: "Filter"},
	}
}

// Refresh renders the filtered users.
func (uv *UsersView) Refresh(rows []backend.User, total int, query string, loading bool) {
	uv.SetLoading(loading)
	uv.Update(rows, total, query)
}
