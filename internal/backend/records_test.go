package backend

import (
	"testing"

	"github.com/matheus3301/adminterm/internal/filter"
)

func TestDraftsAreSearchable(t *testing.T) {
	drafts := []Draft{
		{DraftID: 1, Title: "Invoice template", Content: "net 30"},
		{DraftID: 2, Title: "", Content: "Remember the invoice"},
		{DraftID: 3, Title: "Roadmap", Content: "Q4"},
	}
	got := filter.Filter(drafts, "INVOICE")
	if len(got) != 2 || got[0].DraftID != 1 || got[1].DraftID != 2 {
		t.Errorf("Filter(drafts, INVOICE) = %+v", got)
	}
}

func TestUsersSearchByNameOrEmail(t *testing.T) {
	users := []User{
		{UserID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
		{UserID: 2, Email: "grace@example.com"},
	}
	if got := filter.Filter(users, "grace"); len(got) != 1 || got[0].UserID != 2 {
		t.Errorf("email fallback: got %+v", got)
	}
	// Email is only consulted when the name is empty.
	if got := filter.Filter(users, "ada@"); len(got) != 0 {
		t.Errorf("name takes precedence: got %+v", got)
	}
}

func TestReceivedNotesSearchBySender(t *testing.T) {
	notes := []ReceivedNote{{Title: "a", SentBy: "Bob"}, {Title: "b", SentBy: "Carol"}}
	if got := filter.Filter(notes, "carol"); len(got) != 1 || got[0].Title != "b" {
		t.Errorf("got %+v", got)
	}
}
