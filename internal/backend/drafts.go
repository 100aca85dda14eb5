package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matheus3301/adminterm/internal/filter"
)

// Draft is a saved note.
type Draft struct {
	DraftID     int    `json:"draft_id"`
	UserID      int    `json:"user_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	DateCreated string `json:"date_created"`
	LastUpdated string `json:"last_updated"`
}

// Field implements filter.Record. The title is searched as the filename.
func (d Draft) Field(f filter.Field) (string, bool) {
	switch f {
	case filter.Filename:
		return d.Title, d.Title != ""
	case filter.Content:
		return d.Content, true
	}
	return "", false
}

// NewDraft is the create payload.
type NewDraft struct {
	Title       string `json:"title,omitempty"`
	Content     string `json:"content"`
	DateCreated string `json:"date_created"`
}

// ReceivedNote is a draft another user sent to the current user.
type ReceivedNote struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	SentBy   string `json:"sent_by"`
	SentTime string `json:"sent_time"`
}

// Field implements filter.Record.
func (n ReceivedNote) Field(f filter.Field) (string, bool) {
	switch f {
	case filter.Filename:
		return n.Title, n.Title != ""
	case filter.Content:
		return n.Content, true
	case filter.Username:
		return n.SentBy, n.SentBy != ""
	}
	return "", false
}

// Timestamp formats t the way the backend stores draft dates.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ListDrafts returns the current user's drafts. The backend answers 404
// when there are none; that is reported as an empty list.
func (c *Client) ListDrafts(ctx context.Context, token string) ([]Draft, error) {
	var drafts []Draft
	if err := c.do(ctx, request{method: http.MethodGet, path: "/drafts/", token: token}, &drafts); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return drafts, nil
}

// CreateDraft saves a new draft and returns its id.
func (c *Client) CreateDraft(ctx context.Context, token string, d NewDraft) (int, error) {
	if d.DateCreated == "" {
		d.DateCreated = Timestamp(time.Now())
	}
	var resp struct {
		Msg     string `json:"msg"`
		DraftID int    `json:"draft_id"`
	}
	err := c.do(ctx, request{method: http.MethodPost, path: "/drafts/save", token: token, json: d}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.DraftID, nil
}

// UpdateDraft replaces a draft by id. LastUpdated is stamped when empty.
func (c *Client) UpdateDraft(ctx context.Context, token string, d Draft) error {
	if d.LastUpdated == "" {
		d.LastUpdated = Timestamp(time.Now())
	}
	return c.do(ctx, request{method: http.MethodPut, path: "/drafts/update", token: token, json: d}, nil)
}

// DeleteDraft removes a draft by id.
func (c *Client) DeleteDraft(ctx context.Context, token string, id int) error {
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/drafts/delete/",
		query:  url.Values{"d_id": {strconv.Itoa(id)}},
		token:  token,
	}, nil)
}

// ReceivedNotes returns drafts other users sent to the current user.
func (c *Client) ReceivedNotes(ctx context.Context, token string) ([]ReceivedNote, error) {
	var notes []ReceivedNote
	err := c.do(ctx, request{method: http.MethodGet, path: "/drafts/receivedNotes", token: token}, &notes)
	if err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return notes, nil
}

// SendNote shares one of the current user's drafts with another user.
func (c *Client) SendNote(ctx context.Context, token string, draftID, toUserID int) error {
	body := struct {
		DraftID int `json:"draftId"`
		ToID    int `json:"toId"`
	}{draftID, toUserID}
	return c.do(ctx, request{method: http.MethodPost, path: "/drafts/sendNotes", token: token, json: body}, nil)
}
