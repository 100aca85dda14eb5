package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testToken = "tok-123"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requireBearer rejects requests without the test token, the way the
// backend's token dependency does.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func newTestClient(t *testing.T, r chi.Router) *Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewRejectsRelativeURL(t *testing.T) {
	_, err := New("/api", 0, nil)
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") != "admin@example.com" || r.PostForm.Get("password") != "secret123" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"access_token": testToken,
			"token_type":   "Bearer",
			"extra":        "kept",
		})
	})
	c := newTestClient(t, r)

	t.Run("success keeps raw object", func(t *testing.T) {
		creds, err := c.Authenticate(context.Background(), "admin@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, testToken, creds.AccessToken)
		assert.Equal(t, "Bearer", creds.TokenType)
		assert.Contains(t, string(creds.Raw), `"extra":"kept"`)
	})

	t.Run("bad password", func(t *testing.T) {
		_, err := c.Authenticate(context.Background(), "admin@example.com", "nope")
		require.Error(t, err)
		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Invalid email or password", apiErr.Detail)
	})
}

func TestRegister(t *testing.T) {
	var got Registration
	r := chi.NewRouter()
	r.Post("/user/register", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, map[string]string{"msg": "user created"})
	})
	c := newTestClient(t, r)

	err := c.Register(context.Background(), Registration{
		Name: "Ada", Email: "ada@example.com", PhoneNum: "08012345678", Password: "longpassword",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "08012345678", got.PhoneNum)
}

func TestValidationErrorDetail(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/user/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"detail": []map[string]any{{"msg": "field required"}, {"msg": "value is not a valid email address"}},
		})
	})
	c := newTestClient(t, r)

	err := c.Register(context.Background(), Registration{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "field required; value is not a valid email address", apiErr.Detail)
}

func TestDraftsCRUD(t *testing.T) {
	var (
		created NewDraft
		updated Draft
		deleted string
	)
	r := chi.NewRouter()
	r.Route("/drafts", func(r chi.Router) {
		r.Use(requireBearer)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []Draft{
				{DraftID: 1, UserID: 7, Title: "Q3 report", Content: "numbers"},
				{DraftID: 2, UserID: 7, Title: "", Content: "untitled"},
			})
		})
		r.Post("/save", func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			writeJSON(w, http.StatusCreated, map[string]any{"msg": "note created", "draft_id": 42})
		})
		r.Put("/update", func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
			writeJSON(w, http.StatusOK, map[string]string{"details": "note updated"})
		})
		r.Delete("/delete/", func(w http.ResponseWriter, r *http.Request) {
			deleted = r.URL.Query().Get("d_id")
			writeJSON(w, http.StatusOK, map[string]string{"msg": "Deleted"})
		})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	drafts, err := c.ListDrafts(ctx, testToken)
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "Q3 report", drafts[0].Title)

	id, err := c.CreateDraft(ctx, testToken, NewDraft{Title: "memo", Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, 42, id)
	assert.Equal(t, "hello", created.Content)
	assert.NotEmpty(t, created.DateCreated, "date_created should be stamped")

	err = c.UpdateDraft(ctx, testToken, Draft{DraftID: 42, UserID: 7, Title: "memo v2", Content: "hello again"})
	require.NoError(t, err)
	assert.Equal(t, 42, updated.DraftID)
	assert.Equal(t, "memo v2", updated.Title)
	assert.NotEmpty(t, updated.LastUpdated)

	require.NoError(t, c.DeleteDraft(ctx, testToken, 42))
	assert.Equal(t, "42", deleted)

	_, err = c.ListDrafts(ctx, "wrong")
	assert.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestListDraftsNotFoundIsEmpty(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/drafts/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "no notes found for user"})
	})
	c := newTestClient(t, r)

	drafts, err := c.ListDrafts(context.Background(), testToken)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestNotes(t *testing.T) {
	var sent map[string]int
	r := chi.NewRouter()
	r.With(requireBearer).Get("/drafts/receivedNotes", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []ReceivedNote{{Title: "hi", Content: "from bob", SentBy: "Bob"}})
	})
	r.With(requireBearer).Post("/drafts/sendNotes", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		writeJSON(w, http.StatusOK, map[string]string{"msg": "Note sent successfully"})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	notes, err := c.ReceivedNotes(ctx, testToken)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Bob", notes[0].SentBy)

	require.NoError(t, c.SendNote(ctx, testToken, 3, 9))
	assert.Equal(t, map[string]int{"draftId": 3, "toId": 9}, sent)
}

func TestUsersAndProfile(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/user", func(r chi.Router) {
		r.Use(requireBearer)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []User{{UserID: 1, Name: "Ada", Role: "admin"}, {UserID: 2, Email: "bob@example.com"}})
		})
		r.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, User{UserID: 1, Name: "Ada", Email: "ada@example.com", Role: "admin", IsVerified: true})
		})
	})
	r.With(requireBearer).Get("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"msg": "logged out"})
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	users, err := c.ListUsers(ctx, testToken)
	require.NoError(t, err)
	require.Len(t, users, 2)

	me, err := c.Profile(ctx, testToken)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.Name)
	assert.True(t, me.IsVerified)

	assert.NoError(t, c.Logout(ctx, testToken))
}

func TestTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, time.Second, nil)
	require.NoError(t, err)
	_, err = c.ListDrafts(context.Background(), testToken)
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "transport failure must not look like an API error")
}

func TestPlainTextErrorBody(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/user/profile", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down\n")
	})
	c := newTestClient(t, r)

	_, err := c.Profile(context.Background(), testToken)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream down", apiErr.Detail)
	assert.Equal(t, "backend: 502 upstream down", apiErr.Error())
}
