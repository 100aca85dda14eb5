package store

import (
	"database/sql"
	"errors"
	"time"
)

// Scope partitions the key/value store.
type Scope string

const (
	// Local survives logout and process restarts.
	Local Scope = "local"
	// Session is wiped on logout.
	Session Scope = "session"
)

// Get returns the value stored under key. ok is false when the key is unset.
func (db *DB) Get(scope Scope, key string) (value string, ok bool, err error) {
	err = db.QueryRow(`SELECT value FROM kv WHERE scope = ? AND key = ?`, string(scope), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set writes value under key, replacing whatever was there.
func (db *DB) Set(scope Scope, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO kv (scope, key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		string(scope), key, value, time.Now().UnixMilli())
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (db *DB) Delete(scope Scope, key string) error {
	_, err := db.Exec(`DELETE FROM kv WHERE scope = ? AND key = ?`, string(scope), key)
	return err
}

// ClearScope removes every key in scope.
func (db *DB) ClearScope(scope Scope) error {
	_, err := db.Exec(`DELETE FROM kv WHERE scope = ?`, string(scope))
	return err
}

// ScopedKV exposes one scope of the store as a plain key/value map.
type ScopedKV struct {
	db    *DB
	scope Scope
}

// Scoped returns a view of db restricted to scope.
func Scoped(db *DB, scope Scope) *ScopedKV {
	return &ScopedKV{db: db, scope: scope}
}

func (s *ScopedKV) Get(key string) (string, bool, error) { return s.db.Get(s.scope, key) }
func (s *ScopedKV) Set(key, value string) error          { return s.db.Set(s.scope, key, value) }
func (s *ScopedKV) Delete(key string) error              { return s.db.Delete(s.scope, key) }

// Clear removes every key in the view's scope.
func (s *ScopedKV) Clear() error { return s.db.ClearScope(s.scope) }
