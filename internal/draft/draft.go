// Package draft persists the unsent compose buffer so it survives reloads.
package draft

import "fmt"

// Key is the durable storage key holding the draft text.
const Key = "message_draft"

// KV is the storage the draft is persisted to.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Buffer mirrors the compose buffer into durable storage. Concurrent
// writers from other processes race with last-write-wins semantics.
type Buffer struct {
	kv KV
}

// New creates a Buffer backed by kv.
func New(kv KV) *Buffer {
	return &Buffer{kv: kv}
}

// Load returns the persisted draft, or "" when none is stored.
func (b *Buffer) Load() (string, error) {
	v, _, err := b.kv.Get(Key)
	if err != nil {
		return "", fmt.Errorf("load draft: %w", err)
	}
	return v, nil
}

// Set overwrites the persisted draft. Empty text leaves the stored draft
// untouched; only Clear erases it.
func (b *Buffer) Set(text string) error {
	if text == "" {
		return nil
	}
	if err := b.kv.Set(Key, text); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Clear erases the persisted draft.
func (b *Buffer) Clear() error {
	if err := b.kv.Delete(Key); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
