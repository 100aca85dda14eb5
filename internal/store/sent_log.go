package store

import "time"

// SentEntry is one outbound chat message as recorded locally.
type SentEntry struct {
	ID        int64
	RequestID string
	Username  string
	Content   string
	Status    string
	Error     *string
	CreatedAt int64
}

// Sent log statuses.
const (
	SentSending = "sending"
	SentOK      = "sent"
	SentFailed  = "failed"
)

// RecordSending logs an outbound message before it is handed to the channel.
func (db *DB) RecordSending(requestID, username, content string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO sent_log (request_id, username, content, status, created_at, updated_at)
		VALUES (?, ?, ?, 'sending', ?, ?)`,
		requestID, username, content, now, now)
	return err
}

// MarkSent records that the channel accepted the message.
func (db *DB) MarkSent(requestID string) error {
	_, err := db.Exec(`UPDATE sent_log SET status = 'sent', updated_at = ? WHERE request_id = ?`,
		time.Now().UnixMilli(), requestID)
	return err
}

// MarkSendFailed records a send failure. Nothing retries failed entries.
func (db *DB) MarkSendFailed(requestID, errMsg string) error {
	_, err := db.Exec(`UPDATE sent_log SET status = 'failed', error = ?, updated_at = ? WHERE request_id = ?`,
		errMsg, time.Now().UnixMilli(), requestID)
	return err
}

// RecentSent returns up to limit entries, newest first.
func (db *DB) RecentSent(limit int) ([]SentEntry, error) {
	rows, err := db.Query(`
		SELECT id, request_id, username, content, status, error, created_at
		FROM sent_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []SentEntry
	for rows.Next() {
		var e SentEntry
		if err := rows.Scan(&e.ID, &e.RequestID, &e.Username, &e.Content, &e.Status, &e.Error, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
