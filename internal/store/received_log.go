package store

import "time"

// ReceivedEntry is one inbound chat message kept for history.
type ReceivedEntry struct {
	ID       int64
	Username string
	Content  string
	// SentAt is the sender's timestamp in unix milliseconds.
	SentAt int64
}

// RecordReceived appends an inbound message. Messages carry no id, so a
// repeated message with the same text and timestamp is a second row.
func (db *DB) RecordReceived(e ReceivedEntry) error {
	_, err := db.Exec(`
		INSERT INTO received_log (username, content, sent_at, created_at)
		VALUES (?, ?, ?, ?)`,
		e.Username, e.Content, e.SentAt, time.Now().UnixMilli())
	return err
}

// RecentReceived returns up to limit entries, newest first.
func (db *DB) RecentReceived(limit int) ([]ReceivedEntry, error) {
	rows, err := db.Query(`
		SELECT id, username, content, sent_at
		FROM received_log ORDER BY sent_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []ReceivedEntry
	for rows.Next() {
		var e ReceivedEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Content, &e.SentAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneReceived deletes all but the newest keep entries.
func (db *DB) PruneReceived(keep int) (int64, error) {
	res, err := db.Exec(`
		DELETE FROM received_log WHERE id NOT IN (
			SELECT id FROM received_log ORDER BY sent_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
