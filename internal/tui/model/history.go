package model

import (
	"cmp"
	"slices"
	"time"

	"github.com/matheus3301/adminterm/internal/conversation"
	"github.com/matheus3301/adminterm/internal/store"
)

// HistoryLimit caps how many logged messages of each direction are shown
// before the channel connects.
const HistoryLimit = 200

// History merges sent-log and received-log entries (each newest first)
// into the static history shown on the messages page, oldest first.
// Failed sends are left out.
func History(sent []store.SentEntry, received []store.ReceivedEntry) []conversation.Message {
	msgs := make([]conversation.Message, 0, len(sent)+len(received))
	for _, e := range slices.Backward(sent) {
		if e.Status == store.SentFailed {
			continue
		}
		msgs = append(msgs, conversation.Message{
			Username: e.Username,
			Content:  e.Content,
			Time:     time.UnixMilli(e.CreatedAt),
			Outgoing: true,
		})
	}
	for _, e := range slices.Backward(received) {
		msgs = append(msgs, conversation.Message{
			Username: e.Username,
			Content:  e.Content,
			Time:     time.UnixMilli(e.SentAt),
		})
	}
	slices.SortStableFunc(msgs, func(a, b conversation.Message) int {
		return cmp.Compare(a.Time.UnixMilli(), b.Time.UnixMilli())
	})
	return msgs
}
