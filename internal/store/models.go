package store

import "time"

// MaxLoggedTextLen is the number of characters of a message kept in the dialog log.
const MaxLoggedTextLen = 500

// DialogEntry is one inbound message as recorded in the daily dialog log.
type DialogEntry struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name"`
	MessageText string    `json:"message_text"`
}
