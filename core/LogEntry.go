package core

import "time"

// LogEntry is a single serial console line together with the timestamp the
// logging backend assigned to it.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
}

// ISOTimestamp renders the entry timestamp in the ISO 8601 form used in
// verdict messages.
func (e LogEntry) ISOTimestamp() string {
	return e.Timestamp.UTC().Format(time.RFC3339)
}
