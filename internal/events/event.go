package events

import (
	"encoding/json"
	"time"
)

const (
	TypeResumeAnalyzed   = "resume.analyzed"
	TypeResumeReanalyzed = "resume.reanalyzed"
)

const eventVersion = 1

// Event is the payload published after a resume analysis is persisted.
type Event struct {
	Type       string    `json:"type"`
	ResumeID   string    `json:"resumeId"`
	UserID     string    `json:"userId"`
	Industry   string    `json:"industry"`
	Score      int       `json:"score"`
	OccurredAt time.Time `json:"occurredAt"`
	Version    int       `json:"version"`
}

// Encode returns the JSON representation of an event, stamping the schema version.
func Encode(evt Event) ([]byte, error) {
	if evt.Version == 0 {
		evt.Version = eventVersion
	}
	return json.Marshal(evt)
}

// Decode parses a JSON payload into an Event.
func Decode(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}
