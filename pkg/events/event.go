package events

import "time"

// Event defines the contract for all audit events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RETRIEVAL_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent carries the common fields every event shares.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewRetrievalCompleted records one finished orchestration call: which
// session asked, what was searched, and how much evidence came back.
func NewRetrievalCompleted(sessionID, userID, query string, citations, vectorHits int) Event {
	return BaseEvent{
		Type: "RETRIEVAL_COMPLETED",
		Data: map[string]interface{}{
			"sessionId":  sessionID,
			"userId":     userID,
			"query":      query,
			"citations":  citations,
			"vectorHits": vectorHits,
		},
		OccurredAt: time.Now(),
	}
}

// NewChatSessionCreated records a new conversation being opened.
func NewChatSessionCreated(sessionID, userID string) Event {
	return BaseEvent{
		Type: "CHAT_SESSION_CREATED",
		Data: map[string]interface{}{
			"sessionId": sessionID,
			"userId":    userID,
		},
		OccurredAt: time.Now(),
	}
}
