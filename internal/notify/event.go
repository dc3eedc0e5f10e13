// Package notify delivers the welcome notification sent after registration.
// Delivery is asynchronous: callers enqueue and never observe the outcome.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// EventUserCreated is the event_type of a registration event.
const EventUserCreated = "user_created"

// UserCreatedEvent is published once a user row is committed.
type UserCreatedEvent struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// streamValues renders ev as Redis stream fields.
func streamValues(ev UserCreatedEvent) (map[string]interface{}, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"event_type":   EventUserCreated,
		"aggregate_id": strconv.FormatInt(ev.UserID, 10),
		"payload":      string(payload),
	}, nil
}

var errUnknownEvent = errors.New("unknown event type")

// decodeValues parses stream fields written by streamValues.
func decodeValues(values map[string]interface{}) (UserCreatedEvent, error) {
	eventType, ok := values["event_type"].(string)
	if !ok {
		return UserCreatedEvent{}, errors.New("missing event_type in message")
	}
	if eventType != EventUserCreated {
		return UserCreatedEvent{}, fmt.Errorf("%w: %s", errUnknownEvent, eventType)
	}
	payload, ok := values["payload"].(string)
	if !ok {
		return UserCreatedEvent{}, errors.New("missing payload in message")
	}
	var ev UserCreatedEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return UserCreatedEvent{}, fmt.Errorf("parse user_created payload: %w", err)
	}
	return ev, nil
}
