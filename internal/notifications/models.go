package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SecurityEventType enumerates the auth events published to Kafka.
type SecurityEventType string

const (
	SecurityEventLoginSuccess  SecurityEventType = "LOGIN_SUCCESS"
	SecurityEventLoginFailure  SecurityEventType = "LOGIN_FAILURE"
	SecurityEventAccountLocked SecurityEventType = "ACCOUNT_LOCKED"
	SecurityEventRegistered    SecurityEventType = "USER_REGISTERED"
	SecurityEventLogout        SecurityEventType = "LOGOUT"
)

// SecurityEvent is the message shape on the security-events topic.
// Partitioned by email so events for one account stay ordered.
type SecurityEvent struct {
	ID        string            `json:"id"`
	Type      SecurityEventType `json:"type"`
	UserID    string            `json:"user_id,omitempty"`
	Email     string            `json:"email"`
	IP        string            `json:"ip,omitempty"`
	Attempts  int64             `json:"attempts,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewSecurityEvent builds an event with ID and timestamp filled in.
func NewSecurityEvent(eventType SecurityEventType, userID, email, ip string) *SecurityEvent {
	return &SecurityEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		CreatedAt: time.Now().UTC(),
	}
}

// Marshal serializes the event for the wire.
func (e *SecurityEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}
