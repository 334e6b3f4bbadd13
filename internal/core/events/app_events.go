package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAuthStateChanged    = "auth.state_changed"
	EventTypeFuncionarioCreated  = "funcionario.created"
	EventTypeNotificationCreated = "notification.created"
	EventTypeClientOpened        = "client.opened"
	EventTypeClientExpired       = "client.expired"
)

// KnownTypes lists every event type the application publishes.
var KnownTypes = []string{
	EventTypeAuthStateChanged,
	EventTypeFuncionarioCreated,
	EventTypeNotificationCreated,
	EventTypeClientOpened,
	EventTypeClientExpired,
}

func newBase(eventType, clientID string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		ClientID:  clientID,
		Timestamp: time.Now(),
		Data:      data,
	}
}

type AuthStateChangedEvent struct {
	BaseEvent
	AuthEvent string `json:"auth_event"`
	UserID    string `json:"user_id,omitempty"`
}

func NewAuthStateChangedEvent(clientID, authEvent, userID string) *AuthStateChangedEvent {
	return &AuthStateChangedEvent{
		BaseEvent: newBase(EventTypeAuthStateChanged, clientID, map[string]interface{}{
			"auth_event": authEvent,
			"user_id":    userID,
		}),
		AuthEvent: authEvent,
		UserID:    userID,
	}
}

type FuncionarioCreatedEvent struct {
	BaseEvent
	FuncionarioID int64  `json:"funcionario_id"`
	Nome          string `json:"nome"`
}

func NewFuncionarioCreatedEvent(clientID string, id int64, nome string) *FuncionarioCreatedEvent {
	return &FuncionarioCreatedEvent{
		BaseEvent: newBase(EventTypeFuncionarioCreated, clientID, map[string]interface{}{
			"funcionario_id": id,
			"nome":           nome,
		}),
		FuncionarioID: id,
		Nome:          nome,
	}
}

type NotificationCreatedEvent struct {
	BaseEvent
	NotificationID string `json:"notification_id"`
	Severity       string `json:"severity"`
	Message        string `json:"message"`
}

func NewNotificationCreatedEvent(clientID, id, severity, message string) *NotificationCreatedEvent {
	return &NotificationCreatedEvent{
		BaseEvent: newBase(EventTypeNotificationCreated, clientID, map[string]interface{}{
			"notification_id": id,
			"severity":        severity,
			"message":         message,
		}),
		NotificationID: id,
		Severity:       severity,
		Message:        message,
	}
}

func NewClientOpenedEvent(clientID string) BaseEvent {
	return newBase(EventTypeClientOpened, clientID, map[string]interface{}{})
}

func NewClientExpiredEvent(clientID string, idle time.Duration) BaseEvent {
	return newBase(EventTypeClientExpired, clientID, map[string]interface{}{
		"idle_seconds": int64(idle.Seconds()),
	})
}
