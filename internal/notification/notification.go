// Package notification keeps the short-lived messages shown to one client.
// Every notification removes itself after a delay that depends on its
// severity.
package notification

import (
	"time"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

func (s Severity) Valid() bool {
	switch s {
	case SeveritySuccess, SeverityError, SeverityInfo, SeverityWarning:
		return true
	}
	return false
}

type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"timestamp"`
}

// Timer is the part of *time.Timer the service needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. It matches time.AfterFunc so tests can swap
// in a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

type Config struct {
	ErrorTTL   time.Duration
	DefaultTTL time.Duration
}

func (c Config) ttl(s Severity) time.Duration {
	if s == SeverityError {
		if c.ErrorTTL > 0 {
			return c.ErrorTTL
		}
		return 6 * time.Second
	}
	if c.DefaultTTL > 0 {
		return c.DefaultTTL
	}
	return 4 * time.Second
}
