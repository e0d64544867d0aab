// Campus Catalog - Multi-tenant Course Catalog and Access Control
// Copyright 2026 OpenCampus Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opencampus/catalog

package authz

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencampus/catalog/internal/logging"
)

// AuditEvent records one authorization decision for security monitoring
// and forensic analysis.
type AuditEvent struct {
	// ID uniquely identifies this audit event.
	ID string `json:"id"`

	// Timestamp is when the decision was made.
	Timestamp time.Time `json:"timestamp"`

	// RequestID links this event to an HTTP request.
	RequestID string `json:"request_id,omitempty"`

	// ActorID is the subject requesting access.
	ActorID string `json:"actor_id"`

	// ActorRole is the role used for the decision.
	ActorRole string `json:"actor_role,omitempty"`

	// Resource is the request path.
	Resource string `json:"resource"`

	// Action is the HTTP method.
	Action string `json:"action"`

	// Decision is true if access was allowed.
	Decision bool `json:"decision"`

	// Reason provides context, mainly for denials.
	Reason string `json:"reason,omitempty"`

	// Duration is how long the check took.
	Duration time.Duration `json:"duration_ns"`
}

// AuditLoggerConfig configures the audit logger.
type AuditLoggerConfig struct {
	// Enabled controls whether audit logging is active.
	Enabled bool

	// LogAllowed controls whether allowed decisions are logged.
	// Set false to only log denials.
	LogAllowed bool

	// BufferSize is the size of the async log buffer. Events are dropped
	// if the buffer is full; auditing never blocks a request.
	BufferSize int
}

// DefaultAuditLoggerConfig returns production defaults.
func DefaultAuditLoggerConfig() *AuditLoggerConfig {
	return &AuditLoggerConfig{
		Enabled:    true,
		LogAllowed: true,
		BufferSize: 1000,
	}
}

// AuditLogger writes authorization decisions to the structured log
// asynchronously.
type AuditLogger struct {
	config   *AuditLoggerConfig
	events   chan *AuditEvent
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewAuditLogger creates an audit logger.
func NewAuditLogger(config *AuditLoggerConfig) *AuditLogger {
	if config == nil {
		config = DefaultAuditLoggerConfig()
	}
	if config.BufferSize <= 0 {
		config.BufferSize = 1000
	}

	al := &AuditLogger{
		config:   config,
		events:   make(chan *AuditEvent, config.BufferSize),
		stopChan: make(chan struct{}),
	}
	if config.Enabled {
		al.wg.Add(1)
		go al.processEvents()
	}
	return al
}

// LogDecision records a decision without blocking. A nil logger is a no-op
// so callers need not guard against optional auditing.
func (al *AuditLogger) LogDecision(event *AuditEvent) {
	if al == nil || !al.config.Enabled {
		return
	}
	if event.Decision && !al.config.LogAllowed {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	select {
	case al.events <- event:
	default:
		logging.Warn().
			Str("actor_id", event.ActorID).
			Str("resource", event.Resource).
			Msg("Audit log buffer full, event dropped")
	}
}

func (al *AuditLogger) processEvents() {
	defer al.wg.Done()

	for {
		select {
		case <-al.stopChan:
			al.drainEvents()
			return
		case event := <-al.events:
			al.writeEvent(event)
		}
	}
}

func (al *AuditLogger) drainEvents() {
	for {
		select {
		case event := <-al.events:
			al.writeEvent(event)
		default:
			return
		}
	}
}

func (al *AuditLogger) writeEvent(event *AuditEvent) {
	logEvent := logging.Info()
	if !event.Decision {
		// Denials surface as warnings for visibility.
		logEvent = logging.Warn()
	}

	logEvent = logEvent.
		Str("event_type", "authz_decision").
		Str("audit_id", event.ID).
		Time("audit_timestamp", event.Timestamp).
		Str("actor_id", event.ActorID).
		Str("actor_role", event.ActorRole).
		Str("resource", event.Resource).
		Str("action", event.Action).
		Bool("decision", event.Decision).
		Dur("duration", event.Duration)

	if event.RequestID != "" {
		logEvent = logEvent.Str("request_id", event.RequestID)
	}
	if event.Reason != "" {
		logEvent = logEvent.Str("reason", event.Reason)
	}

	if event.Decision {
		logEvent.Msg("Authorization allowed")
	} else {
		logEvent.Msg("Authorization denied")
	}
}

// Close stops the audit logger and flushes remaining events.
func (al *AuditLogger) Close() {
	if al == nil {
		return
	}
	al.stopOnce.Do(func() {
		close(al.stopChan)
	})
	al.wg.Wait()
}

// BufferUsed reports how many events are waiting to be written.
func (al *AuditLogger) BufferUsed() int {
	if al == nil {
		return 0
	}
	return len(al.events)
}
