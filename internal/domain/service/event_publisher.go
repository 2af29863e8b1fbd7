package service

import (
	"context"
	"time"
)

// SecurityEventRefreshTokenReuse is emitted when an already revoked refresh token is presented again.
const SecurityEventRefreshTokenReuse = "refresh_token_reuse"

// SecurityEvent describes a security-relevant occurrence for downstream auditing.
type SecurityEvent struct {
	Type         string    `json:"type"`
	RequestID    string    `json:"request_id,omitempty"` // For distributed tracing
	UserID       string    `json:"user_id"`
	TokenID      string    `json:"token_id"`
	Policy       string    `json:"policy"`
	RevokedCount int64     `json:"revoked_count"`
	DetectedAt   time.Time `json:"detected_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishSecurityEvent publishes a security event for asynchronous processing.
	PublishSecurityEvent(ctx context.Context, event *SecurityEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
