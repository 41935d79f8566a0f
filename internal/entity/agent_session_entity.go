package entity

import (
	"time"

	"github.com/google/uuid"
)

// AgentSession is the durable conversation state of one (tenant, user) pair.
// State and UIContext are raw JSON; pkg/agent/state owns their shape.
type AgentSession struct {
	Id        uuid.UUID
	TenantId  uuid.UUID
	UserId    uuid.UUID
	State     []byte
	UIContext []byte
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

func (s *AgentSession) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

type AgentAuditLog struct {
	Id         uuid.UUID
	TenantId   uuid.UUID
	UserId     uuid.UUID
	SessionId  uuid.UUID
	Tool       string
	Ok         bool
	Outcome    string
	DurationMs int64
	CreatedAt  time.Time
}
