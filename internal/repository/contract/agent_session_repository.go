package contract

import (
	"context"
	"errors"
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("agent session not found")

// AgentSessionStore is the durable, tenant+user scoped conversation state.
// Implementations: gorm (postgres), redis and in-memory.
type AgentSessionStore interface {
	// GetOrCreate returns the live session for the pair, refreshing its UI hints,
	// or starts an empty one when none is live.
	GetOrCreate(ctx context.Context, tenantId, userId uuid.UUID, ui state.UIContext) (*state.Session, error)
	// Update persists only the fields carried by the patch.
	Update(ctx context.Context, sessionId uuid.UUID, patch state.Patch) error
}

// AgentSessionRepository is the row-level access used by the gorm store.
type AgentSessionRepository interface {
	Create(ctx context.Context, session *entity.AgentSession) error
	Update(ctx context.Context, session *entity.AgentSession) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.AgentSession, error)
	FindLive(ctx context.Context, tenantId, userId uuid.UUID, now time.Time) (*entity.AgentSession, error)
}

type AgentAuditRepository interface {
	Create(ctx context.Context, log *entity.AgentAuditLog) error
}
