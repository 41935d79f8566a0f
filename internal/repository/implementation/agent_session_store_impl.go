package implementation

import (
	"context"
	"fmt"
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AgentSessionStoreImpl keeps sessions in the agent_sessions table. Each
// GetOrCreate slides the expiry forward by ttl.
type AgentSessionStoreImpl struct {
	repo contract.AgentSessionRepository
	ttl  time.Duration
	now  func() time.Time
}

func NewAgentSessionStore(db *gorm.DB, ttl time.Duration) contract.AgentSessionStore {
	return &AgentSessionStoreImpl{
		repo: NewAgentSessionRepository(db),
		ttl:  ttl,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *AgentSessionStoreImpl) GetOrCreate(ctx context.Context, tenantId, userId uuid.UUID, ui state.UIContext) (*state.Session, error) {
	now := s.now()
	uiBytes, err := ui.Encode()
	if err != nil {
		return nil, err
	}

	row, err := s.repo.FindLive(ctx, tenantId, userId, now)
	if err != nil {
		return nil, fmt.Errorf("find live session: %w", err)
	}

	if row == nil {
		empty, err := state.SessionState{}.Encode()
		if err != nil {
			return nil, err
		}
		row = &entity.AgentSession{
			Id:        uuid.New(),
			TenantId:  tenantId,
			UserId:    userId,
			State:     empty,
			UIContext: uiBytes,
			CreatedAt: now,
			UpdatedAt: now,
			ExpiresAt: now.Add(s.ttl),
		}
		if err := s.repo.Create(ctx, row); err != nil {
			return nil, fmt.Errorf("create session: %w", err)
		}
		return toSession(row)
	}

	row.UIContext = uiBytes
	row.ExpiresAt = now.Add(s.ttl)
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, fmt.Errorf("refresh session: %w", err)
	}
	return toSession(row)
}

func (s *AgentSessionStoreImpl) Update(ctx context.Context, sessionId uuid.UUID, patch state.Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	row, err := s.repo.FindByID(ctx, sessionId)
	if err != nil {
		return fmt.Errorf("find session: %w", err)
	}
	if row == nil {
		return contract.ErrSessionNotFound
	}

	current, err := state.DecodeState(row.State)
	if err != nil {
		return err
	}
	encoded, err := patch.Apply(current).Encode()
	if err != nil {
		return err
	}
	row.State = encoded
	return s.repo.Update(ctx, row)
}

func toSession(row *entity.AgentSession) (*state.Session, error) {
	st, err := state.DecodeState(row.State)
	if err != nil {
		return nil, err
	}
	ui, err := state.DecodeUIContext(row.UIContext)
	if err != nil {
		return nil, err
	}
	return &state.Session{
		Id:        row.Id,
		TenantId:  row.TenantId,
		UserId:    row.UserId,
		State:     st,
		UIContext: ui,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}
