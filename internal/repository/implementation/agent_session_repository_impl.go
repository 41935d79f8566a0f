package implementation

import (
	"context"
	"errors"
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/mapper"
	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/scope"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AgentSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentSessionMapper
}

func NewAgentSessionRepository(db *gorm.DB) contract.AgentSessionRepository {
	return &AgentSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentSessionMapper(),
	}
}

func (r *AgentSessionRepositoryImpl) Create(ctx context.Context, session *entity.AgentSession) error {
	if session.Id == uuid.Nil {
		session.Id = uuid.New()
	}
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentSessionRepositoryImpl) Update(ctx context.Context, session *entity.AgentSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *AgentSessionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.AgentSession, error) {
	var m model.AgentSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

// FindLive returns the most recently touched unexpired session for the pair.
func (r *AgentSessionRepositoryImpl) FindLive(ctx context.Context, tenantId, userId uuid.UUID, now time.Time) (*entity.AgentSession, error) {
	var m model.AgentSession
	err := r.db.WithContext(ctx).
		Scopes(scope.OwnedBy(tenantId, userId), scope.LiveAt(now), scope.RecentlyTouchedFirst).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

type AgentAuditRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentSessionMapper
}

func NewAgentAuditRepository(db *gorm.DB) contract.AgentAuditRepository {
	return &AgentAuditRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentSessionMapper(),
	}
}

func (r *AgentAuditRepositoryImpl) Create(ctx context.Context, log *entity.AgentAuditLog) error {
	if log.Id == uuid.Nil {
		log.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.AuditToModel(log)).Error
}
