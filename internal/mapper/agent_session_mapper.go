package mapper

import (
	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/model"

	"gorm.io/datatypes"
)

type AgentSessionMapper struct{}

func NewAgentSessionMapper() *AgentSessionMapper {
	return &AgentSessionMapper{}
}

func (m *AgentSessionMapper) ToEntity(s *model.AgentSession) *entity.AgentSession {
	if s == nil {
		return nil
	}
	return &entity.AgentSession{
		Id:        s.Id,
		TenantId:  s.TenantId,
		UserId:    s.UserId,
		State:     []byte(s.State),
		UIContext: []byte(s.UIContext),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (m *AgentSessionMapper) ToModel(s *entity.AgentSession) *model.AgentSession {
	if s == nil {
		return nil
	}
	return &model.AgentSession{
		Id:        s.Id,
		TenantId:  s.TenantId,
		UserId:    s.UserId,
		State:     datatypes.JSON(s.State),
		UIContext: datatypes.JSON(s.UIContext),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}

func (m *AgentSessionMapper) AuditToModel(a *entity.AgentAuditLog) *model.AgentAuditLog {
	if a == nil {
		return nil
	}
	return &model.AgentAuditLog{
		Id:         a.Id,
		TenantId:   a.TenantId,
		UserId:     a.UserId,
		SessionId:  a.SessionId,
		Tool:       a.Tool,
		Ok:         a.Ok,
		Outcome:    a.Outcome,
		DurationMs: a.DurationMs,
		CreatedAt:  a.CreatedAt,
	}
}
