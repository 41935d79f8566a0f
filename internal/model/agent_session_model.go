package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AgentSession struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TenantId  uuid.UUID      `gorm:"type:uuid;not null;index:idx_agent_sessions_owner"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_agent_sessions_owner"`
	State     datatypes.JSON `gorm:"type:jsonb"`
	UIContext datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	ExpiresAt time.Time      `gorm:"not null;index"`
}

func (AgentSession) TableName() string {
	return "agent_sessions"
}

type AgentAuditLog struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId     uuid.UUID `gorm:"type:uuid"`
	SessionId  uuid.UUID `gorm:"type:uuid;index"`
	Tool       string    `gorm:"type:varchar(64);not null;index"`
	Ok         bool      `gorm:"not null"`
	Outcome    string    `gorm:"type:varchar(32)"`
	DurationMs int64
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (AgentAuditLog) TableName() string {
	return "agent_audit_logs"
}

// All lists every model in migration order.
func All() []interface{} {
	return []interface{}{
		&Account{},
		&Sidemark{},
		&Location{},
		&Item{},
		&Shipment{},
		&ShipmentItem{},
		&Task{},
		&TaskItem{},
		&Stocktake{},
		&StocktakeItem{},
		&ItemMovement{},
		&ItemNote{},
		&Claim{},
		&BillingEvent{},
		&AgentSession{},
		&AgentAuditLog{},
	}
}
