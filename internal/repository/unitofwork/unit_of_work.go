package unitofwork

import (
	"context"

	"wms-ops-agent/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ItemRepository() contract.ItemRepository
	ShipmentRepository() contract.ShipmentRepository
	TaskRepository() contract.TaskRepository
	StocktakeRepository() contract.StocktakeRepository
	LocationRepository() contract.LocationRepository
	AccountRepository() contract.AccountRepository
	ClaimRepository() contract.ClaimRepository
	ItemMovementRepository() contract.ItemMovementRepository
	ItemNoteRepository() contract.ItemNoteRepository
	BillingRepository() contract.BillingRepository

	AgentSessionRepository() contract.AgentSessionRepository
	AgentAuditRepository() contract.AgentAuditRepository
}
