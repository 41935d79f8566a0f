package unitofwork

import (
	"context"
	"fmt"

	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // set between Begin and Commit/Rollback
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) ItemRepository() contract.ItemRepository {
	return implementation.NewItemRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ShipmentRepository() contract.ShipmentRepository {
	return implementation.NewShipmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TaskRepository() contract.TaskRepository {
	return implementation.NewTaskRepository(u.getDB())
}

func (u *UnitOfWorkImpl) StocktakeRepository() contract.StocktakeRepository {
	return implementation.NewStocktakeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) LocationRepository() contract.LocationRepository {
	return implementation.NewLocationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AccountRepository() contract.AccountRepository {
	return implementation.NewAccountRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ClaimRepository() contract.ClaimRepository {
	return implementation.NewClaimRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ItemMovementRepository() contract.ItemMovementRepository {
	return implementation.NewItemMovementRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ItemNoteRepository() contract.ItemNoteRepository {
	return implementation.NewItemNoteRepository(u.getDB())
}

func (u *UnitOfWorkImpl) BillingRepository() contract.BillingRepository {
	return implementation.NewBillingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgentSessionRepository() contract.AgentSessionRepository {
	return implementation.NewAgentSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AgentAuditRepository() contract.AgentAuditRepository {
	return implementation.NewAgentAuditRepository(u.getDB())
}
