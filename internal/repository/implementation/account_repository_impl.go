package implementation

import (
	"context"
	"errors"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/mapper"
	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccountRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewAccountRepository(db *gorm.DB) contract.AccountRepository {
	return &AccountRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *AccountRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AccountRepositoryImpl) Create(ctx context.Context, account *entity.Account) error {
	if account.Id == uuid.Nil {
		account.Id = uuid.New()
	}
	m := r.mapper.AccountToModel(account)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*account = *r.mapper.AccountToEntity(m)
	return nil
}

func (r *AccountRepositoryImpl) CreateSidemark(ctx context.Context, sidemark *entity.Sidemark) error {
	if sidemark.Id == uuid.Nil {
		sidemark.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.SidemarkToModel(sidemark)).Error
}

func (r *AccountRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error) {
	var m model.Account
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AccountToEntity(&m), nil
}

func (r *AccountRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Account, error) {
	var models []*model.Account
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.AccountsToEntities(models), nil
}

func (r *AccountRepositoryImpl) FindSidemarks(ctx context.Context, specs ...specification.Specification) ([]*entity.Sidemark, error) {
	var models []*model.Sidemark
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SidemarksToEntities(models), nil
}
