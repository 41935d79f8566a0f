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

type StocktakeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewStocktakeRepository(db *gorm.DB) contract.StocktakeRepository {
	return &StocktakeRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *StocktakeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StocktakeRepositoryImpl) Create(ctx context.Context, stocktake *entity.Stocktake) error {
	if stocktake.Id == uuid.Nil {
		stocktake.Id = uuid.New()
	}
	m := r.mapper.StocktakeToModel(stocktake)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*stocktake = *r.mapper.StocktakeToEntity(m)
	return nil
}

func (r *StocktakeRepositoryImpl) AddItem(ctx context.Context, item *entity.StocktakeItem) error {
	if item.Id == uuid.Nil {
		item.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.StocktakeItemToModel(item)).Error
}

func (r *StocktakeRepositoryImpl) Update(ctx context.Context, stocktake *entity.Stocktake) error {
	m := r.mapper.StocktakeToModel(stocktake)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*stocktake = *r.mapper.StocktakeToEntity(m)
	return nil
}

func (r *StocktakeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Stocktake, error) {
	var m model.Stocktake
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.StocktakeToEntity(&m), nil
}

func (r *StocktakeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Stocktake, error) {
	var models []*model.Stocktake
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.StocktakesToEntities(models), nil
}

func (r *StocktakeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Stocktake{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *StocktakeRepositoryImpl) FindItems(ctx context.Context, tenantId uuid.UUID, stocktakeId uuid.UUID) ([]*entity.StocktakeItem, error) {
	var models []*model.StocktakeItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND stocktake_id = ?", tenantId, stocktakeId).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.StocktakeItemsToEntities(models), nil
}

func (r *StocktakeRepositoryImpl) FindStocktakeItemsByItemIDs(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID) ([]*entity.StocktakeItem, error) {
	if len(itemIds) == 0 {
		return []*entity.StocktakeItem{}, nil
	}
	var models []*model.StocktakeItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id IN ?", tenantId, itemIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.StocktakeItemsToEntities(models), nil
}
