package implementation

import (
	"context"
	"errors"
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/mapper"
	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ItemMapper
}

func NewItemRepository(db *gorm.DB) contract.ItemRepository {
	return &ItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewItemMapper(),
	}
}

func (r *ItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ItemRepositoryImpl) Create(ctx context.Context, item *entity.Item) error {
	if item.Id == uuid.Nil {
		item.Id = uuid.New()
	}
	m := r.mapper.ToModel(item)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*item = *r.mapper.ToEntity(m)
	return nil
}

func (r *ItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Item, error) {
	var m model.Item
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error) {
	var models []*model.Item
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ItemRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Item{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ItemRepositoryImpl) CountByStatus(ctx context.Context, specs ...specification.Specification) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Item{}), specs...)
	if err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *ItemRepositoryImpl) UpdateLocation(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID, locationId uuid.UUID) error {
	if len(itemIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("tenant_id = ? AND id IN ?", tenantId, itemIds).
		Updates(map[string]interface{}{
			"location_id": locationId,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *ItemRepositoryImpl) UpdateStatus(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID, status string) error {
	if len(itemIds) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("tenant_id = ? AND id IN ?", tenantId, itemIds).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
