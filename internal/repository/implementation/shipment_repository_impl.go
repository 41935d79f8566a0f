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

type ShipmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewShipmentRepository(db *gorm.DB) contract.ShipmentRepository {
	return &ShipmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *ShipmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ShipmentRepositoryImpl) Create(ctx context.Context, shipment *entity.Shipment) error {
	if shipment.Id == uuid.Nil {
		shipment.Id = uuid.New()
	}
	m := r.mapper.ShipmentToModel(shipment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*shipment = *r.mapper.ShipmentToEntity(m)
	return nil
}

func (r *ShipmentRepositoryImpl) AddItem(ctx context.Context, shipmentItem *entity.ShipmentItem) error {
	if shipmentItem.Id == uuid.Nil {
		shipmentItem.Id = uuid.New()
	}
	return r.db.WithContext(ctx).Create(r.mapper.ShipmentItemToModel(shipmentItem)).Error
}

func (r *ShipmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Shipment, error) {
	var m model.Shipment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ShipmentToEntity(&m), nil
}

func (r *ShipmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Shipment, error) {
	var models []*model.Shipment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ShipmentsToEntities(models), nil
}

func (r *ShipmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Shipment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ShipmentRepositoryImpl) FindItemIDs(ctx context.Context, tenantId uuid.UUID, shipmentId uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&model.ShipmentItem{}).
		Where("tenant_id = ? AND shipment_id = ?", tenantId, shipmentId).
		Order("id ASC").
		Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *ShipmentRepositoryImpl) FindShipmentItemsByItemIDs(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID) ([]*entity.ShipmentItem, error) {
	if len(itemIds) == 0 {
		return []*entity.ShipmentItem{}, nil
	}
	var models []*model.ShipmentItem
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id IN ?", tenantId, itemIds).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ShipmentItemsToEntities(models), nil
}
