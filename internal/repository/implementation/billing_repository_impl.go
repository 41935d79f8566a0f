package implementation

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/mapper"
	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewBillingRepository(db *gorm.DB) contract.BillingRepository {
	return &BillingRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *BillingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *BillingRepositoryImpl) Create(ctx context.Context, event *entity.BillingEvent) error {
	if event.Id == uuid.Nil {
		event.Id = uuid.New()
	}
	m := r.mapper.BillingEventToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.BillingEventToEntity(m)
	return nil
}

func (r *BillingRepositoryImpl) SumAmount(ctx context.Context, specs ...specification.Specification) (float64, error) {
	var sum float64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.BillingEvent{}), specs...)
	if err := query.Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}
