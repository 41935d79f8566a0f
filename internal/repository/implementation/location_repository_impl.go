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

type LocationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewLocationRepository(db *gorm.DB) contract.LocationRepository {
	return &LocationRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *LocationRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *LocationRepositoryImpl) Create(ctx context.Context, location *entity.Location) error {
	if location.Id == uuid.Nil {
		location.Id = uuid.New()
	}
	m := r.mapper.LocationToModel(location)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*location = *r.mapper.LocationToEntity(m)
	return nil
}

func (r *LocationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Location, error) {
	var m model.Location
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.LocationToEntity(&m), nil
}

func (r *LocationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Location, error) {
	var models []*model.Location
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.LocationsToEntities(models), nil
}
