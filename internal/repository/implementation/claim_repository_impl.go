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

type ClaimRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewClaimRepository(db *gorm.DB) contract.ClaimRepository {
	return &ClaimRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *ClaimRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ClaimRepositoryImpl) Create(ctx context.Context, claim *entity.Claim) error {
	if claim.Id == uuid.Nil {
		claim.Id = uuid.New()
	}
	m := r.mapper.ClaimToModel(claim)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*claim = *r.mapper.ClaimToEntity(m)
	return nil
}

func (r *ClaimRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Claim, error) {
	var m model.Claim
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ClaimToEntity(&m), nil
}

func (r *ClaimRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Claim, error) {
	var models []*model.Claim
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ClaimsToEntities(models), nil
}

func (r *ClaimRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Claim{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
