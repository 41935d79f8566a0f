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

type ItemMovementRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewItemMovementRepository(db *gorm.DB) contract.ItemMovementRepository {
	return &ItemMovementRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *ItemMovementRepositoryImpl) Create(ctx context.Context, movement *entity.ItemMovement) error {
	if movement.Id == uuid.Nil {
		movement.Id = uuid.New()
	}
	m := r.mapper.ItemMovementToModel(movement)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*movement = *r.mapper.ItemMovementToEntity(m)
	return nil
}

func (r *ItemMovementRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ItemMovement, error) {
	var models []*model.ItemMovement
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ItemMovementsToEntities(models), nil
}

type ItemNoteRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.WarehouseMapper
}

func NewItemNoteRepository(db *gorm.DB) contract.ItemNoteRepository {
	return &ItemNoteRepositoryImpl{
		db:     db,
		mapper: mapper.NewWarehouseMapper(),
	}
}

func (r *ItemNoteRepositoryImpl) Create(ctx context.Context, note *entity.ItemNote) error {
	if note.Id == uuid.Nil {
		note.Id = uuid.New()
	}
	m := r.mapper.ItemNoteToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ItemNoteToEntity(m)
	return nil
}

func (r *ItemNoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ItemNote, error) {
	var models []*model.ItemNote
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ItemNotesToEntities(models), nil
}
