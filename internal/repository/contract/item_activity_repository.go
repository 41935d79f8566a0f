package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
)

type ItemMovementRepository interface {
	Create(ctx context.Context, movement *entity.ItemMovement) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ItemMovement, error)
}

type ItemNoteRepository interface {
	Create(ctx context.Context, note *entity.ItemNote) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ItemNote, error)
}
