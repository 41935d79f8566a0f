package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
)

type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Item, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountByStatus(ctx context.Context, specs ...specification.Specification) (map[string]int64, error)
	UpdateLocation(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID, locationId uuid.UUID) error
	UpdateStatus(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID, status string) error
}
