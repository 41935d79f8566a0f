package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
)

type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Location, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Location, error)
}
