package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
)

type ClaimRepository interface {
	Create(ctx context.Context, claim *entity.Claim) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Claim, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Claim, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
