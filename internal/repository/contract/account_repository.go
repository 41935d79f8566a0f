package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
)

type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	CreateSidemark(ctx context.Context, sidemark *entity.Sidemark) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Account, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Account, error)
	FindSidemarks(ctx context.Context, specs ...specification.Specification) ([]*entity.Sidemark, error)
}
