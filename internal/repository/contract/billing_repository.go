package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
)

type BillingRepository interface {
	Create(ctx context.Context, event *entity.BillingEvent) error
	SumAmount(ctx context.Context, specs ...specification.Specification) (float64, error)
}
