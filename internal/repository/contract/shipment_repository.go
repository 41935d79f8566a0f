package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
)

type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	AddItem(ctx context.Context, shipmentItem *entity.ShipmentItem) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Shipment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Shipment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindItemIDs(ctx context.Context, tenantId uuid.UUID, shipmentId uuid.UUID) ([]uuid.UUID, error)
	FindShipmentItemsByItemIDs(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID) ([]*entity.ShipmentItem, error)
}
