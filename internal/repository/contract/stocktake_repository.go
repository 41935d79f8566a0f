package contract

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
)

type StocktakeRepository interface {
	Create(ctx context.Context, stocktake *entity.Stocktake) error
	AddItem(ctx context.Context, item *entity.StocktakeItem) error
	Update(ctx context.Context, stocktake *entity.Stocktake) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Stocktake, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Stocktake, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	FindItems(ctx context.Context, tenantId uuid.UUID, stocktakeId uuid.UUID) ([]*entity.StocktakeItem, error)
	FindStocktakeItemsByItemIDs(ctx context.Context, tenantId uuid.UUID, itemIds []uuid.UUID) ([]*entity.StocktakeItem, error)
}
