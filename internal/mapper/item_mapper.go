package mapper

import (
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/model"
)

type ItemMapper struct{}

func NewItemMapper() *ItemMapper {
	return &ItemMapper{}
}

func (m *ItemMapper) ToEntity(i *model.Item) *entity.Item {
	if i == nil {
		return nil
	}

	var updatedAt *time.Time
	if !i.UpdatedAt.IsZero() {
		t := i.UpdatedAt
		updatedAt = &t
	}

	return &entity.Item{
		Id:          i.Id,
		TenantId:    i.TenantId,
		ItemCode:    i.ItemCode,
		Description: i.Description,
		Vendor:      i.Vendor,
		AccountId:   i.AccountId,
		SidemarkId:  i.SidemarkId,
		LocationId:  i.LocationId,
		Status:      i.Status,
		Quantity:    i.Quantity,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ItemMapper) ToModel(i *entity.Item) *model.Item {
	if i == nil {
		return nil
	}

	var updatedAt time.Time
	if i.UpdatedAt != nil {
		updatedAt = *i.UpdatedAt
	}

	return &model.Item{
		Id:          i.Id,
		TenantId:    i.TenantId,
		ItemCode:    i.ItemCode,
		Description: i.Description,
		Vendor:      i.Vendor,
		AccountId:   i.AccountId,
		SidemarkId:  i.SidemarkId,
		LocationId:  i.LocationId,
		Status:      i.Status,
		Quantity:    i.Quantity,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ItemMapper) ToEntities(items []*model.Item) []*entity.Item {
	entities := make([]*entity.Item, len(items))
	for i, item := range items {
		entities[i] = m.ToEntity(item)
	}
	return entities
}
