package mapper

import (
	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/model"
)

// WarehouseMapper converts the warehouse tables that map field-for-field.
// Item carries its own mapper because UpdatedAt is optional on the entity.
type WarehouseMapper struct{}

func NewWarehouseMapper() *WarehouseMapper {
	return &WarehouseMapper{}
}

func (m *WarehouseMapper) AccountToEntity(v *model.Account) *entity.Account {
	if v == nil {
		return nil
	}
	return &entity.Account{
		Id:          v.Id,
		TenantId:    v.TenantId,
		Name:        v.Name,
		AccountCode: v.AccountCode,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
	}
}

func (m *WarehouseMapper) AccountToModel(v *entity.Account) *model.Account {
	if v == nil {
		return nil
	}
	return &model.Account{
		Id:          v.Id,
		TenantId:    v.TenantId,
		Name:        v.Name,
		AccountCode: v.AccountCode,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
	}
}

func (m *WarehouseMapper) AccountsToEntities(vs []*model.Account) []*entity.Account {
	entities := make([]*entity.Account, len(vs))
	for i, v := range vs {
		entities[i] = m.AccountToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) SidemarkToEntity(v *model.Sidemark) *entity.Sidemark {
	if v == nil {
		return nil
	}
	return &entity.Sidemark{
		Id:        v.Id,
		TenantId:  v.TenantId,
		AccountId: v.AccountId,
		Name:      v.Name,
	}
}

func (m *WarehouseMapper) SidemarkToModel(v *entity.Sidemark) *model.Sidemark {
	if v == nil {
		return nil
	}
	return &model.Sidemark{
		Id:        v.Id,
		TenantId:  v.TenantId,
		AccountId: v.AccountId,
		Name:      v.Name,
	}
}

func (m *WarehouseMapper) SidemarksToEntities(vs []*model.Sidemark) []*entity.Sidemark {
	entities := make([]*entity.Sidemark, len(vs))
	for i, v := range vs {
		entities[i] = m.SidemarkToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) LocationToEntity(v *model.Location) *entity.Location {
	if v == nil {
		return nil
	}
	return &entity.Location{
		Id:           v.Id,
		TenantId:     v.TenantId,
		Code:         v.Code,
		Name:         v.Name,
		LocationType: v.LocationType,
		IsActive:     v.IsActive,
	}
}

func (m *WarehouseMapper) LocationToModel(v *entity.Location) *model.Location {
	if v == nil {
		return nil
	}
	return &model.Location{
		Id:           v.Id,
		TenantId:     v.TenantId,
		Code:         v.Code,
		Name:         v.Name,
		LocationType: v.LocationType,
		IsActive:     v.IsActive,
	}
}

func (m *WarehouseMapper) LocationsToEntities(vs []*model.Location) []*entity.Location {
	entities := make([]*entity.Location, len(vs))
	for i, v := range vs {
		entities[i] = m.LocationToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) ShipmentToEntity(v *model.Shipment) *entity.Shipment {
	if v == nil {
		return nil
	}
	return &entity.Shipment{
		Id:             v.Id,
		TenantId:       v.TenantId,
		ShipmentNumber: v.ShipmentNumber,
		ShipmentType:   v.ShipmentType,
		Status:         v.Status,
		AccountId:      v.AccountId,
		Carrier:        v.Carrier,
		ExpectedDate:   v.ExpectedDate,
		CreatedAt:      v.CreatedAt,
	}
}

func (m *WarehouseMapper) ShipmentToModel(v *entity.Shipment) *model.Shipment {
	if v == nil {
		return nil
	}
	return &model.Shipment{
		Id:             v.Id,
		TenantId:       v.TenantId,
		ShipmentNumber: v.ShipmentNumber,
		ShipmentType:   v.ShipmentType,
		Status:         v.Status,
		AccountId:      v.AccountId,
		Carrier:        v.Carrier,
		ExpectedDate:   v.ExpectedDate,
		CreatedAt:      v.CreatedAt,
	}
}

func (m *WarehouseMapper) ShipmentsToEntities(vs []*model.Shipment) []*entity.Shipment {
	entities := make([]*entity.Shipment, len(vs))
	for i, v := range vs {
		entities[i] = m.ShipmentToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) ShipmentItemToEntity(v *model.ShipmentItem) *entity.ShipmentItem {
	if v == nil {
		return nil
	}
	return &entity.ShipmentItem{
		Id:         v.Id,
		TenantId:   v.TenantId,
		ShipmentId: v.ShipmentId,
		ItemId:     v.ItemId,
	}
}

func (m *WarehouseMapper) ShipmentItemToModel(v *entity.ShipmentItem) *model.ShipmentItem {
	if v == nil {
		return nil
	}
	return &model.ShipmentItem{
		Id:         v.Id,
		TenantId:   v.TenantId,
		ShipmentId: v.ShipmentId,
		ItemId:     v.ItemId,
	}
}

func (m *WarehouseMapper) ShipmentItemsToEntities(vs []*model.ShipmentItem) []*entity.ShipmentItem {
	entities := make([]*entity.ShipmentItem, len(vs))
	for i, v := range vs {
		entities[i] = m.ShipmentItemToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) TaskToEntity(v *model.Task) *entity.Task {
	if v == nil {
		return nil
	}
	return &entity.Task{
		Id:          v.Id,
		TenantId:    v.TenantId,
		TaskNumber:  v.TaskNumber,
		TaskType:    v.TaskType,
		Status:      v.Status,
		Title:       v.Title,
		Notes:       v.Notes,
		AccountId:   v.AccountId,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt,
		CompletedAt: v.CompletedAt,
	}
}

func (m *WarehouseMapper) TaskToModel(v *entity.Task) *model.Task {
	if v == nil {
		return nil
	}
	return &model.Task{
		Id:          v.Id,
		TenantId:    v.TenantId,
		TaskNumber:  v.TaskNumber,
		TaskType:    v.TaskType,
		Status:      v.Status,
		Title:       v.Title,
		Notes:       v.Notes,
		AccountId:   v.AccountId,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt,
		CompletedAt: v.CompletedAt,
	}
}

func (m *WarehouseMapper) TasksToEntities(vs []*model.Task) []*entity.Task {
	entities := make([]*entity.Task, len(vs))
	for i, v := range vs {
		entities[i] = m.TaskToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) TaskItemToEntity(v *model.TaskItem) *entity.TaskItem {
	if v == nil {
		return nil
	}
	return &entity.TaskItem{
		Id:       v.Id,
		TenantId: v.TenantId,
		TaskId:   v.TaskId,
		ItemId:   v.ItemId,
	}
}

func (m *WarehouseMapper) TaskItemToModel(v *entity.TaskItem) *model.TaskItem {
	if v == nil {
		return nil
	}
	return &model.TaskItem{
		Id:       v.Id,
		TenantId: v.TenantId,
		TaskId:   v.TaskId,
		ItemId:   v.ItemId,
	}
}

func (m *WarehouseMapper) TaskItemsToEntities(vs []*model.TaskItem) []*entity.TaskItem {
	entities := make([]*entity.TaskItem, len(vs))
	for i, v := range vs {
		entities[i] = m.TaskItemToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) StocktakeToEntity(v *model.Stocktake) *entity.Stocktake {
	if v == nil {
		return nil
	}
	return &entity.Stocktake{
		Id:              v.Id,
		TenantId:        v.TenantId,
		StocktakeNumber: v.StocktakeNumber,
		Name:            v.Name,
		Status:          v.Status,
		LocationId:      v.LocationId,
		CreatedAt:       v.CreatedAt,
		ClosedAt:        v.ClosedAt,
		ClosedBy:        v.ClosedBy,
	}
}

func (m *WarehouseMapper) StocktakeToModel(v *entity.Stocktake) *model.Stocktake {
	if v == nil {
		return nil
	}
	return &model.Stocktake{
		Id:              v.Id,
		TenantId:        v.TenantId,
		StocktakeNumber: v.StocktakeNumber,
		Name:            v.Name,
		Status:          v.Status,
		LocationId:      v.LocationId,
		CreatedAt:       v.CreatedAt,
		ClosedAt:        v.ClosedAt,
		ClosedBy:        v.ClosedBy,
	}
}

func (m *WarehouseMapper) StocktakesToEntities(vs []*model.Stocktake) []*entity.Stocktake {
	entities := make([]*entity.Stocktake, len(vs))
	for i, v := range vs {
		entities[i] = m.StocktakeToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) StocktakeItemToEntity(v *model.StocktakeItem) *entity.StocktakeItem {
	if v == nil {
		return nil
	}
	return &entity.StocktakeItem{
		Id:               v.Id,
		TenantId:         v.TenantId,
		StocktakeId:      v.StocktakeId,
		ItemId:           v.ItemId,
		ExpectedQuantity: v.ExpectedQuantity,
		CountedQuantity:  v.CountedQuantity,
		VarianceStatus:   v.VarianceStatus,
	}
}

func (m *WarehouseMapper) StocktakeItemToModel(v *entity.StocktakeItem) *model.StocktakeItem {
	if v == nil {
		return nil
	}
	return &model.StocktakeItem{
		Id:               v.Id,
		TenantId:         v.TenantId,
		StocktakeId:      v.StocktakeId,
		ItemId:           v.ItemId,
		ExpectedQuantity: v.ExpectedQuantity,
		CountedQuantity:  v.CountedQuantity,
		VarianceStatus:   v.VarianceStatus,
	}
}

func (m *WarehouseMapper) StocktakeItemsToEntities(vs []*model.StocktakeItem) []*entity.StocktakeItem {
	entities := make([]*entity.StocktakeItem, len(vs))
	for i, v := range vs {
		entities[i] = m.StocktakeItemToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) ItemMovementToEntity(v *model.ItemMovement) *entity.ItemMovement {
	if v == nil {
		return nil
	}
	return &entity.ItemMovement{
		Id:             v.Id,
		TenantId:       v.TenantId,
		ItemId:         v.ItemId,
		FromLocationId: v.FromLocationId,
		ToLocationId:   v.ToLocationId,
		MovedBy:        v.MovedBy,
		MovedByName:    v.MovedByName,
		Reason:         v.Reason,
		CreatedAt:      v.CreatedAt,
	}
}

func (m *WarehouseMapper) ItemMovementToModel(v *entity.ItemMovement) *model.ItemMovement {
	if v == nil {
		return nil
	}
	return &model.ItemMovement{
		Id:             v.Id,
		TenantId:       v.TenantId,
		ItemId:         v.ItemId,
		FromLocationId: v.FromLocationId,
		ToLocationId:   v.ToLocationId,
		MovedBy:        v.MovedBy,
		MovedByName:    v.MovedByName,
		Reason:         v.Reason,
		CreatedAt:      v.CreatedAt,
	}
}

func (m *WarehouseMapper) ItemMovementsToEntities(vs []*model.ItemMovement) []*entity.ItemMovement {
	entities := make([]*entity.ItemMovement, len(vs))
	for i, v := range vs {
		entities[i] = m.ItemMovementToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) ItemNoteToEntity(v *model.ItemNote) *entity.ItemNote {
	if v == nil {
		return nil
	}
	return &entity.ItemNote{
		Id:            v.Id,
		TenantId:      v.TenantId,
		ItemId:        v.ItemId,
		Note:          v.Note,
		CreatedBy:     v.CreatedBy,
		CreatedByName: v.CreatedByName,
		CreatedAt:     v.CreatedAt,
	}
}

func (m *WarehouseMapper) ItemNoteToModel(v *entity.ItemNote) *model.ItemNote {
	if v == nil {
		return nil
	}
	return &model.ItemNote{
		Id:            v.Id,
		TenantId:      v.TenantId,
		ItemId:        v.ItemId,
		Note:          v.Note,
		CreatedBy:     v.CreatedBy,
		CreatedByName: v.CreatedByName,
		CreatedAt:     v.CreatedAt,
	}
}

func (m *WarehouseMapper) ItemNotesToEntities(vs []*model.ItemNote) []*entity.ItemNote {
	entities := make([]*entity.ItemNote, len(vs))
	for i, v := range vs {
		entities[i] = m.ItemNoteToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) ClaimToEntity(v *model.Claim) *entity.Claim {
	if v == nil {
		return nil
	}
	return &entity.Claim{
		Id:          v.Id,
		TenantId:    v.TenantId,
		ClaimNumber: v.ClaimNumber,
		AccountId:   v.AccountId,
		ItemId:      v.ItemId,
		Status:      v.Status,
		Description: v.Description,
		Amount:      v.Amount,
		CreatedAt:   v.CreatedAt,
	}
}

func (m *WarehouseMapper) ClaimToModel(v *entity.Claim) *model.Claim {
	if v == nil {
		return nil
	}
	return &model.Claim{
		Id:          v.Id,
		TenantId:    v.TenantId,
		ClaimNumber: v.ClaimNumber,
		AccountId:   v.AccountId,
		ItemId:      v.ItemId,
		Status:      v.Status,
		Description: v.Description,
		Amount:      v.Amount,
		CreatedAt:   v.CreatedAt,
	}
}

func (m *WarehouseMapper) ClaimsToEntities(vs []*model.Claim) []*entity.Claim {
	entities := make([]*entity.Claim, len(vs))
	for i, v := range vs {
		entities[i] = m.ClaimToEntity(v)
	}
	return entities
}

func (m *WarehouseMapper) BillingEventToEntity(v *model.BillingEvent) *entity.BillingEvent {
	if v == nil {
		return nil
	}
	return &entity.BillingEvent{
		Id:          v.Id,
		TenantId:    v.TenantId,
		AccountId:   v.AccountId,
		ItemId:      v.ItemId,
		Description: v.Description,
		Amount:      v.Amount,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
	}
}

func (m *WarehouseMapper) BillingEventToModel(v *entity.BillingEvent) *model.BillingEvent {
	if v == nil {
		return nil
	}
	return &model.BillingEvent{
		Id:          v.Id,
		TenantId:    v.TenantId,
		AccountId:   v.AccountId,
		ItemId:      v.ItemId,
		Description: v.Description,
		Amount:      v.Amount,
		Status:      v.Status,
		CreatedAt:   v.CreatedAt,
	}
}

func (m *WarehouseMapper) BillingEventsToEntities(vs []*model.BillingEvent) []*entity.BillingEvent {
	entities := make([]*entity.BillingEvent, len(vs))
	for i, v := range vs {
		entities[i] = m.BillingEventToEntity(v)
	}
	return entities
}
