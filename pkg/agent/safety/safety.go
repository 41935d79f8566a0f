// Package safety holds the business rules mutating tools must pass.
//
// Lookups are batched: each check loads every referenced row of a kind in
// one query and returns a map keyed by item id.
package safety

import (
	"context"
	"fmt"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
	"wms-ops-agent/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Block is a hard stop for one item.
type Block struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

const (
	BlockStocktakeFreeze = "stocktake_freeze"
	BlockAllocated       = "allocated"
	BlockReleased        = "released"
	BlockDisposed        = "disposed"
)

// InspectionState summarises the inspection tasks linked to one item.
type InspectionState struct {
	HasCompleted bool
	OpenTask     string // task number of an open inspection, if any
}

type Checker struct {
	uow      unitofwork.UnitOfWork
	tenantId uuid.UUID
}

func NewChecker(uow unitofwork.UnitOfWork, tenantId uuid.UUID) *Checker {
	return &Checker{uow: uow, tenantId: tenantId}
}

// FrozenBy maps each item on a draft or in-progress stocktake to that stocktake.
func (c *Checker) FrozenBy(ctx context.Context, itemIds []uuid.UUID) (map[uuid.UUID]*entity.Stocktake, error) {
	frozen := make(map[uuid.UUID]*entity.Stocktake)
	if len(itemIds) == 0 {
		return frozen, nil
	}

	lines, err := c.uow.StocktakeRepository().FindStocktakeItemsByItemIDs(ctx, c.tenantId, itemIds)
	if err != nil {
		return nil, fmt.Errorf("load stocktake lines: %w", err)
	}
	if len(lines) == 0 {
		return frozen, nil
	}

	stocktakeIds := uniqueIDs(lines, func(l *entity.StocktakeItem) uuid.UUID { return l.StocktakeId })
	stocktakes, err := c.uow.StocktakeRepository().FindAll(ctx,
		specification.TenantOwnedBy{TenantID: c.tenantId},
		specification.ByIDs{IDs: stocktakeIds},
		specification.ByStatus{Statuses: entity.FreezingStocktakeStatuses},
	)
	if err != nil {
		return nil, fmt.Errorf("load stocktakes: %w", err)
	}
	byId := make(map[uuid.UUID]*entity.Stocktake, len(stocktakes))
	for _, s := range stocktakes {
		byId[s.Id] = s
	}

	for _, line := range lines {
		if s, ok := byId[line.StocktakeId]; ok {
			if _, seen := frozen[line.ItemId]; !seen {
				frozen[line.ItemId] = s
			}
		}
	}
	return frozen, nil
}

// ActiveOutbound maps each item on a pending or processing outbound shipment
// to that shipment.
func (c *Checker) ActiveOutbound(ctx context.Context, itemIds []uuid.UUID) (map[uuid.UUID]*entity.Shipment, error) {
	active := make(map[uuid.UUID]*entity.Shipment)
	if len(itemIds) == 0 {
		return active, nil
	}

	links, err := c.uow.ShipmentRepository().FindShipmentItemsByItemIDs(ctx, c.tenantId, itemIds)
	if err != nil {
		return nil, fmt.Errorf("load shipment links: %w", err)
	}
	if len(links) == 0 {
		return active, nil
	}

	shipmentIds := uniqueIDs(links, func(l *entity.ShipmentItem) uuid.UUID { return l.ShipmentId })
	shipments, err := c.uow.ShipmentRepository().FindAll(ctx,
		specification.TenantOwnedBy{TenantID: c.tenantId},
		specification.ByIDs{IDs: shipmentIds},
		specification.Filter("shipment_type", entity.ShipmentTypeOutbound),
		specification.ByStatus{Statuses: entity.ActiveShipmentStatuses},
	)
	if err != nil {
		return nil, fmt.Errorf("load shipments: %w", err)
	}
	byId := make(map[uuid.UUID]*entity.Shipment, len(shipments))
	for _, s := range shipments {
		byId[s.Id] = s
	}

	for _, link := range links {
		if s, ok := byId[link.ShipmentId]; ok {
			if _, seen := active[link.ItemId]; !seen {
				active[link.ItemId] = s
			}
		}
	}
	return active, nil
}

// Inspections reports, per item, whether a completed inspection exists and
// whether one is still open.
func (c *Checker) Inspections(ctx context.Context, itemIds []uuid.UUID) (map[uuid.UUID]InspectionState, error) {
	states := make(map[uuid.UUID]InspectionState)
	if len(itemIds) == 0 {
		return states, nil
	}

	links, err := c.uow.TaskRepository().FindTaskItemsByItemIDs(ctx, c.tenantId, itemIds)
	if err != nil {
		return nil, fmt.Errorf("load task links: %w", err)
	}
	if len(links) == 0 {
		return states, nil
	}

	taskIds := uniqueIDs(links, func(l *entity.TaskItem) uuid.UUID { return l.TaskId })
	tasks, err := c.uow.TaskRepository().FindAll(ctx,
		specification.TenantOwnedBy{TenantID: c.tenantId},
		specification.ByIDs{IDs: taskIds},
		specification.Filter("task_type", entity.TaskTypeInspection),
	)
	if err != nil {
		return nil, fmt.Errorf("load inspections: %w", err)
	}
	byId := make(map[uuid.UUID]*entity.Task, len(tasks))
	for _, t := range tasks {
		byId[t.Id] = t
	}

	for _, link := range links {
		task, ok := byId[link.TaskId]
		if !ok {
			continue
		}
		st := states[link.ItemId]
		switch task.Status {
		case entity.TaskStatusCompleted:
			st.HasCompleted = true
		case entity.TaskStatusPending, entity.TaskStatusInProgress:
			if st.OpenTask == "" {
				st.OpenTask = task.TaskNumber
			}
		}
		states[link.ItemId] = st
	}
	return states, nil
}

// MoveBlock returns why an item may not change location, or nil.
func MoveBlock(item *entity.Item, frozenBy *entity.Stocktake) *Block {
	if frozenBy != nil {
		return &Block{
			Code:   BlockStocktakeFreeze,
			Reason: fmt.Sprintf("%s is frozen by stocktake %s (%s); it cannot move until the count is closed", item.ItemCode, frozenBy.StocktakeNumber, frozenBy.Status),
		}
	}
	if item.Status == entity.ItemStatusAllocated {
		return &Block{
			Code:   BlockAllocated,
			Reason: fmt.Sprintf("%s is allocated; release or deallocate it before moving", item.ItemCode),
		}
	}
	return nil
}

// DisposalBlock returns why an item may not go on a disposal draft, or nil.
func DisposalBlock(item *entity.Item) *Block {
	switch item.Status {
	case entity.ItemStatusAllocated:
		return &Block{Code: BlockAllocated, Reason: fmt.Sprintf("%s is allocated", item.ItemCode)}
	case entity.ItemStatusReleased:
		return &Block{Code: BlockReleased, Reason: fmt.Sprintf("%s has been released", item.ItemCode)}
	case entity.ItemStatusDisposed:
		return &Block{Code: BlockDisposed, Reason: fmt.Sprintf("%s is already disposed", item.ItemCode)}
	}
	return nil
}

// RepairWarning is the soft warning for a repair without a completed inspection.
func RepairWarning(item *entity.Item, insp InspectionState) string {
	if insp.HasCompleted {
		return ""
	}
	if insp.OpenTask != "" {
		return fmt.Sprintf("%s has no completed inspection (inspection %s is still open); repairs normally follow a completed inspection", item.ItemCode, insp.OpenTask)
	}
	return fmt.Sprintf("%s has no completed inspection on record; repairs normally follow a completed inspection", item.ItemCode)
}

// OutboundWarning is the soft warning for repair or assembly work on an item
// that is on an active outbound shipment.
func OutboundWarning(taskType string, item *entity.Item, shipment *entity.Shipment) string {
	if shipment == nil {
		return ""
	}
	if taskType != entity.TaskTypeRepair && taskType != entity.TaskTypeAssembly {
		return ""
	}
	return fmt.Sprintf("%s is on outbound shipment %s (%s); %s work may delay it", item.ItemCode, shipment.ShipmentNumber, shipment.Status, taskType)
}

// UnresolvedVariances returns the lines that block a stocktake close: counted
// differently from expected, or not counted at all, and not marked
// resolved or verified.
func UnresolvedVariances(lines []*entity.StocktakeItem) []*entity.StocktakeItem {
	var blocking []*entity.StocktakeItem
	for _, line := range lines {
		if line.VarianceStatus == entity.VarianceResolved || line.VarianceStatus == entity.VarianceVerified {
			continue
		}
		if line.CountedQuantity != nil && *line.CountedQuantity == line.ExpectedQuantity {
			continue
		}
		blocking = append(blocking, line)
	}
	return blocking
}

func uniqueIDs[T any](rows []T, idOf func(T) uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(rows))
	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		id := idOf(row)
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}
