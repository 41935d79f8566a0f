package tools

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
	"wms-ops-agent/pkg/agent/safety"

	"github.com/google/uuid"
)

// loadItem fetches one resolved item or explains why it cannot.
func (e *Env) loadItem(ctx context.Context, value string) (*entity.Item, *Result) {
	id, res := parseRef("item", value, "search_items")
	if res != nil {
		return nil, res
	}
	item, err := e.UoW.ItemRepository().FindOne(ctx, e.tenant(), specification.ByID{ID: id})
	if err != nil {
		r := internalError("load item", err)
		return nil, &r
	}
	if item == nil {
		r := fail("item %s was not found", value)
		return nil, &r
	}
	return item, nil
}

// openTasksFor returns open tasks linked to any of the items.
func (e *Env) openTasksFor(ctx context.Context, itemIds []uuid.UUID) ([]*entity.Task, error) {
	if len(itemIds) == 0 {
		return nil, nil
	}
	links, err := e.UoW.TaskRepository().FindTaskItemsByItemIDs(ctx, e.Scope.TenantId, itemIds)
	if err != nil {
		return nil, err
	}
	taskIds := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		taskIds = append(taskIds, l.TaskId)
	}
	taskIds = dedupe(taskIds)
	if len(taskIds) == 0 {
		return nil, nil
	}
	return e.UoW.TaskRepository().FindAll(ctx,
		e.tenant(),
		specification.ByIDs{IDs: taskIds},
		specification.ByStatus{Statuses: entity.OpenTaskStatuses},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func taskRows(tasks []*entity.Task) []taskRow {
	out := make([]taskRow, len(tasks))
	for i, t := range tasks {
		out[i] = newTaskRow(t)
	}
	return out
}

// get_item_details

type ItemRefArgs struct {
	ItemId string `json:"item_id" validate:"required" desc:"Item id or item code"`
}

type noteRow struct {
	Note      string    `json:"note"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func getItemDetails(ctx context.Context, env *Env, args *ItemRefArgs) Result {
	item, res := env.loadItem(ctx, args.ItemId)
	if res != nil {
		return *res
	}

	labels, err := env.labelItems(ctx, []*entity.Item{item})
	if err != nil {
		return internalError("load item labels", err)
	}
	details := map[string]interface{}{
		"item":        newItemRow(item, labels),
		"vendor":      item.Vendor,
		"quantity":    item.Quantity,
		"received_at": item.CreatedAt,
	}

	if item.SidemarkId != nil {
		sidemarks, err := env.sidemarkNames(ctx, []uuid.UUID{*item.SidemarkId})
		if err != nil {
			return internalError("load sidemark", err)
		}
		details["sidemark"] = sidemarks[*item.SidemarkId]
	}

	openTasks, err := env.openTasksFor(ctx, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("load open tasks", err)
	}
	details["open_tasks"] = taskRows(openTasks)

	checker := safety.NewChecker(env.UoW, env.Scope.TenantId)
	frozen, err := checker.FrozenBy(ctx, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("check stocktake freeze", err)
	}
	if s, ok := frozen[item.Id]; ok {
		details["frozen_by_stocktake"] = ref(s.StocktakeNumber, s.Id)
	}
	outbound, err := checker.ActiveOutbound(ctx, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("check outbound shipments", err)
	}
	if s, ok := outbound[item.Id]; ok {
		details["active_outbound_shipment"] = ref(s.ShipmentNumber, s.Id)
	}
	inspections, err := checker.Inspections(ctx, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("check inspections", err)
	}
	insp := inspections[item.Id]
	details["has_completed_inspection"] = insp.HasCompleted

	unbilled, err := env.UoW.BillingRepository().SumAmount(ctx,
		env.tenant(),
		specification.Filter("item_id", item.Id),
		specification.ByStatus{Statuses: []string{entity.BillingStatusUnbilled}},
	)
	if err != nil {
		return internalError("sum unbilled charges", err)
	}
	details["unbilled_amount"] = unbilled

	notes, err := env.UoW.ItemNoteRepository().FindAll(ctx,
		env.tenant(),
		specification.Filter("item_id", item.Id),
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: 5},
	)
	if err != nil {
		return internalError("load notes", err)
	}
	rows := make([]noteRow, len(notes))
	for i, n := range notes {
		rows[i] = noteRow{Note: n.Note, CreatedBy: n.CreatedByName, CreatedAt: n.CreatedAt}
	}
	details["recent_notes"] = rows

	return ok(fmt.Sprintf("details for %s", ref(item.ItemCode, item.Id)), details)
}

// get_shipment_details

type ShipmentRefArgs struct {
	ShipmentId string `json:"shipment_id" validate:"required" desc:"Shipment id or shipment number"`
}

func (e *Env) loadShipment(ctx context.Context, value string) (*entity.Shipment, *Result) {
	id, res := parseRef("shipment", value, "search_shipments")
	if res != nil {
		return nil, res
	}
	shipment, err := e.UoW.ShipmentRepository().FindOne(ctx, e.tenant(), specification.ByID{ID: id})
	if err != nil {
		r := internalError("load shipment", err)
		return nil, &r
	}
	if shipment == nil {
		r := fail("shipment %s was not found", value)
		return nil, &r
	}
	return shipment, nil
}

func getShipmentDetails(ctx context.Context, env *Env, args *ShipmentRefArgs) Result {
	shipment, res := env.loadShipment(ctx, args.ShipmentId)
	if res != nil {
		return *res
	}

	rows, err := env.shipmentRows(ctx, []*entity.Shipment{shipment})
	if err != nil {
		return internalError("load shipment account", err)
	}

	itemIds, err := env.UoW.ShipmentRepository().FindItemIDs(ctx, env.Scope.TenantId, shipment.Id)
	if err != nil {
		return internalError("load shipment items", err)
	}
	items, _, err := env.itemsByID(ctx, itemIds)
	if err != nil {
		return internalError("load shipment items", err)
	}
	labels, err := env.labelItems(ctx, items)
	if err != nil {
		return internalError("load item locations", err)
	}
	itemRows := make([]itemRow, len(items))
	for i, item := range items {
		itemRows[i] = newItemRow(item, labels)
	}

	openTasks, err := env.openTasksFor(ctx, itemIds)
	if err != nil {
		return internalError("load open tasks", err)
	}

	return ok(fmt.Sprintf("details for %s", rows[0].Ref), map[string]interface{}{
		"shipment":   rows[0],
		"items":      itemRows,
		"item_count": len(itemRows),
		"open_tasks": taskRows(openTasks),
	})
}

// get_item_movement_history

type MovementHistoryArgs struct {
	ItemId string `json:"item_id" validate:"required" desc:"Item id or item code"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type movementRow struct {
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	MovedBy   string    `json:"moved_by"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func getItemMovementHistory(ctx context.Context, env *Env, args *MovementHistoryArgs) Result {
	item, res := env.loadItem(ctx, args.ItemId)
	if res != nil {
		return *res
	}
	limit := args.Limit
	if limit == 0 {
		limit = 20
	}

	movements, err := env.UoW.ItemMovementRepository().FindAll(ctx,
		env.tenant(),
		specification.Filter("item_id", item.Id),
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: limit},
	)
	if err != nil {
		return internalError("load movements", err)
	}

	var locationIds []uuid.UUID
	for _, m := range movements {
		locationIds = append(locationIds, m.ToLocationId)
		if m.FromLocationId != nil {
			locationIds = append(locationIds, *m.FromLocationId)
		}
	}
	codes, err := env.locationCodes(ctx, dedupe(locationIds))
	if err != nil {
		return internalError("load locations", err)
	}
	labels := itemLabels{locations: codes}

	rows := make([]movementRow, len(movements))
	for i, m := range movements {
		rows[i] = movementRow{
			From:      labels.location(m.FromLocationId),
			To:        codes[m.ToLocationId],
			MovedBy:   m.MovedByName,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
		}
	}
	return ok(fmt.Sprintf("%d movements for %s", len(rows), ref(item.ItemCode, item.Id)), map[string]interface{}{
		"item":      ref(item.ItemCode, item.Id),
		"movements": rows,
	})
}

// get_outbound_history

func getOutboundHistory(ctx context.Context, env *Env, args *ItemRefArgs) Result {
	item, res := env.loadItem(ctx, args.ItemId)
	if res != nil {
		return *res
	}

	links, err := env.UoW.ShipmentRepository().FindShipmentItemsByItemIDs(ctx, env.Scope.TenantId, []uuid.UUID{item.Id})
	if err != nil {
		return internalError("load shipment links", err)
	}
	shipmentIds := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		shipmentIds = append(shipmentIds, l.ShipmentId)
	}

	var shipments []*entity.Shipment
	if ids := dedupe(shipmentIds); len(ids) > 0 {
		shipments, err = env.UoW.ShipmentRepository().FindAll(ctx,
			env.tenant(),
			specification.ByIDs{IDs: ids},
			specification.Filter("shipment_type", entity.ShipmentTypeOutbound),
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return internalError("load shipments", err)
		}
	}
	rows, err := env.shipmentRows(ctx, shipments)
	if err != nil {
		return internalError("load shipment accounts", err)
	}
	return ok(fmt.Sprintf("%s was on %d outbound shipments", ref(item.ItemCode, item.Id), len(rows)), map[string]interface{}{
		"item":      ref(item.ItemCode, item.Id),
		"shipments": rows,
	})
}

// get_account_summary

type AccountRefArgs struct {
	AccountId string `json:"account_id" validate:"required" desc:"Account id, name or account code"`
}

func getAccountSummary(ctx context.Context, env *Env, args *AccountRefArgs) Result {
	id, res := parseRef("account", args.AccountId, "search_accounts")
	if res != nil {
		return *res
	}
	account, err := env.UoW.AccountRepository().FindOne(ctx, env.tenant(), specification.ByID{ID: id})
	if err != nil {
		return internalError("load account", err)
	}
	if account == nil {
		return fail("account %s was not found", args.AccountId)
	}
	byAccount := specification.ByAccountID{AccountID: account.Id}

	itemsByStatus, err := env.UoW.ItemRepository().CountByStatus(ctx, env.tenant(), byAccount)
	if err != nil {
		return internalError("count items", err)
	}
	openTasks, err := env.UoW.TaskRepository().Count(ctx, env.tenant(), byAccount,
		specification.ByStatus{Statuses: entity.OpenTaskStatuses})
	if err != nil {
		return internalError("count tasks", err)
	}
	activeShipments, err := env.UoW.ShipmentRepository().Count(ctx, env.tenant(), byAccount,
		specification.ByStatus{Statuses: entity.ActiveShipmentStatuses})
	if err != nil {
		return internalError("count shipments", err)
	}
	openClaims, err := env.UoW.ClaimRepository().Count(ctx, env.tenant(), byAccount,
		specification.ByStatus{Statuses: entity.OpenClaimStatuses})
	if err != nil {
		return internalError("count claims", err)
	}
	unbilled, err := env.UoW.BillingRepository().SumAmount(ctx, env.tenant(), byAccount,
		specification.ByStatus{Statuses: []string{entity.BillingStatusUnbilled}})
	if err != nil {
		return internalError("sum unbilled charges", err)
	}
	sidemarks, err := env.UoW.AccountRepository().FindSidemarks(ctx, env.tenant(), byAccount,
		specification.OrderBy{Field: "name"})
	if err != nil {
		return internalError("load sidemarks", err)
	}
	sidemarkNames := make([]string, len(sidemarks))
	for i, s := range sidemarks {
		sidemarkNames[i] = s.Name
	}

	var totalItems int64
	for _, n := range itemsByStatus {
		totalItems += n
	}

	code := account.AccountCode
	if code == "" {
		code = account.Name
	}
	return ok(fmt.Sprintf("summary for %s", account.Name), map[string]interface{}{
		"account": accountRow{
			Id:          account.Id,
			Ref:         ref(code, account.Id),
			Name:        account.Name,
			AccountCode: account.AccountCode,
			Status:      account.Status,
		},
		"items_total":      totalItems,
		"items_by_status":  itemsByStatus,
		"open_tasks":       openTasks,
		"active_shipments": activeShipments,
		"open_claims":      openClaims,
		"unbilled_amount":  unbilled,
		"sidemarks":        sidemarkNames,
	})
}

// get_warehouse_snapshot

type WarehouseSnapshotArgs struct{}

func getWarehouseSnapshot(ctx context.Context, env *Env, _ *WarehouseSnapshotArgs) Result {
	itemsByStatus, err := env.UoW.ItemRepository().CountByStatus(ctx, env.tenant())
	if err != nil {
		return internalError("count items", err)
	}

	grouped, err := env.UoW.TaskRepository().CountGrouped(ctx, env.tenant(),
		specification.ByStatus{Statuses: entity.OpenTaskStatuses})
	if err != nil {
		return internalError("count tasks", err)
	}
	openTasks := map[string]int64{}
	for _, g := range grouped {
		openTasks[g.TaskType] += g.Count
	}

	shipments := map[string]int64{}
	for _, typ := range []string{entity.ShipmentTypeInbound, entity.ShipmentTypeOutbound} {
		n, err := env.UoW.ShipmentRepository().Count(ctx, env.tenant(),
			specification.Filter("shipment_type", typ),
			specification.ByStatus{Statuses: entity.ActiveShipmentStatuses})
		if err != nil {
			return internalError("count shipments", err)
		}
		shipments[typ] = n
	}

	activeStocktakes, err := env.UoW.StocktakeRepository().Count(ctx, env.tenant(),
		specification.ByStatus{Statuses: entity.FreezingStocktakeStatuses})
	if err != nil {
		return internalError("count stocktakes", err)
	}
	openClaims, err := env.UoW.ClaimRepository().Count(ctx, env.tenant(),
		specification.ByStatus{Statuses: entity.OpenClaimStatuses})
	if err != nil {
		return internalError("count claims", err)
	}
	unbilled, err := env.UoW.BillingRepository().SumAmount(ctx, env.tenant(),
		specification.ByStatus{Statuses: []string{entity.BillingStatusUnbilled}})
	if err != nil {
		return internalError("sum unbilled charges", err)
	}

	return ok("warehouse snapshot", map[string]interface{}{
		"items_by_status":          itemsByStatus,
		"open_tasks_by_type":       openTasks,
		"active_shipments_by_type": shipments,
		"active_stocktakes":        activeStocktakes,
		"open_claims":              openClaims,
		"unbilled_amount":          unbilled,
		"as_of":                    env.Now,
	})
}

// get_recent_activity

type RecentActivityArgs struct {
	ItemId string `json:"item_id" desc:"Limit to one item (id or code)"`
	Days   int    `json:"days" validate:"omitempty,min=1,max=90" desc:"Look-back window in days, default 7"`
	Limit  int    `json:"limit" validate:"omitempty,min=1,max=100" desc:"Maximum entries, default 20"`
}

type activityRow struct {
	Kind      string    `json:"kind"`
	Summary   string    `json:"summary"`
	Actor     string    `json:"actor,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// getRecentActivity merges movements, task creations and notes, newest
// first. Each source is one query; names are filled in by batch.
func getRecentActivity(ctx context.Context, env *Env, args *RecentActivityArgs) Result {
	days, limit := args.Days, args.Limit
	if days == 0 {
		days = 7
	}
	if limit == 0 {
		limit = 20
	}
	since := specification.CreatedSince{Since: env.Now.AddDate(0, 0, -days)}

	itemSpecs := []specification.Specification{env.tenant(), since}
	var taskFilter []uuid.UUID
	if args.ItemId != "" {
		item, res := env.loadItem(ctx, args.ItemId)
		if res != nil {
			return *res
		}
		itemSpecs = append(itemSpecs, specification.Filter("item_id", item.Id))

		links, err := env.UoW.TaskRepository().FindTaskItemsByItemIDs(ctx, env.Scope.TenantId, []uuid.UUID{item.Id})
		if err != nil {
			return internalError("load task links", err)
		}
		taskFilter = []uuid.UUID{}
		for _, l := range links {
			taskFilter = append(taskFilter, l.TaskId)
		}
	}
	latest := []specification.Specification{specification.OrderBy{Field: "created_at", Desc: true}, specification.Limit{N: limit}}

	movements, err := env.UoW.ItemMovementRepository().FindAll(ctx, append(itemSpecs, latest...)...)
	if err != nil {
		return internalError("load movements", err)
	}
	notes, err := env.UoW.ItemNoteRepository().FindAll(ctx, append(itemSpecs, latest...)...)
	if err != nil {
		return internalError("load notes", err)
	}

	var tasks []*entity.Task
	if taskFilter == nil || len(taskFilter) > 0 {
		taskSpecs := []specification.Specification{env.tenant(), since}
		if taskFilter != nil {
			taskSpecs = append(taskSpecs, specification.ByIDs{IDs: dedupe(taskFilter)})
		}
		tasks, err = env.UoW.TaskRepository().FindAll(ctx, append(taskSpecs, latest...)...)
		if err != nil {
			return internalError("load tasks", err)
		}
	}

	var itemIds, locationIds []uuid.UUID
	for _, m := range movements {
		itemIds = append(itemIds, m.ItemId)
		locationIds = append(locationIds, m.ToLocationId)
	}
	for _, n := range notes {
		itemIds = append(itemIds, n.ItemId)
	}
	items, _, err := env.itemsByID(ctx, dedupe(itemIds))
	if err != nil {
		return internalError("load items", err)
	}
	itemCodes := make(map[uuid.UUID]string, len(items))
	for _, i := range items {
		itemCodes[i.Id] = i.ItemCode
	}
	locations, err := env.locationCodes(ctx, dedupe(locationIds))
	if err != nil {
		return internalError("load locations", err)
	}

	rows := make([]activityRow, 0, len(movements)+len(notes)+len(tasks))
	for _, m := range movements {
		rows = append(rows, activityRow{
			Kind:      "movement",
			Summary:   fmt.Sprintf("%s moved to %s", itemCodes[m.ItemId], locations[m.ToLocationId]),
			Actor:     m.MovedByName,
			CreatedAt: m.CreatedAt,
		})
	}
	for _, n := range notes {
		rows = append(rows, activityRow{
			Kind:      "note",
			Summary:   fmt.Sprintf("note on %s: %s", itemCodes[n.ItemId], n.Note),
			Actor:     n.CreatedByName,
			CreatedAt: n.CreatedAt,
		})
	}
	for _, t := range tasks {
		rows = append(rows, activityRow{
			Kind:      "task",
			Summary:   fmt.Sprintf("%s task %s created (%s)", t.TaskType, t.TaskNumber, t.Status),
			CreatedAt: t.CreatedAt,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return ok(fmt.Sprintf("%d activity entries in the last %d days", len(rows), days), map[string]interface{}{
		"activity": rows,
	})
}
