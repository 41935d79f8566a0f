package tools

import (
	"context"
	"fmt"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/pkg/agent/safety"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/events"

	"github.com/google/uuid"
)

type PreviewBulkMoveArgs struct {
	ItemIds      []string `json:"item_ids" validate:"max=500" desc:"Item ids or item codes"`
	ShipmentId   string   `json:"shipment_id" desc:"Move every item on this shipment"`
	ToLocationId string   `json:"to_location_id" validate:"required" desc:"Destination location id or code"`
	Reason       string   `json:"reason" validate:"max=500"`
}

// bulkMovePlan is the stored payload of a bulk_move draft.
type bulkMovePlan struct {
	ToLocationId   uuid.UUID   `json:"to_location_id"`
	ToLocationCode string      `json:"to_location_code"`
	ItemIds        []uuid.UUID `json:"item_ids"`
	Reason         string      `json:"reason,omitempty"`
}

// moveEligibility applies the move rules to every requested item with one
// freeze lookup for the whole set.
func (e *Env) moveEligibility(ctx context.Context, to *entity.Location, ids []uuid.UUID) ([]*entity.Item, []excludedItem, error) {
	items, missing, err := e.itemsByID(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	excluded := missingItems(missing)

	frozen, err := safety.NewChecker(e.UoW, e.Scope.TenantId).FrozenBy(ctx, itemIDs(items))
	if err != nil {
		return nil, nil, err
	}

	var eligible []*entity.Item
	for _, item := range items {
		if gone(item) {
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: item.Status, Reason: fmt.Sprintf("%s is %s", item.ItemCode, item.Status)})
			continue
		}
		if block := safety.MoveBlock(item, frozen[item.Id]); block != nil {
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: block.Code, Reason: block.Reason})
			continue
		}
		if item.LocationId != nil && *item.LocationId == to.Id {
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: "already_there", Reason: fmt.Sprintf("%s is already at %s", item.ItemCode, to.Code)})
			continue
		}
		eligible = append(eligible, item)
	}
	return eligible, excluded, nil
}

func previewBulkMove(ctx context.Context, env *Env, args *PreviewBulkMoveArgs) Result {
	to, res := env.loadLocation(ctx, args.ToLocationId)
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}
	ids, res := env.requestedItems(ctx, args.ItemIds, args.ShipmentId)
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}

	eligible, excluded, err := env.moveEligibility(ctx, to, ids)
	if err != nil {
		return internalError("check move eligibility", err)
	}
	if len(eligible) == 0 {
		r := fail("none of the %d items can be moved to %s", len(ids), to.Code)
		r.Data = env.withUnresolved(map[string]interface{}{"excluded": excluded})
		return r.withPatch(state.ClearDraft())
	}

	plan := bulkMovePlan{
		ToLocationId:   to.Id,
		ToLocationCode: to.Code,
		ItemIds:        itemIDs(eligible),
		Reason:         args.Reason,
	}
	summary := fmt.Sprintf("Move %d items to %s: %s%s", len(eligible), to.Code, codesOf(eligible), excludedSuffix(excluded))
	draft, err := state.NewDraft(state.DraftBulkMove, summary, plan, env.Now)
	if err != nil {
		return internalError("build draft", err)
	}

	rows, err := env.itemRows(ctx, eligible)
	if err != nil {
		return internalError("load item details", err)
	}
	return previewed(draft, "execute_bulk_move", env.withUnresolved(map[string]interface{}{
		"to_location":    ref(to.Code, to.Id),
		"moveable_count": len(eligible),
		"items":          rows,
		"excluded":       excluded,
		"summary":        summary,
	}))
}

func executeBulkMove(ctx context.Context, env *Env, args *ExecuteArgs) Result {
	draft, res := env.pendingDraft(state.DraftBulkMove, "preview_bulk_move", args.Confirmed)
	if res != nil {
		return *res
	}
	var plan bulkMovePlan
	if err := draft.Decode(&plan); err != nil {
		return fail("the pending draft is unreadable; preview again").withPatch(state.ClearDraft())
	}

	to, res := env.loadLocation(ctx, plan.ToLocationId.String())
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}
	eligible, dropped, err := env.moveEligibility(ctx, to, plan.ItemIds)
	if err != nil {
		return internalError("re-check move eligibility", err)
	}
	if len(eligible) == 0 {
		r := fail("no item in the draft can be moved any more; nothing changed")
		r.Data = map[string]interface{}{"excluded": dropped}
		return r.withPatch(state.ClearDraft())
	}

	err = env.inTx(ctx, func() error {
		if err := env.UoW.ItemRepository().UpdateLocation(ctx, env.Scope.TenantId, itemIDs(eligible), to.Id); err != nil {
			return err
		}
		for _, item := range eligible {
			movement := &entity.ItemMovement{
				TenantId:       env.Scope.TenantId,
				ItemId:         item.Id,
				FromLocationId: item.LocationId,
				ToLocationId:   to.Id,
				MovedBy:        env.Scope.UserId,
				MovedByName:    env.Scope.Actor(),
				Reason:         plan.Reason,
				CreatedAt:      env.Now,
			}
			if err := env.UoW.ItemMovementRepository().Create(ctx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return internalError("move items", err)
	}

	moved := make([]string, len(eligible))
	for i, item := range eligible {
		moved[i] = item.Id.String()
	}
	env.publish(ctx, events.ItemMoved, map[string]interface{}{
		"item_ids":       moved,
		"to_location_id": to.Id.String(),
		"to_location":    to.Code,
	})

	data := map[string]interface{}{
		"moved_count": len(eligible),
		"to_location": ref(to.Code, to.Id),
	}
	if len(dropped) > 0 {
		data["no_longer_eligible"] = dropped
	}
	return ok(fmt.Sprintf("moved %d items to %s", len(eligible), to.Code), data).withPatch(state.ClearDraft())
}
