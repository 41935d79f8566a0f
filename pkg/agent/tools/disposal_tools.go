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

type PreviewDisposalArgs struct {
	ItemIds    []string `json:"item_ids" validate:"max=500" desc:"Item ids or item codes"`
	ShipmentId string   `json:"shipment_id"`
	Reason     string   `json:"reason" validate:"required,max=500" desc:"Why the items are being disposed"`
}

type disposalPlan struct {
	ItemIds []uuid.UUID `json:"item_ids"`
	Reason  string      `json:"reason"`
}

// disposalEligibility leaves out allocated, released, already disposed and
// stocktake-frozen items.
func (e *Env) disposalEligibility(ctx context.Context, ids []uuid.UUID) ([]*entity.Item, []excludedItem, error) {
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
		if block := safety.DisposalBlock(item); block != nil {
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: block.Code, Reason: block.Reason})
			continue
		}
		if s := frozen[item.Id]; s != nil {
			block := safety.MoveBlock(item, s)
			excluded = append(excluded, excludedItem{Id: item.Id, ItemCode: item.ItemCode, Code: block.Code, Reason: block.Reason})
			continue
		}
		eligible = append(eligible, item)
	}
	return eligible, excluded, nil
}

func previewDisposal(ctx context.Context, env *Env, args *PreviewDisposalArgs) Result {
	ids, res := env.requestedItems(ctx, args.ItemIds, args.ShipmentId)
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}

	eligible, excluded, err := env.disposalEligibility(ctx, ids)
	if err != nil {
		return internalError("check disposal eligibility", err)
	}
	if len(eligible) == 0 {
		r := fail("none of the %d items can be disposed", len(ids))
		r.Data = env.withUnresolved(map[string]interface{}{"excluded": excluded})
		return r.withPatch(state.ClearDraft())
	}

	plan := disposalPlan{ItemIds: itemIDs(eligible), Reason: args.Reason}
	summary := fmt.Sprintf("Dispose of %d items (%s): %s%s", len(eligible), args.Reason, codesOf(eligible), excludedSuffix(excluded))
	draft, err := state.NewDraft(state.DraftDisposal, summary, plan, env.Now)
	if err != nil {
		return internalError("build draft", err)
	}

	rows, err := env.itemRows(ctx, eligible)
	if err != nil {
		return internalError("load item details", err)
	}
	return previewed(draft, "execute_disposal", env.withUnresolved(map[string]interface{}{
		"disposable_count": len(eligible),
		"items":            rows,
		"excluded":         excluded,
		"summary":          summary,
	}))
}

func executeDisposal(ctx context.Context, env *Env, args *ExecuteArgs) Result {
	draft, res := env.pendingDraft(state.DraftDisposal, "preview_disposal", args.Confirmed)
	if res != nil {
		return *res
	}
	var plan disposalPlan
	if err := draft.Decode(&plan); err != nil {
		return fail("the pending draft is unreadable; preview again").withPatch(state.ClearDraft())
	}

	eligible, dropped, err := env.disposalEligibility(ctx, plan.ItemIds)
	if err != nil {
		return internalError("re-check disposal eligibility", err)
	}
	if len(eligible) == 0 {
		r := fail("no item in the draft can be disposed any more; nothing changed")
		r.Data = map[string]interface{}{"excluded": dropped}
		return r.withPatch(state.ClearDraft())
	}

	err = env.inTx(ctx, func() error {
		if err := env.UoW.ItemRepository().UpdateStatus(ctx, env.Scope.TenantId, itemIDs(eligible), entity.ItemStatusDisposed); err != nil {
			return err
		}
		for _, item := range eligible {
			note := &entity.ItemNote{
				TenantId:      env.Scope.TenantId,
				ItemId:        item.Id,
				Note:          "Disposed: " + plan.Reason,
				CreatedBy:     env.Scope.UserId,
				CreatedByName: env.Scope.Actor(),
				CreatedAt:     env.Now,
			}
			if err := env.UoW.ItemNoteRepository().Create(ctx, note); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return internalError("dispose items", err)
	}

	disposed := make([]string, len(eligible))
	for i, item := range eligible {
		disposed[i] = item.Id.String()
	}
	env.publish(ctx, events.ItemsDisposed, map[string]interface{}{
		"item_ids": disposed,
		"reason":   plan.Reason,
	})

	data := map[string]interface{}{"disposed_count": len(eligible)}
	if len(dropped) > 0 {
		data["no_longer_eligible"] = dropped
	}
	return ok(fmt.Sprintf("disposed of %d items", len(eligible)), data).withPatch(state.ClearDraft())
}
