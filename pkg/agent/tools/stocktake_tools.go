package tools

import (
	"context"
	"fmt"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
	"wms-ops-agent/pkg/agent/safety"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/events"

	"github.com/google/uuid"
)

type PreviewStocktakeCloseArgs struct {
	StocktakeId string `json:"stocktake_id" validate:"required" desc:"Stocktake id or stocktake number"`
}

type stocktakeClosePlan struct {
	StocktakeId     uuid.UUID `json:"stocktake_id"`
	StocktakeNumber string    `json:"stocktake_number"`
}

type varianceRow struct {
	Item     string `json:"item"`
	Expected int    `json:"expected"`
	Counted  *int   `json:"counted"`
	Status   string `json:"variance_status"`
}

// closeCheck is the outcome of validating a stocktake for closing.
type closeCheck struct {
	stocktake  *entity.Stocktake
	lines      int
	unresolved []varianceRow
}

func (e *Env) checkStocktakeClose(ctx context.Context, id uuid.UUID) (*closeCheck, *Result) {
	stocktake, err := e.UoW.StocktakeRepository().FindOne(ctx, e.tenant(), specification.ByID{ID: id})
	if err != nil {
		r := internalError("load stocktake", err)
		return nil, &r
	}
	if stocktake == nil {
		r := fail("stocktake %s was not found", id)
		return nil, &r
	}

	switch stocktake.Status {
	case entity.StocktakeStatusInProgress, entity.StocktakeStatusCompleted:
	case entity.StocktakeStatusDraft:
		r := fail("stocktake %s has not started counting yet", ref(stocktake.StocktakeNumber, stocktake.Id))
		return nil, &r
	default:
		r := fail("stocktake %s is already %s", ref(stocktake.StocktakeNumber, stocktake.Id), stocktake.Status)
		return nil, &r
	}

	lines, err := e.UoW.StocktakeRepository().FindItems(ctx, e.Scope.TenantId, stocktake.Id)
	if err != nil {
		r := internalError("load stocktake lines", err)
		return nil, &r
	}
	blocking := safety.UnresolvedVariances(lines)

	check := &closeCheck{stocktake: stocktake, lines: len(lines)}
	if len(blocking) == 0 {
		return check, nil
	}

	itemIds := make([]uuid.UUID, len(blocking))
	for i, l := range blocking {
		itemIds[i] = l.ItemId
	}
	items, _, err := e.itemsByID(ctx, dedupe(itemIds))
	if err != nil {
		r := internalError("load stocktake items", err)
		return nil, &r
	}
	codes := make(map[uuid.UUID]string, len(items))
	for _, item := range items {
		codes[item.Id] = ref(item.ItemCode, item.Id)
	}
	for _, l := range blocking {
		check.unresolved = append(check.unresolved, varianceRow{
			Item:     codes[l.ItemId],
			Expected: l.ExpectedQuantity,
			Counted:  l.CountedQuantity,
			Status:   l.VarianceStatus,
		})
	}
	return check, nil
}

func (c *closeCheck) blockedResult() Result {
	reason := fmt.Sprintf("stocktake %s cannot be closed: %d items have unresolved variances; resolve or verify them first",
		c.stocktake.StocktakeNumber, len(c.unresolved))
	return blocked(reason, map[string]interface{}{
		"stocktake":             ref(c.stocktake.StocktakeNumber, c.stocktake.Id),
		"unresolved_variances":  c.unresolved,
		"unresolved_item_count": len(c.unresolved),
	})
}

func previewStocktakeClose(ctx context.Context, env *Env, args *PreviewStocktakeCloseArgs) Result {
	id, res := parseRef("stocktake", args.StocktakeId, "search_stocktakes")
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}
	check, res := env.checkStocktakeClose(ctx, id)
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}
	if len(check.unresolved) > 0 {
		return check.blockedResult().withPatch(state.ClearDraft())
	}

	s := check.stocktake
	plan := stocktakeClosePlan{StocktakeId: s.Id, StocktakeNumber: s.StocktakeNumber}
	summary := fmt.Sprintf("Close stocktake %s (%d lines, all reconciled)", s.StocktakeNumber, check.lines)
	draft, err := state.NewDraft(state.DraftStocktakeClose, summary, plan, env.Now)
	if err != nil {
		return internalError("build draft", err)
	}
	return previewed(draft, "close_stocktake", map[string]interface{}{
		"stocktake":  ref(s.StocktakeNumber, s.Id),
		"status":     s.Status,
		"line_count": check.lines,
		"summary":    summary,
	})
}

// closeStocktake re-runs the variance validation right before writing; a
// newly blocked stocktake keeps its draft so the user can retry once the
// variances are resolved.
func closeStocktake(ctx context.Context, env *Env, args *ExecuteArgs) Result {
	draft, res := env.pendingDraft(state.DraftStocktakeClose, "preview_stocktake_close", args.Confirmed)
	if res != nil {
		return *res
	}
	var plan stocktakeClosePlan
	if err := draft.Decode(&plan); err != nil {
		return fail("the pending draft is unreadable; preview again").withPatch(state.ClearDraft())
	}

	check, res := env.checkStocktakeClose(ctx, plan.StocktakeId)
	if res != nil {
		return res.withPatch(state.ClearDraft())
	}
	if len(check.unresolved) > 0 {
		return check.blockedResult()
	}

	s := check.stocktake
	closedAt := env.Now
	closedBy := env.Scope.UserId
	s.Status = entity.StocktakeStatusClosed
	s.ClosedAt = &closedAt
	s.ClosedBy = &closedBy
	if err := env.UoW.StocktakeRepository().Update(ctx, s); err != nil {
		return internalError("close stocktake", err)
	}

	env.publish(ctx, events.StocktakeClosed, map[string]interface{}{
		"stocktake_id":     s.Id.String(),
		"stocktake_number": s.StocktakeNumber,
	})
	return ok(fmt.Sprintf("closed stocktake %s", ref(s.StocktakeNumber, s.Id)), map[string]interface{}{
		"stocktake": ref(s.StocktakeNumber, s.Id),
		"closed_at": closedAt,
	}).withPatch(state.ClearDraft())
}
