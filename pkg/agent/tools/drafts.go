package tools

import (
	"context"
	"fmt"
	"strings"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
)

// summaryCodes is how many item codes a draft summary spells out.
const summaryCodes = 20

// ExecuteArgs is shared by every execute tool. The payload always comes
// from the stored draft, never from the call.
type ExecuteArgs struct {
	Confirmed bool `json:"confirmed" desc:"True only after the user explicitly confirmed the previewed draft"`
}

// pendingDraft returns the live draft of the expected kind. A missing
// confirmation, a draft of another kind or an anonymous caller leaves the
// draft untouched. Anonymous callers of a tenant share one session, so none
// of them may confirm.
func (e *Env) pendingDraft(typ state.DraftType, previewTool string, confirmed bool) (*state.PendingDraft, *Result) {
	draft := e.State.PendingDraft
	if draft == nil {
		r := fail("there is no pending draft to execute; call %s first and show the user the summary", previewTool)
		return nil, &r
	}
	if draft.Type != typ {
		r := fail("the pending draft is %s, not %s; execute that one or call %s to replace it", draft.Type, typ, previewTool)
		return nil, &r
	}
	if e.Scope.UserId == uuid.Nil {
		r := fail("drafts can only be executed by a signed-in user; ask the user to sign in and preview again")
		return nil, &r
	}
	if !confirmed {
		r := fail("the draft was not executed: ask the user to confirm %q, then call again with confirmed=true", draft.Summary)
		r.RequiresConfirmation = true
		return nil, &r
	}
	return draft, nil
}

// previewed builds the result of a successful preview.
func previewed(draft *state.PendingDraft, executeTool string, data map[string]interface{}) Result {
	r := Result{
		OK:                   true,
		RequiresConfirmation: true,
		Message:              fmt.Sprintf("nothing has changed yet; show the user this summary and ask them to confirm: %s. After they confirm call %s with confirmed=true", draft.Summary, executeTool),
		Data:                 data,
	}
	return r.withPatch(state.SetDraft(draft))
}

// requestedItems collects the item ids a bulk preview targets: explicit
// ids, a shipment's items, or the items selected in the UI.
func (e *Env) requestedItems(ctx context.Context, itemIds []string, shipmentId string) ([]uuid.UUID, *Result) {
	var ids []uuid.UUID
	if shipmentId != "" {
		shipment, res := e.loadShipment(ctx, shipmentId)
		if res != nil {
			return nil, res
		}
		onShipment, err := e.UoW.ShipmentRepository().FindItemIDs(ctx, e.Scope.TenantId, shipment.Id)
		if err != nil {
			r := internalError("load shipment items", err)
			return nil, &r
		}
		if len(onShipment) == 0 {
			r := fail("shipment %s has no items", shipment.ShipmentNumber)
			return nil, &r
		}
		ids = append(ids, onShipment...)
	}
	ids = append(ids, parseRefs(itemIds)...)

	if len(ids) == 0 && len(itemIds) == 0 && len(e.Unresolved) == 0 {
		ids = parseRefs(e.UI.SelectedItemIds)
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		if len(e.Unresolved) > 0 {
			r := fail("none of the requested items could be found: %s", strings.Join(e.Unresolved, ", "))
			return nil, &r
		}
		r := fail("no items given; pass item_ids or shipment_id")
		return nil, &r
	}
	return ids, nil
}

func codesOf(items []*entity.Item) string {
	codes := make([]string, 0, summaryCodes)
	for i, item := range items {
		if i == summaryCodes {
			codes = append(codes, fmt.Sprintf("and %d more", len(items)-summaryCodes))
			break
		}
		codes = append(codes, item.ItemCode)
	}
	return strings.Join(codes, ", ")
}

func missingItems(ids []uuid.UUID) []excludedItem {
	out := make([]excludedItem, len(ids))
	for i, id := range ids {
		out[i] = excludedItem{Id: id, Reason: "item not found"}
	}
	return out
}

// excludedSuffix is the summary tail naming how many items were left out.
func excludedSuffix(excluded []excludedItem) string {
	if len(excluded) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%d excluded)", len(excluded))
}

func (e *Env) itemRows(ctx context.Context, items []*entity.Item) ([]itemRow, error) {
	labels, err := e.labelItems(ctx, items)
	if err != nil {
		return nil, err
	}
	rows := make([]itemRow, len(items))
	for i, item := range items {
		rows[i] = newItemRow(item, labels)
	}
	return rows, nil
}

// withUnresolved adds references the resolver could not match.
func (e *Env) withUnresolved(data map[string]interface{}) map[string]interface{} {
	if len(e.Unresolved) > 0 {
		data["unresolved"] = e.Unresolved
	}
	return data
}
