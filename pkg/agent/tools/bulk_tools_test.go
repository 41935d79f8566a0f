package tools

import (
	"testing"

	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/pkg/testdb"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func excludedCodes(t *testing.T, r Result) map[string]string {
	t.Helper()
	out := map[string]string{}
	rows, _ := data(t, r)["excluded"].([]interface{})
	for _, row := range rows {
		m := row.(map[string]interface{})
		out[m["item_code"].(string)] = m["code"].(string)
	}
	return out
}

func TestBulkTasks_InspectionsArePerItem(t *testing.T) {
	h := newHarness(t)
	a := h.fx.Item("ITM-20001")
	b := h.fx.Item("ITM-20002")
	c := h.fx.Item("ITM-20003")
	h.fx.Shipment("SHP-2024-00300", "inbound", "received", a.Id, b.Id, c.Id)

	r := h.call("preview_bulk_tasks", map[string]interface{}{
		"task_type":              "inspection",
		"shipment_id":            "SHP-2024-00300",
		"group_into_single_task": true,
	})
	require.True(t, r.OK, r.Error)
	assert.True(t, r.RequiresConfirmation)
	out := data(t, r)
	assert.EqualValues(t, 3, out["task_count"])
	assert.EqualValues(t, 3, out["item_count"])
	assert.Contains(t, out["note"], "grouping was ignored")
	require.NotNil(t, h.state.PendingDraft)
	assert.Equal(t, state.DraftBulkTasks, h.state.PendingDraft.Type)
	assert.EqualValues(t, 0, h.count(&model.Task{}, "1 = 1"))

	r = h.call("execute_bulk_tasks", map[string]interface{}{})
	assert.False(t, r.OK)
	assert.True(t, r.RequiresConfirmation)
	assert.NotNil(t, h.state.PendingDraft)
	assert.EqualValues(t, 0, h.count(&model.Task{}, "1 = 1"))

	r = h.call("execute_bulk_tasks", map[string]interface{}{"confirmed": true})
	require.True(t, r.OK, r.Error)
	assert.EqualValues(t, 3, data(t, r)["created_count"])
	assert.EqualValues(t, 3, h.count(&model.Task{}, "task_type = ?", "inspection"))
	assert.EqualValues(t, 3, h.count(&model.TaskItem{}, "1 = 1"))
	assert.Nil(t, h.state.PendingDraft)
	assert.Equal(t, []string{events.TaskCreated, events.TaskCreated, events.TaskCreated}, h.events.Types())

	r = h.call("execute_bulk_tasks", map[string]interface{}{"confirmed": true})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "no pending draft")
	assert.EqualValues(t, 3, h.count(&model.Task{}, "1 = 1"))
}

func TestBulkTasks_GroupedRepairExcludesUninspected(t *testing.T) {
	h := newHarness(t)
	inspected := h.fx.Item("ITM-20011")
	h.fx.Item("ITM-20012")
	disposed := h.fx.Item("ITM-20013", func(i *model.Item) { i.Status = "disposed" })
	h.fx.Task("TSK-00001", "inspection", "completed", inspected.Id)
	h.fx.Task("TSK-00002", "inspection", "completed", disposed.Id)

	r := h.call("preview_bulk_tasks", map[string]interface{}{
		"task_type":              "repair",
		"item_ids":               []string{"ITM-20011", "ITM-20012", "ITM-20013"},
		"group_into_single_task": true,
	})
	require.True(t, r.OK, r.Error)
	out := data(t, r)
	assert.EqualValues(t, 1, out["task_count"])
	assert.EqualValues(t, 1, out["item_count"])
	assert.Equal(t, map[string]string{"ITM-20012": "missing_inspection", "ITM-20013": "disposed"}, excludedCodes(t, r))
	assert.Contains(t, h.state.PendingDraft.Summary, "ITM-20011")

	r = h.call("execute_bulk_tasks", map[string]interface{}{"confirmed": true})
	require.True(t, r.OK, r.Error)
	assert.EqualValues(t, 1, h.count(&model.Task{}, "task_type = ?", "repair"))
}

func TestBulkTasks_NothingEligibleClearsDraft(t *testing.T) {
	h := newHarness(t)
	h.fx.Item("ITM-20021", func(i *model.Item) { i.Status = "released" })
	h.state.PendingDraft = &state.PendingDraft{Type: state.DraftBulkMove, Summary: "old", Data: []byte(`{}`)}

	r := h.call("preview_bulk_tasks", map[string]interface{}{"task_type": "assembly", "item_ids": []string{"ITM-20021"}})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "none of the 1 items")
	assert.Nil(t, h.state.PendingDraft)
}

func TestBulkTasks_RevalidatesOnExecute(t *testing.T) {
	h := newHarness(t)
	a := h.fx.Item("ITM-20031")
	h.fx.Item("ITM-20032")

	r := h.call("preview_bulk_tasks", map[string]interface{}{"task_type": "inspection", "item_ids": []string{"ITM-20031", "ITM-20032"}})
	require.True(t, r.OK, r.Error)

	// someone opens an inspection on one item between preview and confirm
	h.fx.Task("TSK-00050", "inspection", "pending", a.Id)

	r = h.call("execute_bulk_tasks", map[string]interface{}{"confirmed": true})
	require.True(t, r.OK, r.Error)
	out := data(t, r)
	assert.EqualValues(t, 1, out["created_count"])
	assert.Len(t, out["no_longer_eligible"], 1)
	assert.EqualValues(t, 2, h.count(&model.Task{}, "task_type = ?", "inspection"))
}

func TestBulkMove_Exclusions(t *testing.T) {
	h := newHarness(t)
	from := h.fx.Location("A-01")
	to := h.fx.Location("B-02")
	at := func(id *model.Location) func(*model.Item) {
		return func(i *model.Item) { i.LocationId = testdb.UUIDPtr(id.Id) }
	}
	h.fx.Item("ITM-30001", at(from))
	h.fx.Item("ITM-30002", at(from))
	h.fx.Item("ITM-30003", at(to))
	h.fx.Item("ITM-30004", at(from), func(i *model.Item) { i.Status = "allocated" })
	frozen := h.fx.Item("ITM-30005", at(from))
	st := h.fx.Stocktake("STK-00007", "in_progress")
	h.fx.StocktakeLine(st.Id, frozen.Id, 1, nil, "pending")

	r := h.call("preview_bulk_move", map[string]interface{}{
		"item_ids":       []string{"ITM-30001", "ITM-30002", "ITM-30003", "ITM-30004", "ITM-30005"},
		"to_location_id": "B-02",
	})
	require.True(t, r.OK, r.Error)
	assert.EqualValues(t, 2, data(t, r)["moveable_count"])
	assert.Equal(t, map[string]string{
		"ITM-30003": "already_there",
		"ITM-30004": "allocated",
		"ITM-30005": "stocktake_freeze",
	}, excludedCodes(t, r))

	r = h.call("execute_bulk_move", map[string]interface{}{"confirmed": true})
	require.True(t, r.OK, r.Error)
	assert.EqualValues(t, 2, data(t, r)["moved_count"])
	assert.EqualValues(t, 3, h.count(&model.Item{}, "location_id = ?", to.Id))
	assert.EqualValues(t, 2, h.count(&model.ItemMovement{}, "to_location_id = ?", to.Id))
	assert.Equal(t, []string{events.ItemMoved}, h.events.Types())
	assert.Nil(t, h.state.PendingDraft)
}

func TestBulkMove_UsesUISelection(t *testing.T) {
	h := newHarness(t)
	h.fx.Location("B-02")
	a := h.fx.Item("ITM-30011")
	b := h.fx.Item("ITM-30012")
	h.ui = state.UIContext{SelectedItemIds: []string{a.Id.String(), b.Id.String()}}

	r := h.call("preview_bulk_move", map[string]interface{}{"to_location_id": "B-02"})
	require.True(t, r.OK, r.Error)
	assert.EqualValues(t, 2, data(t, r)["moveable_count"])
}

func TestDisposal_Exclusions(t *testing.T) {
	h := newHarness(t)
	h.fx.Item("ITM-40001")
	h.fx.Item("ITM-40002", func(i *model.Item) { i.Status = "allocated" })
	h.fx.Item("ITM-40003", func(i *model.Item) { i.Status = "disposed" })
	frozen := h.fx.Item("ITM-40004")
	st := h.fx.Stocktake("STK-00008", "draft")
	h.fx.StocktakeLine(st.Id, frozen.Id, 1, nil, "pending")

	r := h.call("preview_disposal", map[string]interface{}{
		"item_ids": []string{"ITM-40001", "ITM-40002", "ITM-40003", "ITM-40004"},
		"reason":   "water damage",
	})
	require.True(t, r.OK, r.Error)
	assert.EqualValues(t, 1, data(t, r)["disposable_count"])
	assert.Equal(t, map[string]string{
		"ITM-40002": "allocated",
		"ITM-40003": "disposed",
		"ITM-40004": "stocktake_freeze",
	}, excludedCodes(t, r))

	r = h.call("execute_disposal", map[string]interface{}{"confirmed": true})
	require.True(t, r.OK, r.Error)
	assert.EqualValues(t, 2, h.count(&model.Item{}, "status = ?", "disposed"))
	assert.EqualValues(t, 1, h.count(&model.ItemNote{}, "note = ?", "Disposed: water damage"))
	assert.Equal(t, []string{events.ItemsDisposed}, h.events.Types())
}

func TestDrafts_TypeMismatchAndSupersede(t *testing.T) {
	h := newHarness(t)
	h.fx.Location("B-02")
	h.fx.Item("ITM-50001")

	r := h.call("preview_disposal", map[string]interface{}{"item_ids": []string{"ITM-50001"}, "reason": "broken"})
	require.True(t, r.OK, r.Error)

	r = h.call("execute_bulk_move", map[string]interface{}{"confirmed": true})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "the pending draft is disposal, not bulk_move")
	require.NotNil(t, h.state.PendingDraft)
	assert.Equal(t, state.DraftDisposal, h.state.PendingDraft.Type)

	r = h.call("preview_bulk_move", map[string]interface{}{"item_ids": []string{"ITM-50001"}, "to_location_id": "B-02"})
	require.True(t, r.OK, r.Error)
	assert.Equal(t, state.DraftBulkMove, h.state.PendingDraft.Type)

	r = h.call("execute_disposal", map[string]interface{}{"confirmed": true})
	assert.False(t, r.OK)
	assert.EqualValues(t, 0, h.count(&model.Item{}, "status = ?", "disposed"))
}

func TestDrafts_AnonymousCallerCannotExecute(t *testing.T) {
	h := newHarness(t)
	h.fx.Item("ITM-60001")

	r := h.call("preview_disposal", map[string]interface{}{"item_ids": []string{"ITM-60001"}, "reason": "crushed"})
	require.True(t, r.OK, r.Error)
	require.NotNil(t, h.state.PendingDraft)

	// an unauthenticated caller of the same tenant shares the session
	h.fx.UserId = uuid.Nil
	r = h.call("execute_disposal", map[string]interface{}{"confirmed": true})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "signed-in user")
	assert.NotNil(t, h.state.PendingDraft)
	assert.EqualValues(t, 0, h.count(&model.Item{}, "status = ?", "disposed"))
	assert.Empty(t, h.events.Types())
}

func TestStocktakeClose(t *testing.T) {
	h := newHarness(t)
	counted := h.fx.Item("ITM-60001")
	short := h.fx.Item("ITM-60002")
	st := h.fx.Stocktake("STK-00012", "in_progress")
	h.fx.StocktakeLine(st.Id, counted.Id, 1, testdb.IntPtr(1), "pending")
	line := h.fx.StocktakeLine(st.Id, short.Id, 2, testdb.IntPtr(1), "pending")

	r := h.call("preview_stocktake_close", map[string]interface{}{"stocktake_id": "STK-00012"})
	assert.True(t, r.Blocked)
	assert.Contains(t, r.Error, "STK-00012")
	assert.EqualValues(t, 1, data(t, r)["unresolved_item_count"])
	assert.Nil(t, h.state.PendingDraft)

	require.NoError(t, h.fx.DB.Model(line).Update("variance_status", "resolved").Error)
	r = h.call("preview_stocktake_close", map[string]interface{}{"stocktake_id": "STK-00012"})
	require.True(t, r.OK, r.Error)
	require.NotNil(t, h.state.PendingDraft)

	// a recount reopens a variance after the preview
	h.fx.StocktakeLine(st.Id, h.fx.Item("ITM-60003").Id, 1, nil, "pending")
	r = h.call("close_stocktake", map[string]interface{}{"confirmed": true})
	assert.True(t, r.Blocked)
	assert.NotNil(t, h.state.PendingDraft)

	require.NoError(t, h.fx.DB.Model(&model.StocktakeItem{}).Where("counted_quantity IS NULL").Update("variance_status", "verified").Error)
	r = h.call("close_stocktake", map[string]interface{}{"confirmed": true})
	require.True(t, r.OK, r.Error)
	assert.Nil(t, h.state.PendingDraft)

	var closed model.Stocktake
	require.NoError(t, h.fx.DB.First(&closed, "id = ?", st.Id).Error)
	assert.Equal(t, "closed", closed.Status)
	assert.NotNil(t, closed.ClosedAt)
	assert.Equal(t, []string{events.StocktakeClosed}, h.events.Types())
}

func TestStocktakeClose_StatusRules(t *testing.T) {
	tests := []struct {
		status    string
		wantError string
	}{
		{status: "draft", wantError: "has not started counting"},
		{status: "closed", wantError: "is already closed"},
		{status: "cancelled", wantError: "is already cancelled"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			h := newHarness(t)
			h.fx.Stocktake("STK-00020", tt.status)
			r := h.call("preview_stocktake_close", map[string]interface{}{"stocktake_id": "STK-00020"})
			assert.False(t, r.OK)
			assert.Contains(t, r.Error, tt.wantError)
		})
	}
}
