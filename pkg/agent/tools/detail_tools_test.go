package tools

import (
	"testing"

	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/pkg/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetShipmentDetails(t *testing.T) {
	h := newHarness(t)
	bay := h.fx.Location("A-01")
	first := h.fx.Item("ITM-10001", func(i *model.Item) { i.LocationId = testdb.UUIDPtr(bay.Id) })
	second := h.fx.Item("ITM-10002")
	h.fx.Shipment("SHP-2024-00101", "inbound", "processing", first.Id, second.Id)
	h.fx.Task("TSK-00001", "inspection", "pending", first.Id)

	r := h.call("get_shipment_details", map[string]interface{}{"shipment_id": "101"})
	require.True(t, r.OK, r.Error)

	got := data(t, r)
	assert.Equal(t, "SHP-2024-00101", got["shipment"].(map[string]interface{})["shipment_number"])
	assert.Equal(t, float64(2), got["item_count"])
	assert.Len(t, got["open_tasks"], 1)
}

func TestGetItemMovementHistory(t *testing.T) {
	h := newHarness(t)
	h.fx.Location("A-01")
	h.fx.Location("B-01")
	h.fx.Item("ITM-10042")

	require.True(t, h.call("move_item", map[string]interface{}{"item_id": "10042", "to_location_id": "A-01"}).OK)
	require.True(t, h.call("move_item", map[string]interface{}{"item_id": "10042", "to_location_id": "B-01", "reason": "consolidation"}).OK)

	r := h.call("get_item_movement_history", map[string]interface{}{"item_id": "10042"})
	require.True(t, r.OK, r.Error)

	movements := data(t, r)["movements"].([]interface{})
	require.Len(t, movements, 2)
	tos := []interface{}{
		movements[0].(map[string]interface{})["to"],
		movements[1].(map[string]interface{})["to"],
	}
	assert.ElementsMatch(t, []interface{}{"A-01", "B-01"}, tos)
	for _, m := range movements {
		assert.Equal(t, "Dana Ops", m.(map[string]interface{})["moved_by"])
	}
}

func TestGetOutboundHistory(t *testing.T) {
	h := newHarness(t)
	item := h.fx.Item("ITM-10042")
	h.fx.Shipment("SHP-2024-00101", "inbound", "completed", item.Id)
	h.fx.Shipment("SHP-2024-00102", "outbound", "processing", item.Id)

	r := h.call("get_outbound_history", map[string]interface{}{"item_id": "ITM-10042"})
	require.True(t, r.OK, r.Error)

	shipments := data(t, r)["shipments"].([]interface{})
	require.Len(t, shipments, 1)
	assert.Equal(t, "SHP-2024-00102", shipments[0].(map[string]interface{})["shipment_number"])
}

func TestGetAccountSummary(t *testing.T) {
	h := newHarness(t)
	account := h.fx.Account("Harbor Interiors", "ACC-HARBOR")
	other := h.fx.Account("Northwind Design", "ACC-NORTHWIND")
	h.fx.Sidemark(account.Id, "Lobby")
	h.fx.Item("ITM-10001", func(i *model.Item) { i.AccountId = testdb.UUIDPtr(account.Id) })
	h.fx.Item("ITM-10002", func(i *model.Item) {
		i.AccountId = testdb.UUIDPtr(account.Id)
		i.Status = "released"
	})
	h.fx.Item("ITM-10003", func(i *model.Item) { i.AccountId = testdb.UUIDPtr(other.Id) })
	h.fx.Claim("CLM-00001", "open", testdb.UUIDPtr(account.Id))
	h.fx.Claim("CLM-00002", "closed", testdb.UUIDPtr(account.Id))
	h.fx.BillingEvent(account.Id, 40, "unbilled")
	h.fx.BillingEvent(account.Id, 2.5, "unbilled")
	h.fx.BillingEvent(account.Id, 100, "invoiced")

	r := h.call("get_account_summary", map[string]interface{}{"account_id": account.Id.String()})
	require.True(t, r.OK, r.Error)

	got := data(t, r)
	assert.Equal(t, float64(2), got["items_total"])
	assert.Equal(t, float64(1), got["open_claims"])
	assert.InDelta(t, 42.5, got["unbilled_amount"], 0.001)
	assert.Equal(t, []interface{}{"Lobby"}, got["sidemarks"])
}

func TestGetRecentActivity(t *testing.T) {
	h := newHarness(t)
	h.fx.Location("A-01")
	h.fx.Item("ITM-10042")
	h.fx.Item("ITM-10043")

	require.True(t, h.call("move_item", map[string]interface{}{"item_id": "10042", "to_location_id": "A-01"}).OK)
	require.True(t, h.call("add_item_note", map[string]interface{}{"item_id": "10042", "note": "corner scuffed"}).OK)
	require.True(t, h.call("add_item_note", map[string]interface{}{"item_id": "10043", "note": "wrapped"}).OK)

	t.Run("tenant wide", func(t *testing.T) {
		r := h.call("get_recent_activity", map[string]interface{}{})
		require.True(t, r.OK, r.Error)
		assert.Len(t, data(t, r)["activity"], 3)
	})

	t.Run("one item", func(t *testing.T) {
		r := h.call("get_recent_activity", map[string]interface{}{"item_id": "10042"})
		require.True(t, r.OK, r.Error)

		kinds := map[string]int{}
		for _, a := range data(t, r)["activity"].([]interface{}) {
			kinds[a.(map[string]interface{})["kind"].(string)]++
		}
		assert.Equal(t, map[string]int{"movement": 1, "note": 1}, kinds)
	})

	t.Run("limit", func(t *testing.T) {
		r := h.call("get_recent_activity", map[string]interface{}{"limit": 1})
		require.True(t, r.OK, r.Error)
		assert.Len(t, data(t, r)["activity"], 1)
	})
}
