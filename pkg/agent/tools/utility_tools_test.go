package tools

import (
	"testing"
	"time"

	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingOf(n int) *state.Disambiguation {
	candidates := make([]state.Candidate, n)
	for i := range candidates {
		candidates[i] = state.Candidate{Id: uuid.New(), Label: "candidate"}
	}
	return state.NewDisambiguation(state.TypeItems, "100", "inspect", candidates)
}

func TestResolveDisambiguation(t *testing.T) {
	tests := []struct {
		name         string
		pending      *state.Disambiguation
		args         map[string]interface{}
		wantOK       bool
		wantError    string
		wantSelected []int
		wantDropped  []interface{}
		wantCleared  bool
	}{
		{
			name:      "nothing pending",
			args:      map[string]interface{}{"selections": []int{1}},
			wantError: "no pending selection",
		},
		{
			name:      "no criteria keeps the list",
			pending:   pendingOf(3),
			args:      map[string]interface{}{},
			wantError: "pass selections, select_all or entity_type",
		},
		{
			name:      "only unknown indices",
			pending:   pendingOf(2),
			args:      map[string]interface{}{"selections": []int{7, 9}},
			wantError: "valid numbers are 1 to 2",
		},
		{
			name:         "unknown indices are dropped",
			pending:      pendingOf(3),
			args:         map[string]interface{}{"selections": []int{2, 9, 2}},
			wantOK:       true,
			wantSelected: []int{2},
			wantDropped:  []interface{}{float64(9)},
			wantCleared:  true,
		},
		{
			name:         "select all",
			pending:      pendingOf(3),
			args:         map[string]interface{}{"select_all": true},
			wantOK:       true,
			wantSelected: []int{1, 2, 3},
			wantCleared:  true,
		},
		{
			name:      "entity type on a typed list",
			pending:   pendingOf(2),
			args:      map[string]interface{}{"entity_type": "shipment"},
			wantError: "answer with selections or select_all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.state.PendingDisambiguation = tt.pending

			r := h.call("resolve_disambiguation", tt.args)
			assert.Equal(t, tt.wantOK, r.OK, r.Error)
			if !tt.wantOK {
				assert.Contains(t, r.Error, tt.wantError)
				assert.Equal(t, tt.pending, h.state.PendingDisambiguation)
				return
			}

			d := data(t, r)
			selected := d["selected"].([]interface{})
			got := make([]int, len(selected))
			for i, s := range selected {
				got[i] = int(s.(map[string]interface{})["index"].(float64))
			}
			assert.Equal(t, tt.wantSelected, got)
			assert.Equal(t, "inspect", d["action_context"])
			if tt.wantDropped != nil {
				assert.Equal(t, tt.wantDropped, d["dropped_indices"])
			}
			if tt.wantCleared {
				assert.Nil(t, h.state.PendingDisambiguation)
			}
		})
	}
}

func TestLookupReference_EntityTypeFlow(t *testing.T) {
	h := newHarness(t)
	item := h.fx.Item("ITM-00777")
	shipment := h.fx.Shipment("SHP-2024-00777", "inbound", "pending")
	h.fx.Shipment("SHP-2024-77701", "inbound", "pending")

	r := h.call("lookup_reference", map[string]interface{}{"reference": "777"})
	require.True(t, r.OK, r.Error)
	assert.True(t, r.MultipleMatches)

	pending := h.state.PendingDisambiguation
	require.NotNil(t, pending)
	assert.Equal(t, state.TypeEntityType, pending.Type)
	require.Len(t, pending.Candidates, 2)
	assert.ElementsMatch(t, []string{EntityItem, EntityShipment}, candidateTypes(pending))

	r = h.call("resolve_disambiguation", map[string]interface{}{"entity_type": "task"})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "no task matched")
	require.NotNil(t, h.state.PendingDisambiguation)

	r = h.call("resolve_disambiguation", map[string]interface{}{"entity_type": "shipment"})
	require.True(t, r.OK, r.Error)
	selected := data(t, r)["selected"].([]interface{})
	require.Len(t, selected, 1)
	assert.Equal(t, shipment.Id.String(), selected[0].(map[string]interface{})["id"])
	assert.Nil(t, h.state.PendingDisambiguation)

	r = h.call("lookup_reference", map[string]interface{}{"reference": "ITM-00777"})
	require.True(t, r.OK, r.Error)
	assert.False(t, r.MultipleMatches)
	match := data(t, r)["match"].(map[string]interface{})
	assert.Equal(t, item.Id.String(), match["id"])
	assert.Equal(t, EntityItem, match["entity_type"])
}

func TestLookupReference_SingleKindGetsTypedList(t *testing.T) {
	h := newHarness(t)
	h.fx.Task("TSK-00120", "repair", "pending")
	h.fx.Task("TSK-00121", "repair", "pending")

	r := h.call("lookup_reference", map[string]interface{}{"reference": "012"})
	require.True(t, r.OK, r.Error)
	assert.True(t, r.MultipleMatches)
	require.NotNil(t, h.state.PendingDisambiguation)
	assert.Equal(t, state.TypeTasks, h.state.PendingDisambiguation.Type)
}

func TestGetCurrentContext(t *testing.T) {
	h := newHarness(t)
	item := h.fx.Item("ITM-10001")
	shipment := h.fx.Shipment("SHP-2024-00001", "outbound", "pending", item.Id)
	h.ui = state.UIContext{
		CurrentRoute:       "/shipments",
		SelectedItemIds:    []string{item.Id.String(), "garbage"},
		SelectedShipmentId: shipment.Id.String(),
	}
	draft, err := state.NewDraft(state.DraftDisposal, "Dispose of 1 item", map[string]string{}, time.Now().UTC())
	require.NoError(t, err)
	h.state.PendingDraft = draft

	r := h.call("get_current_context", map[string]interface{}{})
	require.True(t, r.OK, r.Error)

	d := data(t, r)
	assert.Equal(t, "Dana Ops", d["actor"])
	assert.Equal(t, "/shipments", d["current_route"])
	assert.Equal(t, []interface{}{"ITM-10001 [" + item.Id.String() + "]"}, d["selected_items"])
	assert.Equal(t, "SHP-2024-00001 ["+shipment.Id.String()+"]", d["selected_shipment"])
	assert.Equal(t, "Dispose of 1 item", d["pending_draft"].(map[string]interface{})["summary"])
}
