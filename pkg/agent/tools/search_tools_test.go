package tools

import (
	"fmt"
	"testing"

	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/pkg/testdb"
	"wms-ops-agent/pkg/agent/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchShipments_Ranking(t *testing.T) {
	tests := []struct {
		name       string
		numbers    []string
		query      string
		wantMulti  bool
		wantCount  int
		wantTier   string
		wantFirst  string
		wantStateN int
	}{
		{
			name:      "bare number picks the exact numeric core",
			numbers:   []string{"SHP-2024-45678", "SHP-2024-145678"},
			query:     "45678",
			wantCount: 1,
			wantTier:  "exact",
			wantFirst: "SHP-2024-45678",
		},
		{
			name:      "full number next to a neighbour stays a single exact match",
			numbers:   []string{"SHP-2024-45678", "SHP-2024-45679"},
			query:     "45678",
			wantCount: 1,
			wantTier:  "exact",
			wantFirst: "SHP-2024-45678",
		},
		{
			name:       "shared digits disambiguate",
			numbers:    []string{"SHP-2024-45678", "SHP-2024-45679"},
			query:      "4567",
			wantMulti:  true,
			wantCount:  2,
			wantTier:   "substring",
			wantFirst:  "SHP-2024-45678",
			wantStateN: 2,
		},
		{
			name:      "full code without dashes",
			numbers:   []string{"SHP-2024-45678", "SHP-2024-45679"},
			query:     "SHP202445678",
			wantCount: 1,
			wantTier:  "exact",
			wantFirst: "SHP-2024-45678",
		},
		{
			name:      "suffix beats substring",
			numbers:   []string{"SHP-2024-04299", "SHP-2024-10042"},
			query:     "042",
			wantCount: 1,
			wantTier:  "suffix",
			wantFirst: "SHP-2024-10042",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			for _, n := range tt.numbers {
				h.fx.Shipment(n, "outbound", "pending")
			}

			r := h.call("search_shipments", map[string]interface{}{"query": tt.query})
			require.True(t, r.OK, r.Error)
			assert.Equal(t, tt.wantMulti, r.MultipleMatches)

			d := data(t, r)
			results := d["results"].([]interface{})
			require.Len(t, results, tt.wantCount)
			assert.Equal(t, tt.wantTier, d["match_tier"])
			assert.Equal(t, tt.wantFirst, results[0].(map[string]interface{})["shipment_number"])

			if tt.wantStateN == 0 {
				assert.Nil(t, h.state.PendingDisambiguation)
				return
			}
			pending := h.state.PendingDisambiguation
			require.NotNil(t, pending)
			assert.Equal(t, state.TypeShipments, pending.Type)
			assert.Equal(t, tt.query, pending.OriginalQuery)
			require.Len(t, pending.Candidates, tt.wantStateN)
			for i, c := range pending.Candidates {
				assert.Equal(t, i+1, c.Index)
			}
		})
	}
}

func TestSearch_CodeOfAnotherKind(t *testing.T) {
	h := newHarness(t)
	h.fx.Item("ITM-10042")
	h.fx.Shipment("SHP-2024-10042", "outbound", "processing")
	h.fx.Shipment("SHP-2024-30001", "outbound", "pending")
	h.fx.Shipment("SHP-2024-30002", "outbound", "pending")

	r := h.call("search_shipments", map[string]interface{}{"query": "3000"})
	require.True(t, r.MultipleMatches)
	require.NotNil(t, h.state.PendingDisambiguation)

	r = h.call("search_shipments", map[string]interface{}{"query": "ITM-10042"})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "code for item records, not shipments")
	assert.Nil(t, h.state.PendingDisambiguation)

	r = h.call("search_items", map[string]interface{}{"query": "SHP-2024-10042"})
	assert.False(t, r.OK)

	r = h.call("get_shipment_details", map[string]interface{}{"shipment_id": "ITM-10042"})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "was not found")

	r = h.call("search_items", map[string]interface{}{"query": "ITM-10042"})
	require.True(t, r.OK, r.Error)
	assert.Equal(t, "exact", data(t, r)["match_tier"])
}

func TestSearchItems_ExactCodeBeyondRankedPage(t *testing.T) {
	h := newHarness(t)
	// suffix matches that sort ahead of the exact code fill the ranked page
	for n := 0; n < fetchLimit+5; n++ {
		h.fx.Item(fmt.Sprintf("ITM-1%03d9005", n))
	}
	h.fx.Item("ITM-9005")

	r := h.call("search_items", map[string]interface{}{"query": "9005"})
	require.True(t, r.OK, r.Error)
	assert.False(t, r.MultipleMatches)

	d := data(t, r)
	assert.Equal(t, "exact", d["match_tier"])
	results := d["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "ITM-9005", results[0].(map[string]interface{})["item_code"])
	assert.Nil(t, h.state.PendingDisambiguation)
}

func TestSearchItems_CapsCandidates(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 20; i++ {
		h.fx.Item(fmt.Sprintf("ITM-501%02d", i))
	}

	r := h.call("search_items", map[string]interface{}{"query": "501", "action_context": "move to bay 4"})
	require.True(t, r.OK, r.Error)
	assert.True(t, r.MultipleMatches)

	d := data(t, r)
	assert.EqualValues(t, 15, d["count"])
	assert.EqualValues(t, 20, d["total_matches"])

	pending := h.state.PendingDisambiguation
	require.NotNil(t, pending)
	assert.Len(t, pending.Candidates, 15)
	assert.Equal(t, "move to bay 4", pending.ActionContext)
}

func TestSearchItems_NewSearchReplacesDisambiguation(t *testing.T) {
	h := newHarness(t)
	h.fx.Item("ITM-30001")
	h.fx.Item("ITM-30002")
	h.fx.Item("ITM-40001")

	r := h.call("search_items", map[string]interface{}{"query": "3000"})
	require.True(t, r.MultipleMatches)
	require.NotNil(t, h.state.PendingDisambiguation)

	r = h.call("search_items", map[string]interface{}{"query": "40001"})
	require.True(t, r.OK, r.Error)
	assert.False(t, r.MultipleMatches)
	assert.Nil(t, h.state.PendingDisambiguation)

	r = h.call("search_items", map[string]interface{}{"query": "99999"})
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "no item matches")
}

func TestSearchItems_ListingLeavesStateAlone(t *testing.T) {
	h := newHarness(t)
	loc := h.fx.Location("A-01")
	h.fx.Item("ITM-10001", func(i *model.Item) { i.LocationId = testdb.UUIDPtr(loc.Id) })
	h.fx.Item("ITM-10002", func(i *model.Item) { i.Status = "allocated" })

	h.state.PendingDisambiguation = state.NewDisambiguation(state.TypeItems, "100", "", []state.Candidate{{Label: "x"}})

	r := h.call("search_items", map[string]interface{}{"location_id": "A-01"})
	require.True(t, r.OK, r.Error)
	assert.False(t, r.MultipleMatches)
	assert.NotNil(t, h.state.PendingDisambiguation)

	results := data(t, r)["results"].([]interface{})
	require.Len(t, results, 1)
	row := results[0].(map[string]interface{})
	assert.Equal(t, "ITM-10001", row["item_code"])
	assert.Equal(t, "A-01", row["location"])
}

func TestSearchItems_MatchesDescription(t *testing.T) {
	h := newHarness(t)
	h.fx.Item("ITM-10001", func(i *model.Item) { i.Description = "Walnut dining table" })
	h.fx.Item("ITM-10002", func(i *model.Item) { i.Description = "Leather sofa" })

	r := h.call("search_items", map[string]interface{}{"query": "walnut"})
	require.True(t, r.OK, r.Error)
	results := data(t, r)["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "ITM-10001", results[0].(map[string]interface{})["item_code"])
}

func TestSearchAccounts_ExactNameWins(t *testing.T) {
	h := newHarness(t)
	h.fx.Account("Acme", "ACM")
	h.fx.Account("Acme Holdings", "ACH")

	r := h.call("search_accounts", map[string]interface{}{"query": "acme"})
	require.True(t, r.OK, r.Error)
	assert.False(t, r.MultipleMatches)
	results := data(t, r)["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "Acme", results[0].(map[string]interface{})["name"])

	r = h.call("search_accounts", map[string]interface{}{"query": "ac"})
	assert.True(t, r.MultipleMatches)
	assert.Equal(t, state.TypeAccounts, h.state.PendingDisambiguation.Type)
}

func TestSearchTasks_Filters(t *testing.T) {
	h := newHarness(t)
	h.fx.Task("TSK-00001", "inspection", "pending")
	h.fx.Task("TSK-00002", "repair", "pending")
	h.fx.Task("TSK-00003", "repair", "completed")

	r := h.call("search_tasks", map[string]interface{}{"task_type": "repair", "status": "pending"})
	require.True(t, r.OK, r.Error)
	results := data(t, r)["results"].([]interface{})
	require.Len(t, results, 1)
	assert.Equal(t, "TSK-00002", results[0].(map[string]interface{})["task_number"])
}
