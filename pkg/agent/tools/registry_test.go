package tools

import (
	"context"
	"encoding/json"
	"testing"

	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/internal/pkg/testdb"
	"wms-ops-agent/internal/repository/unitofwork"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness runs tools the way the orchestration loop does: state flows from
// one call into the next through the returned patches.
type harness struct {
	t      *testing.T
	fx     *testdb.Fixture
	reg    *Registry
	events *events.Recorder
	state  state.SessionState
	ui     state.UIContext
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testdb.New(t)
	rec := &events.Recorder{}
	return &harness{
		t:      t,
		fx:     testdb.NewFixture(t, db),
		reg:    NewRegistry(unitofwork.NewRepositoryFactory(db), rec, logger.NewNopLogger()),
		events: rec,
	}
}

func (h *harness) scope() Scope {
	return Scope{TenantId: h.fx.TenantId, UserId: h.fx.UserId, UserName: "Dana Ops"}
}

func (h *harness) call(name string, args interface{}) Result {
	h.t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(h.t, err)
	return h.callRaw(name, string(raw))
}

func (h *harness) callRaw(name, raw string) Result {
	r := h.reg.Execute(context.Background(), Invocation{
		Scope:     h.scope(),
		UIContext: h.ui,
		State:     h.state,
		Name:      name,
		Arguments: raw,
	})
	h.state = r.Patch().Apply(h.state)
	return r
}

// data round-trips a result payload into generic JSON for assertions.
func data(t *testing.T, r Result) map[string]interface{} {
	t.Helper()
	raw, err := json.Marshal(r.Data)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func (h *harness) count(m interface{}, query string, args ...interface{}) int64 {
	h.t.Helper()
	var n int64
	require.NoError(h.t, h.fx.DB.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func TestRegistry_Catalogue(t *testing.T) {
	h := newHarness(t)

	names := h.reg.Names()
	assert.Len(t, names, 29)
	assert.Equal(t, "search_items", names[0])
	assert.Contains(t, names, "resolve_disambiguation")
	assert.Contains(t, names, "close_stocktake")

	schemas := h.reg.Schemas()
	require.Len(t, schemas, 29)

	var createTask map[string]interface{}
	for _, s := range schemas {
		assert.NotEmpty(t, s.Description, s.Name)
		assert.Equal(t, "object", s.Parameters["type"], s.Name)
		if s.Name == "create_task" {
			createTask = s.Parameters
		}
	}
	require.NotNil(t, createTask)
	assert.ElementsMatch(t, []string{"task_type", "item_id"}, createTask["required"])

	props := createTask["properties"].(map[string]interface{})
	taskType := props["task_type"].(map[string]interface{})
	assert.Equal(t, []interface{}{"inspection", "repair", "assembly", "receiving", "delivery", "other"}, taskType["enum"])
	assert.Equal(t, "boolean", props["override_warnings"].(map[string]interface{})["type"])
}

func TestRegistry_Execute_Failures(t *testing.T) {
	tests := []struct {
		name      string
		tool      string
		args      string
		wantError string
	}{
		{name: "unknown tool", tool: "drop_tables", args: `{}`, wantError: `unknown tool "drop_tables"`},
		{name: "not an object", tool: "search_items", args: `[1,2]`, wantError: "not a JSON object"},
		{name: "wrong field type", tool: "search_items", args: `{"limit":"ten"}`, wantError: "invalid arguments for search_items"},
		{name: "missing required", tool: "create_task", args: `{"item_id":"ITM-1"}`, wantError: "task_type is required"},
		{name: "bad enum", tool: "create_task", args: `{"item_id":"ITM-1","task_type":"paint"}`, wantError: "task_type must be one of"},
		{name: "unresolved scalar", tool: "get_item_details", args: `{"item_id":"ITM-404"}`, wantError: "was not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			r := h.callRaw(tt.tool, tt.args)
			assert.False(t, r.OK)
			assert.Contains(t, r.Error, tt.wantError)
			assert.Equal(t, "error", r.Outcome())
		})
	}
}

func TestRegistry_Execute_EmptyArguments(t *testing.T) {
	h := newHarness(t)
	h.fx.Item("ITM-10001")

	r := h.callRaw("get_warehouse_snapshot", "")
	require.True(t, r.OK, r.Error)
	assert.Equal(t, "ok", r.Outcome())
}

func TestRegistry_ResolvesCodesBeforeHandlers(t *testing.T) {
	h := newHarness(t)
	item := h.fx.Item("ITM-10042")

	r := h.call("get_item_details", map[string]interface{}{"item_id": "10042"})
	require.True(t, r.OK, r.Error)

	got := data(t, r)["item"].(map[string]interface{})
	assert.Equal(t, item.Id.String(), got["id"])
	assert.Equal(t, "ITM-10042 ["+item.Id.String()+"]", got["ref"])
}

func TestResult_Outcome(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{name: "ok", result: ok("done", nil), want: "ok"},
		{name: "error", result: fail("nope"), want: "error"},
		{name: "blocked", result: blocked("frozen", nil), want: "blocked"},
		{name: "warning", result: warn("careful", "", nil), want: "warning"},
		{name: "multiple", result: Result{OK: true, MultipleMatches: true}, want: "multiple_matches"},
		{name: "confirmation", result: Result{OK: true, RequiresConfirmation: true}, want: "requires_confirmation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Outcome())
		})
	}
}

func TestGetTaskStats(t *testing.T) {
	h := newHarness(t)
	h.fx.Task("TSK-00001", "inspection", "completed")
	h.fx.Task("TSK-00002", "inspection", "pending")
	h.fx.Task("TSK-00003", "repair", "in_progress")

	t.Run("all types", func(t *testing.T) {
		r := h.call("get_task_stats", map[string]interface{}{})
		require.True(t, r.OK, r.Error)

		got := data(t, r)
		assert.Equal(t, float64(30), got["window_days"])
		assert.Equal(t, float64(3), got["created_in_window"])
		assert.Equal(t, float64(1), got["completed_in_window"])
		assert.Equal(t, float64(2), got["open_total"])
		byType := got["by_type"].(map[string]interface{})
		assert.Equal(t, float64(1), byType["inspection"].(map[string]interface{})["pending"])
	})

	t.Run("filtered by type", func(t *testing.T) {
		r := h.call("get_task_stats", map[string]interface{}{"task_type": "repair", "days": 7})
		require.True(t, r.OK, r.Error)

		got := data(t, r)
		assert.Equal(t, float64(7), got["window_days"])
		assert.Equal(t, float64(1), got["open_total"])
		assert.Equal(t, float64(0), got["completed_in_window"])
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		r := h.call("get_task_stats", map[string]interface{}{"task_type": "painting"})
		assert.False(t, r.OK)
	})
}
