package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"wms-ops-agent/internal/dto"
	"wms-ops-agent/internal/model"
	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/internal/pkg/testdb"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/memory"
	"wms-ops-agent/internal/repository/unitofwork"
	"wms-ops-agent/pkg/agent/orchestrator"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/agent/tools"
	"wms-ops-agent/pkg/events"
	"wms-ops-agent/pkg/llm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// queuedEngine pops one scripted response per call.
type queuedEngine struct {
	queue []func() (*llm.ChatResponse, error)
}

func (e *queuedEngine) ChatWithTools(context.Context, []llm.Message, []llm.ToolSchema, ...llm.Option) (*llm.ChatResponse, error) {
	if len(e.queue) == 0 {
		return &llm.ChatResponse{Content: "ok"}, nil
	}
	next := e.queue[0]
	e.queue = e.queue[1:]
	return next()
}

func (e *queuedEngine) push(resp *llm.ChatResponse, err error) {
	e.queue = append(e.queue, func() (*llm.ChatResponse, error) { return resp, err })
}

func callTool(id, name string, args interface{}) *llm.ChatResponse {
	raw, _ := json.Marshal(args)
	return &llm.ChatResponse{ToolCalls: []llm.ToolCall{{ID: id, Name: name, Arguments: string(raw)}}}
}

type serviceHarness struct {
	db       *gorm.DB
	fx       *testdb.Fixture
	engine   *queuedEngine
	sessions *memory.AgentSessionStore
	pubSub   *gochannel.GoChannel
	service  IOpsAgentService
	scope    tools.Scope
}

func newServiceHarness(t *testing.T) *serviceHarness {
	db := testdb.New(t)
	fx := testdb.NewFixture(t, db)
	uowFactory := unitofwork.NewRepositoryFactory(db)
	engine := &queuedEngine{}
	sessions := memory.NewAgentSessionStore(30 * time.Minute)
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	registry := tools.NewRegistry(uowFactory, &events.Recorder{}, logger.NewNopLogger())
	svc := NewOpsAgentService(sessions, engine, registry, orchestrator.Config{MaxRounds: 4}, pubSub, "agent.tool.audit", logger.NewNopLogger())

	return &serviceHarness{
		db:       db,
		fx:       fx,
		engine:   engine,
		sessions: sessions,
		pubSub:   pubSub,
		service:  svc,
		scope:    tools.Scope{TenantId: fx.TenantId, UserId: fx.UserId, UserName: "Dana Ops"},
	}
}

func (h *serviceHarness) chat(t *testing.T, message string) (*dto.OpsAgentChatResponse, error) {
	t.Helper()
	return h.service.Chat(context.Background(), h.scope, &dto.OpsAgentChatRequest{
		Message:  message,
		TenantId: h.scope.TenantId,
	})
}

func TestOpsAgentService_DraftSurvivesBetweenTurns(t *testing.T) {
	h := newServiceHarness(t)
	h.fx.Item("ITM-10001")
	h.fx.Item("ITM-10002")

	h.engine.push(callTool("p", "preview_disposal", map[string]interface{}{
		"item_ids": []string{"ITM-10001", "ITM-10002"},
		"reason":   "flood damage",
	}), nil)
	h.engine.push(&llm.ChatResponse{Content: "This will dispose of 2 items. Confirm?"}, nil)

	first, err := h.chat(t, "dispose 10001 and 10002")
	require.NoError(t, err)
	assert.Equal(t, "This will dispose of 2 items. Confirm?", first.Reply)
	assert.Contains(t, first.PendingDraft, "ITM-10001")
	require.Len(t, first.ToolCalls, 1)
	assert.Equal(t, "requires_confirmation", first.ToolCalls[0].Outcome)

	h.engine.push(callTool("e", "execute_disposal", map[string]interface{}{"confirmed": true}), nil)
	h.engine.push(&llm.ChatResponse{Content: "Done."}, nil)

	second, err := h.chat(t, "yes")
	require.NoError(t, err)
	assert.Equal(t, first.SessionId, second.SessionId)
	assert.Equal(t, "ok", second.ToolCalls[0].Outcome)
	assert.Empty(t, second.PendingDraft)

	var disposed int64
	require.NoError(t, h.db.Model(&model.Item{}).Where("status = ?", "disposed").Count(&disposed).Error)
	assert.EqualValues(t, 2, disposed)
}

func TestOpsAgentService_EngineFailureKeepsToolState(t *testing.T) {
	h := newServiceHarness(t)
	h.fx.Shipment("SHP-2024-45678", "inbound", "pending")
	h.fx.Shipment("SHP-2024-45679", "inbound", "pending")

	h.engine.push(callTool("s", "search_shipments", map[string]interface{}{"query": "4567"}), nil)
	h.engine.push(nil, llm.StatusError("gateway", 429, "slow down"))

	_, err := h.chat(t, "find 4567")
	require.ErrorIs(t, err, llm.ErrRateLimited)

	session, err := h.sessions.GetOrCreate(context.Background(), h.scope.TenantId, h.scope.UserId, state.UIContext{})
	require.NoError(t, err)
	require.NotNil(t, session.State.PendingDisambiguation)
	assert.Len(t, session.State.PendingDisambiguation.Candidates, 2)
}

// expiringStore loses the session between load and save, as when the TTL
// runs out during a slow turn.
type expiringStore struct {
	*memory.AgentSessionStore
}

func (expiringStore) Update(context.Context, uuid.UUID, state.Patch) error {
	return contract.ErrSessionNotFound
}

func TestOpsAgentService_ReplySurvivesExpiredSession(t *testing.T) {
	h := newServiceHarness(t)
	h.fx.Shipment("SHP-2024-45678", "inbound", "pending")
	h.fx.Shipment("SHP-2024-45679", "inbound", "pending")

	registry := tools.NewRegistry(unitofwork.NewRepositoryFactory(h.db), &events.Recorder{}, logger.NewNopLogger())
	svc := NewOpsAgentService(expiringStore{h.sessions}, h.engine, registry, orchestrator.Config{MaxRounds: 4}, h.pubSub, "agent.tool.audit", logger.NewNopLogger())

	h.engine.push(callTool("s", "search_shipments", map[string]interface{}{"query": "4567"}), nil)
	h.engine.push(&llm.ChatResponse{Content: "Which one? 1. SHP-2024-45678 2. SHP-2024-45679"}, nil)

	res, err := svc.Chat(context.Background(), h.scope, &dto.OpsAgentChatRequest{Message: "find 4567", TenantId: h.scope.TenantId})
	require.NoError(t, err)
	assert.Equal(t, "Which one? 1. SHP-2024-45678 2. SHP-2024-45679", res.Reply)
	assert.True(t, res.PendingDisambiguation)
}

func TestOpsAgentService_AuditTrail(t *testing.T) {
	h := newServiceHarness(t)
	h.fx.Item("ITM-10001")

	audit := logger.NewNopLogger()
	consumer := NewConsumerService(h.pubSub, "agent.tool.audit", unitofwork.NewRepositoryFactory(h.db), audit, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Consume(ctx) }()
	// let the subscription register before anything is published
	time.Sleep(50 * time.Millisecond)

	h.engine.push(callTool("d", "get_item_details", map[string]interface{}{"item_id": "ITM-10001"}), nil)
	h.engine.push(&llm.ChatResponse{Content: "Here it is."}, nil)
	_, err := h.chat(t, "show ITM-10001")
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		var n int64
		if err := h.db.Model(&model.AgentAuditLog{}).Where("tool = ? AND ok = ?", "get_item_details", true).Count(&n).Error; err != nil {
			return false
		}
		return n == 1
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
