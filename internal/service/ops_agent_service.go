package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wms-ops-agent/internal/dto"
	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/pkg/agent/orchestrator"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/agent/tools"
	"wms-ops-agent/pkg/llm"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IOpsAgentService drives one chat turn of the operations agent.
type IOpsAgentService interface {
	Chat(ctx context.Context, scope tools.Scope, req *dto.OpsAgentChatRequest) (*dto.OpsAgentChatResponse, error)
}

type opsAgentService struct {
	sessions     contract.AgentSessionStore
	orchestrator *orchestrator.Orchestrator
	publisher    message.Publisher
	auditTopic   string
	logger       logger.ILogger
}

func NewOpsAgentService(
	sessions contract.AgentSessionStore,
	engine llm.ToolCaller,
	registry orchestrator.ToolExecutor,
	cfg orchestrator.Config,
	publisher message.Publisher,
	auditTopic string,
	log logger.ILogger,
) IOpsAgentService {
	return &opsAgentService{
		sessions:     sessions,
		orchestrator: orchestrator.New(engine, registry, cfg, log),
		publisher:    publisher,
		auditTopic:   auditTopic,
		logger:       log,
	}
}

func (s *opsAgentService) Chat(ctx context.Context, scope tools.Scope, req *dto.OpsAgentChatRequest) (*dto.OpsAgentChatResponse, error) {
	ui := uiContextOf(req.UIContext)

	session, err := s.sessions.GetOrCreate(ctx, scope.TenantId, scope.UserId, ui)
	if err != nil {
		return nil, fmt.Errorf("load agent session: %w", err)
	}

	out, runErr := s.orchestrator.Run(ctx, orchestrator.Turn{
		Scope:     scope,
		UIContext: ui,
		State:     session.State,
		History:   historyOf(req.ConversationHistory),
		Message:   strings.TrimSpace(req.Message),
		Audit:     s.auditFor(session.Id),
	})

	// Tool side effects are real even when the engine fails later in the
	// turn, so their state changes are kept. A session that expired or
	// vanished mid-turn loses its pending state, but the reply still goes out.
	if out != nil && !out.Patch.IsEmpty() {
		if err := s.sessions.Update(ctx, session.Id, out.Patch); err != nil {
			s.logger.Error("OPS_AGENT", "Failed to persist session state", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}
	if runErr != nil {
		return nil, runErr
	}

	s.logger.Info("OPS_AGENT", "Turn completed", map[string]interface{}{
		"session_id": session.Id.String(),
		"tenant_id":  scope.TenantId.String(),
		"rounds":     out.Rounds,
		"tool_calls": len(out.ToolCalls),
		"round_cap":  out.RoundCap,
	})
	return responseOf(session.Id, out), nil
}

// auditFor publishes every tool call of the session on the audit topic.
func (s *opsAgentService) auditFor(sessionId uuid.UUID) orchestrator.AuditFunc {
	return func(ctx context.Context, scope tools.Scope, record orchestrator.ToolCallRecord) {
		payload, err := json.Marshal(dto.AgentToolAuditMessage{
			TenantId:   scope.TenantId,
			UserId:     scope.UserId,
			SessionId:  sessionId,
			Actor:      scope.Actor(),
			Tool:       record.Name,
			Arguments:  record.Arguments,
			Ok:         record.OK,
			Outcome:    record.Outcome,
			DurationMs: record.Duration.Milliseconds(),
			At:         time.Now().UTC(),
		})
		if err != nil {
			s.logger.Warn("OPS_AGENT", "Failed to encode audit message", map[string]interface{}{"error": err.Error()})
			return
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		if err := s.publisher.Publish(s.auditTopic, msg); err != nil {
			s.logger.Warn("OPS_AGENT", "Failed to publish audit message", map[string]interface{}{
				"tool":  record.Name,
				"error": err.Error(),
			})
		}
	}
}

func uiContextOf(in *dto.OpsAgentUIContext) state.UIContext {
	if in == nil {
		return state.UIContext{}
	}
	return state.UIContext{
		CurrentRoute:       in.CurrentRoute,
		SelectedItemIds:    in.SelectedItemIds,
		SelectedShipmentId: in.SelectedShipmentId,
	}
}

func historyOf(in []dto.OpsAgentHistoryMessage) []llm.Message {
	history := make([]llm.Message, 0, len(in))
	for _, m := range in {
		history = append(history, llm.Message{Role: m.Role, Content: m.Content})
	}
	return history
}

func responseOf(sessionId uuid.UUID, out *orchestrator.Outcome) *dto.OpsAgentChatResponse {
	calls := make([]dto.OpsAgentToolCall, len(out.ToolCalls))
	for i, c := range out.ToolCalls {
		calls[i] = dto.OpsAgentToolCall{Name: c.Name, Outcome: c.Outcome, DurationMs: c.Duration.Milliseconds()}
	}

	res := &dto.OpsAgentChatResponse{
		Reply:                 out.Reply,
		SessionId:             sessionId,
		Rounds:                out.Rounds,
		ToolCalls:             calls,
		PendingDisambiguation: out.State.PendingDisambiguation != nil,
	}
	if out.State.PendingDraft != nil {
		res.PendingDraft = out.State.PendingDraft.Summary
	}
	return res
}
