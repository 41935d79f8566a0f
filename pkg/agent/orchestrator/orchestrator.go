// Package orchestrator runs one conversational turn: it calls the reasoning
// engine, executes the tool calls it asks for one at a time, and folds every
// session-state change into a single patch for the caller to persist.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/pkg/agent/metrics"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/agent/tools"
	"wms-ops-agent/pkg/llm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "wms-ops-agent/orchestrator"

const roundCapNotice = "The tool budget for this message is used up. Answer the user now with what you have, and say plainly if something is still unfinished."

const emptyReply = "I could not put together an answer for that. Please try rephrasing the request."

// EngineError is a reasoning engine failure that aborted the turn.
type EngineError struct {
	Round int
	Err   error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("reasoning engine round %d: %v", e.Round, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// ToolExecutor is the part of the tool registry the loop needs.
type ToolExecutor interface {
	Schemas() []llm.ToolSchema
	Execute(ctx context.Context, inv tools.Invocation) tools.Result
}

// ToolCallRecord describes one executed tool call.
type ToolCallRecord struct {
	CallId    string
	Name      string
	Arguments string
	OK        bool
	Outcome   string
	Duration  time.Duration
}

// AuditFunc receives every executed tool call. It must not block for long.
type AuditFunc func(ctx context.Context, scope tools.Scope, record ToolCallRecord)

type Config struct {
	MaxRounds    int
	HistoryLimit int
	Temperature  float64
}

// Turn is the input of one user message.
type Turn struct {
	Scope     tools.Scope
	UIContext state.UIContext
	State     state.SessionState
	History   []llm.Message
	Message   string

	// Audit, when set, is called after each tool call of the turn.
	Audit AuditFunc
}

// Outcome is the result of a turn. Patch holds every state change made by
// tools during the turn, merged in call order; State is the resulting state.
type Outcome struct {
	Reply     string
	Patch     state.Patch
	State     state.SessionState
	Rounds    int
	RoundCap  bool
	ToolCalls []ToolCallRecord
}

type Orchestrator struct {
	engine llm.ToolCaller
	tools  ToolExecutor
	cfg    Config
	logger logger.ILogger
	tracer trace.Tracer
	now    func() time.Time
	// registered tool names; anything else is labelled unknown in metrics
	known map[string]bool
}

func New(engine llm.ToolCaller, executor ToolExecutor, cfg Config, log logger.ILogger) *Orchestrator {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 5
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 20
	}
	known := map[string]bool{}
	for _, schema := range executor.Schemas() {
		known[schema.Name] = true
	}
	return &Orchestrator{
		engine: engine,
		tools:  executor,
		cfg:    cfg,
		logger: log,
		tracer: otel.Tracer(tracerName),
		now:    time.Now,
		known:  known,
	}
}

// metricLabel keeps engine-invented tool names out of metric labels.
func (o *Orchestrator) metricLabel(tool string) string {
	if o.known[tool] {
		return tool
	}
	return metrics.UnknownTool
}

// Run executes one turn. On an engine failure the returned Outcome still
// carries the state changes made before the failure, alongside the error.
func (o *Orchestrator) Run(ctx context.Context, turn Turn) (*Outcome, error) {
	ctx, span := o.tracer.Start(ctx, "ops_agent.turn", trace.WithAttributes(
		attribute.String("tenant_id", turn.Scope.TenantId.String()),
		attribute.String("actor", turn.Scope.Actor()),
	))
	defer span.End()

	out := &Outcome{State: turn.State}
	transcript := o.transcript(turn)
	schemas := o.tools.Schemas()

	for round := 1; round <= o.cfg.MaxRounds; round++ {
		out.Rounds = round
		resp, err := o.chat(ctx, round, transcript, schemas)
		if err != nil {
			return out, o.engineFailure(span, out, err)
		}

		if len(resp.ToolCalls) == 0 {
			out.Reply = replyText(resp.Content)
			o.finish(span, out)
			return out, nil
		}

		transcript = append(transcript, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		// Sequential on purpose: a later call may read state an earlier one set.
		for _, call := range resp.ToolCalls {
			result := o.runTool(ctx, turn, out, call)
			transcript = append(transcript, toolMessage(call, result))
		}
	}

	o.logger.Warn("ORCHESTRATOR", "Round cap reached, forcing a text answer", map[string]interface{}{
		"rounds":    o.cfg.MaxRounds,
		"tenant_id": turn.Scope.TenantId.String(),
	})
	out.RoundCap = true
	transcript = append(transcript, llm.Message{Role: llm.RoleSystem, Content: roundCapNotice})

	resp, err := o.chat(ctx, o.cfg.MaxRounds+1, transcript, nil)
	if err != nil {
		return out, o.engineFailure(span, out, err)
	}
	out.Rounds = o.cfg.MaxRounds + 1
	out.Reply = replyText(resp.Content)
	o.finish(span, out)
	return out, nil
}

func (o *Orchestrator) transcript(turn Turn) []llm.Message {
	builder := &promptBuilder{
		scope: turn.Scope,
		ui:    turn.UIContext,
		state: turn.State,
		now:   o.now(),
	}

	history := trimHistory(turn.History, o.cfg.HistoryLimit)
	transcript := make([]llm.Message, 0, len(history)+2)
	transcript = append(transcript, llm.Message{Role: llm.RoleSystem, Content: builder.Build()})
	transcript = append(transcript, history...)
	transcript = append(transcript, llm.Message{Role: llm.RoleUser, Content: turn.Message})
	return transcript
}

func (o *Orchestrator) chat(ctx context.Context, round int, transcript []llm.Message, schemas []llm.ToolSchema) (*llm.ChatResponse, error) {
	ctx, span := o.tracer.Start(ctx, "ops_agent.round", trace.WithAttributes(
		attribute.Int("round", round),
		attribute.Int("messages", len(transcript)),
		attribute.Bool("tools_enabled", len(schemas) > 0),
	))
	defer span.End()

	var opts []llm.Option
	if o.cfg.Temperature > 0 {
		opts = append(opts, llm.WithTemperature(o.cfg.Temperature))
	}

	resp, err := o.engine.ChatWithTools(ctx, transcript, schemas, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &EngineError{Round: round, Err: err}
	}
	span.SetAttributes(attribute.Int("tool_calls", len(resp.ToolCalls)))
	return resp, nil
}

// runTool executes one call against the working state and folds its patch
// into the outcome.
func (o *Orchestrator) runTool(ctx context.Context, turn Turn, out *Outcome, call llm.ToolCall) tools.Result {
	ctx, span := o.tracer.Start(ctx, "ops_agent.tool", trace.WithAttributes(
		attribute.String("tool", call.Name),
	))
	defer span.End()

	started := o.now()
	result := o.tools.Execute(ctx, tools.Invocation{
		Scope:     turn.Scope,
		UIContext: turn.UIContext,
		State:     out.State,
		Name:      call.Name,
		Arguments: call.Arguments,
	})
	elapsed := o.now().Sub(started)

	patch := result.Patch()
	out.State = patch.Apply(out.State)
	out.Patch = out.Patch.Merge(patch)

	record := ToolCallRecord{
		CallId:    call.ID,
		Name:      call.Name,
		Arguments: call.Arguments,
		OK:        result.OK,
		Outcome:   result.Outcome(),
		Duration:  elapsed,
	}
	out.ToolCalls = append(out.ToolCalls, record)

	span.SetAttributes(
		attribute.String("outcome", record.Outcome),
		attribute.Bool("ok", record.OK),
	)
	metrics.ObserveToolCall(o.metricLabel(call.Name), record.Outcome, elapsed)
	o.logger.Debug("ORCHESTRATOR", "Tool executed", map[string]interface{}{
		"tool":        call.Name,
		"outcome":     record.Outcome,
		"duration_ms": elapsed.Milliseconds(),
	})
	if turn.Audit != nil {
		turn.Audit(ctx, turn.Scope, record)
	}
	return result
}

func (o *Orchestrator) engineFailure(span trace.Span, out *Outcome, err error) error {
	kind := metrics.ObserveEngineError(err)
	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	o.logger.Error("ORCHESTRATOR", "Reasoning engine failed", map[string]interface{}{
		"kind":       kind,
		"round":      out.Rounds,
		"tool_calls": len(out.ToolCalls),
		"error":      err.Error(),
	})
	return err
}

func (o *Orchestrator) finish(span trace.Span, out *Outcome) {
	metrics.ObserveRounds(out.Rounds)
	span.SetAttributes(
		attribute.Int("rounds", out.Rounds),
		attribute.Int("tool_calls", len(out.ToolCalls)),
		attribute.Bool("round_cap", out.RoundCap),
	)
}

// toolMessage feeds a result back to the engine as JSON tied to its call.
func toolMessage(call llm.ToolCall, result tools.Result) llm.Message {
	body, err := json.Marshal(result)
	if err != nil {
		body = []byte(fmt.Sprintf(`{"ok":false,"error":%q}`, "result could not be encoded: "+err.Error()))
	}
	return llm.Message{
		Role:       llm.RoleTool,
		Content:    string(body),
		ToolCallID: call.ID,
		Name:       call.Name,
	}
}

func replyText(content string) string {
	if content == "" {
		return emptyReply
	}
	return content
}
