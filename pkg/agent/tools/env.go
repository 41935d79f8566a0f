package tools

import (
	"context"
	"fmt"
	"time"

	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/internal/repository/unitofwork"
	"wms-ops-agent/pkg/agent/state"
	"wms-ops-agent/pkg/events"

	"github.com/google/uuid"
)

// UnknownActor names callers without a valid credential.
const UnknownActor = "Unknown"

// Scope is the tenant and user a request runs as. Immutable per request.
type Scope struct {
	TenantId uuid.UUID
	UserId   uuid.UUID
	UserName string
}

func (s Scope) Actor() string {
	if s.UserName == "" {
		return UnknownActor
	}
	return s.UserName
}

// Invocation is one tool call as the loop sees it.
type Invocation struct {
	Scope     Scope
	UIContext state.UIContext
	State     state.SessionState
	Name      string
	Arguments string
}

// Env is what a handler may touch during one call.
type Env struct {
	Scope  Scope
	UI     state.UIContext
	State  state.SessionState
	UoW    unitofwork.UnitOfWork
	Events events.Publisher
	Logger logger.ILogger
	Now    time.Time

	// Unresolved holds list elements the resolver dropped for this call.
	Unresolved []string
}

// publish sends a domain event; failures are logged and never surfaced.
func (e *Env) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	data["tenant_id"] = e.Scope.TenantId.String()
	data["actor"] = e.Scope.Actor()
	if err := e.Events.Publish(ctx, events.New(eventType, data)); err != nil {
		e.Logger.Warn("TOOLS", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}

// inTx runs fn inside a transaction on the env's unit of work.
func (e *Env) inTx(ctx context.Context, fn func() error) error {
	if err := e.UoW.Begin(ctx); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if rbErr := e.UoW.Rollback(); rbErr != nil {
			e.Logger.Error("TOOLS", "Rollback failed", map[string]interface{}{"error": rbErr.Error()})
		}
		return err
	}
	return e.UoW.Commit()
}

// ref renders the code [uuid] convention used in answers.
func ref(code string, id uuid.UUID) string {
	return fmt.Sprintf("%s [%s]", code, id)
}

// parseRef turns a resolved argument into an id. A value the resolver could
// not rewrite reaches here unchanged and becomes a not-found result.
func parseRef(kind, value, searchTool string) (uuid.UUID, *Result) {
	id, err := uuid.Parse(value)
	if err == nil {
		return id, nil
	}
	r := fail("%s %q was not found or matches more than one record; use %s to find it", kind, value, searchTool)
	return uuid.Nil, &r
}

// parseRefs converts resolved id strings; the resolver already dropped
// elements it could not match.
func parseRefs(values []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(values))
	seen := make(map[uuid.UUID]bool, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}
