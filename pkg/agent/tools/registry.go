package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/internal/repository/unitofwork"
	"wms-ops-agent/pkg/agent/resolver"
	"wms-ops-agent/pkg/events"
	"wms-ops-agent/pkg/llm"

	"github.com/go-playground/validator/v10"
)

type Family string

const (
	FamilySearch    Family = "search"
	FamilyDetail    Family = "detail"
	FamilyAnalytics Family = "analytics"
	FamilyMutate    Family = "mutate"
	FamilyBulk      Family = "bulk"
	FamilyUtility   Family = "utility"
)

// Tool is one named operation with its schema and a type-erased runner.
type Tool struct {
	Name        string
	Description string
	Family      Family
	Parameters  map[string]interface{}

	run func(ctx context.Context, env *Env, raw []byte) Result
}

// Registry is the closed set of tools the agent may call.
type Registry struct {
	tools      map[string]*Tool
	order      []string
	uowFactory unitofwork.RepositoryFactory
	events     events.Publisher
	logger     logger.ILogger
	validate   *validator.Validate
	now        func() time.Time
}

func NewRegistry(uowFactory unitofwork.RepositoryFactory, publisher events.Publisher, log logger.ILogger) *Registry {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	r := &Registry{
		tools:      make(map[string]*Tool),
		uowFactory: uowFactory,
		events:     publisher,
		logger:     log,
		validate:   validator.New(),
		now:        func() time.Time { return time.Now().UTC() },
	}
	registerAll(r)
	return r
}

// register binds a typed handler. Arguments are decoded into A and
// validated before the handler runs.
func register[A any](r *Registry, name string, family Family, description string, handler func(ctx context.Context, env *Env, args *A) Result) {
	if _, dup := r.tools[name]; dup {
		panic("tools: duplicate registration of " + name)
	}
	var zero A
	r.tools[name] = &Tool{
		Name:        name,
		Description: description,
		Family:      family,
		Parameters:  schemaOf(zero),
		run: func(ctx context.Context, env *Env, raw []byte) Result {
			args := new(A)
			if err := json.Unmarshal(raw, args); err != nil {
				return fail("invalid arguments for %s: %v", name, err)
			}
			if err := r.validate.Struct(args); err != nil {
				return fail("invalid arguments for %s: %s", name, describeValidation(err))
			}
			return handler(ctx, env, args)
		},
	}
	r.order = append(r.order, name)
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Schemas lists every tool for the reasoning engine.
func (r *Registry) Schemas() []llm.ToolSchema {
	schemas := make([]llm.ToolSchema, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		schemas = append(schemas, llm.ToolSchema{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return schemas
}

// Execute runs one tool call: decode, resolve references, validate, handle.
// It always returns a Result; panics and repository failures become error
// results.
func (r *Registry) Execute(ctx context.Context, inv Invocation) (result Result) {
	tool, found := r.tools[inv.Name]
	if !found {
		return fail("unknown tool %q; available tools: %s", inv.Name, strings.Join(r.sortedNames(), ", "))
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("TOOLS", "Tool panicked", map[string]interface{}{
				"tool":  inv.Name,
				"panic": fmt.Sprint(rec),
			})
			result = fail("%s failed unexpectedly; try again or use a different approach", inv.Name)
		}
	}()

	raw := strings.TrimSpace(inv.Arguments)
	if raw == "" || raw == "null" {
		raw = "{}"
	}
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return fail("arguments for %s are not a JSON object: %v", inv.Name, err)
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	dropped, err := resolver.New(uow, inv.Scope.TenantId).Rewrite(ctx, args)
	if err != nil {
		return internalError("resolve references", err)
	}

	rewritten, err := json.Marshal(args)
	if err != nil {
		return internalError("encode arguments", err)
	}

	env := &Env{
		Scope:      inv.Scope,
		UI:         inv.UIContext,
		State:      inv.State,
		UoW:        uow,
		Events:     r.events,
		Logger:     r.logger,
		Now:        r.now(),
		Unresolved: dropped.Values(),
	}
	return tool.run(ctx, env, rewritten)
}

func (r *Registry) sortedNames() []string {
	names := r.Names()
	sort.Strings(names)
	return names
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := jsonName(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is required", field))
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// jsonName turns a Go field name like TaskType into task_type.
func jsonName(field string) string {
	var b strings.Builder
	for i, c := range field {
		if c >= 'A' && c <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(c + ('a' - 'A'))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
