// Package resolver rewrites human-typed entity references in tool arguments
// into canonical ids before a handler sees them.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
	"wms-ops-agent/internal/repository/unitofwork"
	"wms-ops-agent/pkg/agent/match"

	"github.com/google/uuid"
)

type Kind string

const (
	KindItem      Kind = match.KindItem
	KindShipment  Kind = match.KindShipment
	KindLocation  Kind = "location"
	KindStocktake Kind = match.KindStocktake
	KindAccount   Kind = "account"
	KindTask      Kind = match.KindTask
)

// lookupLimit bounds the rows fetched for ranking one reference.
const lookupLimit = 50

// Fields maps argument names to the entity they reference.
var Fields = map[string]Kind{
	"item_id":        KindItem,
	"item_ids":       KindItem,
	"shipment_id":    KindShipment,
	"location_id":    KindLocation,
	"to_location_id": KindLocation,
	"stocktake_id":   KindStocktake,
	"account_id":     KindAccount,
}

type Resolver struct {
	uow      unitofwork.UnitOfWork
	tenantId uuid.UUID
}

func New(uow unitofwork.UnitOfWork, tenantId uuid.UUID) *Resolver {
	return &Resolver{uow: uow, tenantId: tenantId}
}

// Dropped lists the array elements, per field, that did not resolve.
type Dropped map[string][]string

// Values flattens the dropped elements across fields.
func (d Dropped) Values() []string {
	var out []string
	for _, values := range d {
		out = append(out, values...)
	}
	sort.Strings(out)
	return out
}

// Rewrite resolves every known reference field of args in place. Scalars
// that do not resolve are left as typed so the handler reports them;
// unresolved array elements are dropped and reported back.
func (r *Resolver) Rewrite(ctx context.Context, args map[string]interface{}) (Dropped, error) {
	dropped := Dropped{}
	for field, kind := range Fields {
		raw, ok := args[field]
		if !ok || raw == nil {
			continue
		}

		switch v := raw.(type) {
		case string:
			id, found, err := r.Resolve(ctx, kind, v)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", field, err)
			}
			if found {
				args[field] = id.String()
			}
		case []interface{}:
			resolved := make([]interface{}, 0, len(v))
			for _, elem := range v {
				s, ok := elem.(string)
				if !ok {
					dropped[field] = append(dropped[field], fmt.Sprint(elem))
					continue
				}
				id, found, err := r.Resolve(ctx, kind, s)
				if err != nil {
					return nil, fmt.Errorf("resolve %s: %w", field, err)
				}
				if found {
					resolved = append(resolved, id.String())
				} else {
					dropped[field] = append(dropped[field], s)
				}
			}
			args[field] = resolved
		}
	}
	return dropped, nil
}

// Resolve maps one value to a canonical id. UUID-shaped values pass through
// untouched. Anything else must land on exactly one row of the best tier.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, value string) (uuid.UUID, bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil, false, nil
	}
	if id, err := uuid.Parse(value); err == nil {
		return id, true, nil
	}

	switch kind {
	case KindItem:
		return r.resolveItem(ctx, value)
	case KindShipment:
		return r.resolveShipment(ctx, value)
	case KindStocktake:
		return r.resolveStocktake(ctx, value)
	case KindTask:
		return r.resolveTask(ctx, value)
	case KindLocation:
		return r.resolveLocation(ctx, value)
	case KindAccount:
		return r.resolveAccount(ctx, value)
	}
	return uuid.Nil, false, nil
}

// finder is a repository FindAll.
type finder[T any] func(ctx context.Context, specs ...specification.Specification) ([]T, error)

// resolveCode looks up a coded entity. A code whose prefix names another
// kind never resolves. Exact codes are fetched on their own first so a page
// of partial matches cannot hide them; only then is the partial search
// ranked.
func resolveCode[T any](ctx context.Context, r *Resolver, kind Kind, column, value string, find finder[T], codeOf func(T) string, idOf func(T) uuid.UUID) (uuid.UUID, bool, error) {
	q := match.ParseQuery(value)
	if !q.Names(string(kind)) {
		return uuid.Nil, false, nil
	}
	tenant := specification.TenantOwnedBy{TenantID: r.tenantId}

	exact, err := find(ctx,
		tenant,
		specification.CodeExact{CodeColumn: column, Text: q.Text, Digits: q.Core},
		specification.Limit{N: lookupLimit},
	)
	if err != nil {
		return uuid.Nil, false, err
	}
	if ranked := match.Rank(exact, value, codeOf); ranked.Tier == match.TierExact {
		id, ok := single(ranked.Rows, idOf)
		return id, ok, nil
	}

	rows, err := find(ctx,
		tenant,
		specification.CodeSearch{CodeColumn: column, Text: q.Text, Digits: q.Core},
		specification.OrderBy{Field: column},
		specification.Limit{N: lookupLimit},
	)
	if err != nil {
		return uuid.Nil, false, err
	}
	id, ok := single(match.Rank(rows, value, codeOf).Rows, idOf)
	return id, ok, nil
}

func single[T any](rows []T, idOf func(T) uuid.UUID) (uuid.UUID, bool) {
	if len(rows) != 1 {
		return uuid.Nil, false
	}
	return idOf(rows[0]), true
}

func (r *Resolver) resolveItem(ctx context.Context, value string) (uuid.UUID, bool, error) {
	return resolveCode(ctx, r, KindItem, "item_code", value, r.uow.ItemRepository().FindAll,
		func(i *entity.Item) string { return i.ItemCode },
		func(i *entity.Item) uuid.UUID { return i.Id })
}

func (r *Resolver) resolveShipment(ctx context.Context, value string) (uuid.UUID, bool, error) {
	return resolveCode(ctx, r, KindShipment, "shipment_number", value, r.uow.ShipmentRepository().FindAll,
		func(s *entity.Shipment) string { return s.ShipmentNumber },
		func(s *entity.Shipment) uuid.UUID { return s.Id })
}

func (r *Resolver) resolveStocktake(ctx context.Context, value string) (uuid.UUID, bool, error) {
	return resolveCode(ctx, r, KindStocktake, "stocktake_number", value, r.uow.StocktakeRepository().FindAll,
		func(s *entity.Stocktake) string { return s.StocktakeNumber },
		func(s *entity.Stocktake) uuid.UUID { return s.Id })
}

func (r *Resolver) resolveTask(ctx context.Context, value string) (uuid.UUID, bool, error) {
	return resolveCode(ctx, r, KindTask, "task_number", value, r.uow.TaskRepository().FindAll,
		func(t *entity.Task) string { return t.TaskNumber },
		func(t *entity.Task) uuid.UUID { return t.Id })
}

// resolveLocation prefers a case-insensitive exact code, then ranks.
func (r *Resolver) resolveLocation(ctx context.Context, value string) (uuid.UUID, bool, error) {
	repo := r.uow.LocationRepository()
	exact, err := repo.FindAll(ctx,
		specification.TenantOwnedBy{TenantID: r.tenantId},
		specification.EqualFold{Column: "code", Value: value},
		specification.Limit{N: 2},
	)
	if err != nil {
		return uuid.Nil, false, err
	}
	if len(exact) == 1 {
		return exact[0].Id, true, nil
	}
	if len(exact) > 1 {
		return uuid.Nil, false, nil
	}

	q := match.ParseQuery(value)
	rows, err := repo.FindAll(ctx,
		specification.TenantOwnedBy{TenantID: r.tenantId},
		specification.CodeSearch{CodeColumn: "code", Text: q.Text, Digits: q.Core},
		specification.OrderBy{Field: "code"},
		specification.Limit{N: lookupLimit},
	)
	if err != nil {
		return uuid.Nil, false, err
	}
	ranked := match.Rank(rows, value, func(l *entity.Location) string { return l.Code })
	id, ok := single(ranked.Rows, func(l *entity.Location) uuid.UUID { return l.Id })
	return id, ok, nil
}

// resolveAccount matches account code or name; exact beats contains.
func (r *Resolver) resolveAccount(ctx context.Context, value string) (uuid.UUID, bool, error) {
	repo := r.uow.AccountRepository()
	rows, err := repo.FindAll(ctx,
		specification.TenantOwnedBy{TenantID: r.tenantId},
		specification.Contains(value, "name", "account_code"),
		specification.OrderBy{Field: "name"},
		specification.Limit{N: lookupLimit},
	)
	if err != nil {
		return uuid.Nil, false, err
	}

	needle := strings.ToLower(value)
	var exact []*entity.Account
	for _, a := range rows {
		if strings.ToLower(a.Name) == needle || strings.ToLower(a.AccountCode) == needle {
			exact = append(exact, a)
		}
	}
	switch {
	case len(exact) == 1:
		return exact[0].Id, true, nil
	case len(exact) == 0 && len(rows) == 1:
		return rows[0].Id, true, nil
	}
	return uuid.Nil, false, nil
}
