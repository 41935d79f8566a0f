package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
	"wms-ops-agent/pkg/agent/match"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
)

const (
	// candidateLimit caps the rows offered in one disambiguation.
	candidateLimit = 15
	// fetchLimit bounds the rows ranked for one query.
	fetchLimit = 200
	// listLimit is the default page of a listing without a query.
	listLimit = 25
)

type searchOutput struct {
	Results      interface{} `json:"results"`
	Count        int         `json:"count"`
	TotalMatches int         `json:"total_matches,omitempty"`
	MatchTier    string      `json:"match_tier,omitempty"`
}

// found is one search's raw rows plus what it takes to present them.
type found[T any] struct {
	kind     state.DisambiguationType
	codeKind string // match kind the query must be able to name; "" for uncoded entities
	noun     string
	query    string
	action   string
	rows     []T
	exact    []T // exact code hits fetched apart from the ranked page
	codeOf   func(T) string
	idOf     func(T) uuid.UUID
	label    func(T) string
	render   func([]T) (interface{}, error)
}

// finish applies the search contract. A listing (no query) never touches
// state. A query keeps the best ranked tier: one row is returned directly,
// several become a numbered disambiguation, none is a not-found error.
func finish[T any](f found[T]) Result {
	if strings.TrimSpace(f.query) == "" {
		data, err := f.render(f.rows)
		if err != nil {
			return internalError("load "+f.noun+" details", err)
		}
		return ok(fmt.Sprintf("%d %ss", len(f.rows), f.noun), searchOutput{Results: data, Count: len(f.rows)})
	}

	if f.codeKind != "" {
		if q := match.ParseQuery(f.query); !q.Names(f.codeKind) {
			return fail("%q is a code for %s records, not %ss; search for it with the matching tool", f.query, q.Kind, f.noun).
				withPatch(state.ClearDisambiguation())
		}
	}

	rows, tier := f.rows, match.TierNone
	if f.codeOf != nil {
		ranked := match.Rank(f.exact, f.query, f.codeOf)
		if ranked.Tier != match.TierExact {
			ranked = match.Rank(f.rows, f.query, f.codeOf)
		}
		if ranked.Tier != match.TierNone {
			rows, tier = ranked.Rows, ranked.Tier
		}
	}

	total := len(rows)
	if total == 0 {
		return fail("no %s matches %q", f.noun, f.query).withPatch(state.ClearDisambiguation())
	}

	shown := rows
	if len(shown) > candidateLimit {
		shown = shown[:candidateLimit]
	}
	data, err := f.render(shown)
	if err != nil {
		return internalError("load "+f.noun+" details", err)
	}
	out := searchOutput{Results: data, Count: len(shown), TotalMatches: total, MatchTier: tier.String()}

	if total == 1 {
		return ok(fmt.Sprintf("found one %s matching %q", f.noun, f.query), out).
			withPatch(state.ClearDisambiguation())
	}

	candidates := make([]state.Candidate, len(shown))
	for i, row := range shown {
		candidates[i] = state.Candidate{Id: f.idOf(row), Label: f.label(row)}
	}
	message := fmt.Sprintf("%d %ss match %q; list them numbered and ask the user which one they mean", total, f.noun, f.query)
	if total > len(shown) {
		message = fmt.Sprintf("%d %ss match %q, showing the first %d; list them numbered and ask the user which one they mean, or to narrow the search", total, f.noun, f.query, len(shown))
	}
	r := Result{OK: true, MultipleMatches: true, Message: message, Data: out}
	return r.withPatch(state.SetDisambiguation(state.NewDisambiguation(f.kind, f.query, f.action, candidates)))
}

// listSpecs is the common ordering and paging for a search.
func listSpecs(query, codeColumn string, limit int) []specification.Specification {
	if strings.TrimSpace(query) != "" {
		return []specification.Specification{
			specification.OrderBy{Field: codeColumn},
			specification.Limit{N: fetchLimit},
		}
	}
	if limit <= 0 {
		limit = listLimit
	}
	return []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Limit{N: limit},
	}
}

// and returns base followed by more in a fresh slice, so base can be
// reused for a second query.
func and(base []specification.Specification, more ...specification.Specification) []specification.Specification {
	out := make([]specification.Specification, 0, len(base)+len(more))
	return append(append(out, base...), more...)
}

func codeExact(query, codeColumn string) specification.Specification {
	q := match.ParseQuery(query)
	return specification.CodeExact{CodeColumn: codeColumn, Text: q.Text, Digits: q.Core}
}

// findExact fetches the exact code hits for a query under the same filters.
func findExact[T any](ctx context.Context, query, codeColumn string, filters []specification.Specification, find func(context.Context, ...specification.Specification) ([]T, error)) ([]T, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	return find(ctx, and(filters, codeExact(query, codeColumn), specification.Limit{N: fetchLimit})...)
}

func codeSearch(query, codeColumn string, textColumns ...string) specification.Specification {
	q := match.ParseQuery(query)
	return specification.CodeSearch{
		CodeColumn:  codeColumn,
		TextColumns: textColumns,
		Text:        strings.TrimSpace(query),
		Digits:      q.Core,
	}
}

// optionalRef parses an optional resolved reference argument.
func optionalRef(kind, value, searchTool string) (*uuid.UUID, *Result) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, res := parseRef(kind, value, searchTool)
	if res != nil {
		return nil, res
	}
	return &id, nil
}

// items

type SearchItemsArgs struct {
	Query         string `json:"query" desc:"Item code, partial number, description or vendor text. Omit to list recent items."`
	Status        string `json:"status" validate:"omitempty,oneof=active allocated released disposed" desc:"Filter by item status"`
	AccountId     string `json:"account_id" desc:"Account id, name or code"`
	LocationId    string `json:"location_id" desc:"Location id or code"`
	ActionContext string `json:"action_context" desc:"What the user wants to do with the result, kept with any disambiguation"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100" desc:"Page size for listings"`
}

func searchItems(ctx context.Context, env *Env, args *SearchItemsArgs) Result {
	specs := []specification.Specification{env.tenant()}
	if args.Status != "" {
		specs = append(specs, specification.ByStatus{Statuses: []string{args.Status}})
	}
	accountId, res := optionalRef("account", args.AccountId, "search_accounts")
	if res != nil {
		return *res
	}
	if accountId != nil {
		specs = append(specs, specification.ByAccountID{AccountID: *accountId})
	}
	locationId, res := optionalRef("location", args.LocationId, "search_locations")
	if res != nil {
		return *res
	}
	if locationId != nil {
		specs = append(specs, specification.Filter("location_id", *locationId))
	}
	exact, err := findExact(ctx, args.Query, "item_code", specs, env.UoW.ItemRepository().FindAll)
	if err != nil {
		return internalError("search items", err)
	}
	if args.Query != "" {
		specs = append(specs, codeSearch(args.Query, "item_code", "description", "vendor"))
	}
	specs = append(specs, listSpecs(args.Query, "item_code", args.Limit)...)

	rows, err := env.UoW.ItemRepository().FindAll(ctx, specs...)
	if err != nil {
		return internalError("search items", err)
	}

	return finish(found[*entity.Item]{
		kind:     state.TypeItems,
		codeKind: match.KindItem,
		noun:     "item",
		query:    args.Query,
		action:   args.ActionContext,
		rows:     rows,
		exact:    exact,
		codeOf:   func(i *entity.Item) string { return i.ItemCode },
		idOf:     func(i *entity.Item) uuid.UUID { return i.Id },
		label: func(i *entity.Item) string {
			return strings.TrimSpace(fmt.Sprintf("%s %s (%s)", i.ItemCode, i.Description, i.Status))
		},
		render: func(items []*entity.Item) (interface{}, error) {
			labels, err := env.labelItems(ctx, items)
			if err != nil {
				return nil, err
			}
			out := make([]itemRow, len(items))
			for n, i := range items {
				out[n] = newItemRow(i, labels)
			}
			return out, nil
		},
	})
}

// shipments

type SearchShipmentsArgs struct {
	Query         string `json:"query" desc:"Shipment number or partial number. Omit to list recent shipments."`
	Status        string `json:"status" validate:"omitempty,oneof=pending processing completed cancelled"`
	ShipmentType  string `json:"shipment_type" validate:"omitempty,oneof=inbound outbound"`
	ActionContext string `json:"action_context"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type shipmentRow struct {
	Id             uuid.UUID  `json:"id"`
	Ref            string     `json:"ref"`
	ShipmentNumber string     `json:"shipment_number"`
	ShipmentType   string     `json:"shipment_type"`
	Status         string     `json:"status"`
	Account        string     `json:"account,omitempty"`
	Carrier        string     `json:"carrier,omitempty"`
	ExpectedDate   *time.Time `json:"expected_date,omitempty"`
}

func searchShipments(ctx context.Context, env *Env, args *SearchShipmentsArgs) Result {
	specs := []specification.Specification{env.tenant()}
	if args.Status != "" {
		specs = append(specs, specification.ByStatus{Statuses: []string{args.Status}})
	}
	if args.ShipmentType != "" {
		specs = append(specs, specification.Filter("shipment_type", args.ShipmentType))
	}
	exact, err := findExact(ctx, args.Query, "shipment_number", specs, env.UoW.ShipmentRepository().FindAll)
	if err != nil {
		return internalError("search shipments", err)
	}
	if args.Query != "" {
		specs = append(specs, codeSearch(args.Query, "shipment_number", "carrier"))
	}
	specs = append(specs, listSpecs(args.Query, "shipment_number", args.Limit)...)

	rows, err := env.UoW.ShipmentRepository().FindAll(ctx, specs...)
	if err != nil {
		return internalError("search shipments", err)
	}

	return finish(found[*entity.Shipment]{
		kind:     state.TypeShipments,
		codeKind: match.KindShipment,
		noun:     "shipment",
		query:    args.Query,
		action:   args.ActionContext,
		rows:     rows,
		exact:    exact,
		codeOf:   func(s *entity.Shipment) string { return s.ShipmentNumber },
		idOf:     func(s *entity.Shipment) uuid.UUID { return s.Id },
		label: func(s *entity.Shipment) string {
			return fmt.Sprintf("%s %s (%s)", s.ShipmentNumber, s.ShipmentType, s.Status)
		},
		render: func(shipments []*entity.Shipment) (interface{}, error) {
			return env.shipmentRows(ctx, shipments)
		},
	})
}

func (e *Env) shipmentRows(ctx context.Context, shipments []*entity.Shipment) ([]shipmentRow, error) {
	var accountIds []uuid.UUID
	for _, s := range shipments {
		if s.AccountId != nil {
			accountIds = append(accountIds, *s.AccountId)
		}
	}
	accounts, err := e.accountNames(ctx, dedupe(accountIds))
	if err != nil {
		return nil, err
	}
	labels := itemLabels{accounts: accounts}

	out := make([]shipmentRow, len(shipments))
	for i, s := range shipments {
		out[i] = shipmentRow{
			Id:             s.Id,
			Ref:            ref(s.ShipmentNumber, s.Id),
			ShipmentNumber: s.ShipmentNumber,
			ShipmentType:   s.ShipmentType,
			Status:         s.Status,
			Account:        labels.account(s.AccountId),
			Carrier:        s.Carrier,
			ExpectedDate:   s.ExpectedDate,
		}
	}
	return out, nil
}

// tasks

type SearchTasksArgs struct {
	Query         string `json:"query" desc:"Task number, partial number or title text. Omit to list recent tasks."`
	Status        string `json:"status" validate:"omitempty,oneof=pending in_progress completed cancelled"`
	TaskType      string `json:"task_type" validate:"omitempty,oneof=inspection repair assembly receiving delivery other"`
	ActionContext string `json:"action_context"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type taskRow struct {
	Id          uuid.UUID  `json:"id"`
	Ref         string     `json:"ref"`
	TaskNumber  string     `json:"task_number"`
	TaskType    string     `json:"task_type"`
	Status      string     `json:"status"`
	Title       string     `json:"title,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func newTaskRow(t *entity.Task) taskRow {
	return taskRow{
		Id:          t.Id,
		Ref:         ref(t.TaskNumber, t.Id),
		TaskNumber:  t.TaskNumber,
		TaskType:    t.TaskType,
		Status:      t.Status,
		Title:       t.Title,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func searchTasks(ctx context.Context, env *Env, args *SearchTasksArgs) Result {
	specs := []specification.Specification{env.tenant()}
	if args.Status != "" {
		specs = append(specs, specification.ByStatus{Statuses: []string{args.Status}})
	}
	if args.TaskType != "" {
		specs = append(specs, specification.Filter("task_type", args.TaskType))
	}
	exact, err := findExact(ctx, args.Query, "task_number", specs, env.UoW.TaskRepository().FindAll)
	if err != nil {
		return internalError("search tasks", err)
	}
	if args.Query != "" {
		specs = append(specs, codeSearch(args.Query, "task_number", "title"))
	}
	specs = append(specs, listSpecs(args.Query, "task_number", args.Limit)...)

	rows, err := env.UoW.TaskRepository().FindAll(ctx, specs...)
	if err != nil {
		return internalError("search tasks", err)
	}

	return finish(found[*entity.Task]{
		kind:     state.TypeTasks,
		codeKind: match.KindTask,
		noun:     "task",
		query:    args.Query,
		action:   args.ActionContext,
		rows:     rows,
		exact:    exact,
		codeOf:   func(t *entity.Task) string { return t.TaskNumber },
		idOf:     func(t *entity.Task) uuid.UUID { return t.Id },
		label: func(t *entity.Task) string {
			return fmt.Sprintf("%s %s (%s)", t.TaskNumber, t.TaskType, t.Status)
		},
		render: func(tasks []*entity.Task) (interface{}, error) {
			out := make([]taskRow, len(tasks))
			for i, t := range tasks {
				out[i] = newTaskRow(t)
			}
			return out, nil
		},
	})
}

// locations

type SearchLocationsArgs struct {
	Query         string `json:"query" desc:"Location code or name. Omit to list locations."`
	ActiveOnly    bool   `json:"active_only" desc:"Only return active locations"`
	ActionContext string `json:"action_context"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type locationRow struct {
	Id           uuid.UUID `json:"id"`
	Ref          string    `json:"ref"`
	Code         string    `json:"code"`
	Name         string    `json:"name,omitempty"`
	LocationType string    `json:"location_type,omitempty"`
	IsActive     bool      `json:"is_active"`
}

func searchLocations(ctx context.Context, env *Env, args *SearchLocationsArgs) Result {
	specs := []specification.Specification{env.tenant()}
	if args.ActiveOnly {
		specs = append(specs, specification.Filter("is_active", true))
	}
	exact, err := findExact(ctx, args.Query, "code", specs, env.UoW.LocationRepository().FindAll)
	if err != nil {
		return internalError("search locations", err)
	}
	if args.Query != "" {
		specs = append(specs, codeSearch(args.Query, "code", "name"), specification.OrderBy{Field: "code"}, specification.Limit{N: fetchLimit})
	} else {
		limit := args.Limit
		if limit <= 0 {
			limit = listLimit
		}
		specs = append(specs, specification.OrderBy{Field: "code"}, specification.Limit{N: limit})
	}

	rows, err := env.UoW.LocationRepository().FindAll(ctx, specs...)
	if err != nil {
		return internalError("search locations", err)
	}

	return finish(found[*entity.Location]{
		kind:   state.TypeLocations,
		noun:   "location",
		query:  args.Query,
		action: args.ActionContext,
		rows:   rows,
		exact:  exact,
		codeOf: func(l *entity.Location) string { return l.Code },
		idOf:   func(l *entity.Location) uuid.UUID { return l.Id },
		label: func(l *entity.Location) string {
			if l.Name != "" && l.Name != l.Code {
				return fmt.Sprintf("%s %s", l.Code, l.Name)
			}
			return l.Code
		},
		render: func(locations []*entity.Location) (interface{}, error) {
			out := make([]locationRow, len(locations))
			for i, l := range locations {
				out[i] = locationRow{
					Id:           l.Id,
					Ref:          ref(l.Code, l.Id),
					Code:         l.Code,
					Name:         l.Name,
					LocationType: l.LocationType,
					IsActive:     l.IsActive,
				}
			}
			return out, nil
		},
	})
}

// stocktakes

type SearchStocktakesArgs struct {
	Query         string `json:"query" desc:"Stocktake number, partial number or name. Omit to list recent stocktakes."`
	Status        string `json:"status" validate:"omitempty,oneof=draft in_progress completed closed cancelled"`
	ActionContext string `json:"action_context"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type stocktakeRow struct {
	Id              uuid.UUID  `json:"id"`
	Ref             string     `json:"ref"`
	StocktakeNumber string     `json:"stocktake_number"`
	Name            string     `json:"name,omitempty"`
	Status          string     `json:"status"`
	Location        string     `json:"location,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

func searchStocktakes(ctx context.Context, env *Env, args *SearchStocktakesArgs) Result {
	specs := []specification.Specification{env.tenant()}
	if args.Status != "" {
		specs = append(specs, specification.ByStatus{Statuses: []string{args.Status}})
	}
	exact, err := findExact(ctx, args.Query, "stocktake_number", specs, env.UoW.StocktakeRepository().FindAll)
	if err != nil {
		return internalError("search stocktakes", err)
	}
	if args.Query != "" {
		specs = append(specs, codeSearch(args.Query, "stocktake_number", "name"))
	}
	specs = append(specs, listSpecs(args.Query, "stocktake_number", args.Limit)...)

	rows, err := env.UoW.StocktakeRepository().FindAll(ctx, specs...)
	if err != nil {
		return internalError("search stocktakes", err)
	}

	return finish(found[*entity.Stocktake]{
		kind:     state.TypeStocktakes,
		codeKind: match.KindStocktake,
		noun:     "stocktake",
		query:    args.Query,
		action:   args.ActionContext,
		rows:     rows,
		exact:    exact,
		codeOf:   func(s *entity.Stocktake) string { return s.StocktakeNumber },
		idOf:     func(s *entity.Stocktake) uuid.UUID { return s.Id },
		label: func(s *entity.Stocktake) string {
			return fmt.Sprintf("%s %s (%s)", s.StocktakeNumber, s.Name, s.Status)
		},
		render: func(stocktakes []*entity.Stocktake) (interface{}, error) {
			var locationIds []uuid.UUID
			for _, s := range stocktakes {
				if s.LocationId != nil {
					locationIds = append(locationIds, *s.LocationId)
				}
			}
			codes, err := env.locationCodes(ctx, dedupe(locationIds))
			if err != nil {
				return nil, err
			}
			labels := itemLabels{locations: codes}
			out := make([]stocktakeRow, len(stocktakes))
			for i, s := range stocktakes {
				out[i] = stocktakeRow{
					Id:              s.Id,
					Ref:             ref(s.StocktakeNumber, s.Id),
					StocktakeNumber: s.StocktakeNumber,
					Name:            s.Name,
					Status:          s.Status,
					Location:        labels.location(s.LocationId),
					ClosedAt:        s.ClosedAt,
				}
			}
			return out, nil
		},
	})
}

// accounts

type SearchAccountsArgs struct {
	Query         string `json:"query" desc:"Account name or account code. Omit to list accounts."`
	ActionContext string `json:"action_context"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type accountRow struct {
	Id          uuid.UUID `json:"id"`
	Ref         string    `json:"ref"`
	Name        string    `json:"name"`
	AccountCode string    `json:"account_code,omitempty"`
	Status      string    `json:"status,omitempty"`
}

// searchAccounts ranks names by hand: an exact name or code beats a
// partial one, since account codes carry no numeric core.
func searchAccounts(ctx context.Context, env *Env, args *SearchAccountsArgs) Result {
	specs := []specification.Specification{env.tenant()}
	if args.Query != "" {
		specs = append(specs,
			specification.Contains(args.Query, "name", "account_code"),
			specification.OrderBy{Field: "name"},
			specification.Limit{N: fetchLimit},
		)
	} else {
		limit := args.Limit
		if limit <= 0 {
			limit = listLimit
		}
		specs = append(specs, specification.OrderBy{Field: "name"}, specification.Limit{N: limit})
	}

	rows, err := env.UoW.AccountRepository().FindAll(ctx, specs...)
	if err != nil {
		return internalError("search accounts", err)
	}

	if args.Query != "" {
		needle := strings.ToLower(strings.TrimSpace(args.Query))
		var exact []*entity.Account
		for _, a := range rows {
			if strings.ToLower(a.Name) == needle || strings.ToLower(a.AccountCode) == needle {
				exact = append(exact, a)
			}
		}
		if len(exact) > 0 {
			rows = exact
		}
	}

	return finish(found[*entity.Account]{
		kind:   state.TypeAccounts,
		noun:   "account",
		query:  args.Query,
		action: args.ActionContext,
		rows:   rows,
		idOf:   func(a *entity.Account) uuid.UUID { return a.Id },
		label: func(a *entity.Account) string {
			if a.AccountCode != "" {
				return fmt.Sprintf("%s (%s)", a.Name, a.AccountCode)
			}
			return a.Name
		},
		render: func(accounts []*entity.Account) (interface{}, error) {
			out := make([]accountRow, len(accounts))
			for i, a := range accounts {
				code := a.AccountCode
				if code == "" {
					code = a.Name
				}
				out[i] = accountRow{
					Id:          a.Id,
					Ref:         ref(code, a.Id),
					Name:        a.Name,
					AccountCode: a.AccountCode,
					Status:      a.Status,
				}
			}
			return out, nil
		},
	})
}

// claims

type SearchClaimsArgs struct {
	Query         string `json:"query" desc:"Claim number, partial number or description text. Omit to list recent claims."`
	Status        string `json:"status" validate:"omitempty,oneof=open investigating approved denied closed"`
	AccountId     string `json:"account_id" desc:"Account id, name or code"`
	ActionContext string `json:"action_context"`
	Limit         int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type claimRow struct {
	Id          uuid.UUID `json:"id"`
	Ref         string    `json:"ref"`
	ClaimNumber string    `json:"claim_number"`
	Status      string    `json:"status"`
	Account     string    `json:"account,omitempty"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
}

func searchClaims(ctx context.Context, env *Env, args *SearchClaimsArgs) Result {
	specs := []specification.Specification{env.tenant()}
	if args.Status != "" {
		specs = append(specs, specification.ByStatus{Statuses: []string{args.Status}})
	}
	accountId, res := optionalRef("account", args.AccountId, "search_accounts")
	if res != nil {
		return *res
	}
	if accountId != nil {
		specs = append(specs, specification.ByAccountID{AccountID: *accountId})
	}
	exact, err := findExact(ctx, args.Query, "claim_number", specs, env.UoW.ClaimRepository().FindAll)
	if err != nil {
		return internalError("search claims", err)
	}
	if args.Query != "" {
		specs = append(specs, codeSearch(args.Query, "claim_number", "description"))
	}
	specs = append(specs, listSpecs(args.Query, "claim_number", args.Limit)...)

	rows, err := env.UoW.ClaimRepository().FindAll(ctx, specs...)
	if err != nil {
		return internalError("search claims", err)
	}

	return finish(found[*entity.Claim]{
		kind:     state.TypeClaims,
		codeKind: match.KindClaim,
		noun:     "claim",
		query:    args.Query,
		action:   args.ActionContext,
		rows:     rows,
		exact:    exact,
		codeOf:   func(c *entity.Claim) string { return c.ClaimNumber },
		idOf:     func(c *entity.Claim) uuid.UUID { return c.Id },
		label: func(c *entity.Claim) string {
			return fmt.Sprintf("%s (%s)", c.ClaimNumber, c.Status)
		},
		render: func(claims []*entity.Claim) (interface{}, error) {
			return env.claimRows(ctx, claims)
		},
	})
}

func (e *Env) claimRows(ctx context.Context, claims []*entity.Claim) ([]claimRow, error) {
	var accountIds []uuid.UUID
	for _, c := range claims {
		if c.AccountId != nil {
			accountIds = append(accountIds, *c.AccountId)
		}
	}
	accounts, err := e.accountNames(ctx, dedupe(accountIds))
	if err != nil {
		return nil, err
	}
	labels := itemLabels{accounts: accounts}

	out := make([]claimRow, len(claims))
	for i, c := range claims {
		out[i] = claimRow{
			Id:          c.Id,
			Ref:         ref(c.ClaimNumber, c.Id),
			ClaimNumber: c.ClaimNumber,
			Status:      c.Status,
			Account:     labels.account(c.AccountId),
			Amount:      c.Amount,
			Description: c.Description,
		}
	}
	return out, nil
}
