package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"
	"wms-ops-agent/pkg/agent/match"
	"wms-ops-agent/pkg/agent/state"

	"github.com/google/uuid"
)

// Entity type names used by lookup_reference candidates.
const (
	EntityItem      = match.KindItem
	EntityShipment  = match.KindShipment
	EntityTask      = match.KindTask
	EntityStocktake = match.KindStocktake
	EntityClaim     = match.KindClaim
)

var entityDisambiguation = map[string]state.DisambiguationType{
	EntityItem:      state.TypeItems,
	EntityShipment:  state.TypeShipments,
	EntityTask:      state.TypeTasks,
	EntityStocktake: state.TypeStocktakes,
	EntityClaim:     state.TypeClaims,
}

// lookup_reference

type LookupReferenceArgs struct {
	Reference     string `json:"reference" validate:"required" desc:"Any code or partial number the user typed, when the kind of record is unclear"`
	ActionContext string `json:"action_context"`
}

// refHits is one entity kind's best tier for a reference.
type refHits struct {
	entityType string
	tier       match.Tier
	candidates []state.Candidate
}

func rankHits[T any](entityType string, rows []T, reference string, codeOf func(T) string, idOf func(T) uuid.UUID, label func(T) string) refHits {
	ranked := match.Rank(rows, reference, codeOf)
	hits := refHits{entityType: entityType, tier: ranked.Tier}
	for _, row := range ranked.Rows {
		hits.candidates = append(hits.candidates, state.Candidate{
			Id:         idOf(row),
			Label:      label(row),
			EntityType: entityType,
		})
	}
	return hits
}

type lookupMatch struct {
	Index      int       `json:"index,omitempty"`
	EntityType string    `json:"entity_type"`
	Id         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
}

// lookupReference searches every coded entity kind, or only the kind a
// typed prefix names. Only the kinds whose best tier equals the overall
// best tier survive; when more than one kind survives the user is asked
// which kind they meant.
func lookupReference(ctx context.Context, env *Env, args *LookupReferenceArgs) Result {
	reference := strings.TrimSpace(args.Reference)
	q := match.ParseQuery(reference)
	wanted := q.Names
	var all []refHits

	if wanted(EntityItem) {
		items, err := env.UoW.ItemRepository().FindAll(ctx, env.tenant(), codeSearch(reference, "item_code"), specification.Limit{N: fetchLimit})
		if err != nil {
			return internalError("look up items", err)
		}
		all = append(all, rankHits(EntityItem, items, reference,
			func(i *entity.Item) string { return i.ItemCode },
			func(i *entity.Item) uuid.UUID { return i.Id },
			func(i *entity.Item) string { return fmt.Sprintf("Item %s %s", i.ItemCode, i.Description) }))
	}

	if wanted(EntityShipment) {
		shipments, err := env.UoW.ShipmentRepository().FindAll(ctx, env.tenant(), codeSearch(reference, "shipment_number"), specification.Limit{N: fetchLimit})
		if err != nil {
			return internalError("look up shipments", err)
		}
		all = append(all, rankHits(EntityShipment, shipments, reference,
			func(s *entity.Shipment) string { return s.ShipmentNumber },
			func(s *entity.Shipment) uuid.UUID { return s.Id },
			func(s *entity.Shipment) string {
				return fmt.Sprintf("Shipment %s (%s, %s)", s.ShipmentNumber, s.ShipmentType, s.Status)
			}))
	}

	if wanted(EntityTask) {
		tasks, err := env.UoW.TaskRepository().FindAll(ctx, env.tenant(), codeSearch(reference, "task_number"), specification.Limit{N: fetchLimit})
		if err != nil {
			return internalError("look up tasks", err)
		}
		all = append(all, rankHits(EntityTask, tasks, reference,
			func(t *entity.Task) string { return t.TaskNumber },
			func(t *entity.Task) uuid.UUID { return t.Id },
			func(t *entity.Task) string {
				return fmt.Sprintf("Task %s (%s, %s)", t.TaskNumber, t.TaskType, t.Status)
			}))
	}

	if wanted(EntityStocktake) {
		stocktakes, err := env.UoW.StocktakeRepository().FindAll(ctx, env.tenant(), codeSearch(reference, "stocktake_number"), specification.Limit{N: fetchLimit})
		if err != nil {
			return internalError("look up stocktakes", err)
		}
		all = append(all, rankHits(EntityStocktake, stocktakes, reference,
			func(s *entity.Stocktake) string { return s.StocktakeNumber },
			func(s *entity.Stocktake) uuid.UUID { return s.Id },
			func(s *entity.Stocktake) string { return fmt.Sprintf("Stocktake %s (%s)", s.StocktakeNumber, s.Status) }))
	}

	if wanted(EntityClaim) {
		claims, err := env.UoW.ClaimRepository().FindAll(ctx, env.tenant(), codeSearch(reference, "claim_number"), specification.Limit{N: fetchLimit})
		if err != nil {
			return internalError("look up claims", err)
		}
		all = append(all, rankHits(EntityClaim, claims, reference,
			func(c *entity.Claim) string { return c.ClaimNumber },
			func(c *entity.Claim) uuid.UUID { return c.Id },
			func(c *entity.Claim) string { return fmt.Sprintf("Claim %s (%s)", c.ClaimNumber, c.Status) }))
	}

	best := match.TierNone
	for _, h := range all {
		if h.tier > best {
			best = h.tier
		}
	}
	if best == match.TierNone {
		return fail("nothing matches %q; try a more specific code", reference).withPatch(state.ClearDisambiguation())
	}

	var kinds []refHits
	var candidates []state.Candidate
	for _, h := range all {
		if h.tier == best {
			kinds = append(kinds, h)
			candidates = append(candidates, h.candidates...)
		}
	}
	total := len(candidates)
	if len(candidates) > candidateLimit {
		candidates = candidates[:candidateLimit]
	}

	if total == 1 {
		c := candidates[0]
		return ok(fmt.Sprintf("%q is %s", reference, c.Label), map[string]interface{}{
			"match":      lookupMatch{EntityType: c.EntityType, Id: c.Id, Label: c.Label},
			"match_tier": best.String(),
		}).withPatch(state.ClearDisambiguation())
	}

	typ := state.TypeEntityType
	message := fmt.Sprintf("%q matches %d records of different kinds; ask the user which kind of record they mean", reference, total)
	if len(kinds) == 1 {
		typ = entityDisambiguation[kinds[0].entityType]
		message = fmt.Sprintf("%q matches %d %ss; list them numbered and ask the user which one they mean", reference, total, kinds[0].entityType)
	}

	disambiguation := state.NewDisambiguation(typ, reference, args.ActionContext, candidates)
	matches := make([]lookupMatch, len(disambiguation.Candidates))
	counts := map[string]int{}
	for i, c := range disambiguation.Candidates {
		matches[i] = lookupMatch{Index: c.Index, EntityType: c.EntityType, Id: c.Id, Label: c.Label}
	}
	for _, h := range kinds {
		counts[h.entityType] = len(h.candidates)
	}

	r := Result{OK: true, MultipleMatches: true, Message: message, Data: map[string]interface{}{
		"matches":       matches,
		"entity_types":  counts,
		"total_matches": total,
		"match_tier":    best.String(),
	}}
	return r.withPatch(state.SetDisambiguation(disambiguation))
}

// resolve_disambiguation

type ResolveDisambiguationArgs struct {
	Selections []int  `json:"selections" desc:"1-based numbers of the candidates the user picked"`
	SelectAll  bool   `json:"select_all" desc:"The user wants every listed candidate"`
	EntityType string `json:"entity_type" validate:"omitempty,oneof=item shipment task stocktake claim" desc:"For a kind-of-record question, the kind the user picked"`
}

type selectedCandidate struct {
	Index      int       `json:"index"`
	Id         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	EntityType string    `json:"entity_type,omitempty"`
}

func resolveDisambiguation(_ context.Context, env *Env, args *ResolveDisambiguationArgs) Result {
	pending := env.State.PendingDisambiguation
	if pending == nil {
		return fail("there is no pending selection to resolve; run a search first")
	}

	if args.EntityType != "" && len(args.Selections) == 0 && !args.SelectAll {
		if pending.Type != state.TypeEntityType {
			return fail("the pending selection is a list of %s; answer with selections or select_all", pending.Type)
		}
		return resolveEntityType(env, pending, args.EntityType)
	}

	var chosen []state.Candidate
	switch {
	case args.SelectAll:
		chosen = pending.Candidates
	case len(args.Selections) > 0:
		chosen = pending.Select(args.Selections)
	default:
		return fail("say which of the %d candidates the user means: pass selections, select_all or entity_type", len(pending.Candidates))
	}

	if len(chosen) == 0 {
		return fail("none of the selections %v match a candidate; valid numbers are 1 to %d", args.Selections, len(pending.Candidates))
	}

	valid := make(map[int]bool, len(pending.Candidates))
	for _, c := range pending.Candidates {
		valid[c.Index] = true
	}
	dropped := []int{}
	for _, idx := range args.Selections {
		if !valid[idx] {
			dropped = append(dropped, idx)
		}
	}

	selected := make([]selectedCandidate, len(chosen))
	for i, c := range chosen {
		selected[i] = selectedCandidate{Index: c.Index, Id: c.Id, Label: c.Label, EntityType: c.EntityType}
	}
	data := map[string]interface{}{
		"type":           pending.Type,
		"selected":       selected,
		"original_query": pending.OriginalQuery,
	}
	if pending.ActionContext != "" {
		data["action_context"] = pending.ActionContext
	}
	if len(dropped) > 0 {
		data["dropped_indices"] = dropped
	}
	message := fmt.Sprintf("selected %d of %d candidates; continue with the ids in selected", len(selected), len(pending.Candidates))
	return ok(message, data).withPatch(state.ClearDisambiguation())
}

func resolveEntityType(env *Env, pending *state.Disambiguation, entityType string) Result {
	candidates := pending.OfEntityType(entityType)
	if len(candidates) == 0 {
		return fail("no %s matched %q; the candidates are of type %s", entityType, pending.OriginalQuery, strings.Join(candidateTypes(pending), ", "))
	}

	if len(candidates) == 1 {
		c := candidates[0]
		data := map[string]interface{}{
			"type":           pending.Type,
			"selected":       []selectedCandidate{{Index: c.Index, Id: c.Id, Label: c.Label, EntityType: c.EntityType}},
			"original_query": pending.OriginalQuery,
		}
		if pending.ActionContext != "" {
			data["action_context"] = pending.ActionContext
		}
		return ok(fmt.Sprintf("%q is %s", pending.OriginalQuery, c.Label), data).withPatch(state.ClearDisambiguation())
	}

	next := state.NewDisambiguation(entityDisambiguation[entityType], pending.OriginalQuery, pending.ActionContext, candidates)
	matches := make([]lookupMatch, len(next.Candidates))
	for i, c := range next.Candidates {
		matches[i] = lookupMatch{Index: c.Index, EntityType: c.EntityType, Id: c.Id, Label: c.Label}
	}
	r := Result{
		OK:              true,
		MultipleMatches: true,
		Message:         fmt.Sprintf("%d %ss match %q; list them numbered and ask the user which one they mean", len(candidates), entityType, pending.OriginalQuery),
		Data:            map[string]interface{}{"matches": matches},
	}
	return r.withPatch(state.SetDisambiguation(next))
}

func candidateTypes(d *state.Disambiguation) []string {
	seen := map[string]bool{}
	var types []string
	for _, c := range d.Candidates {
		if c.EntityType != "" && !seen[c.EntityType] {
			seen[c.EntityType] = true
			types = append(types, c.EntityType)
		}
	}
	sort.Strings(types)
	return types
}

// get_current_context

type GetCurrentContextArgs struct{}

type pendingDraftView struct {
	Type      state.DraftType `json:"type"`
	Summary   string          `json:"summary"`
	CreatedAt time.Time       `json:"created_at"`
}

func getCurrentContext(ctx context.Context, env *Env, _ *GetCurrentContextArgs) Result {
	data := map[string]interface{}{
		"actor":         env.Scope.Actor(),
		"tenant_id":     env.Scope.TenantId,
		"user_id":       env.Scope.UserId,
		"current_time":  env.Now.Format(time.RFC3339),
		"current_route": env.UI.CurrentRoute,
	}

	if ids := parseRefs(env.UI.SelectedItemIds); len(ids) > 0 {
		items, _, err := env.itemsByID(ctx, ids)
		if err != nil {
			return internalError("load selected items", err)
		}
		selected := make([]string, len(items))
		for i, item := range items {
			selected[i] = ref(item.ItemCode, item.Id)
		}
		data["selected_items"] = selected
	}

	if id, err := uuid.Parse(env.UI.SelectedShipmentId); err == nil {
		shipment, err := env.UoW.ShipmentRepository().FindOne(ctx, env.tenant(), specification.ByID{ID: id})
		if err != nil {
			return internalError("load selected shipment", err)
		}
		if shipment != nil {
			data["selected_shipment"] = ref(shipment.ShipmentNumber, shipment.Id)
		}
	}

	if d := env.State.PendingDisambiguation; d != nil {
		data["pending_disambiguation"] = d
	}
	if d := env.State.PendingDraft; d != nil {
		data["pending_draft"] = pendingDraftView{Type: d.Type, Summary: d.Summary, CreatedAt: d.CreatedAt}
	}
	return ok("current context", data)
}
