package state

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UIContext holds advisory hints from the caller. Persisted for continuity,
// never used for authorization.
type UIContext struct {
	CurrentRoute       string   `json:"current_route,omitempty"`
	SelectedItemIds    []string `json:"selected_item_ids,omitempty"`
	SelectedShipmentId string   `json:"selected_shipment_id,omitempty"`
}

// DisambiguationType names the kind of entity the candidates refer to.
type DisambiguationType string

const (
	TypeItems      DisambiguationType = "items"
	TypeShipments  DisambiguationType = "shipments"
	TypeTasks      DisambiguationType = "tasks"
	TypeStocktakes DisambiguationType = "stocktakes"
	TypeLocations  DisambiguationType = "locations"
	TypeAccounts   DisambiguationType = "accounts"
	TypeClaims     DisambiguationType = "claims"
	TypeEntityType DisambiguationType = "entity_type"
)

// Candidate is one numbered choice in a pending disambiguation.
type Candidate struct {
	Id         uuid.UUID `json:"id"`
	Index      int       `json:"index"`
	Label      string    `json:"label"`
	EntityType string    `json:"entity_type,omitempty"`
}

// Disambiguation is the unresolved candidate list left behind by a search
// that found more than one equally ranked match.
type Disambiguation struct {
	Type          DisambiguationType `json:"type"`
	Candidates    []Candidate        `json:"candidates"`
	OriginalQuery string             `json:"original_query"`
	ActionContext string             `json:"action_context,omitempty"`
}

// NewDisambiguation numbers the candidates 1..n in the order given.
func NewDisambiguation(typ DisambiguationType, query, actionContext string, candidates []Candidate) *Disambiguation {
	numbered := make([]Candidate, len(candidates))
	for i, c := range candidates {
		c.Index = i + 1
		numbered[i] = c
	}
	return &Disambiguation{
		Type:          typ,
		Candidates:    numbered,
		OriginalQuery: query,
		ActionContext: actionContext,
	}
}

// Select maps 1-based indices back to candidates. Unknown indices are
// dropped and duplicates collapse; request order is kept.
func (d *Disambiguation) Select(indices []int) []Candidate {
	byIndex := make(map[int]Candidate, len(d.Candidates))
	for _, c := range d.Candidates {
		byIndex[c.Index] = c
	}

	seen := make(map[int]bool, len(indices))
	selected := make([]Candidate, 0, len(indices))
	for _, idx := range indices {
		c, ok := byIndex[idx]
		if !ok || seen[idx] {
			continue
		}
		seen[idx] = true
		selected = append(selected, c)
	}
	return selected
}

// OfEntityType returns the candidates tagged with the given entity type.
func (d *Disambiguation) OfEntityType(entityType string) []Candidate {
	selected := make([]Candidate, 0)
	for _, c := range d.Candidates {
		if c.EntityType == entityType {
			selected = append(selected, c)
		}
	}
	return selected
}

// DraftType names the operation a pending draft would execute.
type DraftType string

const (
	DraftBulkTasks      DraftType = "bulk_tasks"
	DraftBulkMove       DraftType = "bulk_move"
	DraftDisposal       DraftType = "disposal"
	DraftStocktakeClose DraftType = "stocktake_close"
)

// PendingDraft is a previewed bulk or destructive operation awaiting an
// explicit confirmation. Data is the exact payload the execute tool runs.
type PendingDraft struct {
	Type      DraftType       `json:"type"`
	Summary   string          `json:"summary"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewDraft(typ DraftType, summary string, payload interface{}, now time.Time) (*PendingDraft, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal draft payload: %w", err)
	}
	return &PendingDraft{
		Type:      typ,
		Summary:   summary,
		Data:      data,
		CreatedAt: now,
	}, nil
}

// Decode unmarshals the stored payload into v.
func (d *PendingDraft) Decode(v interface{}) error {
	if len(d.Data) == 0 {
		return fmt.Errorf("draft %s has no payload", d.Type)
	}
	return json.Unmarshal(d.Data, v)
}

// SessionState is the multi-turn state of one conversation. At most one
// disambiguation and one draft are live at a time.
type SessionState struct {
	PendingDisambiguation *Disambiguation `json:"pending_disambiguation,omitempty"`
	PendingDraft          *PendingDraft   `json:"pending_draft,omitempty"`
}

// Session is a loaded session as the orchestration layer sees it.
type Session struct {
	Id        uuid.UUID
	TenantId  uuid.UUID
	UserId    uuid.UUID
	State     SessionState
	UIContext UIContext
	CreatedAt time.Time
	ExpiresAt time.Time
}
