package tools

import (
	"context"

	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/repository/specification"

	"github.com/google/uuid"
)

// Batched name lookups. Each loads every referenced row of one kind in a
// single query so list answers never issue a query per row.

func (e *Env) tenant() specification.Specification {
	return specification.TenantOwnedBy{TenantID: e.Scope.TenantId}
}

func (e *Env) locationCodes(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	codes := make(map[uuid.UUID]string)
	if len(ids) == 0 {
		return codes, nil
	}
	rows, err := e.UoW.LocationRepository().FindAll(ctx, e.tenant(), specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, l := range rows {
		codes[l.Id] = l.Code
	}
	return codes, nil
}

func (e *Env) accountNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := e.UoW.AccountRepository().FindAll(ctx, e.tenant(), specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, a := range rows {
		names[a.Id] = a.Name
	}
	return names, nil
}

func (e *Env) sidemarkNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string)
	if len(ids) == 0 {
		return names, nil
	}
	rows, err := e.UoW.AccountRepository().FindSidemarks(ctx, e.tenant(), specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		names[s.Id] = s.Name
	}
	return names, nil
}

// itemsByID loads items and returns them in the order of ids; ids with no
// row in this tenant are returned as missing.
func (e *Env) itemsByID(ctx context.Context, ids []uuid.UUID) ([]*entity.Item, []uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil, nil
	}
	rows, err := e.UoW.ItemRepository().FindAll(ctx, e.tenant(), specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, nil, err
	}
	byId := make(map[uuid.UUID]*entity.Item, len(rows))
	for _, i := range rows {
		byId[i.Id] = i
	}

	items := make([]*entity.Item, 0, len(ids))
	var missing []uuid.UUID
	for _, id := range ids {
		if item, ok := byId[id]; ok {
			items = append(items, item)
		} else {
			missing = append(missing, id)
		}
	}
	return items, missing, nil
}

// itemLabels decorates items with location and account names.
type itemLabels struct {
	locations map[uuid.UUID]string
	accounts  map[uuid.UUID]string
}

func (e *Env) labelItems(ctx context.Context, items []*entity.Item) (itemLabels, error) {
	var locationIds, accountIds []uuid.UUID
	for _, i := range items {
		if i.LocationId != nil {
			locationIds = append(locationIds, *i.LocationId)
		}
		if i.AccountId != nil {
			accountIds = append(accountIds, *i.AccountId)
		}
	}
	locations, err := e.locationCodes(ctx, dedupe(locationIds))
	if err != nil {
		return itemLabels{}, err
	}
	accounts, err := e.accountNames(ctx, dedupe(accountIds))
	if err != nil {
		return itemLabels{}, err
	}
	return itemLabels{locations: locations, accounts: accounts}, nil
}

func (l itemLabels) location(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return l.locations[*id]
}

func (l itemLabels) account(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return l.accounts[*id]
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func itemIDs(items []*entity.Item) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = item.Id
	}
	return ids
}

// itemRow is the compact item shape used in lists and drafts.
type itemRow struct {
	Id          uuid.UUID `json:"id"`
	Ref         string    `json:"ref"`
	ItemCode    string    `json:"item_code"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Account     string    `json:"account,omitempty"`
}

func newItemRow(i *entity.Item, labels itemLabels) itemRow {
	return itemRow{
		Id:          i.Id,
		Ref:         ref(i.ItemCode, i.Id),
		ItemCode:    i.ItemCode,
		Description: i.Description,
		Status:      i.Status,
		Location:    labels.location(i.LocationId),
		Account:     labels.account(i.AccountId),
	}
}

// excludedItem explains why one requested item was left out.
type excludedItem struct {
	Id       uuid.UUID `json:"id"`
	ItemCode string    `json:"item_code,omitempty"`
	Reason   string    `json:"reason"`
	Code     string    `json:"code,omitempty"`
}
