package cli

import (
	"context"
	"fmt"
	"time"

	"wms-ops-agent/internal/config"
	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/model"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

type SeedOptions struct {
	*RootOptions
	Tenant string
}

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo tenant with items, shipments, tasks and a stocktake",
		Long: `Load a demo tenant.

The data set covers every tool: two items share the digits 4567 so a
search has to ask which one is meant, one stocktake is still counting,
and one outbound shipment is in progress.

Example:
  opsctl seed --tenant 7c0d6f8e-2a4b-4f4e-9d53-0a1b2c3d4e5f`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			tenantId := uuid.New()
			if opts.Tenant != "" {
				parsed, err := uuid.Parse(opts.Tenant)
				if err != nil {
					return fmt.Errorf("invalid --tenant: %w", err)
				}
				tenantId = parsed
			}

			db, err := opts.open(config.Load())
			if err != nil {
				return err
			}
			summary, err := Seed(cmd.Context(), db, tenantId)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summary.Skipped {
				color.New(color.FgYellow).Fprintf(out, "tenant %s already has items, nothing seeded\n", tenantId)
				return nil
			}
			color.New(color.FgGreen).Fprintf(out, "seeded tenant %s\n", tenantId)
			fmt.Fprintf(out, "  items:      %d\n", summary.Items)
			fmt.Fprintf(out, "  locations:  %d\n", summary.Locations)
			fmt.Fprintf(out, "  shipments:  %d\n", summary.Shipments)
			fmt.Fprintf(out, "  tasks:      %d\n", summary.Tasks)
			fmt.Fprintf(out, "  stocktakes: %d\n", summary.Stocktakes)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "tenant id to seed (random when empty)")

	return cmd
}

type SeedSummary struct {
	Skipped    bool
	Items      int
	Locations  int
	Shipments  int
	Tasks      int
	Stocktakes int
}

// Seed writes the demo data set for one tenant in a single transaction.
// A tenant that already has items is left alone.
func Seed(ctx context.Context, db *gorm.DB, tenantId uuid.UUID) (*SeedSummary, error) {
	var existing int64
	if err := db.WithContext(ctx).Model(&model.Item{}).Where("tenant_id = ?", tenantId).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}
	if existing > 0 {
		return &SeedSummary{Skipped: true}, nil
	}

	s := &seeder{tenantId: tenantId, operator: uuid.New()}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s.tx = tx
		return s.run()
	})
	if err != nil {
		return nil, fmt.Errorf("seed tenant %s: %w", tenantId, err)
	}
	return &s.summary, nil
}

type seeder struct {
	tx       *gorm.DB
	tenantId uuid.UUID
	operator uuid.UUID
	summary  SeedSummary
}

func (s *seeder) create(v interface{}) error {
	return s.tx.Create(v).Error
}

func (s *seeder) run() error {
	account := &model.Account{Id: uuid.New(), TenantId: s.tenantId, Name: "Harbor Interiors", AccountCode: "ACC-HARBOR", Status: "active"}
	other := &model.Account{Id: uuid.New(), TenantId: s.tenantId, Name: "Northwind Design", AccountCode: "ACC-NORTHWIND", Status: "active"}
	for _, a := range []*model.Account{account, other} {
		if err := s.create(a); err != nil {
			return err
		}
	}
	sidemark := &model.Sidemark{Id: uuid.New(), TenantId: s.tenantId, AccountId: account.Id, Name: "Lakeview Residence"}
	if err := s.create(sidemark); err != nil {
		return err
	}

	locations := map[string]*model.Location{}
	for _, l := range []struct {
		code, kind string
		active     bool
	}{
		{"RECV-01", "dock", true},
		{"A-01", "bay", true},
		{"A-02", "bay", true},
		{"B-01", "bay", true},
		{"QA-HOLD", "quarantine", false},
	} {
		loc := &model.Location{Id: uuid.New(), TenantId: s.tenantId, Code: l.code, Name: l.code, LocationType: l.kind, IsActive: l.active}
		if err := s.create(loc); err != nil {
			return err
		}
		locations[l.code] = loc
		s.summary.Locations++
	}

	items := map[string]*model.Item{}
	for _, it := range []struct {
		code, desc, vendor, location string
		accountId                    uuid.UUID
	}{
		{"ITM-24567", "Walnut sideboard", "Hudson Furniture", "A-01", account.Id},
		{"ITM-34567", "Oak dining table", "Hudson Furniture", "A-01", account.Id},
		{"ITM-10001", "Linen sofa, 3 seat", "Casa Moderna", "A-02", account.Id},
		{"ITM-10002", "Armchair, boucle", "Casa Moderna", "A-02", account.Id},
		{"ITM-10003", "Floor lamp", "Lumen Works", "B-01", account.Id},
		{"ITM-10004", "Bed frame, king", "Hudson Furniture", "RECV-01", other.Id},
		{"ITM-10005", "Nightstand pair", "Hudson Furniture", "RECV-01", other.Id},
		{"ITM-10006", "Console table", "Lumen Works", "B-01", other.Id},
	} {
		accountId := it.accountId
		locationId := locations[it.location].Id
		item := &model.Item{
			Id:          uuid.New(),
			TenantId:    s.tenantId,
			ItemCode:    it.code,
			Description: it.desc,
			Vendor:      it.vendor,
			AccountId:   &accountId,
			LocationId:  &locationId,
			Status:      entity.ItemStatusActive,
			Quantity:    1,
		}
		if accountId == account.Id {
			item.SidemarkId = &sidemark.Id
		}
		if err := s.create(item); err != nil {
			return err
		}
		items[it.code] = item
		s.summary.Items++
	}
	items["ITM-10006"].Status = entity.ItemStatusAllocated
	if err := s.tx.Save(items["ITM-10006"]).Error; err != nil {
		return err
	}

	expected := time.Now().UTC().Add(48 * time.Hour)
	if err := s.shipment("SHP-2024-00101", entity.ShipmentTypeInbound, entity.ShipmentStatusCompleted, account.Id, nil,
		items["ITM-10001"], items["ITM-10002"], items["ITM-10003"]); err != nil {
		return err
	}
	if err := s.shipment("SHP-2024-00102", entity.ShipmentTypeInbound, entity.ShipmentStatusProcessing, other.Id, nil,
		items["ITM-10004"], items["ITM-10005"]); err != nil {
		return err
	}
	if err := s.shipment("SHP-2024-00103", entity.ShipmentTypeOutbound, entity.ShipmentStatusProcessing, other.Id, &expected,
		items["ITM-10006"]); err != nil {
		return err
	}

	if err := s.task("TSK-00001", entity.TaskTypeInspection, entity.TaskStatusCompleted, account.Id, items["ITM-10001"]); err != nil {
		return err
	}
	if err := s.task("TSK-00002", entity.TaskTypeInspection, entity.TaskStatusPending, account.Id, items["ITM-10002"]); err != nil {
		return err
	}

	stocktake := &model.Stocktake{
		Id:              uuid.New(),
		TenantId:        s.tenantId,
		StocktakeNumber: "STK-00001",
		Name:            "Bay B cycle count",
		Status:          entity.StocktakeStatusInProgress,
		LocationId:      &locations["B-01"].Id,
	}
	if err := s.create(stocktake); err != nil {
		return err
	}
	s.summary.Stocktakes++
	counted := 1
	lines := []*model.StocktakeItem{
		{Id: uuid.New(), TenantId: s.tenantId, StocktakeId: stocktake.Id, ItemId: items["ITM-10003"].Id, ExpectedQuantity: 1, CountedQuantity: &counted, VarianceStatus: entity.VarianceVerified},
		{Id: uuid.New(), TenantId: s.tenantId, StocktakeId: stocktake.Id, ItemId: items["ITM-10006"].Id, ExpectedQuantity: 1, VarianceStatus: entity.VariancePending},
	}
	for _, line := range lines {
		if err := s.create(line); err != nil {
			return err
		}
	}

	claim := &model.Claim{
		Id:          uuid.New(),
		TenantId:    s.tenantId,
		ClaimNumber: "CLM-00001",
		AccountId:   &account.Id,
		ItemId:      &items["ITM-10002"].Id,
		Status:      entity.ClaimStatusOpen,
		Description: "Scuffed armrest on arrival",
		Amount:      180,
	}
	if err := s.create(claim); err != nil {
		return err
	}

	for _, b := range []struct {
		accountId uuid.UUID
		amount    float64
		status    string
		desc      string
	}{
		{account.Id, 240, entity.BillingStatusUnbilled, "Storage, March"},
		{account.Id, 95.5, entity.BillingStatusUnbilled, "Receiving"},
		{other.Id, 310, entity.BillingStatusInvoiced, "Storage, February"},
	} {
		if err := s.create(&model.BillingEvent{
			Id:          uuid.New(),
			TenantId:    s.tenantId,
			AccountId:   b.accountId,
			Description: b.desc,
			Amount:      b.amount,
			Status:      b.status,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *seeder) shipment(number, shipmentType, status string, accountId uuid.UUID, expected *time.Time, items ...*model.Item) error {
	shipment := &model.Shipment{
		Id:             uuid.New(),
		TenantId:       s.tenantId,
		ShipmentNumber: number,
		ShipmentType:   shipmentType,
		Status:         status,
		AccountId:      &accountId,
		Carrier:        "Metro Freight",
		ExpectedDate:   expected,
	}
	if err := s.create(shipment); err != nil {
		return err
	}
	for _, item := range items {
		if err := s.create(&model.ShipmentItem{Id: uuid.New(), TenantId: s.tenantId, ShipmentId: shipment.Id, ItemId: item.Id}); err != nil {
			return err
		}
	}
	s.summary.Shipments++
	return nil
}

func (s *seeder) task(number, taskType, status string, accountId uuid.UUID, items ...*model.Item) error {
	task := &model.Task{
		Id:         uuid.New(),
		TenantId:   s.tenantId,
		TaskNumber: number,
		TaskType:   taskType,
		Status:     status,
		Title:      taskType,
		AccountId:  &accountId,
		CreatedBy:  s.operator,
	}
	if status == entity.TaskStatusCompleted {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}
	if err := s.create(task); err != nil {
		return err
	}
	for _, item := range items {
		if err := s.create(&model.TaskItem{Id: uuid.New(), TenantId: s.tenantId, TaskId: task.Id, ItemId: item.Id}); err != nil {
			return err
		}
	}
	s.summary.Tasks++
	return nil
}
