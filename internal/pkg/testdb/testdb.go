// Package testdb opens an in-memory sqlite database with every model
// migrated, plus small builders for warehouse fixtures.
package testdb

import (
	"testing"
	"time"

	"wms-ops-agent/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New returns a fresh database. One connection keeps the in-memory
// database alive and serialises access; callers must not query outside an
// open transaction while it is running.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

// Fixture inserts rows for one tenant.
type Fixture struct {
	t        testing.TB
	DB       *gorm.DB
	TenantId uuid.UUID
	UserId   uuid.UUID
}

func NewFixture(t testing.TB, db *gorm.DB) *Fixture {
	return &Fixture{
		t:        t,
		DB:       db,
		TenantId: uuid.New(),
		UserId:   uuid.New(),
	}
}

func (f *Fixture) create(v interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Create(v).Error)
}

func (f *Fixture) Account(name, code string) *model.Account {
	a := &model.Account{Id: uuid.New(), TenantId: f.TenantId, Name: name, AccountCode: code, Status: "active"}
	f.create(a)
	return a
}

func (f *Fixture) Sidemark(accountId uuid.UUID, name string) *model.Sidemark {
	s := &model.Sidemark{Id: uuid.New(), TenantId: f.TenantId, AccountId: accountId, Name: name}
	f.create(s)
	return s
}

func (f *Fixture) Location(code string) *model.Location {
	l := &model.Location{Id: uuid.New(), TenantId: f.TenantId, Code: code, Name: code, LocationType: "bay", IsActive: true}
	f.create(l)
	return l
}

// Item creates an active item; mutate lets a test adjust fields first.
func (f *Fixture) Item(code string, mutate ...func(*model.Item)) *model.Item {
	i := &model.Item{
		Id:          uuid.New(),
		TenantId:    f.TenantId,
		ItemCode:    code,
		Description: "item " + code,
		Status:      "active",
		Quantity:    1,
	}
	for _, m := range mutate {
		m(i)
	}
	f.create(i)
	return i
}

func (f *Fixture) Shipment(number, shipmentType, status string, itemIds ...uuid.UUID) *model.Shipment {
	s := &model.Shipment{
		Id:             uuid.New(),
		TenantId:       f.TenantId,
		ShipmentNumber: number,
		ShipmentType:   shipmentType,
		Status:         status,
	}
	f.create(s)
	for _, id := range itemIds {
		f.create(&model.ShipmentItem{Id: uuid.New(), TenantId: f.TenantId, ShipmentId: s.Id, ItemId: id})
	}
	return s
}

func (f *Fixture) Task(number, taskType, status string, itemIds ...uuid.UUID) *model.Task {
	task := &model.Task{
		Id:         uuid.New(),
		TenantId:   f.TenantId,
		TaskNumber: number,
		TaskType:   taskType,
		Status:     status,
		Title:      taskType,
		CreatedBy:  f.UserId,
	}
	if status == "completed" {
		now := time.Now().UTC()
		task.CompletedAt = &now
	}
	f.create(task)
	for _, id := range itemIds {
		f.create(&model.TaskItem{Id: uuid.New(), TenantId: f.TenantId, TaskId: task.Id, ItemId: id})
	}
	return task
}

func (f *Fixture) Stocktake(number, status string) *model.Stocktake {
	s := &model.Stocktake{Id: uuid.New(), TenantId: f.TenantId, StocktakeNumber: number, Name: number, Status: status}
	f.create(s)
	return s
}

// StocktakeLine adds an item to a stocktake; counted nil means not counted yet.
func (f *Fixture) StocktakeLine(stocktakeId, itemId uuid.UUID, expected int, counted *int, variance string) *model.StocktakeItem {
	line := &model.StocktakeItem{
		Id:               uuid.New(),
		TenantId:         f.TenantId,
		StocktakeId:      stocktakeId,
		ItemId:           itemId,
		ExpectedQuantity: expected,
		CountedQuantity:  counted,
		VarianceStatus:   variance,
	}
	f.create(line)
	return line
}

func (f *Fixture) Claim(number, status string, accountId *uuid.UUID) *model.Claim {
	c := &model.Claim{Id: uuid.New(), TenantId: f.TenantId, ClaimNumber: number, Status: status, AccountId: accountId}
	f.create(c)
	return c
}

func (f *Fixture) BillingEvent(accountId uuid.UUID, amount float64, status string) *model.BillingEvent {
	b := &model.BillingEvent{Id: uuid.New(), TenantId: f.TenantId, AccountId: accountId, Amount: amount, Status: status, Description: "storage"}
	f.create(b)
	return b
}

func IntPtr(v int) *int {
	return &v
}

func UUIDPtr(v uuid.UUID) *uuid.UUID {
	return &v
}
