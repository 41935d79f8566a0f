package model

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(255);not null"`
	AccountCode string    `gorm:"type:varchar(64);index"`
	Status      string    `gorm:"type:varchar(32);not null;default:'active'"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Account) TableName() string {
	return "accounts"
}

type Sidemark struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId  uuid.UUID `gorm:"type:uuid;not null;index"`
	AccountId uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
}

func (Sidemark) TableName() string {
	return "sidemarks"
}

type Location struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId     uuid.UUID `gorm:"type:uuid;not null;index"`
	Code         string    `gorm:"type:varchar(64);not null;index"`
	Name         string    `gorm:"type:varchar(255)"`
	LocationType string    `gorm:"type:varchar(32)"`
	IsActive     bool      `gorm:"not null;default:true"`
}

func (Location) TableName() string {
	return "locations"
}

type Item struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemCode    string     `gorm:"type:varchar(64);not null;index"`
	Description string     `gorm:"type:text"`
	Vendor      string     `gorm:"type:varchar(255)"`
	AccountId   *uuid.UUID `gorm:"type:uuid;index"`
	SidemarkId  *uuid.UUID `gorm:"type:uuid"`
	LocationId  *uuid.UUID `gorm:"type:uuid;index"`
	Status      string     `gorm:"type:varchar(32);not null;default:'active'"`
	Quantity    int        `gorm:"not null;default:1"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "items"
}

type Shipment struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ShipmentNumber string     `gorm:"type:varchar(64);not null;index"`
	ShipmentType   string     `gorm:"type:varchar(32);not null"`
	Status         string     `gorm:"type:varchar(32);not null"`
	AccountId      *uuid.UUID `gorm:"type:uuid;index"`
	Carrier        string     `gorm:"type:varchar(128)"`
	ExpectedDate   *time.Time
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Shipment) TableName() string {
	return "shipments"
}

type ShipmentItem struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId   uuid.UUID `gorm:"type:uuid;not null;index"`
	ShipmentId uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemId     uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (ShipmentItem) TableName() string {
	return "shipment_items"
}

type Task struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId    uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_tasks_tenant_number"`
	TaskNumber  string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_tasks_tenant_number"`
	TaskType    string     `gorm:"type:varchar(32);not null;index"`
	Status      string     `gorm:"type:varchar(32);not null;index"`
	Title       string     `gorm:"type:varchar(255)"`
	Notes       string     `gorm:"type:text"`
	AccountId   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
	CompletedAt *time.Time
}

func (Task) TableName() string {
	return "tasks"
}

type TaskItem struct {
	Id       uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId uuid.UUID `gorm:"type:uuid;not null;index"`
	TaskId   uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemId   uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (TaskItem) TableName() string {
	return "task_items"
}

type Stocktake struct {
	Id              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	StocktakeNumber string     `gorm:"type:varchar(64);not null;index"`
	Name            string     `gorm:"type:varchar(255)"`
	Status          string     `gorm:"type:varchar(32);not null;index"`
	LocationId      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt       time.Time  `gorm:"autoCreateTime"`
	ClosedAt        *time.Time
	ClosedBy        *uuid.UUID `gorm:"type:uuid"`
}

func (Stocktake) TableName() string {
	return "stocktakes"
}

type StocktakeItem struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId         uuid.UUID `gorm:"type:uuid;not null;index"`
	StocktakeId      uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemId           uuid.UUID `gorm:"type:uuid;not null;index"`
	ExpectedQuantity int       `gorm:"not null;default:0"`
	CountedQuantity  *int
	VarianceStatus   string `gorm:"type:varchar(32);not null;default:'pending'"`
}

func (StocktakeItem) TableName() string {
	return "stocktake_items"
}

type ItemMovement struct {
	Id             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemId         uuid.UUID  `gorm:"type:uuid;not null;index"`
	FromLocationId *uuid.UUID `gorm:"type:uuid"`
	ToLocationId   uuid.UUID  `gorm:"type:uuid;not null"`
	MovedBy        uuid.UUID  `gorm:"type:uuid"`
	MovedByName    string     `gorm:"type:varchar(255)"`
	Reason         string     `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"autoCreateTime;index"`
}

func (ItemMovement) TableName() string {
	return "item_movements"
}

type ItemNote struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantId      uuid.UUID `gorm:"type:uuid;not null;index"`
	ItemId        uuid.UUID `gorm:"type:uuid;not null;index"`
	Note          string    `gorm:"type:text;not null"`
	CreatedBy     uuid.UUID `gorm:"type:uuid"`
	CreatedByName string    `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index"`
}

func (ItemNote) TableName() string {
	return "item_notes"
}

type Claim struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ClaimNumber string     `gorm:"type:varchar(64);not null;index"`
	AccountId   *uuid.UUID `gorm:"type:uuid;index"`
	ItemId      *uuid.UUID `gorm:"type:uuid"`
	Status      string     `gorm:"type:varchar(32);not null"`
	Description string     `gorm:"type:text"`
	Amount      float64    `gorm:"type:decimal(12,2)"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (Claim) TableName() string {
	return "claims"
}

type BillingEvent struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TenantId    uuid.UUID  `gorm:"type:uuid;not null;index"`
	AccountId   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ItemId      *uuid.UUID `gorm:"type:uuid"`
	Description string     `gorm:"type:varchar(255)"`
	Amount      float64    `gorm:"type:decimal(12,2)"`
	Status      string     `gorm:"type:varchar(32);not null;index"`
	CreatedAt   time.Time  `gorm:"autoCreateTime"`
}

func (BillingEvent) TableName() string {
	return "billing_events"
}
