package entity

import (
	"time"

	"github.com/google/uuid"
)

type Account struct {
	Id          uuid.UUID
	TenantId    uuid.UUID
	Name        string
	AccountCode string
	Status      string
	CreatedAt   time.Time
}

type Sidemark struct {
	Id        uuid.UUID
	TenantId  uuid.UUID
	AccountId uuid.UUID
	Name      string
}

type Location struct {
	Id           uuid.UUID
	TenantId     uuid.UUID
	Code         string
	Name         string
	LocationType string
	IsActive     bool
}

type Item struct {
	Id          uuid.UUID
	TenantId    uuid.UUID
	ItemCode    string
	Description string
	Vendor      string
	AccountId   *uuid.UUID
	SidemarkId  *uuid.UUID
	LocationId  *uuid.UUID
	Status      string
	Quantity    int
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type Shipment struct {
	Id             uuid.UUID
	TenantId       uuid.UUID
	ShipmentNumber string
	ShipmentType   string
	Status         string
	AccountId      *uuid.UUID
	Carrier        string
	ExpectedDate   *time.Time
	CreatedAt      time.Time
}

type ShipmentItem struct {
	Id         uuid.UUID
	TenantId   uuid.UUID
	ShipmentId uuid.UUID
	ItemId     uuid.UUID
}

type Task struct {
	Id          uuid.UUID
	TenantId    uuid.UUID
	TaskNumber  string
	TaskType    string
	Status      string
	Title       string
	Notes       string
	AccountId   *uuid.UUID
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type TaskItem struct {
	Id       uuid.UUID
	TenantId uuid.UUID
	TaskId   uuid.UUID
	ItemId   uuid.UUID
}

type Stocktake struct {
	Id              uuid.UUID
	TenantId        uuid.UUID
	StocktakeNumber string
	Name            string
	Status          string
	LocationId      *uuid.UUID
	CreatedAt       time.Time
	ClosedAt        *time.Time
	ClosedBy        *uuid.UUID
}

type StocktakeItem struct {
	Id               uuid.UUID
	TenantId         uuid.UUID
	StocktakeId      uuid.UUID
	ItemId           uuid.UUID
	ExpectedQuantity int
	CountedQuantity  *int
	VarianceStatus   string
}

type ItemMovement struct {
	Id             uuid.UUID
	TenantId       uuid.UUID
	ItemId         uuid.UUID
	FromLocationId *uuid.UUID
	ToLocationId   uuid.UUID
	MovedBy        uuid.UUID
	MovedByName    string
	Reason         string
	CreatedAt      time.Time
}

type ItemNote struct {
	Id            uuid.UUID
	TenantId      uuid.UUID
	ItemId        uuid.UUID
	Note          string
	CreatedBy     uuid.UUID
	CreatedByName string
	CreatedAt     time.Time
}

type Claim struct {
	Id          uuid.UUID
	TenantId    uuid.UUID
	ClaimNumber string
	AccountId   *uuid.UUID
	ItemId      *uuid.UUID
	Status      string
	Description string
	Amount      float64
	CreatedAt   time.Time
}

type BillingEvent struct {
	Id          uuid.UUID
	TenantId    uuid.UUID
	AccountId   uuid.UUID
	ItemId      *uuid.UUID
	Description string
	Amount      float64
	Status      string
	CreatedAt   time.Time
}
