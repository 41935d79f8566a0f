package entity

const (
	ItemStatusActive    = "active"
	ItemStatusAllocated = "allocated"
	ItemStatusReleased  = "released"
	ItemStatusDisposed  = "disposed"
)

const (
	ShipmentTypeInbound  = "inbound"
	ShipmentTypeOutbound = "outbound"

	ShipmentStatusPending    = "pending"
	ShipmentStatusProcessing = "processing"
	ShipmentStatusCompleted  = "completed"
	ShipmentStatusCancelled  = "cancelled"
)

const (
	TaskTypeInspection = "inspection"
	TaskTypeRepair     = "repair"
	TaskTypeAssembly   = "assembly"
	TaskTypeReceiving  = "receiving"
	TaskTypeDelivery   = "delivery"
	TaskTypeOther      = "other"

	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
)

const (
	StocktakeStatusDraft      = "draft"
	StocktakeStatusInProgress = "in_progress"
	StocktakeStatusCompleted  = "completed"
	StocktakeStatusClosed     = "closed"
	StocktakeStatusCancelled  = "cancelled"

	VariancePending  = "pending"
	VarianceResolved = "resolved"
	VarianceVerified = "verified"
)

const (
	BillingStatusUnbilled = "unbilled"
	BillingStatusInvoiced = "invoiced"
)

// TaskTypes lists every task type the agent may create.
var TaskTypes = []string{
	TaskTypeInspection,
	TaskTypeRepair,
	TaskTypeAssembly,
	TaskTypeReceiving,
	TaskTypeDelivery,
	TaskTypeOther,
}

// OpenTaskStatuses are the statuses of work not yet finished.
var OpenTaskStatuses = []string{TaskStatusPending, TaskStatusInProgress}

// FreezingStocktakeStatuses lock the items on a stocktake.
var FreezingStocktakeStatuses = []string{StocktakeStatusDraft, StocktakeStatusInProgress}

// ActiveShipmentStatuses are shipments still being worked.
var ActiveShipmentStatuses = []string{ShipmentStatusPending, ShipmentStatusProcessing}

const (
	ClaimStatusOpen          = "open"
	ClaimStatusInvestigating = "investigating"
	ClaimStatusApproved      = "approved"
	ClaimStatusDenied        = "denied"
	ClaimStatusClosed        = "closed"
)

// OpenClaimStatuses are claims still awaiting a decision.
var OpenClaimStatuses = []string{ClaimStatusOpen, ClaimStatusInvestigating}
