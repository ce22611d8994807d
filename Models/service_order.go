package Models

import (
	"time"

	"gorm.io/gorm"
)

type ServiceOrderStatus string

const (
	OSPendingBudget             ServiceOrderStatus = "Pending Budget"
	OSAwaitingApproval          ServiceOrderStatus = "Awaiting Approval"
	OSApprovedAwaitingExecution ServiceOrderStatus = "Approved - Awaiting Execution"
	OSInProgress                ServiceOrderStatus = "In Progress"
	OSCompleted                 ServiceOrderStatus = "Completed"
	OSInvoiced                  ServiceOrderStatus = "Invoiced"
	OSCancelled                 ServiceOrderStatus = "Cancelled"
)

var ServiceOrderStatuses = []ServiceOrderStatus{
	OSPendingBudget,
	OSAwaitingApproval,
	OSApprovedAwaitingExecution,
	OSInProgress,
	OSCompleted,
	OSInvoiced,
	OSCancelled,
}

type OSPaymentStatus string

const (
	PaymentPending       OSPaymentStatus = "Pending"
	PaymentPartiallyPaid OSPaymentStatus = "Partially Paid"
	PaymentPaid          OSPaymentStatus = "Paid"
)

var OSPaymentStatuses = []OSPaymentStatus{PaymentPending, PaymentPartiallyPaid, PaymentPaid}

// ServiceOrder is one maintenance/repair request for one vehicle. Orders are
// never deleted; they only move through the lifecycle states above.
type ServiceOrder struct {
	gorm.Model
	VehicleID          uint               `json:"vehicle_id" gorm:"not null;index"`
	ServiceType        string             `json:"service_type" gorm:"size:255;not null"`
	ProblemDescription string             `json:"problem_description" gorm:"type:text"`
	RequestDate        time.Time          `json:"request_date" gorm:"not null"`
	RequesterID        *uint              `json:"requester_id" gorm:"index"`
	Status             ServiceOrderStatus `json:"status" gorm:"size:50;not null;index"`

	// Populated when a budget is approved.
	SupplierID *uint    `json:"supplier_id" gorm:"index"`
	Cost       *float64 `json:"cost"`

	StartDate       *time.Time `json:"start_date"`
	CompletionDate  *time.Time `json:"completion_date"`
	CompletionNotes string     `json:"completion_notes" gorm:"type:text"`

	// Invoice fields.
	InvoiceNumber      string     `json:"invoice_number" gorm:"size:100"`
	InvoiceDueDate     *time.Time `json:"invoice_due_date"`
	FinalValue         *float64   `json:"final_value"`
	ValueJustification string     `json:"value_justification" gorm:"type:text"`

	// Derived from payments vs final value; never set directly.
	PaymentStatus OSPaymentStatus `json:"payment_status" gorm:"size:50;index"`

	// Relationships
	Vehicle  Vehicle              `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	Budgets  []ServiceOrderBudget `json:"budgets,omitempty" gorm:"foreignKey:ServiceOrderID;constraint:OnDelete:CASCADE"`
	Payments []OSPayment          `json:"payments,omitempty" gorm:"foreignKey:ServiceOrderID;constraint:OnDelete:CASCADE"`
}

// ServiceOrderBudget is a supplier's quote for an order. Budgets are appended
// and only ever mutated to flip IsApproved.
type ServiceOrderBudget struct {
	gorm.Model
	ServiceOrderID    uint      `json:"service_order_id" gorm:"not null;index"`
	SupplierID        uint      `json:"supplier_id" gorm:"not null;index"`
	BudgetValue       float64   `json:"budget_value" gorm:"not null"`
	EstimatedDeadline time.Time `json:"estimated_deadline"`
	Notes             string    `json:"notes" gorm:"type:text"`
	IsApproved        bool      `json:"is_approved" gorm:"not null;default:false"`
}

// OSPayment is one recorded payment against an invoiced order.
type OSPayment struct {
	gorm.Model
	ServiceOrderID  uint      `json:"service_order_id" gorm:"not null;index"`
	PaymentDate     time.Time `json:"payment_date" gorm:"not null"`
	PaidAmount      float64   `json:"paid_amount" gorm:"not null"`
	PaymentMethod   string    `json:"payment_method" gorm:"size:100;not null"`
	BankAccountInfo string    `json:"bank_account_info" gorm:"size:255"`
	Notes           string    `json:"notes" gorm:"type:text"`
}

type ServiceOrderRequest struct {
	VehicleID          uint   `json:"vehicle_id" validate:"required"`
	ServiceType        string `json:"service_type" validate:"required"`
	ProblemDescription string `json:"problem_description"`
	RequesterID        *uint  `json:"requester_id"`
}

type BudgetRequest struct {
	SupplierID        uint    `json:"supplier_id" validate:"required"`
	BudgetValue       float64 `json:"budget_value" validate:"required,gt=0"`
	EstimatedDeadline string  `json:"estimated_deadline"`
	Notes             string  `json:"notes"`
}

type CompleteOrderRequest struct {
	CompletionDate  string `json:"completion_date" validate:"required"`
	CompletionNotes string `json:"completion_notes"`
}

type InvoiceOrderRequest struct {
	InvoiceNumber      string  `json:"invoice_number" validate:"required"`
	InvoiceDueDate     string  `json:"invoice_due_date" validate:"required"`
	FinalValue         float64 `json:"final_value" validate:"required,gt=0"`
	ValueJustification string  `json:"value_justification"`
}

type PaymentRequest struct {
	PaymentDate     string  `json:"payment_date" validate:"required"`
	PaidAmount      float64 `json:"paid_amount" validate:"required,gt=0"`
	PaymentMethod   string  `json:"payment_method" validate:"required"`
	BankAccountInfo string  `json:"bank_account_info"`
	Notes           string  `json:"notes"`
}
