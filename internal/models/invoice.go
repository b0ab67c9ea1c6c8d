package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money is rendered as a JSON number, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar-date format used for invoice date and dueDate.
const DateLayout = "2006-01-02"

type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "Pending"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusOverdue   InvoiceStatus = "Overdue"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

// InvoiceStatuses lists every known status in display order.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPending,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

type LineItem struct {
	Description string          `json:"description" bson:"description"`
	Quantity    decimal.Decimal `json:"quantity" bson:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice" bson:"unitPrice"`
	Total       decimal.Decimal `json:"total" bson:"total"`
}

type Invoice struct {
	ID        string           `json:"id" db:"id" bson:"id"`
	Number    string           `json:"number" db:"number" bson:"number"`
	Date      string           `json:"date" db:"date" bson:"date"`
	DueDate   string           `json:"dueDate" db:"due_date" bson:"dueDate"`
	Status    InvoiceStatus    `json:"status" db:"status" bson:"status"`
	Customer  CustomerSnapshot `json:"customer" db:"customer" bson:"customer"`
	Vehicle   VehicleSnapshot  `json:"vehicle" db:"vehicle" bson:"vehicle"`
	Items     []LineItem       `json:"items" db:"items" bson:"items"`
	Subtotal  decimal.Decimal  `json:"subtotal" db:"subtotal" bson:"subtotal"`
	TaxRate   decimal.Decimal  `json:"taxRate" db:"tax_rate" bson:"taxRate"`
	Tax       decimal.Decimal  `json:"tax" db:"tax" bson:"tax"`
	Total     decimal.Decimal  `json:"total" db:"total" bson:"total"`
	Notes     *string          `json:"notes,omitempty" db:"notes" bson:"notes,omitempty"`
	Version   int              `json:"version" db:"version" bson:"version"`
	CreatedAt time.Time        `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// LineItemInput is a line item as submitted by a client; its total is always derived.
type LineItemInput struct {
	Description string          `json:"description" validate:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

type CreateInvoiceData struct {
	CustomerID string           `json:"customerId" validate:"required"`
	VehicleID  string           `json:"vehicleId" validate:"required"`
	Date       string           `json:"date" validate:"required,datetime=2006-01-02"`
	DueDate    string           `json:"dueDate" validate:"required,datetime=2006-01-02"`
	Items      []LineItemInput  `json:"items" validate:"dive"`
	TaxRate    *decimal.Decimal `json:"taxRate" validate:"required"`
	Notes      *string          `json:"notes,omitempty"`
}

// UpdateInvoiceData carries a partial update; nil fields are left untouched.
// Version, when set, must match the stored invoice version.
type UpdateInvoiceData struct {
	CustomerID *string          `json:"customerId,omitempty" validate:"omitempty,min=1"`
	VehicleID  *string          `json:"vehicleId,omitempty" validate:"omitempty,min=1"`
	Date       *string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate    *string          `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Items      *[]LineItemInput `json:"items,omitempty" validate:"omitempty,dive"`
	TaxRate    *decimal.Decimal `json:"taxRate,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	Status     *InvoiceStatus   `json:"status,omitempty"`
	Version    *int             `json:"version,omitempty"`
}

type UpdateInvoiceStatusData struct {
	Status InvoiceStatus `json:"status" validate:"required"`
}

// InvoiceExport describes a stored export of an invoice document.
type InvoiceExport struct {
	URL       string `json:"url"`
	ExpiresIn string `json:"expiresIn"`
}
