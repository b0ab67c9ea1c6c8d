package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardSummary aggregates invoice totals for the dashboard page.
type DashboardSummary struct {
	InvoiceCount     int                   `json:"invoiceCount"`
	StatusCounts     map[InvoiceStatus]int `json:"statusCounts"`
	TotalBilled      decimal.Decimal       `json:"totalBilled"`      // all but Cancelled
	TotalPaid        decimal.Decimal       `json:"totalPaid"`
	TotalOutstanding decimal.Decimal       `json:"totalOutstanding"` // Pending + Overdue
	GeneratedAt      time.Time             `json:"generatedAt"`
}

// StatusTotal is the invoice count and summed total for one status.
type StatusTotal struct {
	Status InvoiceStatus   `json:"status" bson:"_id"`
	Count  int             `json:"count" bson:"count"`
	Total  decimal.Decimal `json:"total" bson:"total"`
}
