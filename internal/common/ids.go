package common

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	CustomerIDPrefix = "cust"
	VehicleIDPrefix  = "veh"
	InvoiceIDPrefix  = "inv"
)

// NewID returns "<prefix>_<unix millis>_<8 hex chars>".
func NewID(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), uuid.New().String()[:8])
}

// InvoiceNumber returns the human-facing invoice number for a creation instant.
func InvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%d", now.UnixMilli())
}
