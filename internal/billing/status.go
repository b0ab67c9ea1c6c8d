package billing

import (
	"strings"

	"garagepro/internal/common"
	"garagepro/internal/models"
)

var knownStatuses = map[string]models.InvoiceStatus{
	"pending":   models.InvoiceStatusPending,
	"paid":      models.InvoiceStatusPaid,
	"overdue":   models.InvoiceStatusOverdue,
	"cancelled": models.InvoiceStatusCancelled,
}

// ParseStatus resolves a status name case-insensitively.
func ParseStatus(s string) (models.InvoiceStatus, error) {
	status, ok := knownStatuses[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", common.NewValidationError("status", "must be one of: Pending, Paid, Overdue, Cancelled")
	}
	return status, nil
}

// Transition returns the status an invoice moves to. Any known status may follow
// any other; unknown statuses are rejected.
func Transition(from, to models.InvoiceStatus) (models.InvoiceStatus, error) {
	if _, err := ParseStatus(string(from)); err != nil {
		return "", common.NewValidationError("status", "current status "+string(from)+" is not recognised")
	}
	return ParseStatus(string(to))
}

// IsTerminal reports whether a status normally ends the invoice lifecycle.
// Leaving one is allowed but treated as an administrative correction.
func IsTerminal(s models.InvoiceStatus) bool {
	switch s {
	case models.InvoiceStatusPaid, models.InvoiceStatusOverdue, models.InvoiceStatusCancelled:
		return true
	}
	return false
}
