package services

import (
	"time"

	"garagepro/internal/common"
	"garagepro/internal/models"
)

var validate = common.NewRequestValidator()

// checkDueDate requires dueDate to fall on or after date. Both must already be
// well-formed; the struct tags reject anything else first.
func checkDueDate(date, dueDate string) error {
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return common.NewValidationError("date", "must be a date in 2006-01-02 format")
	}
	due, err := time.Parse(models.DateLayout, dueDate)
	if err != nil {
		return common.NewValidationError("dueDate", "must be a date in 2006-01-02 format")
	}
	if due.Before(d) {
		return common.NewValidationError("dueDate", "must not be before date")
	}
	return nil
}
