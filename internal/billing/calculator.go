// Package billing derives invoice money fields and governs invoice status changes.
package billing

import (
	"fmt"

	"garagepro/internal/common"
	"garagepro/internal/models"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
)

// Totals is the result of a calculation: priced items plus the derived money fields.
type Totals struct {
	Items    []models.LineItem
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Calculate prices every item and derives subtotal, tax and total.
// Incoming item totals are never trusted. Item order is preserved.
func Calculate(items []models.LineItemInput, taxRate decimal.Decimal) (Totals, error) {
	if err := validateTaxRate(taxRate); err != nil {
		return Totals{}, err
	}

	priced := make([]models.LineItem, 0, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		if err := validateItem(i, item); err != nil {
			return Totals{}, err
		}
		total := item.Quantity.Mul(item.UnitPrice).Round(moneyPlaces)
		priced = append(priced, models.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       total,
		})
		subtotal = subtotal.Add(total)
	}

	tax := subtotal.Mul(taxRate).Div(hundred).Round(moneyPlaces)
	return Totals{
		Items:    priced,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}

// Recalculate re-derives an invoice's money fields from its own items and tax rate.
func Recalculate(inv *models.Invoice) error {
	totals, err := Calculate(Inputs(inv.Items), inv.TaxRate)
	if err != nil {
		return err
	}
	Apply(inv, totals, inv.TaxRate)
	return nil
}

// Apply stores a calculation result on an invoice.
func Apply(inv *models.Invoice, totals Totals, taxRate decimal.Decimal) {
	inv.Items = totals.Items
	inv.TaxRate = taxRate
	inv.Subtotal = totals.Subtotal
	inv.Tax = totals.Tax
	inv.Total = totals.Total
}

// Inputs strips derived totals from stored items.
func Inputs(items []models.LineItem) []models.LineItemInput {
	inputs := make([]models.LineItemInput, len(items))
	for i, item := range items {
		inputs[i] = models.LineItemInput{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}
	return inputs
}

func validateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return common.NewValidationError("taxRate", "must be between 0 and 100")
	}
	if !rate.Equal(rate.Truncate(0)) {
		return common.NewValidationError("taxRate", "must be a whole number")
	}
	return nil
}

func validateItem(i int, item models.LineItemInput) error {
	if !item.Quantity.IsPositive() {
		return common.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be greater than 0")
	}
	if item.UnitPrice.IsNegative() {
		return common.NewValidationError(fmt.Sprintf("items[%d].unitPrice", i), "must not be negative")
	}
	return nil
}
