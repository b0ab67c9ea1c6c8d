package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"garagepro/internal/models"
	"garagepro/pkg/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// FixedTime is the clock used by fixtures.
var FixedTime = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func()
}

// SetupTestDB connects to TEST_DATABASE_URL, runs the migrations and empties the
// tables. The test is skipped when the variable is not set.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.Migrate(connString); err != nil {
		pool.Close()
		t.Fatalf("Failed to run migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE invoices, vehicles, customers`); err != nil {
		pool.Close()
		t.Fatalf("Failed to truncate tables: %v", err)
	}

	return &TestDB{
		Pool:    pool,
		Cleanup: pool.Close,
	}
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func DecPtr(s string) *decimal.Decimal {
	d := Dec(s)
	return &d
}

func StringPtr(s string) *string {
	return &s
}

func NewCustomer(id string) *models.Customer {
	return &models.Customer{
		ID:        id,
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "555-0100",
		Address:   "1 Main St",
		CreatedAt: FixedTime,
		UpdatedAt: FixedTime,
	}
}

func NewVehicle(id, customerID string) *models.Vehicle {
	return &models.Vehicle{
		ID:           id,
		CustomerID:   customerID,
		Make:         "Toyota",
		Model:        "Corolla",
		Year:         "2018",
		LicensePlate: "ABC-123",
		CreatedAt:    FixedTime,
		UpdatedAt:    FixedTime,
	}
}

func Item(description, quantity, unitPrice string) models.LineItemInput {
	return models.LineItemInput{
		Description: description,
		Quantity:    Dec(quantity),
		UnitPrice:   Dec(unitPrice),
	}
}

// NewInvoice returns a Pending invoice for one 100.00 service item at 10% tax.
func NewInvoice(id string, customer *models.Customer, vehicle *models.Vehicle) *models.Invoice {
	return &models.Invoice{
		ID:       id,
		Number:   "INV-1709285400000",
		Date:     "2024-03-01",
		DueDate:  "2024-03-31",
		Status:   models.InvoiceStatusPending,
		Customer: customer.Snapshot(),
		Vehicle:  vehicle.Snapshot(),
		Items: []models.LineItem{
			{Description: "Full service", Quantity: Dec("1"), UnitPrice: Dec("100.00"), Total: Dec("100.00")},
		},
		Subtotal:  Dec("100.00"),
		TaxRate:   Dec("10"),
		Tax:       Dec("10.00"),
		Total:     Dec("110.00"),
		Version:   1,
		CreatedAt: FixedTime,
		UpdatedAt: FixedTime,
	}
}
