package seed

import (
	"context"
	"fmt"

	"garagepro/internal/logger"
	"garagepro/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type CustomerStore interface {
	ListCustomers(ctx context.Context) ([]*models.Customer, error)
	CreateCustomer(ctx context.Context, data models.CreateCustomerData) (*models.Customer, error)
}

type VehicleStore interface {
	CreateVehicle(ctx context.Context, data models.CreateVehicleData) (*models.Vehicle, error)
}

type InvoiceStore interface {
	CreateInvoice(ctx context.Context, data models.CreateInvoiceData) (*models.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status string) (*models.Invoice, error)
}

// Result counts the records written by a seeding run.
type Result struct {
	Skipped   bool
	Customers int
	Vehicles  int
	Invoices  int
}

type demoVehicle struct {
	owner int
	data  models.CreateVehicleData
}

type demoInvoice struct {
	customer int
	vehicle  int
	date     string
	dueDate  string
	status   models.InvoiceStatus
	items    []models.LineItemInput
	notes    string
}

// Seeder loads a small demo garage through the regular services.
type Seeder struct {
	customers CustomerStore
	vehicles  VehicleStore
	invoices  InvoiceStore
	log       zerolog.Logger
}

func NewSeeder(customers CustomerStore, vehicles VehicleStore, invoices InvoiceStore) *Seeder {
	return &Seeder{
		customers: customers,
		vehicles:  vehicles,
		invoices:  invoices,
		log:       logger.WithComponent("seed"),
	}
}

// Run seeds the demo data unless customers already exist.
func (s *Seeder) Run(ctx context.Context) (Result, error) {
	existing, err := s.customers.ListCustomers(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("check existing customers: %w", err)
	}
	if len(existing) > 0 {
		s.log.Info().Int("customers", len(existing)).Msg("Database already seeded")
		return Result{Skipped: true}, nil
	}

	var res Result
	customerIDs := make([]string, 0, len(demoCustomers))
	for _, data := range demoCustomers {
		customer, err := s.customers.CreateCustomer(ctx, data)
		if err != nil {
			return res, fmt.Errorf("seed customer %q: %w", data.Name, err)
		}
		customerIDs = append(customerIDs, customer.ID)
		res.Customers++
	}

	vehicleIDs := make([]string, 0, len(demoVehicles))
	for _, v := range demoVehicles {
		data := v.data
		data.CustomerID = customerIDs[v.owner]
		vehicle, err := s.vehicles.CreateVehicle(ctx, data)
		if err != nil {
			return res, fmt.Errorf("seed vehicle %q: %w", data.LicensePlate, err)
		}
		vehicleIDs = append(vehicleIDs, vehicle.ID)
		res.Vehicles++
	}

	for _, inv := range demoInvoices {
		notes := inv.notes
		invoice, err := s.invoices.CreateInvoice(ctx, models.CreateInvoiceData{
			CustomerID: customerIDs[inv.customer],
			VehicleID:  vehicleIDs[inv.vehicle],
			Date:       inv.date,
			DueDate:    inv.dueDate,
			Items:      inv.items,
			TaxRate:    &demoTaxRate,
			Notes:      &notes,
		})
		if err != nil {
			return res, fmt.Errorf("seed invoice dated %s: %w", inv.date, err)
		}
		if inv.status != models.InvoiceStatusPending {
			if _, err := s.invoices.UpdateInvoiceStatus(ctx, invoice.ID, string(inv.status)); err != nil {
				return res, fmt.Errorf("set status of invoice %s: %w", invoice.Number, err)
			}
		}
		res.Invoices++
	}

	s.log.Info().
		Int("customers", res.Customers).
		Int("vehicles", res.Vehicles).
		Int("invoices", res.Invoices).
		Msg("Demo data seeded")
	return res, nil
}

var demoTaxRate = decimal.NewFromInt(8)

func item(description, quantity, unitPrice string) models.LineItemInput {
	return models.LineItemInput{
		Description: description,
		Quantity:    decimal.RequireFromString(quantity),
		UnitPrice:   decimal.RequireFromString(unitPrice),
	}
}

var demoCustomers = []models.CreateCustomerData{
	{Name: "John Doe", Email: "john.doe@email.com", Phone: "555-123-4567", Address: "123 Main St, Anytown, CA 12345"},
	{Name: "Jane Smith", Email: "jane.smith@email.com", Phone: "555-987-6543", Address: "456 Oak St, Somewhere, CA 54321"},
	{Name: "Robert Johnson", Email: "robert.johnson@email.com", Phone: "555-456-7890", Address: "789 Pine St, Elsewhere, CA 67890"},
	{Name: "Emily Davis", Email: "emily.davis@email.com", Phone: "555-321-9876", Address: "321 Elm St, Another City, CA 13579"},
	{Name: "Michael Brown", Email: "michael.brown@email.com", Phone: "555-654-3210", Address: "654 Maple Ave, Different Town, CA 24680"},
}

var demoVehicles = []demoVehicle{
	{owner: 0, data: models.CreateVehicleData{Make: "Toyota", Model: "Camry", Year: "2018", LicensePlate: "ABC123"}},
	{owner: 0, data: models.CreateVehicleData{Make: "Honda", Model: "Accord", Year: "2020", LicensePlate: "DEF456"}},
	{owner: 1, data: models.CreateVehicleData{Make: "Honda", Model: "Civic", Year: "2020", LicensePlate: "XYZ789"}},
	{owner: 2, data: models.CreateVehicleData{Make: "Ford", Model: "F-150", Year: "2019", LicensePlate: "GHI012"}},
	{owner: 3, data: models.CreateVehicleData{Make: "Nissan", Model: "Altima", Year: "2021", LicensePlate: "JKL345"}},
	{owner: 4, data: models.CreateVehicleData{Make: "BMW", Model: "3 Series", Year: "2020", LicensePlate: "MNO678"}},
}

var demoInvoices = []demoInvoice{
	{
		customer: 0, vehicle: 0, date: "2025-05-18", dueDate: "2025-05-25", status: models.InvoiceStatusPaid,
		items: []models.LineItemInput{
			item("Oil Change - Standard oil change with filter replacement", "1", "45.00"),
			item("Oil Filter - Replacement oil filter", "1", "15.00"),
			item("Labor - Standard Service", "0.5", "80.00"),
		},
		notes: "Vehicle was inspected and all fluids were topped off. Recommended brake service in the next 3 months.",
	},
	{
		customer: 1, vehicle: 2, date: "2025-05-17", dueDate: "2025-05-24", status: models.InvoiceStatusPaid,
		items: []models.LineItemInput{
			item("Brake Replacement (Front) - Front brake pad replacement", "1", "180.00"),
			item("Brake Pads - High-quality brake pads", "1", "70.00"),
			item("Labor - Standard Service", "1.5", "80.00"),
		},
		notes: "Brake pads were completely worn. Rotors were resurfaced. Customer should return in 6 months for inspection.",
	},
	{
		customer: 2, vehicle: 3, date: "2025-05-16", dueDate: "2025-05-23", status: models.InvoiceStatusPending,
		items: []models.LineItemInput{
			item("Transmission Fluid Change - Drain and replace transmission fluid", "1", "220.00"),
			item("Transmission Fluid - High-quality transmission fluid", "1", "65.00"),
		},
		notes: "Transmission fluid was dark and needed replacement. Recommended service every 30,000 miles.",
	},
	{
		customer: 3, vehicle: 4, date: "2025-05-15", dueDate: "2025-05-22", status: models.InvoiceStatusPaid,
		items: []models.LineItemInput{
			item("Tire Rotation - Rotate and balance all tires", "1", "75.00"),
		},
		notes: "All tires rotated and balanced. Tire pressure checked and adjusted.",
	},
	{
		customer: 4, vehicle: 5, date: "2025-05-14", dueDate: "2025-05-21", status: models.InvoiceStatusPending,
		items: []models.LineItemInput{
			item("Engine Diagnostics - Computer diagnostics for engine issues", "1", "120.00"),
			item("Spark Plug Replacement - Replace spark plugs", "1", "120.00"),
			item("Labor - Complex Service", "1", "95.00"),
		},
		notes: "Engine misfiring issue resolved. Spark plugs were fouled and replaced. Engine running smoothly now.",
	},
	{
		customer: 0, vehicle: 1, date: "2025-05-13", dueDate: "2025-05-20", status: models.InvoiceStatusOverdue,
		items: []models.LineItemInput{
			item("AC Service - Air conditioning system check and recharge", "1", "180.00"),
			item("Refrigerant - AC refrigerant refill", "1", "45.00"),
		},
		notes: "AC system was low on refrigerant. System recharged and cooling properly now.",
	},
}
