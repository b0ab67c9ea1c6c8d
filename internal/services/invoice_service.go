package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"garagepro/internal/billing"
	"garagepro/internal/caching"
	"garagepro/internal/common"
	"garagepro/internal/logger"
	"garagepro/internal/models"
	"garagepro/internal/repositories"

	"github.com/rs/zerolog"
)

// maxNumberAttempts bounds retries when a generated invoice number is already taken.
const maxNumberAttempts = 3

// InvoiceServiceInterface defines the interface for invoice service
type InvoiceServiceInterface interface {
	CreateInvoice(ctx context.Context, data models.CreateInvoiceData) (*models.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*models.Invoice, error)
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	UpdateInvoice(ctx context.Context, id string, data models.UpdateInvoiceData) (*models.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, id string, status string) (*models.Invoice, error)
	DeleteInvoice(ctx context.Context, id string) (bool, error)
}

type invoiceService struct {
	invoiceRepo  repositories.InvoiceRepository
	customerRepo repositories.CustomerRepository
	vehicleRepo  repositories.VehicleRepository
	cache        caching.CacheService
	storage      ObjectStorage
	bucket       string
	cacheTTL     time.Duration
	now          func() time.Time
	log          zerolog.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repositories.InvoiceRepository,
	customerRepo repositories.CustomerRepository,
	vehicleRepo repositories.VehicleRepository,
	cache caching.CacheService,
	storage ObjectStorage,
	bucket string,
	cacheTTL time.Duration,
) InvoiceServiceInterface {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		vehicleRepo:  vehicleRepo,
		cache:        cache,
		storage:      storage,
		bucket:       bucket,
		cacheTTL:     cacheTTL,
		now:          time.Now,
		log:          logger.WithComponent("invoice_service"),
	}
}

func (s *invoiceService) CreateInvoice(ctx context.Context, data models.CreateInvoiceData) (*models.Invoice, error) {
	if err := validate.Validate(data); err != nil {
		return nil, err
	}
	if err := checkDueDate(data.Date, data.DueDate); err != nil {
		return nil, err
	}
	totals, err := billing.Calculate(data.Items, *data.TaxRate)
	if err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.GetByID(ctx, data.CustomerID)
	if err != nil {
		return nil, err
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, data.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.CustomerID != customer.ID {
		s.log.Warn().
			Str("customer_id", customer.ID).
			Str("vehicle_id", vehicle.ID).
			Str("vehicle_owner_id", vehicle.CustomerID).
			Msg("Invoicing a vehicle registered to a different customer")
	}

	now := s.now().UTC()
	invoice := &models.Invoice{
		ID:        common.NewID(common.InvoiceIDPrefix, now),
		Date:      data.Date,
		DueDate:   data.DueDate,
		Status:    models.InvoiceStatusPending,
		Customer:  customer.Snapshot(),
		Vehicle:   vehicle.Snapshot(),
		Notes:     normalizeNotes(data.Notes),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	billing.Apply(invoice, totals, *data.TaxRate)

	for attempt := 0; ; attempt++ {
		invoice.Number = common.InvoiceNumber(now.Add(time.Duration(attempt) * time.Millisecond))
		err = s.invoiceRepo.Create(ctx, invoice)
		if err == nil {
			break
		}
		if !errors.Is(err, common.ErrDuplicateKey) || attempt+1 >= maxNumberAttempts {
			return nil, fmt.Errorf("failed to create invoice: %w", err)
		}
		s.log.Debug().Str("number", invoice.Number).Msg("Invoice number taken, retrying")
	}

	s.log.Info().Str("invoice_id", invoice.ID).Str("number", invoice.Number).Str("total", invoice.Total.StringFixed(2)).Msg("Invoice created")
	s.invalidate(ctx, "")
	return invoice, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	cached, err := s.cache.GetInvoice(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Str("invoice_id", id).Msg("Invoice cache read failed")
	} else if cached != nil {
		return cached, nil
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetInvoice(ctx, invoice, s.cacheTTL); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", id).Msg("Invoice cache write failed")
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return s.invoiceRepo.List(ctx)
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, id string, data models.UpdateInvoiceData) (*models.Invoice, error) {
	if err := validate.Validate(data); err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data.Version != nil && *data.Version != invoice.Version {
		return nil, &common.ConflictError{
			Message: fmt.Sprintf("invoice is at version %d, not %d", invoice.Version, *data.Version),
		}
	}

	if data.CustomerID != nil && *data.CustomerID != invoice.Customer.ID {
		customer, err := s.customerRepo.GetByID(ctx, *data.CustomerID)
		if err != nil {
			return nil, err
		}
		invoice.Customer = customer.Snapshot()
	}
	if data.VehicleID != nil && *data.VehicleID != invoice.Vehicle.ID {
		vehicle, err := s.vehicleRepo.GetByID(ctx, *data.VehicleID)
		if err != nil {
			return nil, err
		}
		invoice.Vehicle = vehicle.Snapshot()
	}

	if data.Date != nil {
		invoice.Date = *data.Date
	}
	if data.DueDate != nil {
		invoice.DueDate = *data.DueDate
	}
	if data.Date != nil || data.DueDate != nil {
		if err := checkDueDate(invoice.Date, invoice.DueDate); err != nil {
			return nil, err
		}
	}
	if data.Notes != nil {
		invoice.Notes = normalizeNotes(data.Notes)
	}
	if data.Status != nil {
		next, err := billing.Transition(invoice.Status, *data.Status)
		if err != nil {
			return nil, err
		}
		s.logTransition(invoice, next)
		invoice.Status = next
	}

	if data.Items != nil || data.TaxRate != nil {
		items := billing.Inputs(invoice.Items)
		if data.Items != nil {
			items = *data.Items
		}
		taxRate := invoice.TaxRate
		if data.TaxRate != nil {
			taxRate = *data.TaxRate
		}
		totals, err := billing.Calculate(items, taxRate)
		if err != nil {
			return nil, err
		}
		billing.Apply(invoice, totals, taxRate)
	}

	invoice.UpdatedAt = s.now().UTC()
	if err := s.invoiceRepo.Update(ctx, invoice, data.Version); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.invalidate(ctx, id)
	return invoice, nil
}

func (s *invoiceService) UpdateInvoiceStatus(ctx context.Context, id string, status string) (*models.Invoice, error) {
	requested, err := billing.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := billing.Transition(invoice.Status, requested)
	if err != nil {
		return nil, err
	}
	if next == invoice.Status {
		return invoice, nil
	}
	s.logTransition(invoice, next)

	updated, err := s.invoiceRepo.UpdateStatus(ctx, id, next, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.invalidate(ctx, id)
	return updated, nil
}

// DeleteInvoice removes the invoice and any export uploaded for it.
func (s *invoiceService) DeleteInvoice(ctx context.Context, id string) (bool, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.invoiceRepo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		s.invalidate(ctx, id)
		s.removeExport(ctx, invoice)
	}
	return deleted, nil
}

// removeExport deletes the exported document of a deleted invoice.
// Removing an object that was never exported is not an error for S3 stores.
func (s *invoiceService) removeExport(ctx context.Context, invoice *models.Invoice) {
	objectName := ExportObjectName(invoice)
	if err := s.storage.RemoveObject(ctx, s.bucket, objectName); err != nil {
		s.log.Warn().Err(err).Str("invoice_id", invoice.ID).Str("object", objectName).Msg("Invoice export cleanup failed")
	}
}

func (s *invoiceService) logTransition(invoice *models.Invoice, next models.InvoiceStatus) {
	if next == invoice.Status {
		return
	}
	event := s.log.Info()
	if billing.IsTerminal(invoice.Status) {
		event = s.log.Warn().Bool("correction", true)
	}
	event.Str("invoice_id", invoice.ID).
		Str("from", string(invoice.Status)).
		Str("to", string(next)).
		Msg("Invoice status changed")
}

// invalidate drops the cached invoice (when id is set) and the dashboard summary.
// Cache failures are logged and otherwise ignored.
func (s *invoiceService) invalidate(ctx context.Context, id string) {
	if id != "" {
		if err := s.cache.DeleteInvoice(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("invoice_id", id).Msg("Invoice cache invalidation failed")
		}
	}
	if err := s.cache.DeleteDashboardSummary(ctx); err != nil {
		s.log.Warn().Err(err).Msg("Dashboard summary invalidation failed")
	}
}

func normalizeNotes(notes *string) *string {
	if notes == nil || *notes == "" {
		return nil
	}
	n := *notes
	return &n
}
