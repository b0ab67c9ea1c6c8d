package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"garagepro/internal/logger"
	"garagepro/internal/models"

	"github.com/rs/zerolog"
)

// ExportURLExpiry is how long a presigned export link stays valid.
const ExportURLExpiry = 24 * time.Hour

type ExportServiceInterface interface {
	ExportInvoice(ctx context.Context, id string) (*models.InvoiceExport, error)
}

type exportService struct {
	invoices InvoiceServiceInterface
	storage  ObjectStorage
	bucket   string
	log      zerolog.Logger
}

func NewExportService(invoices InvoiceServiceInterface, storage ObjectStorage, bucket string) ExportServiceInterface {
	return &exportService{
		invoices: invoices,
		storage:  storage,
		bucket:   bucket,
		log:      logger.WithComponent("export_service"),
	}
}

// ExportObjectName is the object key an invoice export is stored under.
func ExportObjectName(invoice *models.Invoice) string {
	return invoice.Number + ".json"
}

// ExportInvoice uploads the invoice document as JSON and returns a presigned link to it.
func (s *exportService) ExportInvoice(ctx context.Context, id string) (*models.InvoiceExport, error) {
	invoice, err := s.invoices.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	body, err := json.MarshalIndent(invoice, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode invoice %s: %w", id, err)
	}

	objectName := ExportObjectName(invoice)
	if err := s.storage.PutObject(ctx, s.bucket, objectName, bytes.NewReader(body), int64(len(body)), "application/json"); err != nil {
		return nil, fmt.Errorf("failed to upload invoice export: %w", err)
	}

	url, err := s.storage.GetPresignedURL(ctx, s.bucket, objectName, ExportURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign invoice export: %w", err)
	}

	s.log.Info().Str("invoice_id", id).Str("object", objectName).Msg("Invoice exported")
	return &models.InvoiceExport{URL: url, ExpiresIn: ExportURLExpiry.String()}, nil
}
