package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"garagepro/internal/common"
	"garagepro/internal/models"

	"github.com/jackc/pgx/v5"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	// Update writes every mutable field and bumps the version. When expectedVersion
	// is set the write only succeeds against that stored version.
	Update(ctx context.Context, invoice *models.Invoice, expectedVersion *int) error
	UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus, updatedAt time.Time) (*models.Invoice, error)
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*models.Invoice, error)
	StatusTotals(ctx context.Context) ([]models.StatusTotal, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, number, date, due_date, status, customer, vehicle, items, subtotal, tax_rate, tax, total, notes, version, created_at, updated_at`

// invoiceDocs holds the JSONB encodings of an invoice's embedded values.
type invoiceDocs struct {
	customer []byte
	vehicle  []byte
	items    []byte
}

func encodeInvoiceDocs(invoice *models.Invoice) (invoiceDocs, error) {
	var (
		docs invoiceDocs
		err  error
	)
	if docs.customer, err = json.Marshal(invoice.Customer); err != nil {
		return docs, fmt.Errorf("encode customer snapshot: %w", err)
	}
	if docs.vehicle, err = json.Marshal(invoice.Vehicle); err != nil {
		return docs, fmt.Errorf("encode vehicle snapshot: %w", err)
	}
	items := invoice.Items
	if items == nil {
		items = []models.LineItem{}
	}
	if docs.items, err = json.Marshal(items); err != nil {
		return docs, fmt.Errorf("encode items: %w", err)
	}
	return docs, nil
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var (
		invoice models.Invoice
		status  string
		docs    invoiceDocs
	)
	err := row.Scan(&invoice.ID, &invoice.Number, &invoice.Date, &invoice.DueDate, &status,
		&docs.customer, &docs.vehicle, &docs.items,
		&invoice.Subtotal, &invoice.TaxRate, &invoice.Tax, &invoice.Total,
		&invoice.Notes, &invoice.Version, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, err
	}
	invoice.Status = models.InvoiceStatus(status)

	if err := json.Unmarshal(docs.customer, &invoice.Customer); err != nil {
		return nil, fmt.Errorf("decode customer snapshot: %w", err)
	}
	if err := json.Unmarshal(docs.vehicle, &invoice.Vehicle); err != nil {
		return nil, fmt.Errorf("decode vehicle snapshot: %w", err)
	}
	if err := json.Unmarshal(docs.items, &invoice.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	return &invoice, nil
}

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	docs, err := encodeInvoiceDocs(invoice)
	if err != nil {
		return common.NewPersistenceError("insert invoice", err)
	}

	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = r.db.Exec(ctx, query, invoice.ID, invoice.Number, invoice.Date, invoice.DueDate, string(invoice.Status),
		docs.customer, docs.vehicle, docs.items,
		invoice.Subtotal, invoice.TaxRate, invoice.Tax, invoice.Total,
		invoice.Notes, invoice.Version, invoice.CreatedAt, invoice.UpdatedAt)
	if err != nil {
		return mapPgError("insert invoice", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("Invoice")
	}
	if err != nil {
		return nil, mapPgError("select invoice", err)
	}
	return invoice, nil
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice, expectedVersion *int) error {
	docs, err := encodeInvoiceDocs(invoice)
	if err != nil {
		return common.NewPersistenceError("update invoice", err)
	}

	query := `
		UPDATE invoices
		SET date = $1, due_date = $2, status = $3, customer = $4, vehicle = $5, items = $6,
			subtotal = $7, tax_rate = $8, tax = $9, total = $10, notes = $11, updated_at = $12,
			version = version + 1
		WHERE id = $13`
	args := []interface{}{invoice.Date, invoice.DueDate, string(invoice.Status),
		docs.customer, docs.vehicle, docs.items,
		invoice.Subtotal, invoice.TaxRate, invoice.Tax, invoice.Total,
		invoice.Notes, invoice.UpdatedAt, invoice.ID}
	if expectedVersion != nil {
		query += ` AND version = $` + strconv.Itoa(len(args)+1)
		args = append(args, *expectedVersion)
	}
	query += ` RETURNING version`

	err = r.db.QueryRow(ctx, query, args...).Scan(&invoice.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		if expectedVersion != nil {
			return &common.ConflictError{Message: "invoice was modified by another request"}
		}
		return common.NewNotFoundError("Invoice")
	}
	if err != nil {
		return mapPgError("update invoice", err)
	}
	return nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id string, status models.InvoiceStatus, updatedAt time.Time) (*models.Invoice, error) {
	query := `
		UPDATE invoices
		SET status = $1, updated_at = $2, version = version + 1
		WHERE id = $3
		RETURNING ` + invoiceColumns
	invoice, err := scanInvoice(r.db.QueryRow(ctx, query, string(status), updatedAt, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("Invoice")
	}
	if err != nil {
		return nil, mapPgError("update invoice status", err)
	}
	return invoice, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return false, mapPgError("delete invoice", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *invoiceRepo) List(ctx context.Context) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapPgError("list invoices", err)
	}
	defer rows.Close()

	invoices := make([]*models.Invoice, 0)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, mapPgError("scan invoice", err)
		}
		invoices = append(invoices, invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list invoices", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) StatusTotals(ctx context.Context) ([]models.StatusTotal, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM invoices
		GROUP BY status
		ORDER BY status
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, mapPgError("sum invoices by status", err)
	}
	defer rows.Close()

	totals := make([]models.StatusTotal, 0, len(models.InvoiceStatuses))
	for rows.Next() {
		var (
			st     models.StatusTotal
			status string
		)
		if err := rows.Scan(&status, &st.Count, &st.Total); err != nil {
			return nil, mapPgError("scan status total", err)
		}
		st.Status = models.InvoiceStatus(status)
		totals = append(totals, st)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("sum invoices by status", err)
	}
	return totals, nil
}
