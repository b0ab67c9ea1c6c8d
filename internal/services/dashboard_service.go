package services

import (
	"context"
	"time"

	"garagepro/internal/caching"
	"garagepro/internal/logger"
	"garagepro/internal/models"
	"garagepro/internal/repositories"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type DashboardServiceInterface interface {
	// GetSummary serves the cached summary, computing it on a miss.
	GetSummary(ctx context.Context) (*models.DashboardSummary, error)
	// RefreshSummary recomputes the summary and stores it in the cache.
	RefreshSummary(ctx context.Context) (*models.DashboardSummary, error)
}

type dashboardService struct {
	invoiceRepo repositories.InvoiceRepository
	cache       caching.CacheService
	ttl         time.Duration
	now         func() time.Time
	log         zerolog.Logger
}

func NewDashboardService(invoiceRepo repositories.InvoiceRepository, cache caching.CacheService, ttl time.Duration) DashboardServiceInterface {
	return &dashboardService{
		invoiceRepo: invoiceRepo,
		cache:       cache,
		ttl:         ttl,
		now:         time.Now,
		log:         logger.WithComponent("dashboard_service"),
	}
}

func (s *dashboardService) GetSummary(ctx context.Context) (*models.DashboardSummary, error) {
	cached, err := s.cache.GetDashboardSummary(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Dashboard summary cache read failed")
	} else if cached != nil {
		return cached, nil
	}
	return s.RefreshSummary(ctx)
}

func (s *dashboardService) RefreshSummary(ctx context.Context) (*models.DashboardSummary, error) {
	totals, err := s.invoiceRepo.StatusTotals(ctx)
	if err != nil {
		return nil, err
	}

	summary := Summarize(totals, s.now().UTC())
	if err := s.cache.SetDashboardSummary(ctx, summary, s.ttl); err != nil {
		s.log.Warn().Err(err).Msg("Dashboard summary cache write failed")
	}
	return summary, nil
}

// Summarize folds per-status totals into the dashboard figures. Cancelled
// invoices count towards the status breakdown only.
func Summarize(totals []models.StatusTotal, generatedAt time.Time) *models.DashboardSummary {
	summary := &models.DashboardSummary{
		StatusCounts:     make(map[models.InvoiceStatus]int, len(models.InvoiceStatuses)),
		TotalBilled:      decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
		GeneratedAt:      generatedAt,
	}
	for _, status := range models.InvoiceStatuses {
		summary.StatusCounts[status] = 0
	}

	for _, t := range totals {
		summary.StatusCounts[t.Status] += t.Count
		summary.InvoiceCount += t.Count

		switch t.Status {
		case models.InvoiceStatusCancelled:
			continue
		case models.InvoiceStatusPaid:
			summary.TotalPaid = summary.TotalPaid.Add(t.Total)
		case models.InvoiceStatusPending, models.InvoiceStatusOverdue:
			summary.TotalOutstanding = summary.TotalOutstanding.Add(t.Total)
		}
		summary.TotalBilled = summary.TotalBilled.Add(t.Total)
	}
	return summary
}
