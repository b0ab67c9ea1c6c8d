package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"garagepro/internal/logger"
	"garagepro/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DashboardRefreshJob is the name of the job that recomputes the cached dashboard summary.
const DashboardRefreshJob = "dashboard-summary-refresh"

// jobTimeout bounds a single run of a scheduled job.
const jobTimeout = 30 * time.Second

// SummaryRefresher recomputes and caches the dashboard summary.
type SummaryRefresher interface {
	RefreshSummary(ctx context.Context) (*models.DashboardSummary, error)
}

// JobInfo describes a registered job.
type JobInfo struct {
	Name    string     `json:"name"`
	LastRun *time.Time `json:"lastRun,omitempty"`
	NextRun *time.Time `json:"nextRun,omitempty"`
}

// JobScheduler manages background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	dashboard SummaryRefresher
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
	log       zerolog.Logger
}

// NewJobScheduler creates a scheduler with the dashboard refresh job registered.
func NewJobScheduler(dashboard SummaryRefresher, refreshInterval time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		dashboard: dashboard,
		jobs:      make(map[string]gocron.Job),
		log:       logger.WithComponent("scheduler"),
	}

	if err := js.AddJob(DashboardRefreshJob, refreshInterval, js.refreshDashboardSummary); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.log.Info().Int("jobs", js.count()).Msg("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop waits for running jobs and stops the scheduler
func (js *JobScheduler) Stop() error {
	js.log.Info().Msg("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) refreshDashboardSummary() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	summary, err := js.dashboard.RefreshSummary(ctx)
	if err != nil {
		return err
	}
	js.log.Debug().
		Int("invoices", summary.InvoiceCount).
		Str("outstanding", summary.TotalOutstanding.StringFixed(2)).
		Msg("Dashboard summary refreshed")
	return nil
}

// AddJob registers task to run every interval. Overlapping runs are rescheduled.
func (js *JobScheduler) AddJob(name string, interval time.Duration, task func() error) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithError(func(_ uuid.UUID, jobName string, err error) {
				js.log.Error().Err(err).Str("job", jobName).Msg("Background job failed")
			}),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", name, err)
	}

	js.jobs[name] = job
	js.log.Debug().Str("job", name).Dur("interval", interval).Msg("Registered background job")
	return nil
}

// RunNow triggers an immediate run of the named job. It reports false for unknown jobs.
func (js *JobScheduler) RunNow(name string) (bool, error) {
	js.mu.RLock()
	job, exists := js.jobs[name]
	js.mu.RUnlock()

	if !exists {
		return false, nil
	}
	return true, job.RunNow()
}

// Jobs lists registered jobs ordered by name.
func (js *JobScheduler) Jobs() []JobInfo {
	js.mu.RLock()
	defer js.mu.RUnlock()

	infos := make([]JobInfo, 0, len(js.jobs))
	for name, job := range js.jobs {
		info := JobInfo{Name: name}
		if last, err := job.LastRun(); err == nil && !last.IsZero() {
			info.LastRun = &last
		}
		if next, err := job.NextRun(); err == nil && !next.IsZero() {
			info.NextRun = &next
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (js *JobScheduler) count() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.jobs)
}
