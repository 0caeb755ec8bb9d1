package background

import (
	"context"
	"log"
	"sync"
	"time"

	"sareemart/internal/caching"
	"sareemart/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the periodic background jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	alertSvc  *jobs.StockAlertService
	cacheSvc  caching.CacheService
	interval  time.Duration
	jobsByKey map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler. The interval controls how often
// the stock and dues scans run.
func NewJobScheduler(alertSvc *jobs.StockAlertService, cacheSvc caching.CacheService, interval time.Duration) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	if interval <= 0 {
		interval = 30 * time.Minute
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alertSvc:  alertSvc,
		cacheSvc:  cacheSvc,
		interval:  interval,
		jobsByKey: make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	js.mu.Lock()
	defer js.mu.Unlock()

	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.alertSvc.ScheduledLowStockCheck, context.Background()),
		gocron.WithName("low-stock-alerts"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low stock job: %v", err)
	} else {
		js.jobsByKey["low-stock-alerts"] = lowStockJob
	}

	duesJob, err := js.scheduler.NewJob(
		gocron.DurationJob(js.interval),
		gocron.NewTask(js.alertSvc.ScheduledOutstandingDuesCheck, context.Background()),
		gocron.WithName("outstanding-dues"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create outstanding dues job: %v", err)
	} else {
		js.jobsByKey["outstanding-dues"] = duesJob
	}

	cacheJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.cleanupCache, context.Background()),
		gocron.WithName("cache-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create cache cleanup job: %v", err)
	} else {
		js.jobsByKey["cache-cleanup"] = cacheJob
	}

	log.Printf("Registered %d background jobs", len(js.jobsByKey))
}

// cleanupCache drops all cached entries so stale reads cannot outlive a day
func (js *JobScheduler) cleanupCache(ctx context.Context) {
	if js.cacheSvc == nil {
		return
	}
	if err := js.cacheSvc.InvalidateAllCache(ctx); err != nil {
		log.Printf("Cache cleanup failed: %v", err)
	}
}

// JobNames lists registered job names, mostly for introspection in tests
func (js *JobScheduler) JobNames() []string {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobsByKey))
	for name := range js.jobsByKey {
		names = append(names, name)
	}
	return names
}
