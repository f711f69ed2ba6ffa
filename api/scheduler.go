/*
scheduler.go - Automated monthly report scheduler

PURPOSE:
  Periodically recomputes the monthly reports for the current and the
  previous month, so the rollups stay fresh without a manual compute
  call. Compute is an idempotent overwrite, so rerunning is always safe.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Each tick recomputes current month + previous month (the previous
    month keeps changing early in a month because of the fixed 31-day
    scan window of the monthly aggregator)
  - First computation happens immediately on Start

CONFIGURATION:
  - CheckInterval: How often to recompute (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewMonthlyReportScheduler(handler)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - report/monthly.go: The Compute this drives
  - handlers.go: ComputeMonthlyReport endpoint (manual recompute)
*/
package api

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/andina/cylinder-engine/tracking"
)

// MonthlyReportScheduler keeps the recent monthly reports recomputed.
type MonthlyReportScheduler struct {
	Handler       *Handler
	Clock         tracking.Clock
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewMonthlyReportScheduler creates a new scheduler.
func NewMonthlyReportScheduler(handler *Handler) *MonthlyReportScheduler {
	return &MonthlyReportScheduler{
		Handler:       handler,
		Clock:         tracking.SystemClock{},
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ms *MonthlyReportScheduler) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if !ms.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ms.ticker = time.NewTicker(ms.CheckInterval)
	ms.wg.Add(1)

	go ms.run()

	log.Printf("[Scheduler] Started with check interval: %v", ms.CheckInterval)
}

// Stop stops the scheduler.
func (ms *MonthlyReportScheduler) Stop() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.ticker != nil {
		ms.ticker.Stop()
		close(ms.stop)
		ms.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ms *MonthlyReportScheduler) run() {
	defer ms.wg.Done()

	// Run immediately on start
	ms.recomputeRecent()

	for {
		select {
		case <-ms.ticker.C:
			ms.recomputeRecent()
		case <-ms.stop:
			return
		}
	}
}

// recomputeRecent recomputes previous month first so the current month's
// variation sees the fresh previous total.
func (ms *MonthlyReportScheduler) recomputeRecent() {
	ctx := context.Background()
	current := tracking.Today(ms.Clock).FirstOfMonth()
	previous := current.PrevMonth()

	log.Printf("[Scheduler] Recomputing monthly reports for %s and %s", previous, current)

	for _, month := range []tracking.Date{previous, current} {
		rep, err := ms.Handler.Monthly.Compute(ctx, month)
		if err != nil {
			log.Printf("[Scheduler] Error computing monthly report %s: %v", month, err)
			continue
		}
		log.Printf("[Scheduler] Computed %s: total=%d, variation=%.2f%%, standout=%q",
			rep.Month, rep.TotalMonth, rep.PercentVariation, rep.StandoutActivity)
	}
}

// RunNow triggers an immediate recompute (for testing/admin).
func (ms *MonthlyReportScheduler) RunNow() {
	ms.recomputeRecent()
}

// GetNextRunTime returns when the next scheduled recompute will occur.
func (ms *MonthlyReportScheduler) GetNextRunTime() time.Time {
	return time.Now().Add(ms.CheckInterval)
}
