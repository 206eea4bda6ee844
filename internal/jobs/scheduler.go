// Package jobs runs the periodic maintenance tasks: expiring unpaid orders
// and auto-releasing escrow the buyer never confirmed.
package jobs

import (
	"context"
	"log"
	"time"

	"agromart/internal/config"
	"agromart/internal/services/order"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron         *cron.Cron
	orderService order.Service

	pendingMaxAge time.Duration
	escrowGrace   time.Duration
}

func NewScheduler(orderService order.Service) *Scheduler {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))
	return &Scheduler{
		cron:          c,
		orderService:  orderService,
		pendingMaxAge: config.GetDurationEnv("ORDER_PENDING_MAX_AGE", 24*time.Hour),
		escrowGrace:   config.GetDurationEnv("ESCROW_AUTO_RELEASE_AFTER", 72*time.Hour),
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() {
	expirySchedule := config.GetEnv("ORDER_EXPIRY_SCHEDULE", "*/30 * * * *")
	if _, err := s.cron.AddFunc(expirySchedule, s.expireStaleOrders); err != nil {
		log.Printf("Failed to schedule order expiry job: %v", err)
	} else {
		log.Printf("Scheduled order expiry job: %s", expirySchedule)
	}

	releaseSchedule := config.GetEnv("ESCROW_RELEASE_SCHEDULE", "0 * * * *")
	if _, err := s.cron.AddFunc(releaseSchedule, s.autoReleaseEscrow); err != nil {
		log.Printf("Failed to schedule escrow release job: %v", err)
	} else {
		log.Printf("Scheduled escrow release job: %s", releaseSchedule)
	}

	s.cron.Start()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) expireStaleOrders() {
	n, err := s.orderService.ExpireStalePending(context.Background(), s.pendingMaxAge)
	if err != nil {
		log.Printf("Order expiry job failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Expired %d unpaid orders", n)
	}
}

func (s *Scheduler) autoReleaseEscrow() {
	n, err := s.orderService.AutoReleaseDelivered(context.Background(), s.escrowGrace)
	if err != nil {
		log.Printf("Escrow release job failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Auto-released %d delivered orders", n)
	}
}
