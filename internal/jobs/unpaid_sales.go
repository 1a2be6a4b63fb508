// Package jobs holds the scheduled background work.
package jobs

import (
	"context"
	"time"

	"dhoni/internal/service"
)

// UnpaidSalesJob runs the unpaid-sales reminder scan on a schedule. It
// is independent of any client session: it re-reads trips straight from
// the remote store per subscription.
type UnpaidSalesJob struct {
	reminders *service.ReminderService
	timeout   time.Duration
}

// NewUnpaidSalesJob creates a new UnpaidSalesJob.
func NewUnpaidSalesJob(reminders *service.ReminderService) *UnpaidSalesJob {
	return &UnpaidSalesJob{
		reminders: reminders,
		timeout:   5 * time.Minute,
	}
}

// Name implements scheduler.Job.
func (j *UnpaidSalesJob) Name() string { return "unpaid_sales_reminder" }

// Run implements scheduler.Job.
func (j *UnpaidSalesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.reminders.Run(ctx)
	return err
}
