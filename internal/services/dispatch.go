package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"submissionsbff/internal/metrics"

	"github.com/sirupsen/logrus"
)

var ErrDispatchQueueFull = errors.New("dispatch queue is full")

type dispatchJob struct {
	ctx    context.Context
	cancel context.CancelFunc
	entry  *logrus.Entry
	fn     func(ctx context.Context) error
}

// Dispatcher runs work detached from the request that scheduled it. A fixed
// pool of limit workers drains a queue of at most queueSize jobs, so both
// running and waiting work is bounded. Each job gets its own deadline from
// the moment it is scheduled. Failures, including jobs refused because the
// queue is full, are logged and counted since no caller is left to receive
// them.
type Dispatcher struct {
	logger  logrus.FieldLogger
	metrics *metrics.Metrics
	timeout time.Duration
	queue   chan dispatchJob
	wg      sync.WaitGroup
}

func NewDispatcher(logger logrus.FieldLogger, m *metrics.Metrics, limit, queueSize int, timeout time.Duration) *Dispatcher {
	if limit < 1 {
		limit = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}

	d := &Dispatcher{
		logger:  logger,
		metrics: m,
		timeout: timeout,
		queue:   make(chan dispatchJob, queueSize),
	}

	for range limit {
		go d.work()
	}

	return d
}

// Go schedules fn without blocking. Cancelling ctx does not cancel fn; values
// carried by ctx remain visible to it. When every worker is busy and the
// queue is full, fn is dropped and counted as a failure.
func (d *Dispatcher) Go(ctx context.Context, fields logrus.Fields, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
	job := dispatchJob{ctx: ctx, cancel: cancel, entry: d.logger.WithFields(fields), fn: fn}

	d.wg.Add(1)
	select {
	case d.queue <- job:
	default:
		d.finish(job, ErrDispatchQueueFull)
	}
}

func (d *Dispatcher) work() {
	for job := range d.queue {
		if err := job.ctx.Err(); err != nil {
			d.finish(job, fmt.Errorf("waiting for a dispatch worker: %w", err))
			continue
		}
		d.finish(job, d.run(job.ctx, job.fn))
	}
}

func (d *Dispatcher) finish(job dispatchJob, err error) {
	defer d.wg.Done()
	defer job.cancel()

	if err != nil {
		d.metrics.AntivirusDispatchFailuresTotal.Inc()
		job.entry.WithError(err).Error("failed to dispatch file to antivirus")
	}
}

func (d *Dispatcher) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// Wait blocks until every scheduled job has finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
