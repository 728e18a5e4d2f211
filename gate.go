package match

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Task is a unit of work admitted through the gate.
type Task func(ctx context.Context) error

// AdmissionGate bounds how many matching passes run at once across the whole
// process. It is backpressure only; correctness comes from the book locks.
type AdmissionGate struct {
	capacity int64
	sem      *semaphore.Weighted
	metrics  *Metrics
	tracer   trace.Tracer

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewAdmissionGate creates a gate with capacity slots.
func NewAdmissionGate(capacity int64, opts ...Option) *AdmissionGate {
	o := newOptions(opts)
	return &AdmissionGate{
		capacity: capacity,
		sem:      semaphore.NewWeighted(capacity),
		metrics:  o.metrics,
		tracer:   o.tracerProvider.Tracer(tracerName),
	}
}

// Capacity returns the number of slots.
func (g *AdmissionGate) Capacity() int64 {
	return g.capacity
}

// Run blocks until a slot is free, executes task on the calling goroutine and
// releases the slot on every exit path. A panic inside task is recovered and
// returned as an error wrapping ErrInternal.
func (g *AdmissionGate) Run(ctx context.Context, name string, task Task) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return errors.Wrap(err, "acquire admission slot")
	}
	defer g.sem.Release(1)

	return g.execute(ctx, name, task)
}

// Go blocks until a slot is free, then executes task on its own goroutine.
// The task outlives ctx's cancellation; failures are only logged. Go returns
// ErrShutdown once the gate is closed, or ctx's error if no slot was obtained.
func (g *AdmissionGate) Go(ctx context.Context, name string, task Task) error {
	g.mu.RLock()
	if g.closed {
		g.mu.RUnlock()
		return ErrShutdown
	}
	g.wg.Add(1)
	g.mu.RUnlock()

	if err := g.sem.Acquire(ctx, 1); err != nil {
		g.wg.Done()
		return errors.Wrap(err, "acquire admission slot")
	}

	taskCtx := context.WithoutCancel(ctx)
	go func() {
		defer g.wg.Done()
		defer g.sem.Release(1)

		_ = g.execute(taskCtx, name, task)
	}()
	return nil
}

func (g *AdmissionGate) execute(ctx context.Context, name string, task Task) (err error) {
	passID := xid.New().String()
	ctx, span := g.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("pass_id", passID)))
	start := time.Now()
	g.metrics.passStarted()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrap(ErrInternal, "match pass panic")
			logger.Error("match pass panicked",
				zap.String("task", name),
				zap.String("pass_id", passID),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
		} else if err != nil {
			logger.Error("match pass failed",
				zap.String("task", name),
				zap.String("pass_id", passID),
				zap.Error(err),
			)
		}

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		g.metrics.passFinished(time.Since(start), err)
	}()

	return task(ctx)
}

// Wait blocks until every task started with Go has finished.
// Go calls made meanwhile block until Wait returns.
func (g *AdmissionGate) Wait() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.wg.Wait()
}

// Close stops admitting new asynchronous tasks and waits for running ones,
// or returns ctx's error first.
func (g *AdmissionGate) Close(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
