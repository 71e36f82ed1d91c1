package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/leave-service/internal/config"
	"github.com/spec-kit/leave-service/internal/events"
	"github.com/spec-kit/leave-service/internal/observability"
)

// NotificationWorker publishes lifecycle events to the dispatcher off the request path.
type NotificationWorker struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	workers    int

	mu     sync.RWMutex
	queue  chan events.Event
	closed bool
	wg     sync.WaitGroup
}

// NewNotificationWorker builds a worker with a bounded queue.
func NewNotificationWorker(cfg config.NotificationConfig, dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *NotificationWorker {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	size := cfg.QueueSize
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
		workers:    workers,
		queue:      make(chan events.Event, size),
	}
}

// Start launches the worker goroutines. They exit once Stop has drained the queue.
func (w *NotificationWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(context.WithoutCancel(ctx), i)
	}
	w.logger.Info("notification worker started", zap.Int("workers", w.workers), zap.Int("queue_size", cap(w.queue)))
}

func (w *NotificationWorker) run(ctx context.Context, id int) {
	defer w.wg.Done()
	for event := range w.queue {
		if err := w.dispatcher.Publish(ctx, event); err != nil {
			w.logger.Warn("notification delivery failed",
				zap.Int("worker", id),
				zap.Int64("request_id", event.RequestID),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}
}

// Enqueue hands an event to the workers without blocking. It reports false when the queue is
// full or the worker is stopped; the event is dropped.
func (w *NotificationWorker) Enqueue(event events.Event) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- event:
		return true
	default:
		w.logger.Warn("notification queue full; dropping event",
			zap.Int64("request_id", event.RequestID),
			zap.String("event_type", string(event.Type)))
		w.metrics.RecordNotification(string(event.Type), "dropped")
		return false
	}
}

// Stop closes the queue and waits for in-flight events until ctx expires.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
