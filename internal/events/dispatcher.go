package events

import (
	"context"
	"sync"
	"time"
)

// DefaultPublishTimeout bounds a single background publish
const DefaultPublishTimeout = 5 * time.Second

// Dispatcher publishes events in the background so a slow broker never
// holds up the request that produced them.
type Dispatcher struct {
	publisher Publisher
	timeout   time.Duration
	wg        sync.WaitGroup
}

// NewDispatcher wraps publisher. A nil publisher drops every event.
func NewDispatcher(publisher Publisher, timeout time.Duration) *Dispatcher {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Dispatcher{publisher: publisher, timeout: timeout}
}

// DispatchOrderCreated publishes event on its own goroutine and reports the
// outcome to done, which may be nil. ctx only carries values; its
// cancellation does not stop the publish.
func (d *Dispatcher) DispatchOrderCreated(ctx context.Context, event OrderCreated, done func(error)) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		err := d.publisher.PublishOrderCreated(ctx, event)
		if done != nil {
			done(err)
		}
	}()
}

// Wait blocks until every dispatched event has been handled.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close waits for in-flight events and closes the publisher.
func (d *Dispatcher) Close() error {
	d.wg.Wait()
	return d.publisher.Close()
}
