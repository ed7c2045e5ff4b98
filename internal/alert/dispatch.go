package alert

import (
	"log"
	"sync"
)

// Sink receives finished alert records. Implementations own their
// formatting, delivery, and failure handling; an error return is
// logged as a warning and otherwise forgotten. The core never retries.
type Sink interface {
	Name() string
	Deliver(Alert) error
}

const sinkQueueDepth = 64

// Dispatcher fans alerts out to every registered sink. Each sink gets
// its own queue and drain goroutine, so a slow or failing sink (speech
// rendering, a push API timeout) can never block ingestion or delay
// the other sinks. Dispatch returns as soon as the record is enqueued.
type Dispatcher struct {
	mu      sync.Mutex
	queues  []chan Alert
	names   []string
	pending sync.WaitGroup
	done    sync.WaitGroup
	closed  bool
}

// NewDispatcher creates a dispatcher with no sinks registered.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Register adds a sink and starts its drain goroutine. Not safe to
// call after Dispatch has begun; sinks are wired once at startup.
func (d *Dispatcher) Register(s Sink) {
	q := make(chan Alert, sinkQueueDepth)
	d.queues = append(d.queues, q)
	d.names = append(d.names, s.Name())

	d.done.Add(1)
	go func() {
		defer d.done.Done()
		for a := range q {
			if err := s.Deliver(a); err != nil {
				log.Printf("Warning: sink %s failed: %v", s.Name(), err)
			}
			d.pending.Done()
		}
	}()
}

// Dispatch hands the alert to every sink queue without waiting for
// delivery. A sink whose queue is full drops this alert (with a
// warning) rather than stalling the feed.
func (d *Dispatcher) Dispatch(a Alert) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	for i, q := range d.queues {
		d.pending.Add(1)
		select {
		case q <- a:
		default:
			d.pending.Done()
			log.Printf("Warning: sink %s queue full, dropping alert for %s", d.names[i], a.ICAO)
		}
	}
}

// Flush blocks until every queued alert has been delivered (or failed).
// This is the synchronous path used by test/dry-run mode; normal
// ingestion never waits.
func (d *Dispatcher) Flush() {
	d.pending.Wait()
}

// Close flushes outstanding work and stops the drain goroutines.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.pending.Wait()
	for _, q := range d.queues {
		close(q)
	}
	d.done.Wait()
}
