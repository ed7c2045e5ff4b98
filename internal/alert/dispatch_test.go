package alert

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures delivered alerts, optionally delaying or
// failing each delivery.
type recordingSink struct {
	name  string
	delay time.Duration
	err   error

	mu   sync.Mutex
	seen []Alert
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(a Alert) error {
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	s.seen = append(s.seen, a)
	s.mu.Unlock()
	return s.err
}

func (s *recordingSink) delivered() []Alert {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Alert, len(s.seen))
	copy(out, s.seen)
	return out
}

func TestDispatchFansOutToAllSinks(t *testing.T) {
	d := NewDispatcher()
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	d.Register(a)
	d.Register(b)

	al := Alert{ICAO: "AE0101", Callsign: "REACH123"}
	d.Dispatch(al)
	d.Flush()
	d.Close()

	require.Len(t, a.delivered(), 1)
	require.Len(t, b.delivered(), 1)
	assert.Equal(t, al, a.delivered()[0])
	assert.Equal(t, al, b.delivered()[0])
}

func TestDispatchFailingSinkDoesNotBlockOthers(t *testing.T) {
	d := NewDispatcher()
	bad := &recordingSink{name: "bad", err: errors.New("delivery refused")}
	good := &recordingSink{name: "good"}
	d.Register(bad)
	d.Register(good)

	for i := 0; i < 5; i++ {
		d.Dispatch(Alert{ICAO: "AE0101"})
	}
	d.Flush()
	d.Close()

	// Failures are swallowed at the sink boundary; everyone still got
	// every alert.
	assert.Len(t, bad.delivered(), 5)
	assert.Len(t, good.delivered(), 5)
}

func TestDispatchDoesNotWaitForSlowSink(t *testing.T) {
	d := NewDispatcher()
	slow := &recordingSink{name: "slow", delay: 200 * time.Millisecond}
	d.Register(slow)

	start := time.Now()
	d.Dispatch(Alert{ICAO: "AE0101"})
	elapsed := time.Since(start)

	// Dispatch is an enqueue, not a delivery.
	assert.Less(t, elapsed, 50*time.Millisecond)

	d.Flush()
	d.Close()
	assert.Len(t, slow.delivered(), 1)
}

func TestFlushWaitsForDelivery(t *testing.T) {
	d := NewDispatcher()
	slow := &recordingSink{name: "slow", delay: 50 * time.Millisecond}
	d.Register(slow)

	d.Dispatch(Alert{ICAO: "AE0101"})
	d.Flush()

	// After Flush the delivery must have happened.
	assert.Len(t, slow.delivered(), 1)
	d.Close()
}

func TestDispatchAfterCloseIsNoop(t *testing.T) {
	d := NewDispatcher()
	s := &recordingSink{name: "s"}
	d.Register(s)
	d.Close()

	d.Dispatch(Alert{ICAO: "AE0101"})
	assert.Empty(t, s.delivered())
}
