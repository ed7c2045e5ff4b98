// Package feed supplies transport lines to the engine. Readers hold no
// decision logic and no per-aircraft state, so a reconnect needs no
// recovery beyond dialing again.
package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"time"
)

// LineFunc consumes one transport line. The engine's Process method
// satisfies it with a bound timestamp.
type LineFunc func(line string)

// reconnectDelay is the pause between TCP reconnect attempts.
const reconnectDelay = 10 * time.Second

// RunTCP consumes the BaseStation feed at addr, handing each
// newline-delimited record to fn in arrival order. It reconnects
// forever until ctx is cancelled; connection failures are warnings,
// never fatal.
func RunTCP(ctx context.Context, addr string, fn LineFunc) {
	for {
		if err := consumeOnce(ctx, addr, fn); err != nil {
			log.Printf("Warning: feed %s: %v", addr, err)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
			log.Printf("Reconnecting to %s...", addr)
		}
	}
}

func consumeOnce(ctx context.Context, addr string, fn LineFunc) error {
	dialer := net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()
	log.Printf("Connected to %s. Waiting for data...", addr)

	// Unblock the read loop when the context is cancelled.
	readDone := make(chan struct{})
	defer close(readDone)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetReadDeadline(time.Now())
		case <-readDone:
		}
	}()

	if err := Replay(conn, fn); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read: %w", err)
	}
	return nil
}

// Replay feeds every newline-delimited record from r to fn. Used for
// the live TCP stream, file replay, and tests alike.
func Replay(r io.Reader, fn LineFunc) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		fn(scanner.Text())
	}
	return scanner.Err()
}
