package feed

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// RunNATS consumes SBS records from a NATS subject, one record per
// message, and hands them to fn. Useful when the receiver publishes
// its BaseStation output onto a broker instead of a raw socket.
//
// Messages are delivered on the subscription's own goroutine; fn is
// the only consumer, so line order within the subject is preserved.
func RunNATS(ctx context.Context, url, subject string, fn LineFunc) error {
	nc, err := nats.Connect(url,
		nats.Name("milwatch-feed"),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connect nats %s: %w", url, err)
	}
	defer nc.Close()

	sub, err := nc.Subscribe(subject, func(m *nats.Msg) {
		fn(string(m.Data))
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	defer func() { _ = sub.Unsubscribe() }()

	<-ctx.Done()
	return nil
}
