package sinks

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"milwatch/internal/alert"
)

// Ntfy pushes alerts to an ntfy.sh topic. Delivery failures are
// returned to the dispatcher, logged there as warnings, and never
// retried.
type Ntfy struct {
	Topic  string
	Server string // defaults to https://ntfy.sh
	Client *http.Client
}

func (n *Ntfy) Name() string { return "ntfy" }

func (n *Ntfy) Deliver(a alert.Alert) error {
	server := n.Server
	if server == "" {
		server = "https://ntfy.sh"
	}
	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	title := fmt.Sprintf("Alert: %s (%.1f mi)", a.Callsign, a.DistanceMi)
	body := fmt.Sprintf("%d ft | %.0f kts | %d° %s\nICAO: %s (%s)",
		a.Altitude, a.GroundSpeed, a.BearingDeg, a.Cardinal, a.ICAO, a.Label)

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/%s", server, n.Topic), strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("Title", title)
	req.Header.Set("Actions", fmt.Sprintf("view, open, %s", a.MapLink))

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("post ntfy notification: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy responded %s", resp.Status)
	}
	return nil
}
