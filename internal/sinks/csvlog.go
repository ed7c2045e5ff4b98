package sinks

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"milwatch/internal/alert"
)

// auditHeader is written once when the log file is first created.
var auditHeader = []string{"ICAO Address", "Callsign", "Service", "Timestamp", "Latitude", "Longitude"}

// CSVLog appends one row per alert to a CSV audit file. The file is
// opened per delivery so an unwritable path is a per-alert warning,
// not a startup failure.
type CSVLog struct {
	Path string
	mu   sync.Mutex
}

func (l *CSVLog) Name() string { return "csvlog" }

func (l *CSVLog) Deliver(a alert.Alert) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, statErr := os.Stat(l.Path)
	writeHeader := os.IsNotExist(statErr)

	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log %s: %w", l.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(auditHeader); err != nil {
			return fmt.Errorf("write audit header: %w", err)
		}
	}
	row := []string{
		a.ICAO,
		a.Callsign,
		a.Label,
		a.Timestamp.Format("2006-01-02 15:04:05"),
		strconv.FormatFloat(a.Lat, 'f', -1, 64),
		strconv.FormatFloat(a.Lon, 'f', -1, 64),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write audit row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush audit log: %w", err)
	}
	return nil
}
