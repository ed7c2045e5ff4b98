package liveview

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"milwatch/internal/pipeline"
)

// Server exposes the recent-alerts page and a small JSON API. It only
// reads: the ring (seeded from the history store at startup, fed live
// by the dispatcher) and the engine counters.
type Server struct {
	ring  *Ring
	stats func() pipeline.Stats
	port  int
}

// NewServer creates a live-view server on the given port.
func NewServer(ring *Ring, stats func() pipeline.Stats, port int) *Server {
	return &Server{ring: ring, stats: stats, port: port}
}

// Run starts the HTTP server and blocks.
func (s *Server) Run() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/api/alerts", s.handleAlerts)
	r.Get("/api/stats", s.handleStats)

	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Live view listening on http://0.0.0.0%s", addr)
	return http.ListenAndServe(addr, r)
}

func (s *Server) handleAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.ring.Snapshot())
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.stats())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Warning: write live-view response: %v", err)
	}
}

type indexRow struct {
	Timestamp string
	Callsign  string
	ICAO      string
	Label     string
	Altitude  int
	Speed     float64
	Position  string
	MapLink   string
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	alerts := s.ring.Snapshot()
	rows := make([]indexRow, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, indexRow{
			Timestamp: a.Timestamp.Format(time.TimeOnly),
			Callsign:  a.Callsign,
			ICAO:      a.ICAO,
			Label:     a.Label,
			Altitude:  a.Altitude,
			Speed:     a.GroundSpeed,
			Position:  a.PositionString(),
			MapLink:   a.MapLink,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, rows); err != nil {
		log.Printf("Warning: render live view: %v", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Aircraft Alerts</title>
    <meta http-equiv="refresh" content="10">
    <style>
        body { font-family: sans-serif; background-color: #1a1a1a; color: #e6e6e6; }
        h1 { color: #0099ff; }
        table { width: 100%; border-collapse: collapse; }
        th, td { padding: 8px; text-align: left; border-bottom: 1px solid #444; }
        th { background-color: #0099ff; color: #1a1a1a; }
        tr:nth-child(even) { background-color: #2a2a2a; }
        a { color: #57aeff; }
    </style>
</head>
<body>
    <h1>Recent Aircraft Alerts</h1>
    <p>This page automatically refreshes every 10 seconds.</p>
    <table>
        <thead>
            <tr>
                <th>Timestamp</th>
                <th>Callsign</th>
                <th>ICAO</th>
                <th>Service/Reason</th>
                <th>Altitude</th>
                <th>Speed</th>
                <th>Position</th>
                <th>Map</th>
            </tr>
        </thead>
        <tbody>
            {{range .}}
            <tr>
                <td>{{.Timestamp}}</td>
                <td><b>{{.Callsign}}</b></td>
                <td>{{.ICAO}}</td>
                <td>{{.Label}}</td>
                <td>{{.Altitude}} ft</td>
                <td>{{printf "%.0f" .Speed}} kts</td>
                <td>{{.Position}}</td>
                <td><a href="{{.MapLink}}" target="_blank">Track</a></td>
            </tr>
            {{end}}
        </tbody>
    </table>
</body>
</html>
`))
