// Command milwatch watches a BaseStation (SBS-1) feed for military
// aircraft and raises alerts.
//
// It connects to a dump1090-style feed (or a NATS subject carrying the
// same records), rebuilds per-aircraft state from the partial updates,
// matches each aircraft against configured ICAO address ranges and
// callsign prefixes, and, at most once per cooldown window per
// aircraft, fans an alert out to the configured sinks: console, ntfy push,
// espeak-ng speech, CSV audit log, live web view, NATS, and an
// optional ClickHouse archive.
//
// Usage:
//
//	milwatch [options]
//
// Options:
//
//	-host HOST          dump1090 host (default: 127.0.0.1, env: DUMP1090_HOST)
//	-port N             dump1090 SBS port (default: 30003, env: DUMP1090_PORT)
//	-nats-url URL       consume the feed from NATS instead of TCP (env: NATS_URL)
//	-nats-feed SUBJ     NATS subject carrying SBS records (default: sbs.basestation)
//	-nats-alerts SUBJ   NATS subject to publish alerts on; empty disables (default: milwatch.alerts)
//	-config DIR         reference data directory (default: ~/.milwatch)
//	-cooldown SECS      per-aircraft alert cooldown (default: 600)
//	-lat, -lon          fallback observer coordinate (default: 38.95, -77.38)
//	-gps ADDR           gpsd raw NMEA endpoint; empty disables GPS refresh
//	-gps-interval SECS  origin refresh interval (default: 600)
//	-ntfy-topic TOPIC   ntfy.sh topic; empty disables push (default: ADSB-ALERTS)
//	-no-speech          disable the espeak-ng speech sink
//	-http-port N        live view port (default: 5001)
//	-history PATH       SQLite alert history (default: <config>/history.db)
//	-ch-host HOST       ClickHouse host; empty disables the archive sink
//	-ch-port, -ch-database, -ch-user, -ch-password
//	-test               dispatch one synthetic alert, wait for the sinks, exit
//
// The reference directory must contain icao_ranges.csv and
// local_interest.csv (rows of "label,startHex,endHex") and
// military_callsigns.txt (one prefix per line). Malformed reference
// data halts startup; malformed feed records are skipped silently.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"milwatch/internal/alert"
	"milwatch/internal/feed"
	"milwatch/internal/geo"
	"milwatch/internal/gps"
	"milwatch/internal/history"
	"milwatch/internal/liveview"
	"milwatch/internal/match"
	"milwatch/internal/pipeline"
	"milwatch/internal/sinks"
	"milwatch/internal/state"
)

func main() {
	host := flag.String("host", envOrDefault("DUMP1090_HOST", "127.0.0.1"), "dump1090 host")
	port := flag.Int("port", envOrDefaultInt("DUMP1090_PORT", 30003), "dump1090 SBS port")
	natsURL := flag.String("nats-url", envOrDefault("NATS_URL", ""), "NATS server URL (feed + alert publishing)")
	natsFeed := flag.String("nats-feed", "sbs.basestation", "NATS subject carrying SBS records")
	natsAlerts := flag.String("nats-alerts", "milwatch.alerts", "NATS subject to publish alerts on")
	configDir := flag.String("config", defaultConfigDir(), "reference data directory")
	cooldown := flag.Int("cooldown", 600, "per-aircraft alert cooldown in seconds")
	homeLat := flag.Float64("lat", 38.95, "fallback observer latitude")
	homeLon := flag.Float64("lon", -77.38, "fallback observer longitude")
	gpsAddr := flag.String("gps", envOrDefault("GPSD_ADDR", ""), "gpsd raw NMEA endpoint (host:port)")
	gpsInterval := flag.Int("gps-interval", 600, "origin refresh interval in seconds")
	ntfyTopic := flag.String("ntfy-topic", envOrDefault("NTFY_TOPIC", "ADSB-ALERTS"), "ntfy.sh topic (empty disables push)")
	noSpeech := flag.Bool("no-speech", false, "disable the espeak-ng speech sink")
	httpPort := flag.Int("http-port", 5001, "live view HTTP port")
	historyPath := flag.String("history", "", "SQLite alert history path (default: <config>/history.db)")
	chHost := flag.String("ch-host", envOrDefault("CLICKHOUSE_HOST", ""), "ClickHouse host (empty disables the archive sink)")
	chPort := flag.Int("ch-port", envOrDefaultInt("CLICKHOUSE_PORT", 9000), "ClickHouse port")
	chDB := flag.String("ch-database", envOrDefault("CLICKHOUSE_DATABASE", "milwatch"), "ClickHouse database")
	chUser := flag.String("ch-user", envOrDefault("CLICKHOUSE_USER", "default"), "ClickHouse user")
	chPassword := flag.String("ch-password", envOrDefault("CLICKHOUSE_PASSWORD", ""), "ClickHouse password")
	testMode := flag.Bool("test", false, "dispatch one synthetic alert and exit")
	flag.Parse()

	log.Println("--- Aircraft Alert Monitor ---")

	origin := geo.NewOrigin(*homeLat, *homeLon)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *gpsAddr != "" {
		watcher := &gps.Watcher{
			Addr:     *gpsAddr,
			Interval: time.Duration(*gpsInterval) * time.Second,
			Origin:   origin,
		}
		go watcher.Run(ctx)
	}

	dispatcher := alert.NewDispatcher()
	defer dispatcher.Close()

	dispatcher.Register(&sinks.Console{W: os.Stdout})
	if *ntfyTopic != "" {
		dispatcher.Register(&sinks.Ntfy{Topic: *ntfyTopic})
	}
	if !*noSpeech {
		dispatcher.Register(&sinks.Speech{})
	}
	dispatcher.Register(&sinks.CSVLog{Path: filepath.Join(*configDir, "alert_log.csv")})

	if *natsURL != "" && *natsAlerts != "" {
		pub, err := sinks.NewNATSPublisher(*natsURL, *natsAlerts)
		if err != nil {
			log.Printf("Warning: NATS alert publishing disabled: %v", err)
		} else {
			defer pub.Close()
			dispatcher.Register(pub)
		}
	}

	if *chHost != "" {
		archive, err := sinks.OpenArchive(ctx, sinks.ArchiveConfig{
			Host:     *chHost,
			Port:     *chPort,
			Database: *chDB,
			User:     *chUser,
			Password: *chPassword,
		})
		if err != nil {
			log.Printf("Warning: ClickHouse archive disabled: %v", err)
		} else {
			defer archive.Close()
			dispatcher.Register(archive)
		}
	}

	ring := liveview.NewRing(25)
	histPath := *historyPath
	if histPath == "" {
		histPath = filepath.Join(*configDir, "history.db")
	}
	hist, err := history.Open(histPath)
	if err != nil {
		log.Printf("Warning: alert history disabled: %v", err)
		hist = nil
	} else {
		defer hist.Close()
	}
	if err := liveview.SeedRing(ring, hist); err != nil {
		log.Printf("Warning: live view starts empty: %v", err)
	}
	dispatcher.Register(&liveview.Feeder{Ring: ring, Hist: hist})

	if *testMode {
		runTest(origin, dispatcher)
		return
	}

	// Reference tables: malformed data here is fatal, unlike feed noise.
	ranges, err := match.LoadRanges(
		filepath.Join(*configDir, "icao_ranges.csv"),
		filepath.Join(*configDir, "local_interest.csv"),
	)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	prefixes, err := match.LoadPrefixes(filepath.Join(*configDir, "military_callsigns.txt"))
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	matcher := match.NewMatcher(ranges, prefixes)
	log.Printf("Loaded %d ICAO ranges and %d callsign prefixes", matcher.RangeCount(), matcher.PrefixCount())

	engine := pipeline.New(
		state.NewStore(),
		matcher,
		alert.Deduper{Window: time.Duration(*cooldown) * time.Second},
		origin,
		dispatcher,
	)

	go func() {
		server := liveview.NewServer(ring, engine.Stats, *httpPort)
		if err := server.Run(); err != nil {
			log.Printf("Warning: live view server stopped: %v", err)
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down...")
		cancel()
	}()

	process := func(line string) { engine.Process(line, time.Now()) }
	if *natsURL != "" {
		if err := feed.RunNATS(ctx, *natsURL, *natsFeed, process); err != nil {
			log.Fatalf("Error: NATS feed: %v", err)
		}
	} else {
		feed.RunTCP(ctx, *host+":"+strconv.Itoa(*port), process)
	}

	dispatcher.Flush()
	st := engine.Stats()
	log.Printf("Done: %d lines, %d decoded, %d alerts (%d suppressed), %d aircraft seen",
		st.Lines, st.Decoded, st.Alerts, st.Suppressed, st.Aircraft)
}

// runTest assembles one synthetic alert just north-east of the current
// origin and waits for every sink to deliver it. Lets an operator
// verify speech, push, and log wiring without a feed.
func runTest(origin *geo.Origin, dispatcher *alert.Dispatcher) {
	log.Println("--- Running in Test Mode ---")

	pt := origin.Get()
	log.Printf("Coordinates: Lat %.4f, Lon %.4f", pt.Lat, pt.Lon)

	callsign := "TEST01"
	altitude := 10000
	speed := 350.0
	lat := pt.Lat + 0.1
	lon := pt.Lon + 0.1

	ac := state.Aircraft{
		Hex:         "AE0101",
		Callsign:    &callsign,
		Altitude:    &altitude,
		GroundSpeed: &speed,
		Lat:         &lat,
		Lon:         &lon,
	}

	dispatcher.Dispatch(alert.Build(ac, "Test Trigger", pt, time.Now()))
	dispatcher.Flush()
	log.Println("--- Test alert sent. Exiting. ---")
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".milwatch"
	}
	return filepath.Join(home, ".milwatch")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
