package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/citytransit-labs/nyct-gtfsrt/config"
	"github.com/citytransit-labs/nyct-gtfsrt/gtfs"
	"github.com/citytransit-labs/nyct-gtfsrt/gtfsrt"
	"github.com/citytransit-labs/nyct-gtfsrt/internal"
	"github.com/citytransit-labs/nyct-gtfsrt/metrics"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to config.yml (default: working directory, then binary directory)")
		feedArg     = flag.String("feed", "1", "subway line, feed URL, configured feed name, or local file")
		watch       = flag.Duration("watch", 0, "refresh continuously at this interval; 0 uses the configured interval; omit to run once")
		metricsAddr = flag.String("metrics", "", "listen address for /metrics and /healthz in watch mode (default from config)")
		route       = flag.String("route", "", "only trips on this route; comma-separate for several")
		direction   = flag.String("direction", "", "only trips headed N or S")
		shape       = flag.String("shape", "", "only trips on this shape; comma-separate for several")
		stop        = flag.String("stop", "", "only trips still headed for this stop; comma-separate for several")
		assigned    = flag.String("assigned", "", "only trips with this assignment state (true|false)")
		underway    = flag.String("underway", "", "only trips with this underway state (true|false)")
		delayed     = flag.String("delayed", "", "only trips with this delay-alert state (true|false)")
		updatedIn   = flag.Duration("updated-within", 0, "only trips whose position updated within this window")
	)
	flag.Parse()

	internal.InitLogging()
	// Load .env into the environment (ignore if missing).
	_ = godotenv.Load()

	var err error
	if *configPath != "" {
		err = config.LoadAppConfigFrom(*configPath)
	} else {
		err = config.LoadAppConfig()
	}
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	apiKey := config.Config.API.Key
	if key := os.Getenv("MTA_API_KEY"); key != "" {
		apiKey = key
	}

	crit, err := parseCriteria(*route, *direction, *shape, *stop, *assigned, *underway, *delayed, *updatedIn)
	if err != nil {
		log.Fatalf("filter error: %v", err)
	}

	source, err := resolveSource(*feedArg)
	if err != nil {
		log.Fatalf("feed error: %v", err)
	}

	shapesTable, stationsTable := loadStaticTables()

	client := gtfsrt.NewClient(apiKey)
	client.HTTPClient.Timeout = time.Duration(config.Config.API.TimeoutMS) * time.Millisecond

	w := &watcher{
		client:   client,
		source:   source,
		shapes:   shapesTable,
		stations: stationsTable,
		criteria: crit,
	}

	watchSet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "watch" {
			watchSet = true
		}
	})
	if !watchSet {
		if err := w.runOnce(); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	interval := *watch
	if interval <= 0 {
		interval = time.Duration(config.Config.Watch.IntervalMS) * time.Millisecond
	}
	addr := *metricsAddr
	if addr == "" {
		addr = config.Config.Watch.MetricsAddr
	}
	w.runWatch(interval, addr)
}

func loadStaticTables() (gtfsrt.HeadsignSource, gtfsrt.StationSource) {
	var shapes gtfsrt.HeadsignSource
	var stations gtfsrt.StationSource
	if path := config.Config.Static.TripsPath; path != "" {
		t, err := gtfs.NewTripShapesFromFile(path)
		if err != nil {
			log.Fatalf("loading %s: %v", path, err)
		}
		shapes = t
		log.Printf("loaded %d shapes from %s", t.Len(), path)
	}
	if path := config.Config.Static.StopsPath; path != "" {
		s, err := gtfs.NewStationsFromFile(path)
		if err != nil {
			log.Fatalf("loading %s: %v", path, err)
		}
		stations = s
		log.Printf("loaded %d stops from %s", s.Len(), path)
	}
	return shapes, stations
}

type watcher struct {
	client   *gtfsrt.Client
	source   feedSource
	shapes   gtfsrt.HeadsignSource
	stations gtfsrt.StationSource
	criteria criteria
	col      *metrics.Collector
}

func (w *watcher) refresh() (*gtfsrt.Feed, error) {
	start := time.Now()
	b, err := w.source.fetch(w.client)
	if err != nil {
		return nil, err
	}
	feed, err := gtfsrt.NewFeed(b, w.shapes, w.stations)
	if err != nil {
		return nil, err
	}
	if w.col != nil {
		w.col.FetchDuration.Observe(time.Since(start).Seconds())
	}
	return feed, nil
}

func (w *watcher) runOnce() error {
	feed, err := w.refresh()
	if err != nil {
		return err
	}

	fmt.Println(feed)
	fmt.Printf("gtfs-realtime %s, nyct-subway %s\n", feed.GTFSRealtimeVersion(), feed.NYCTSubwayVersion())
	periods := feed.TripReplacementPeriods()
	for _, route := range sortedRoutes(periods) {
		p := periods[route]
		fmt.Printf("route %s schedule replaced from %s until %s\n",
			route, p.Start.Format("15:04:05"), p.End.Format("15:04:05"))
	}

	trips, err := feed.FilterTrips(w.criteria.filter(feed.LastGenerated()))
	if err != nil {
		return err
	}
	for _, trip := range trips {
		fmt.Println(trip)
	}
	if w.criteria.active() {
		fmt.Printf("%d of %d trips match\n", len(trips), len(feed.Trips()))
	}
	return nil
}

func (w *watcher) runWatch(interval time.Duration, metricsAddr string) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if metricsAddr != "" {
		w.col = metrics.NewCollector()
		srv := w.col.Serve(metricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	log.Printf("watching %s every %s", w.source, interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTrips := -1
	for {
		w.tick(&lastTrips)
		select {
		case <-ctx.Done():
			log.Println("shutdown complete")
			return
		case <-ticker.C:
		}
	}
}

func (w *watcher) tick(lastTrips *int) {
	if w.col != nil {
		w.col.Refreshes.Inc()
	}
	feed, err := w.refresh()
	if err != nil {
		if w.col != nil {
			w.col.RefreshErrors.Inc()
		}
		log.Printf("refresh error: %v", err)
		return
	}

	trips := feed.Trips()
	underway, delayed := 0, 0
	for _, trip := range trips {
		if trip.Underway() {
			underway++
		}
		if trip.HasDelayAlert() {
			delayed++
		}
	}
	if w.col != nil {
		w.col.RecordFeed(feed.LastGenerated(), len(trips), underway, delayed)
	}

	delta := ""
	if *lastTrips >= 0 {
		delta = fmt.Sprintf(" (%+d)", len(trips)-*lastTrips)
	}
	*lastTrips = len(trips)
	log.Printf("Refreshed feed generated %s: %d trips%s, %d underway, %d delayed",
		feed.LastGenerated().Format("15:04:05"), len(trips), delta, underway, delayed)

	if !w.criteria.active() {
		return
	}
	matches, err := feed.FilterTrips(w.criteria.filter(feed.LastGenerated()))
	if err != nil {
		log.Printf("filter error: %v", err)
		return
	}
	for _, trip := range matches {
		log.Printf("  %s", trip)
	}
}

func sortedRoutes(periods map[string]gtfsrt.ReplacementPeriod) []string {
	routes := make([]string, 0, len(periods))
	for route := range periods {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}
