package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"airport-simulator/internal/api"
	"airport-simulator/internal/config"
	"airport-simulator/internal/game/aircraft"
	"airport-simulator/internal/game/airspace"
	"airport-simulator/internal/game/flightplan"
	"airport-simulator/internal/game/simulation"
	"airport-simulator/internal/logging"
	"airport-simulator/internal/observability"
	"airport-simulator/internal/ui"
	"airport-simulator/pkg/types"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/gommon/log"
)

func main() {
	for _, line := range figure.NewFigure("AIRPORT SIM", "", false).Slicify() {
		fmt.Println(line)
	}

	err := run(os.Args[1:], os.Stdin, os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// run returns instead of exiting so that deferred cleanup (log file, HTTP
// shutdown) always happens.
func run(args []string, stdin io.ReadCloser, stdout io.Writer) error {
	cfg, err := config.Load(".env", args, os.Stderr)
	if err != nil {
		return err
	}

	closer, err := logging.Configure(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	lg := logging.New("main")

	apt, err := loadAirport(cfg.AirportFile, lg)
	if err != nil {
		return err
	}
	lg.Infof("%s: %d points, %d taxiways, %d runways", apt.Name, len(apt.Points), len(apt.Taxiways), len(apt.Runways))

	flights, err := loadTraffic(cfg.TrafficFile, apt, lg)
	if err != nil {
		return err
	}
	lg.Infof("%d flights loaded from %s", len(flights), cfg.TrafficFile)
	fmt.Fprint(stdout, flightplan.Stats(flights))

	metrics, err := observability.NewSimulationCollector(nil)
	if err != nil {
		return err
	}
	start, _ := cfg.StartStep()
	sim := simulation.NewSimulation(apt, flights, cfg.ConflictConfig(),
		simulation.WithInitTime(start),
		simulation.WithObserver(metrics),
		simulation.WithLogger(logging.New("simulation")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mu sync.Mutex
	if cfg.ListenAddr != "" {
		srv := &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           api.New(sim, &mu, metrics, logging.New("api")),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			lg.Infof("serving the HTTP API on %s", cfg.ListenAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				lg.Errorf("HTTP server: %v", err)
				stop()
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				lg.Errorf("HTTP shutdown: %v", err)
			}
		}()
	}

	if cfg.Steps > 0 {
		mu.Lock()
		runBatch(sim, cfg.Steps, stdout)
		mu.Unlock()
		if cfg.ListenAddr != "" {
			<-ctx.Done()
		}
		return nil
	}

	fmt.Fprintln(stdout, ui.Help)
	console := ui.NewConsole(sim, stdin, stdout, &mu, logging.New("console"))
	go func() {
		<-ctx.Done()
		stdin.Close()
	}()
	if err := console.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("console: %w", err)
	}
	return nil
}

func loadAirport(path string, lg *log.Logger) (*airspace.Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening airport: %w", err)
	}
	defer f.Close()

	apt, err := airspace.Parse(f)
	if apt == nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	warnSkipped(lg, path, err)
	return apt, nil
}

func loadTraffic(path string, apt *airspace.Airport, lg *log.Logger) ([]*aircraft.Flight, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening traffic: %w", err)
	}
	defer f.Close()

	flights, err := flightplan.Parse(f, apt)
	var perr *airspace.ParseError
	if err != nil && !errors.As(err, &perr) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	warnSkipped(lg, path, err)
	return flights, nil
}

// warnSkipped logs every line a loader rejected.
func warnSkipped(lg *log.Logger, path string, err error) {
	if err == nil {
		return
	}
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		lg.Warnf("%s: %v", path, e)
	}
	lg.Warnf("%s: %d line(s) skipped", path, len(errs))
}

// runBatch advances the simulation one step at a time and prints every
// step at which the anticipated conflicts change.
func runBatch(sim *simulation.Simulation, steps int, w io.Writer) {
	prev := ""
	for i := 0; i <= steps; i++ {
		if i > 0 {
			sim.IncrementTime(1)
		}
		cur := fmt.Sprint(sim.Conflicts().Sorted())
		if cur != prev {
			fmt.Fprintf(w, "%s %d active, conflicts %s\n", types.HMS(sim.Time()), len(sim.Active()), cur)
			prev = cur
		}
	}
	fmt.Fprintf(w, "%d alert(s)\n", len(sim.Alerts))
	for _, a := range sim.Alerts {
		fmt.Fprintln(w, a)
	}
}
