package main

import (
	"flag"
	"log"
	"math/rand"
	"os"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/orbsim/orbsim"
)

// This binary only reads a scenario file, runs the simulation loop and exports
// the forecast of the tracked body.

var (
	scenario string
	debris   int
	verbose  bool
)

func init() {
	flag.StringVar(&scenario, "scenario", "", "scenario TOML file")
	flag.IntVar(&debris, "debris", 0, "number of dispersed debris bodies spawned around the tracked body")
	flag.BoolVar(&verbose, "verbose", false, "log collision events and forecast passes")
}

func main() {
	flag.Parse()
	if scenario == "" {
		log.Fatal("no scenario provided")
	}
	cfg, err := orbsim.LoadConfig(scenario)
	if err != nil {
		log.Fatalf("loading %s: %s", scenario, err)
	}
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "app", "orbsim")

	central, err := orbsim.CentralBodyFromString(cfg.Central)
	if err != nil {
		log.Fatal(err)
	}

	reg := orbsim.NewRegistry()
	if err = reg.Register(orbsim.NewCentralBody(central)); err != nil {
		log.Fatal(err)
	}
	var tracked *orbsim.Body
	for _, bc := range cfg.Bodies {
		b := orbsim.NewBody(bc.Name, bc.Mass, bc.Radius, orbsim.Vec3(bc.Position), orbsim.Vec3(bc.Velocity))
		if err = reg.Register(b); err != nil {
			log.Fatal(err)
		}
		if bc.Name == cfg.Tracked {
			tracked = b
		}
	}
	if tracked == nil {
		log.Fatalf("tracked body '%s' not in scenario", cfg.Tracked)
	}
	if debris > 0 {
		seed := rand.New(rand.NewSource(time.Now().UnixNano()))
		cloud, err := orbsim.DispersedBodies(tracked, debris, 5, 0.05, seed)
		if err != nil {
			log.Fatal(err)
		}
		for _, b := range cloud {
			if err = reg.Register(b); err != nil {
				log.Fatal(err)
			}
		}
		logger.Log("level", "info", "debris", debris)
	}

	integ := orbsim.NewIntegrator(cfg.G, logger)
	coll := orbsim.NewCollisionResolver(logger)
	loop := orbsim.NewSimulationLoop(reg, integ, coll, cfg.TickStep, cfg.Cadence, logger)
	pred := orbsim.NewPredictor(reg, integ, cfg.NewExecutor(integ), logger)

	go loop.Run()
	if verbose {
		go func() {
			for ev := range loop.Events() {
				logger.Log("level", "critical", "collided", ev.Central.Name, "body", ev.Body.Name, "d(km)", ev.Distance)
			}
		}()
	}

	forecast := make(chan orbsim.Trajectory, 1)
	pred.Request(tracked, 0, cfg.ForecastDT, func(traj orbsim.Trajectory) {
		forecast <- traj
	})

	deadline := time.After(cfg.Duration)
	select {
	case traj := <-forecast:
		// A forecast ending inside the central body stops at the surface.
		traj.Points = orbsim.ClipToCentral(traj.Points, orbsim.Vec3{}, central.Radius)
		conf := orbsim.ExportConfig{Filename: tracked.Name, OutputDir: cfg.OutputDir, Timestamp: true}
		if err := orbsim.ExportTrajectory(conf, traj, time.Now(), cfg.ForecastDT); err != nil {
			logger.Log("level", "critical", "export", err)
		} else {
			logger.Log("level", "notice", "forecast", len(traj.Points), "body", tracked.Name)
		}
		<-deadline
	case <-deadline:
		pred.Cancel(tracked.ID)
		logger.Log("level", "warning", "forecast", "not completed before deadline")
	}
	loop.Stop()

	el, err := loop.QueryOrbitalElements(tracked, central.Mass)
	if err != nil {
		logger.Log("level", "warning", "elements", err)
		return
	}
	logger.Log("level", "notice", "body", tracked.Name, "a(km)", el.SemiMajorAxis, "e", el.Eccentricity,
		"apogee(km)", el.ApogeeDistance, "perigee(km)", el.PerigeeDistance)
}
