// Command rigidipc is a headless fixed-step driver around the simulation
// core: it builds a small demo scene (or loads tuning from a TOML file),
// steps it with continuous collision detection and impulse resolution, and
// emits JSON state snapshots.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rbconfig"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
	"github.com/alecjacobson/rigid-ipc/sim"
)

func main() {
	configPath := flag.String("config", "", "optional TOML config file")
	steps := flag.Int("steps", 100, "number of steps to simulate")
	every := flag.Int("snapshot-every", 10, "emit a snapshot every N steps")
	realtime := flag.Bool("realtime", false, "pace the loop at 1/time_step steps per second")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := rbconfig.Default()
	cfg.CoefficientRestitution = 1
	if *configPath != "" {
		cfg, err = rbconfig.Load(*configPath)
		if err != nil {
			logger.Fatal("loading config", zap.Error(err))
		}
	}

	bodies, err := demoScene()
	if err != nil {
		logger.Fatal("building scene", zap.Error(err))
	}
	s, err := sim.New(bodies, cfg, logger)
	if err != nil {
		logger.Fatal("assembling simulation", zap.Error(err))
	}

	var limiter *rate.Limiter
	if *realtime {
		limiter = rate.NewLimiter(rate.Limit(1/cfg.TimeStep), 1)
	}
	ctx := context.Background()

	enc := json.NewEncoder(os.Stdout)
	for i := 0; i < *steps; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				logger.Fatal("pacing", zap.Error(err))
			}
		}
		if err := s.Step(); err != nil {
			logger.Fatal("step failed", zap.Int("step", i), zap.Error(err))
		}
		if *every > 0 && (i+1)%*every == 0 {
			if err := enc.Encode(s.Snapshot()); err != nil {
				logger.Fatal("encoding snapshot", zap.Error(err))
			}
		}
	}
}

// demoScene is two unit squares on a head-on elastic collision course over a
// fixed ground slab.
func demoScene() ([]*rigidbody.Body, error) {
	square := [][]float64{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}
	squareEdges := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}

	mkPose := func(x, y float64) pose.Pose {
		p := pose.New(2)
		p.Position[0], p.Position[1] = x, y
		return p
	}
	mkVel := func(vx float64) pose.Pose {
		v := pose.New(2)
		v.Position[0] = vx
		return v
	}

	left, err := rigidbody.New(rigidbody.Spec{
		V: square, E: squareEdges,
		Pose: mkPose(-2, 0), Velocity: mkVel(2),
		Density: 1, Fixed: []bool{false, false, false},
	})
	if err != nil {
		return nil, err
	}
	right, err := rigidbody.New(rigidbody.Spec{
		V: square, E: squareEdges,
		Pose: mkPose(2, 0), Velocity: mkVel(-2),
		Density: 1, Fixed: []bool{false, false, false},
	})
	if err != nil {
		return nil, err
	}
	ground, err := rigidbody.New(rigidbody.Spec{
		V: [][]float64{{-10, -0.25}, {10, -0.25}, {10, 0.25}, {-10, 0.25}},
		E: squareEdges,
		Pose: mkPose(0, -2), Velocity: mkVel(0),
		Density: 1, Fixed: []bool{true, true, true},
		Oriented: true,
	})
	if err != nil {
		return nil, err
	}
	return []*rigidbody.Body{left, right, ground}, nil
}
