// Package sim is the headless fixed-step driver: it proposes next poses from
// current velocities plus gravity, runs the broad phase and the parallel TOI
// queries, resolves impulses, and advances body state. It is plumbing around
// the core, not part of it; the heavy lifting lives in ccd and impulse.
package sim

import (
	"runtime"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/alecjacobson/rigid-ipc/assembly"
	"github.com/alecjacobson/rigid-ipc/ccd"
	"github.com/alecjacobson/rigid-ipc/impulse"
	"github.com/alecjacobson/rigid-ipc/pose"
	"github.com/alecjacobson/rigid-ipc/rbconfig"
	"github.com/alecjacobson/rigid-ipc/rberrors"
	"github.com/alecjacobson/rigid-ipc/rigidbody"
	"github.com/alecjacobson/rigid-ipc/simstate"
)

// Simulation owns an assembled scene and steps it under a fixed time step.
type Simulation struct {
	asm        *assembly.Assembler
	broadPhase ccd.BroadPhase
	cfg        rbconfig.Config
	logger     *zap.Logger
	workers    int
	stepCount  int
}

// New assembles the bodies and wires the default swept-AABB broad phase.
func New(bodies []*rigidbody.Body, cfg rbconfig.Config, logger *zap.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	asm, err := assembly.New(bodies)
	if err != nil {
		return nil, err
	}
	return &Simulation{
		asm:        asm,
		broadPhase: NewSweptAABBBroadPhase(asm),
		cfg:        cfg,
		logger:     logger,
		workers:    runtime.NumCPU(),
	}, nil
}

// SetBroadPhase substitutes the candidate source; the default is the
// quadratic swept-AABB sweep.
func (s *Simulation) SetBroadPhase(bp ccd.BroadPhase) { s.broadPhase = bp }

// Assembler exposes the assembled scene.
func (s *Simulation) Assembler() *assembly.Assembler { return s.asm }

// StepCount returns the number of completed steps.
func (s *Simulation) StepCount() int { return s.stepCount }

// Snapshot returns the current serialization-layer state.
func (s *Simulation) Snapshot() simstate.State {
	return simstate.Snapshot(s.asm.Bodies(), s.cfg.Gravity)
}

// Step advances the simulation by one fixed time step: gravity kick, pose
// proposal, continuous collision detection over broad-phase candidates,
// impulse resolution (or the restitution-sentinel velocity re-derivation),
// and state advancement.
func (s *Simulation) Step() error {
	h := s.cfg.TimeStep
	bodies := s.asm.Bodies()

	// Shift current state to "previous" and propose next poses from
	// velocities plus gravity.
	for _, b := range bodies {
		b.PosePrev = b.Pose.Clone()
		b.VelocityPrev = b.Velocity.Clone()
		for d := 0; d < b.Dim; d++ {
			if !b.Fixed[d] {
				b.Velocity.Position[d] += h * s.cfg.Gravity[d]
			}
		}
		b.Pose = b.PosePrev.Add(velocityTimes(b, h))
	}

	candidates := s.broadPhase.Candidates(s.cfg.CollisionEps)
	impacts, err := s.queryCandidates(candidates)
	if err != nil {
		if !errors.Is(err, rberrors.ErrTolerancesExhausted) {
			return err
		}
		s.logger.Warn("some TOI queries exhausted tolerances", zap.Error(err))
	}

	if len(impacts) > 0 {
		s.logger.Info("impacts this step",
			zap.Int("step", s.stepCount),
			zap.Int("count", len(impacts)),
			zap.Float64("earliest", impacts[0].Time),
		)
	}

	if s.cfg.CoefficientRestitution >= 0 {
		if len(impacts) > 0 {
			if err := impulse.Resolve(s.asm, impacts, s.cfg.CoefficientRestitution); err != nil {
				return err
			}
			// Advance to the earliest impact, then carry the post-impulse
			// velocities through the remainder of the step.
			t0 := impacts[0].Time
			for _, b := range bodies {
				at := pose.Lerp(b.PosePrev, b.Pose, t0)
				b.Pose = at.Add(velocityTimes(b, h*(1-t0)))
			}
		}
	} else if len(impacts) > 0 {
		// Sentinel restitution: no impulse step; velocities are re-derived
		// from the realized displacement.
		for _, b := range bodies {
			b.Velocity = b.Pose.Sub(b.PosePrev).DivScalar(h)
		}
	}

	s.stepCount++
	return nil
}

// velocityTimes returns dt * velocity as a pose displacement, with fixed
// DoFs pinned to zero.
func velocityTimes(b *rigidbody.Body, dt float64) pose.Pose {
	disp := b.Velocity.MulScalar(dt)
	for d := 0; d < b.Dim; d++ {
		if b.Fixed[d] {
			disp.Position[d] = 0
		}
	}
	for k := range disp.Rotation {
		if b.Fixed[b.Dim+k] {
			disp.Rotation[k] = 0
		}
	}
	return disp
}

// queryCandidates fans the TOI queries over a worker pool and returns the
// time-sorted impacts.
func (s *Simulation) queryCandidates(candidates []ccd.Candidate) ([]ccd.Impact, error) {
	opts := ccd.Options{
		TimeTol:  s.cfg.RootFinderTolerance,
		MaxDepth: s.cfg.MaxBisectionDepth,
		Logger:   s.logger,
	}
	asm := s.asm

	return ccd.ParallelQuery(len(candidates), s.workers, func(i int) (ccd.Impact, bool, error) {
		c := candidates[i]
		ai, vi := asm.LocalVertex(c.Vertex)
		bodyA := asm.Body(ai)

		if asm.Dim() == 2 {
			bi, ei := asm.LocalEdge(c.EdgeOrFace)
			bodyB := asm.Body(bi)
			hit, toi, err := ccd.VertexEdgeTOI(
				bodyA, vi, bodyA.PosePrev, bodyA.Pose,
				bodyB, ei, bodyB.PosePrev, bodyB.Pose,
				opts,
			)
			if !hit {
				return ccd.Impact{}, false, err
			}
			alpha, aerr := ccd.VertexEdgeAlpha(
				bodyA, vi, bodyA.PosePrev, bodyA.Pose,
				bodyB, ei, bodyB.PosePrev, bodyB.Pose,
				toi,
			)
			if aerr != nil {
				return ccd.Impact{}, false, aerr
			}
			return ccd.Impact{Time: toi, EdgeOrFace: c.EdgeOrFace, Vertex: c.Vertex, Alpha: alpha}, true, err
		}

		bi, fi := asm.LocalFace(c.EdgeOrFace)
		bodyB := asm.Body(bi)
		hit, toi, err := ccd.VertexFaceTOI(
			bodyA, vi, bodyA.PosePrev, bodyA.Pose,
			bodyB, fi, bodyB.PosePrev, bodyB.Pose,
			opts,
		)
		if !hit {
			return ccd.Impact{}, false, err
		}
		return ccd.Impact{Time: toi, EdgeOrFace: c.EdgeOrFace, Vertex: c.Vertex}, true, err
	})
}
