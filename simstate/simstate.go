// Package simstate produces the per-body state snapshot the serialization
// layer consumes: position and velocity vectors plus linear momentum,
// angular momentum, kinetic energy and potential energy scalars.
package simstate

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/alecjacobson/rigid-ipc/rigidbody"
)

// BodyState is the JSON-shaped per-body snapshot. Position has pos_ndof
// entries; Velocity has the full ndof entries.
type BodyState struct {
	Position        []float64 `json:"position"`
	Velocity        []float64 `json:"velocity"`
	LinearMomentum  float64   `json:"linear_momentum"`
	AngularMomentum float64   `json:"angular_momentum"`
	KineticEnergy   float64   `json:"kinetic_energy"`
	PotentialEnergy float64   `json:"potential_energy"`
}

// State is one step's snapshot over all bodies.
type State struct {
	Bodies []BodyState `json:"bodies"`
}

// Snapshot evaluates the energy and momentum accounting for every body under
// its current pose and velocity. Only the first Dim entries of gravity are
// used in 2D.
func Snapshot(bodies []*rigidbody.Body, gravity [3]float64) State {
	s := State{Bodies: make([]BodyState, len(bodies))}
	for i, b := range bodies {
		s.Bodies[i] = bodyState(b, gravity)
	}
	return s
}

func bodyState(b *rigidbody.Body, gravity [3]float64) BodyState {
	st := BodyState{
		Position: append([]float64(nil), b.Pose.Position...),
		Velocity: b.Velocity.DoFVector(),
	}

	if b.Dim == 2 {
		vx, vy := b.Velocity.Position[0], b.Velocity.Position[1]
		x, y := b.Pose.Position[0], b.Pose.Position[1]
		omega := b.Velocity.Rotation[0]

		v := mgl64.Vec2{vx, vy}
		st.LinearMomentum = b.Mass * v.Len()
		// Spin plus orbital contribution about the origin.
		st.AngularMomentum = b.Inertia[0]*omega + b.Mass*(x*vy-y*vx)
		st.KineticEnergy = 0.5*b.Mass*v.Dot(v) + 0.5*b.Inertia[0]*omega*omega
		st.PotentialEnergy = -b.Mass * (gravity[0]*x + gravity[1]*y)
		return st
	}

	v := mgl64.Vec3{b.Velocity.Position[0], b.Velocity.Position[1], b.Velocity.Position[2]}
	x := mgl64.Vec3{b.Pose.Position[0], b.Pose.Position[1], b.Pose.Position[2]}
	omega := mgl64.Vec3{b.Velocity.Rotation[0], b.Velocity.Rotation[1], b.Velocity.Rotation[2]}
	g := mgl64.Vec3{gravity[0], gravity[1], gravity[2]}

	spin := mgl64.Vec3{
		b.Inertia[0] * omega.X(),
		b.Inertia[1] * omega.Y(),
		b.Inertia[2] * omega.Z(),
	}
	st.LinearMomentum = v.Mul(b.Mass).Len()
	st.AngularMomentum = spin.Add(x.Cross(v).Mul(b.Mass)).Len()
	st.KineticEnergy = 0.5*b.Mass*v.Dot(v) + 0.5*spin.Dot(omega)
	st.PotentialEnergy = -b.Mass * g.Dot(x)
	return st
}
