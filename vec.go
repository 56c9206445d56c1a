package phys2d

// vec.go: Vector2 and Rotation primitives. Grounded on the teacher's use of
// a small hand-rolled Vector type throughout space.go (VectorZero,
// LengthSq) and gazed-vu/math/lin's shape of a minimal vector package: no
// pack member ships a 2D-shaped linear algebra library (go-gl/mathgl is
// 3D/quaternion oriented), so this stays stdlib math, per DESIGN.md.

import "math"

// Vector2 is a pair of floating point scalars. Precision is fixed to
// float64 for the whole world; phys2d does not attempt to mix precisions
// (see spec §9, "float vs double selection").
type Vector2 struct {
	X, Y float64
}

// V is a terse constructor, mirroring the teacher's VectorZero()/Vector{}
// idiom.
func V(x, y float64) Vector2 { return Vector2{x, y} }

// ZeroVec2 is the additive identity.
func ZeroVec2() Vector2 { return Vector2{0, 0} }

func (v Vector2) Add(o Vector2) Vector2 { return Vector2{v.X + o.X, v.Y + o.Y} }
func (v Vector2) Sub(o Vector2) Vector2 { return Vector2{v.X - o.X, v.Y - o.Y} }
func (v Vector2) Neg() Vector2          { return Vector2{-v.X, -v.Y} }
func (v Vector2) Scale(s float64) Vector2 {
	return Vector2{v.X * s, v.Y * s}
}

func (v Vector2) Dot(o Vector2) float64 { return v.X*o.X + v.Y*o.Y }

// Cross is the 2D "cross product", the z component of the 3D cross of
// (v.X, v.Y, 0) x (o.X, o.Y, 0). A positive result means o is counter
// clockwise from v.
func (v Vector2) Cross(o Vector2) float64 { return v.X*o.Y - v.Y*o.X }

// CrossSV computes the cross product of a scalar (an angular velocity or
// torque) and a vector, s x v, used throughout the solver for r x omega
// style terms.
func CrossSV(s float64, v Vector2) Vector2 { return Vector2{-s * v.Y, s * v.X} }

// CrossVS is the vector/scalar form, v x s.
func CrossVS(v Vector2, s float64) Vector2 { return Vector2{s * v.Y, -s * v.X} }

// Perp rotates v by +90 degrees.
func (v Vector2) Perp() Vector2 { return Vector2{-v.Y, v.X} }

// RPerp rotates v by -90 degrees.
func (v Vector2) RPerp() Vector2 { return Vector2{v.Y, -v.X} }

func (v Vector2) LengthSq() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vector2) Length() float64   { return math.Sqrt(v.LengthSq()) }

// Normalize returns a unit vector in the direction of v, or the zero
// vector when v is degenerate (length ~= 0). Callers that need a specific
// fallback axis (e.g. narrow-phase's degenerate circle-circle case) pick
// one explicitly rather than relying on this.
func (v Vector2) Normalize() Vector2 {
	l := v.Length()
	if l < 1e-12 {
		return Vector2{}
	}
	return Vector2{v.X / l, v.Y / l}
}

func (v Vector2) DistanceTo(o Vector2) float64 { return v.Sub(o).Length() }

// IsFinite reports whether both components are finite, used by the
// optional NaN/Inf detection pass (spec §7).
func (v Vector2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Lerp linearly interpolates between v and o.
func (v Vector2) Lerp(o Vector2, t float64) Vector2 {
	return Vector2{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

func clampf(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Rotation is a cached (cos, sin) pair for a body's angle, recomputed
// once per step per spec §3's invariant that world-space vertices are
// "rotated by body angle... cached once per step".
type Rotation struct {
	Cos, Sin float64
}

func IdentityRotation() Rotation { return Rotation{1, 0} }

func RotationFromAngle(angle float64) Rotation {
	return Rotation{math.Cos(angle), math.Sin(angle)}
}

func (r Rotation) Angle() float64 { return math.Atan2(r.Sin, r.Cos) }

// Apply rotates v by r.
func (r Rotation) Apply(v Vector2) Vector2 {
	return Vector2{r.Cos*v.X - r.Sin*v.Y, r.Sin*v.X + r.Cos*v.Y}
}

// Unapply rotates v by the inverse (conjugate) of r.
func (r Rotation) Unapply(v Vector2) Vector2 {
	return Vector2{r.Cos*v.X + r.Sin*v.Y, -r.Sin*v.X + r.Cos*v.Y}
}
