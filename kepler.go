// ./kepler.go
package vsop87

import (
	"fmt"
	"math"
	"strings"
)

// KeplerianElements are osculating two-body elements, referred to the same
// ecliptic frame as the state they were derived from.
//
// Angles that are undefined for circular or equatorial orbits follow fixed
// conventions instead of failing:
//   - when the eccentricity is below 1e-11, PerihelionArgument is 0 and
//     MeanAnomaly is counted from the ascending node;
//   - when sin(Inclination) is below 1e-11, AscendingNode is 0 and the
//     perihelion is counted from the X axis.
//
// Near these limits the angles are numerically unstable; Degeneracy reports
// which conventions applied.
type KeplerianElements struct {
	SemiMajorAxis      float64 // SemiMajorAxis in AU, negative for unbound orbits
	Eccentricity       float64 // Eccentricity, dimensionless
	Inclination        float64 // Inclination in radians, in [0, π]
	AscendingNode      float64 // AscendingNode is the longitude of the ascending node Ω in radians, in [0, 2π)
	PerihelionArgument float64 // PerihelionArgument is ω in radians, in [0, 2π)
	MeanAnomaly        float64 // MeanAnomaly is M in radians, in [0, 2π) for elliptic orbits
	Mu                 float64 // Mu is the gravitational parameter in AU³/day² used for the conversion
}

// Degeneracy flags the angle conventions applied to a set of elements.
type Degeneracy uint8

const (
	// DegenerateEccentricity marks a (nearly) circular orbit.
	DegenerateEccentricity Degeneracy = 1 << iota
	// DegenerateInclination marks a (nearly) equatorial orbit.
	DegenerateInclination
)

// String lists the flags, e.g. "eccentricity|inclination", or "none".
func (d Degeneracy) String() string {
	var parts []string
	if d&DegenerateEccentricity != 0 {
		parts = append(parts, "eccentricity")
	}
	if d&DegenerateInclination != 0 {
		parts = append(parts, "inclination")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Degeneracy reports which angle conventions apply to k.
func (k KeplerianElements) Degeneracy() Degeneracy {
	var d Degeneracy
	if k.Eccentricity < degenerateTol {
		d |= DegenerateEccentricity
	}
	if math.Abs(math.Sin(k.Inclination)) < degenerateTol {
		d |= DegenerateInclination
	}
	return d
}

// MeanMotion returns the mean motion in radians per day.
func (k KeplerianElements) MeanMotion() float64 {
	a := math.Abs(k.SemiMajorAxis)
	return math.Sqrt(k.Mu / (a * a * a))
}

// Period returns the orbital period in days, or +Inf for unbound orbits.
func (k KeplerianElements) Period() float64 {
	if k.Eccentricity >= 1 || k.SemiMajorAxis <= 0 {
		return math.Inf(1)
	}
	return twoPi / k.MeanMotion()
}

// Keplerian returns the osculating elements described by e.
//
// For the elliptic version they follow directly from a, λ, k, h, q, p:
// e = √(k²+h²), ϖ = atan2(h, k), i = 2·asin√(q²+p²), Ω = atan2(p, q),
// ω = ϖ - Ω, M = λ - ϖ. For the other versions they are derived from the
// position and velocity with Body.GM as gravitational parameter.
func (e Elements) Keplerian() (KeplerianElements, error) {
	mu := e.Body.GM()
	if !e.finite() {
		return nanKeplerian(), fmt.Errorf("%s %s keplerian: %w", e.Body, e.Variant, ErrInvalidInput)
	}
	if e.Variant == VariantElliptic {
		return keplerianFromElliptic(e.Values, mu), nil
	}
	pos, vel, err := e.State()
	if err != nil {
		return nanKeplerian(), err
	}
	return KeplerianFromState(pos, vel, mu)
}

func keplerianFromElliptic(v [6]float64, mu float64) KeplerianElements {
	a, lambda, k, h, q, p := v[0], v[1], v[2], v[3], v[4], v[5]
	kep := KeplerianElements{SemiMajorAxis: a, Mu: mu}

	kep.Eccentricity = math.Hypot(k, h)
	sinHalfI := math.Min(1, math.Hypot(q, p))
	kep.Inclination = 2 * math.Asin(sinHalfI)

	var node float64
	if math.Abs(math.Sin(kep.Inclination)) >= degenerateTol {
		node = math.Atan2(p, q)
	}
	varpi := node
	if kep.Eccentricity >= degenerateTol {
		varpi = math.Atan2(h, k)
	}
	kep.AscendingNode = normalizeAngle(node)
	kep.PerihelionArgument = normalizeAngle(varpi - node)
	kep.MeanAnomaly = normalizeAngle(lambda - varpi)
	return kep
}

// KeplerianFromState computes osculating elements from a position (AU) and a
// velocity (AU/day) with the vis-viva and angular momentum relations.
//
// Returns an error wrapping ErrInvalidInput, and NaN elements, if an input is not
// finite, if mu is not positive, or if the motion is rectilinear.
func KeplerianFromState(pos RectangularCoordinates, vel Velocity, mu float64) (KeplerianElements, error) {
	if !pos.finite() || !vel.finite() || !isFinite(mu) || mu <= 0 {
		return nanKeplerian(), fmt.Errorf("state to keplerian: %w", ErrInvalidInput)
	}
	r := vec3{pos.X, pos.Y, pos.Z}
	v := vec3{vel.DX, vel.DY, vel.DZ}
	rMag := r.norm()
	h := r.cross(v)
	hMag := h.norm()
	if rMag == 0 || hMag == 0 {
		return nanKeplerian(), fmt.Errorf("state to keplerian: %w: rectilinear motion", ErrInvalidInput)
	}

	kep := KeplerianElements{Mu: mu}
	kep.SemiMajorAxis = 1 / (2/rMag - v.dot(v)/mu)

	ecc := v.cross(h).scale(1 / mu).sub(r.scale(1 / rMag))
	kep.Eccentricity = ecc.norm()

	nodeMag := math.Hypot(h[0], h[1])
	kep.Inclination = math.Atan2(nodeMag, h[2])

	// u is the argument of latitude, from the node (or the X axis) to the body.
	var u float64
	if nodeMag >= degenerateTol*hMag {
		kep.AscendingNode = normalizeAngle(math.Atan2(h[0], -h[1]))
		n := vec3{-h[1], h[0], 0}
		u = math.Atan2(n.cross(r).dot(h)/hMag, n.dot(r))
	} else {
		u = math.Atan2(math.Copysign(1, h[2])*r[1], r[0])
	}

	nu := u
	if kep.Eccentricity >= degenerateTol {
		nu = math.Atan2(ecc.cross(r).dot(h)/hMag, ecc.dot(r))
		kep.PerihelionArgument = normalizeAngle(u - nu)
	}
	kep.MeanAnomaly = meanAnomalyFromTrue(nu, kep.Eccentricity)
	return kep, nil
}

// State converts the elements back to a position (AU) and velocity (AU/day).
//
// Returns an error wrapping ErrInvalidInput, and NaN vectors, if an element is
// not finite, if Mu is not positive, or if the orbit is not elliptic.
func (k KeplerianElements) State() (RectangularCoordinates, Velocity, error) {
	if !k.finite() || k.Mu <= 0 {
		return nanRectangular(), nanVelocity(), fmt.Errorf("keplerian to state: %w", ErrInvalidInput)
	}
	if k.Eccentricity >= 1 || k.SemiMajorAxis <= 0 {
		return nanRectangular(), nanVelocity(), fmt.Errorf("keplerian to state: %w: eccentricity %g is not elliptic", ErrInvalidInput, k.Eccentricity)
	}

	a, e := k.SemiMajorAxis, k.Eccentricity
	E := EccentricAnomaly(k.MeanAnomaly, e)
	sinE, cosE := math.Sincos(E)
	b := math.Sqrt(1 - e*e)
	n := k.MeanMotion()
	den := 1 - e*cosE

	// Perifocal frame: x towards the perihelion, y 90° ahead in the orbit plane.
	xp, yp := a*(cosE-e), a*b*sinE
	vxp, vyp := -a*n*sinE/den, a*n*b*cosE/den

	sinO, cosO := math.Sincos(k.AscendingNode)
	sinI, cosI := math.Sincos(k.Inclination)
	sinW, cosW := math.Sincos(k.PerihelionArgument)
	p := vec3{cosO*cosW - sinO*sinW*cosI, sinO*cosW + cosO*sinW*cosI, sinW * sinI}
	q := vec3{-cosO*sinW - sinO*cosW*cosI, -sinO*sinW + cosO*cosW*cosI, cosW * sinI}

	r := p.scale(xp).add(q.scale(yp))
	v := p.scale(vxp).add(q.scale(vyp))
	return RectangularCoordinates{X: r[0], Y: r[1], Z: r[2]}, Velocity{DX: v[0], DY: v[1], DZ: v[2]}, nil
}

// EccentricAnomaly solves Kepler's equation M = E - e·sin E for 0 <= e < 1 by
// Newton-Raphson iteration.
func EccentricAnomaly(meanAnomaly, eccentricity float64) float64 {
	M := math.Remainder(meanAnomaly, twoPi) // (-π, π]
	if eccentricity == 0 {
		return M
	}
	E := M
	if eccentricity >= 0.8 {
		E = math.Copysign(math.Pi, M)
	}
	for i := 0; i < 50; i++ {
		delta := (E - eccentricity*math.Sin(E) - M) / (1 - eccentricity*math.Cos(E))
		E -= delta
		if math.Abs(delta) < 1e-15 {
			break
		}
	}
	return E
}

// meanAnomalyFromTrue converts a true anomaly to the mean anomaly for elliptic,
// parabolic (Barker) and hyperbolic orbits.
func meanAnomalyFromTrue(nu, e float64) float64 {
	switch {
	case e < 1:
		sinNu, cosNu := math.Sincos(nu)
		E := math.Atan2(math.Sqrt(1-e*e)*sinNu, e+cosNu)
		return normalizeAngle(E - e*math.Sin(E))
	case e == 1:
		d := math.Tan(nu / 2)
		return d + d*d*d/3
	default:
		F := 2 * math.Atanh(math.Sqrt((e-1)/(e+1))*math.Tan(nu/2))
		return e*math.Sinh(F) - F
	}
}

func (k KeplerianElements) finite() bool {
	return isFinite(k.SemiMajorAxis) && isFinite(k.Eccentricity) && isFinite(k.Inclination) &&
		isFinite(k.AscendingNode) && isFinite(k.PerihelionArgument) && isFinite(k.MeanAnomaly) && isFinite(k.Mu)
}

func nanKeplerian() KeplerianElements {
	nan := math.NaN()
	return KeplerianElements{
		SemiMajorAxis:      nan,
		Eccentricity:       nan,
		Inclination:        nan,
		AscendingNode:      nan,
		PerihelionArgument: nan,
		MeanAnomaly:        nan,
		Mu:                 nan,
	}
}

// vec3 is a small helper for the two-body relations.
type vec3 [3]float64

func (a vec3) dot(b vec3) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func (a vec3) cross(b vec3) vec3 {
	return vec3{a[1]*b[2] - a[2]*b[1], a[2]*b[0] - a[0]*b[2], a[0]*b[1] - a[1]*b[0]}
}

func (a vec3) norm() float64 { return math.Sqrt(a.dot(a)) }

func (a vec3) scale(s float64) vec3 { return vec3{a[0] * s, a[1] * s, a[2] * s} }

func (a vec3) add(b vec3) vec3 { return vec3{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }

func (a vec3) sub(b vec3) vec3 { return vec3{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
