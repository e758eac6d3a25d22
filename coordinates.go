// ./coordinates.go
package vsop87

import (
	"fmt"
	"math"
)

// Spherical converts rectangular coordinates to spherical ones. The longitude is
// reduced to [0, 2π). At the origin every angle is zero.
//
// Returns an error wrapping ErrInvalidInput, and NaN coordinates, if any
// component is not finite.
func (r RectangularCoordinates) Spherical() (SphericalCoordinates, error) {
	if !r.finite() {
		return nanSpherical(), fmt.Errorf("rectangular to spherical: %w", ErrInvalidInput)
	}
	rho := math.Hypot(r.X, r.Y)
	return SphericalCoordinates{
		Longitude: normalizeAngle(math.Atan2(r.Y, r.X)),
		Latitude:  math.Atan2(r.Z, rho),
		Radius:    math.Hypot(rho, r.Z),
	}, nil
}

// SphericalVelocity converts a rectangular velocity at r into the rates of
// longitude, latitude and radius. On the polar axis the longitude rate is zero.
func (r RectangularCoordinates) SphericalVelocity(v Velocity) (SphericalVelocity, error) {
	if !r.finite() || !v.finite() {
		return nanSphericalVelocity(), fmt.Errorf("rectangular to spherical velocity: %w", ErrInvalidInput)
	}
	rho2 := r.X*r.X + r.Y*r.Y
	r2 := rho2 + r.Z*r.Z
	if r2 == 0 {
		return SphericalVelocity{DRadius: math.Sqrt(v.DX*v.DX + v.DY*v.DY + v.DZ*v.DZ)}, nil
	}
	rho := math.Sqrt(rho2)
	radial := r.X*v.DX + r.Y*v.DY
	sv := SphericalVelocity{DRadius: (radial + r.Z*v.DZ) / math.Sqrt(r2)}
	if rho2 > 0 {
		sv.DLongitude = (r.X*v.DY - r.Y*v.DX) / rho2
		sv.DLatitude = (v.DZ*rho2 - r.Z*radial) / (r2 * rho)
	} else {
		sv.DLatitude = -math.Hypot(v.DX, v.DY) / r.Z
	}
	return sv, nil
}

// Rectangular converts spherical coordinates to rectangular ones.
//
// Returns an error wrapping ErrInvalidInput, and NaN coordinates, if any
// component is not finite.
func (s SphericalCoordinates) Rectangular() (RectangularCoordinates, error) {
	if !s.finite() {
		return nanRectangular(), fmt.Errorf("spherical to rectangular: %w", ErrInvalidInput)
	}
	sinL, cosL := math.Sincos(s.Longitude)
	sinB, cosB := math.Sincos(s.Latitude)
	return RectangularCoordinates{
		X: s.Radius * cosB * cosL,
		Y: s.Radius * cosB * sinL,
		Z: s.Radius * sinB,
	}, nil
}

// Velocity converts the rates of longitude, latitude and radius at s into a
// rectangular velocity.
func (s SphericalCoordinates) Velocity(sv SphericalVelocity) (Velocity, error) {
	if !s.finite() || !sv.finite() {
		return nanVelocity(), fmt.Errorf("spherical to rectangular velocity: %w", ErrInvalidInput)
	}
	sinL, cosL := math.Sincos(s.Longitude)
	sinB, cosB := math.Sincos(s.Latitude)
	r := s.Radius
	return Velocity{
		DX: sv.DRadius*cosB*cosL - r*sinB*cosL*sv.DLatitude - r*cosB*sinL*sv.DLongitude,
		DY: sv.DRadius*cosB*sinL - r*sinB*sinL*sv.DLatitude + r*cosB*cosL*sv.DLongitude,
		DZ: sv.DRadius*sinB + r*cosB*sv.DLatitude,
	}, nil
}

// State returns the rectangular position and velocity described by the elements.
// Spherical versions are converted and the elliptic version goes through its
// Keplerian elements. For version E the origin stays at the solar system
// barycenter; use Theory.Heliocentric to move it to the Sun.
func (e Elements) State() (RectangularCoordinates, Velocity, error) {
	if !e.finite() {
		return nanRectangular(), nanVelocity(), fmt.Errorf("%s %s state: %w", e.Body, e.Variant, ErrInvalidInput)
	}
	switch {
	case e.Variant.Rectangular():
		return RectangularCoordinates{X: e.Values[0], Y: e.Values[1], Z: e.Values[2]},
			Velocity{DX: e.Values[3], DY: e.Values[4], DZ: e.Values[5]}, nil
	case e.Variant.Spherical():
		s := SphericalCoordinates{Longitude: e.Values[0], Latitude: e.Values[1], Radius: e.Values[2]}
		pos, err := s.Rectangular()
		if err != nil {
			return nanRectangular(), nanVelocity(), err
		}
		vel, err := s.Velocity(SphericalVelocity{DLongitude: e.Values[3], DLatitude: e.Values[4], DRadius: e.Values[5]})
		if err != nil {
			return nanRectangular(), nanVelocity(), err
		}
		return pos, vel, nil
	case e.Variant == VariantElliptic:
		kep, err := e.Keplerian()
		if err != nil {
			return nanRectangular(), nanVelocity(), err
		}
		return kep.State()
	}
	return nanRectangular(), nanVelocity(), fmt.Errorf("%w: %d", ErrInvalidVariant, int(e.Variant))
}

// Rectangular returns the rectangular position described by the elements.
func (e Elements) Rectangular() (RectangularCoordinates, error) {
	pos, _, err := e.State()
	return pos, err
}

// Velocity returns the rectangular velocity described by the elements.
func (e Elements) Velocity() (Velocity, error) {
	_, vel, err := e.State()
	return vel, err
}

// Spherical returns the spherical position described by the elements.
func (e Elements) Spherical() (SphericalCoordinates, error) {
	if e.Variant.Spherical() {
		if !e.finite() {
			return nanSpherical(), fmt.Errorf("%s %s spherical: %w", e.Body, e.Variant, ErrInvalidInput)
		}
		return SphericalCoordinates{Longitude: e.Values[0], Latitude: e.Values[1], Radius: e.Values[2]}, nil
	}
	pos, err := e.Rectangular()
	if err != nil {
		return nanSpherical(), err
	}
	return pos.Spherical()
}

// SphericalVelocity returns the rates of longitude, latitude and radius.
func (e Elements) SphericalVelocity() (SphericalVelocity, error) {
	if e.Variant.Spherical() {
		if !e.finite() {
			return nanSphericalVelocity(), fmt.Errorf("%s %s spherical velocity: %w", e.Body, e.Variant, ErrInvalidInput)
		}
		return SphericalVelocity{DLongitude: e.Values[3], DLatitude: e.Values[4], DRadius: e.Values[5]}, nil
	}
	pos, vel, err := e.State()
	if err != nil {
		return nanSphericalVelocity(), err
	}
	return pos.SphericalVelocity(vel)
}

func (r RectangularCoordinates) finite() bool {
	return isFinite(r.X) && isFinite(r.Y) && isFinite(r.Z)
}

func (v Velocity) finite() bool {
	return isFinite(v.DX) && isFinite(v.DY) && isFinite(v.DZ)
}

func (s SphericalCoordinates) finite() bool {
	return isFinite(s.Longitude) && isFinite(s.Latitude) && isFinite(s.Radius)
}

func (sv SphericalVelocity) finite() bool {
	return isFinite(sv.DLongitude) && isFinite(sv.DLatitude) && isFinite(sv.DRadius)
}

func nanRectangular() RectangularCoordinates {
	nan := math.NaN()
	return RectangularCoordinates{X: nan, Y: nan, Z: nan}
}

func nanVelocity() Velocity {
	nan := math.NaN()
	return Velocity{DX: nan, DY: nan, DZ: nan}
}

func nanSpherical() SphericalCoordinates {
	nan := math.NaN()
	return SphericalCoordinates{Longitude: nan, Latitude: nan, Radius: nan}
}

func nanSphericalVelocity() SphericalVelocity {
	nan := math.NaN()
	return SphericalVelocity{DLongitude: nan, DLatitude: nan, DRadius: nan}
}
