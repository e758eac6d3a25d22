// ./frames.go
package vsop87

import "fmt"

// fk5Rotation takes rectangular coordinates referred to the dynamical ecliptic
// and equinox J2000 (versions A and E) to the equator and equinox J2000 of FK5.
var fk5Rotation = [3][3]float64{
	{1, 0.000000440360, -0.000000190919},
	{-0.000000479966, 0.917482137087, -0.397776982902},
	{0, 0.397776982902, 0.917482137087},
}

// EquatorialFK5 rotates a J2000 ecliptic position to the FK5 equatorial frame.
// Only meaningful for versions A and E.
func (r RectangularCoordinates) EquatorialFK5() RectangularCoordinates {
	x, y, z := rotate(fk5Rotation, false, r.X, r.Y, r.Z)
	return RectangularCoordinates{X: x, Y: y, Z: z}
}

// EclipticJ2000 undoes EquatorialFK5.
func (r RectangularCoordinates) EclipticJ2000() RectangularCoordinates {
	x, y, z := rotate(fk5Rotation, true, r.X, r.Y, r.Z)
	return RectangularCoordinates{X: x, Y: y, Z: z}
}

// EquatorialFK5 rotates a J2000 ecliptic velocity to the FK5 equatorial frame.
func (v Velocity) EquatorialFK5() Velocity {
	x, y, z := rotate(fk5Rotation, false, v.DX, v.DY, v.DZ)
	return Velocity{DX: x, DY: y, DZ: z}
}

// EquatorialFK5 returns the position and velocity of a version A or E solution in
// the FK5 equatorial frame.
func (e Elements) EquatorialFK5() (RectangularCoordinates, Velocity, error) {
	if e.Variant != VariantA && e.Variant != VariantE {
		return nanRectangular(), nanVelocity(), fmt.Errorf("%s is not referred to the J2000 ecliptic: %w", e.Variant, ErrInvalidVariant)
	}
	pos, vel, err := e.State()
	if err != nil {
		return pos, vel, err
	}
	return pos.EquatorialFK5(), vel.EquatorialFK5(), nil
}

// rotate applies m, or its transpose, to (x, y, z).
func rotate(m [3][3]float64, transpose bool, x, y, z float64) (float64, float64, float64) {
	if transpose {
		return m[0][0]*x + m[1][0]*y + m[2][0]*z,
			m[0][1]*x + m[1][1]*y + m[2][1]*z,
			m[0][2]*x + m[1][2]*y + m[2][2]*z
	}
	return m[0][0]*x + m[0][1]*y + m[0][2]*z,
		m[1][0]*x + m[1][1]*y + m[1][2]*z,
		m[2][0]*x + m[2][1]*y + m[2][2]*z
}
