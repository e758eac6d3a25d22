// ./precession.go
package vsop87

import (
	"fmt"
	"math"
)

// Precess transforms ecliptic spherical coordinates referred to the ecliptic and
// equinox of fromJD into those of toJD. The radius is unchanged.
//
// The rotation uses the Lieske (1977) angles η, Π and p in the form given by
// Meeus (Astronomical Algorithms, eqs. 21.5 and 21.7).
func Precess(s SphericalCoordinates, fromJD, toJD float64) (SphericalCoordinates, error) {
	if !isFinite(s.Longitude) || !isFinite(s.Latitude) || !isFinite(s.Radius) || !isFinite(fromJD) || !isFinite(toJD) {
		return nanSpherical(), fmt.Errorf("precess: %w", ErrInvalidInput)
	}
	T := (fromJD - J2000) / DaysPerCentury
	t := (toJD - fromJD) / DaysPerCentury
	eta, bigPi, p := precessionAngles(T, t)

	sinEta, cosEta := math.Sincos(eta)
	sinB, cosB := math.Sincos(s.Latitude)
	sinD, cosD := math.Sincos(bigPi - s.Longitude)

	a := cosEta*cosB*sinD - sinEta*sinB
	b := cosB * cosD
	c := cosEta*sinB + sinEta*cosB*sinD

	return SphericalCoordinates{
		Longitude: normalizeAngle(p + bigPi - math.Atan2(a, b)),
		Latitude:  math.Asin(math.Max(-1, math.Min(1, c))),
		Radius:    s.Radius,
	}, nil
}

// PrecessToDate refers coordinates given for J2000.0 to the ecliptic and equinox of jd.
func PrecessToDate(s SphericalCoordinates, jd float64) (SphericalCoordinates, error) {
	return Precess(s, J2000, jd)
}

// PrecessToJ2000 refers coordinates given for the ecliptic and equinox of jd to J2000.0.
func PrecessToJ2000(s SphericalCoordinates, jd float64) (SphericalCoordinates, error) {
	return Precess(s, jd, J2000)
}

// precessionAngles returns η, Π and p in radians for a starting epoch T and an
// interval t, both in Julian centuries.
func precessionAngles(T, t float64) (eta, bigPi, p float64) {
	t2, t3 := t*t, t*t*t
	eta = (precEta1+precEta1T*T+precEta1TT*T*T)*t + (precEta2+precEta1TT*T)*t2 + precEta3*t3
	bigPi = precPi0 + precPiT*T + precPiTT*T*T + (precPi1+precPi1T*T)*t + precPi2*t2
	p = (precP1+precP1T*T+precP1TT*T*T)*t + (precP2+precP1TT*T)*t2 + precP3*t3
	return eta * arcsecToRad, bigPi * arcsecToRad, p * arcsecToRad
}
