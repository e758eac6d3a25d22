// ./time.go
package vsop87

import "time"

const (
	unixEpochJD   = 2440587.5 // Julian Date of 1970-01-01T00:00:00Z
	secondsPerDay = 86400
)

// CalculateT converts a Julian Date (TDB) to the time variable of the theory:
// Julian millennia elapsed since J2000.0. CalculateT(J2000) is exactly zero.
func CalculateT(jd float64) float64 {
	return (jd - J2000) / DaysPerMillennium
}

// JulianDay returns the Julian Date of tm. The instant is read on its UTC
// clock; no ΔT or TDB correction is applied.
//
// Like time.Time, the date is on the proleptic Gregorian calendar for every
// year, with astronomical year numbering (year 0 is 1 BC). Dates written in the
// Julian calendar, as historical dates before 1582 usually are, must be converted
// to Gregorian first.
func JulianDay(tm time.Time) float64 {
	sec := tm.Unix()
	days := sec / secondsPerDay
	rem := sec % secondsPerDay
	if rem < 0 {
		days--
		rem += secondsPerDay
	}
	dayFraction := (float64(rem) + float64(tm.Nanosecond())/1e9) / secondsPerDay
	return unixEpochJD + float64(days) + dayFraction
}

// Epoch is the reduced form of an instant.
type Epoch struct {
	JD         float64 // JD is the Julian Date (TDB).
	T          float64 // T is the time in Julian millennia from J2000.0.
	Precession float64 // Precession is the general precession in longitude since J2000.0, in radians; zero for J2000.0 versions.
}

// ReduceTime reduces jd for version v. For the equinox of date versions (C, D) the
// accumulated general precession in longitude is also computed.
func ReduceTime(jd float64, v Variant) Epoch {
	ep := Epoch{JD: jd, T: CalculateT(jd)}
	if v.OfDate() {
		ep.Precession = GeneralPrecession(ep.T)
	}
	return ep
}

// GeneralPrecession returns the general precession in longitude p_A accumulated
// between J2000.0 and t (Julian millennia), in radians.
func GeneralPrecession(t float64) float64 {
	c := t * 10 // centuries
	return (precP1*c + precP2*c*c + precP3*c*c*c) * arcsecToRad
}
