// ./api.go

/*
Package vsop87 computes positions of the major planets with the VSOP87 planetary theory.

VSOP87 (Variations Séculaires des Orbites Planétaires, Bretagnon & Francou 1988)
expresses the motion of the planets as trigonometric series in time. This package
evaluates those series for Mercury, Venus, the Earth, the Earth-Moon barycenter,
Mars, Jupiter, Saturn, Uranus, Neptune and (barycentric version only) the Sun.

Key Features:
  - All published versions: the main version (elliptic elements) and A, B, C, D, E.
  - Positions and analytic velocities, rectangular and spherical coordinates.
  - Osculating Keplerian elements and the inverse two-body conversion.
  - Term tables read from the IMCCE distribution files or from a compact binary pack.
  - A vectorized series evaluator selected at run time, with a scalar fallback.

Usage:
The abridged Earth tables of VSOP87D are embedded, so the following works without
any data files. Set VSOP87_DATA to a directory holding the IMCCE files
(VSOP87.mer ... VSOP87E.sun) to enable every body and version.

 1. Solve with the package-level default theory:
    ```go
    el, err := vsop87.Solve(vsop87.Earth, vsop87.VariantD, 2451545.0)
    if err != nil {
        log.Fatal(err)
    }
    sph, _ := el.Spherical()
    fmt.Printf("L=%.6f B=%.6f R=%.6f\n", sph.Longitude, sph.Latitude, sph.Radius)
    ```

 2. Load the full tables and build a theory:
    ```go
    store, err := vsop87.LoadFS(os.DirFS("/data/vsop87"))
    if err != nil {
        log.Fatal(err)
    }
    th := vsop87.NewTheory(store)
    pos, vel, err := th.Rectangular(vsop87.Jupiter, vsop87.VariantA, 2451545.0)
    ```

 3. Derive osculating elements:
    ```go
    kep, err := th.Keplerian(vsop87.Jupiter, vsop87.VariantA, 2451545.0)
    if err != nil {
        log.Fatal(err)
    }
    fmt.Printf("a=%.6f AU e=%.6f\n", kep.SemiMajorAxis, kep.Eccentricity)
    ```

Numerical conventions:
Non-finite inputs never produce partial results. Every output field is NaN and the
returned error wraps ErrInvalidInput. Angles that are ill defined for circular or
equatorial orbits follow the conventions documented on KeplerianElements.

License:
This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

// Package vsop87 computes positions of the major planets with the VSOP87 planetary theory.
package vsop87

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// ErrInvalidInput is returned when a time or coordinate value is not finite.
// Results returned alongside it are NaN in every field.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotInTheory is returned when VSOP87 does not publish the requested body in the requested version.
var ErrNotInTheory = errors.New("body not available in this version of VSOP87")

// ErrSeriesNotLoaded is returned when the theory covers the body but its tables were not loaded.
var ErrSeriesNotLoaded = errors.New("series not loaded")

// ErrInvalidBody is returned for an unknown body.
var ErrInvalidBody = errors.New("invalid body")

// ErrInvalidVariant is returned for an unknown version of the theory.
var ErrInvalidVariant = errors.New("invalid variant")

// ErrMalformedTable is returned when a term table file cannot be parsed.
var ErrMalformedTable = errors.New("malformed term table")

// ErrUnsupportedPack is returned when a binary pack has an unknown magic or format version.
var ErrUnsupportedPack = errors.New("unsupported pack format")

// Body represents the bodies covered by VSOP87.
type Body int

const (
	// Mercury represents the planet Mercury.
	Mercury Body = 1
	// Venus represents the planet Venus.
	Venus Body = 2
	// Earth represents the planet Earth (versions A to E).
	Earth Body = 3
	// Mars represents the planet Mars.
	Mars Body = 4
	// Jupiter represents the planet Jupiter.
	Jupiter Body = 5
	// Saturn represents the planet Saturn.
	Saturn Body = 6
	// Uranus represents the planet Uranus.
	Uranus Body = 7
	// Neptune represents the planet Neptune.
	Neptune Body = 8
	// EarthMoon represents the Earth-Moon barycenter (main version and version A).
	EarthMoon Body = 9
	// Sun represents the Sun (version E only).
	Sun Body = 10
)

// Bodies lists every body in the order used by the IMCCE distribution.
var Bodies = []Body{Mercury, Venus, Earth, EarthMoon, Mars, Jupiter, Saturn, Uranus, Neptune, Sun}

var bodyInfo = map[Body]struct {
	name        string  // display name
	ext         string  // IMCCE file extension
	imcce       string  // name in IMCCE block headers
	inverseMass float64 // mass of the Sun / mass of the body, zero for the Sun
}{
	Mercury:   {"Mercury", "mer", "MERCURY", InverseMassMercury},
	Venus:     {"Venus", "ven", "VENUS", InverseMassVenus},
	Earth:     {"Earth", "ear", "EARTH", InverseMassEarth},
	EarthMoon: {"Earth-Moon barycenter", "emb", "EMB", InverseMassEarthMoon},
	Mars:      {"Mars", "mar", "MARS", InverseMassMars},
	Jupiter:   {"Jupiter", "jup", "JUPITER", InverseMassJupiter},
	Saturn:    {"Saturn", "sat", "SATURN", InverseMassSaturn},
	Uranus:    {"Uranus", "ura", "URANUS", InverseMassUranus},
	Neptune:   {"Neptune", "nep", "NEPTUNE", InverseMassNeptune},
	Sun:       {"Sun", "sun", "SUN", 0},
}

// String returns the display name of the body.
func (b Body) String() string {
	if info, ok := bodyInfo[b]; ok {
		return info.name
	}
	return fmt.Sprintf("Body(%d)", int(b))
}

// Valid reports whether b is a known body.
func (b Body) Valid() bool {
	_, ok := bodyInfo[b]
	return ok
}

// Extension returns the IMCCE file extension of the body (e.g. "jup").
func (b Body) Extension() string {
	return bodyInfo[b].ext
}

// MassRatio returns mass(body)/mass(Sun). It is zero for the Sun.
func (b Body) MassRatio() float64 {
	inv := bodyInfo[b].inverseMass
	if inv == 0 {
		return 0
	}
	return 1 / inv
}

// GM returns the heliocentric gravitational parameter k²(1 + m) in AU³/day²,
// used for two-body conversions of the body's orbit.
func (b Body) GM() float64 {
	return SunGM * (1 + b.MassRatio())
}

// Variant represents a version of the VSOP87 theory.
type Variant int

const (
	// VariantElliptic is the main version: heliocentric elliptic elements a, λ, k, h, q, p,
	// referred to the dynamical ecliptic and equinox J2000.0.
	VariantElliptic Variant = 0
	// VariantA gives heliocentric rectangular coordinates, ecliptic and equinox J2000.0.
	VariantA Variant = 1
	// VariantB gives heliocentric spherical coordinates, ecliptic and equinox J2000.0.
	VariantB Variant = 2
	// VariantC gives heliocentric rectangular coordinates, ecliptic and equinox of date.
	VariantC Variant = 3
	// VariantD gives heliocentric spherical coordinates, ecliptic and equinox of date.
	VariantD Variant = 4
	// VariantE gives barycentric rectangular coordinates, ecliptic and equinox J2000.0.
	VariantE Variant = 5
)

// Variants lists every version of the theory.
var Variants = []Variant{VariantElliptic, VariantA, VariantB, VariantC, VariantD, VariantE}

// String returns the IMCCE name of the version, e.g. "VSOP87" or "VSOP87D".
func (v Variant) String() string {
	switch v {
	case VariantElliptic:
		return "VSOP87"
	case VariantA, VariantB, VariantC, VariantD, VariantE:
		return "VSOP87" + string(rune('A'+int(v)-1))
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// Valid reports whether v is a known version.
func (v Variant) Valid() bool {
	return v >= VariantElliptic && v <= VariantE
}

// Variables returns the number of canonical variables of the version: 6 for the
// elliptic elements and 3 for coordinates.
func (v Variant) Variables() int {
	if v == VariantElliptic {
		return 6
	}
	return 3
}

// Spherical reports whether the version yields spherical coordinates (B, D).
func (v Variant) Spherical() bool {
	return v == VariantB || v == VariantD
}

// Rectangular reports whether the version yields rectangular coordinates (A, C, E).
func (v Variant) Rectangular() bool {
	return v == VariantA || v == VariantC || v == VariantE
}

// OfDate reports whether the version refers to the ecliptic and equinox of date (C, D).
func (v Variant) OfDate() bool {
	return v == VariantC || v == VariantD
}

// Barycentric reports whether the version is referred to the solar system barycenter (E).
func (v Variant) Barycentric() bool {
	return v == VariantE
}

// Available reports whether VSOP87 publishes body in version v.
func Available(body Body, v Variant) bool {
	switch body {
	case Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune:
		return v.Valid()
	case Earth:
		return v >= VariantA && v <= VariantE
	case EarthMoon:
		return v == VariantElliptic || v == VariantA
	case Sun:
		return v == VariantE
	}
	return false
}

// ParseBody returns the body named by s. Names are matched without regard to
// case; IMCCE file extensions ("jup") and "emb" are accepted too.
func ParseBody(s string) (Body, error) {
	fold := cases.Fold()
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(fold.String(strings.TrimSpace(s)))
	for _, b := range Bodies {
		info := bodyInfo[b]
		if key == info.ext || key == fold.String(info.imcce) || key == fold.String(strings.ReplaceAll(info.name, " ", "")) {
			return b, nil
		}
	}
	switch key {
	case "earthmoon", "earthmoonbarycenter":
		return EarthMoon, nil
	}
	return 0, fmt.Errorf("parse body %q: %w", s, ErrInvalidBody)
}

// ParseVariant returns the version named by s: "VSOP87", "elliptic", "A".."E" or "VSOP87A".."VSOP87E".
func ParseVariant(s string) (Variant, error) {
	key := strings.TrimPrefix(cases.Fold().String(strings.TrimSpace(s)), "vsop87")
	switch key {
	case "", "elliptic", "0":
		return VariantElliptic, nil
	case "a", "b", "c", "d", "e":
		return Variant(key[0]-'a') + VariantA, nil
	}
	return 0, fmt.Errorf("parse variant %q: %w", s, ErrInvalidVariant)
}

// RectangularCoordinates represents a position in Astronomical Units (AU) in an
// ecliptic frame (J2000.0 or equinox of date, depending on the version).
type RectangularCoordinates struct {
	X float64 // X component in AU, towards the equinox
	Y float64 // Y component in AU
	Z float64 // Z component in AU, towards the north ecliptic pole
}

// Velocity represents a velocity vector in Astronomical Units per day (AU/day).
type Velocity struct {
	DX float64 // DX component in AU/day
	DY float64 // DY component in AU/day
	DZ float64 // DZ component in AU/day
}

// SphericalCoordinates represents ecliptic longitude and latitude in radians and
// radius vector in AU.
type SphericalCoordinates struct {
	Longitude float64 // Longitude in radians, in [0, 2π) when produced by this package
	Latitude  float64 // Latitude in radians, in [-π/2, π/2]
	Radius    float64 // Radius in AU
}

// SphericalVelocity represents the time derivatives of SphericalCoordinates.
type SphericalVelocity struct {
	DLongitude float64 // DLongitude in radians/day
	DLatitude  float64 // DLatitude in radians/day
	DRadius    float64 // DRadius in AU/day
}

// Theory evaluates VSOP87 from a term table store.
// A Theory is immutable and safe for concurrent use.
type Theory struct {
	store *Store    // store holds the loaded term tables
	eval  Evaluator // eval sums the series
}

// TheoryOption configures a Theory.
type TheoryOption func(*Theory)

// WithEvaluator forces the series evaluator used by the theory.
func WithEvaluator(e Evaluator) TheoryOption {
	return func(th *Theory) {
		if e != nil {
			th.eval = e
		}
	}
}

// WithScalarEvaluator forces the scalar evaluator, regardless of CPU capabilities.
func WithScalarEvaluator() TheoryOption {
	return WithEvaluator(ScalarEvaluator)
}

// NewTheory creates a Theory over store. By default the evaluator is chosen by the
// capability probe (see DefaultEvaluator).
func NewTheory(store *Store, opts ...TheoryOption) *Theory {
	th := &Theory{store: store, eval: DefaultEvaluator()}
	for _, opt := range opts {
		opt(th)
	}
	return th
}

// Store returns the term tables used by the theory.
func (th *Theory) Store() *Store {
	return th.store
}

// Evaluator returns the series evaluator used by the theory.
func (th *Theory) Evaluator() Evaluator {
	return th.eval
}

// Solve computes the six VSOP87 variables of body in version v at the Julian Date jd (TDB).
//
// Parameters:
//   - body: Body to compute. Use Body constants (e.g., vsop87.Mars).
//   - v: Version of the theory. Use Variant constants (e.g., vsop87.VariantD).
//   - jd: Julian Date in the TDB time scale.
//
// Returns:
//   - Elements: The variables and their rates, tagged with body, version and epoch.
//   - error: nil on success. The error can be checked with errors.Is for
//     ErrInvalidBody, ErrInvalidVariant, ErrNotInTheory, ErrSeriesNotLoaded or ErrInvalidInput.
//     With ErrInvalidInput the returned Elements is NaN in every field.
func (th *Theory) Solve(body Body, v Variant, jd float64) (Elements, error) {
	return solve(th.store, th.eval, body, v, jd)
}

// Rectangular returns the rectangular position and velocity of body in version v.
// Spherical and elliptic versions are converted.
func (th *Theory) Rectangular(body Body, v Variant, jd float64) (RectangularCoordinates, Velocity, error) {
	el, err := th.Solve(body, v, jd)
	if err != nil {
		return nanRectangular(), nanVelocity(), err
	}
	return el.State()
}

// Spherical returns the spherical position of body in version v.
// Rectangular and elliptic versions are converted.
func (th *Theory) Spherical(body Body, v Variant, jd float64) (SphericalCoordinates, error) {
	el, err := th.Solve(body, v, jd)
	if err != nil {
		return nanSpherical(), err
	}
	return el.Spherical()
}

// Keplerian returns the osculating Keplerian elements of body in version v.
// For the main version the elements are derived directly from a, λ, k, h, q, p.
func (th *Theory) Keplerian(body Body, v Variant, jd float64) (KeplerianElements, error) {
	el, err := th.Solve(body, v, jd)
	if err != nil {
		return nanKeplerian(), err
	}
	return el.Keplerian()
}

// Heliocentric computes the heliocentric state of body from the barycentric version E
// by subtracting the barycentric state of the Sun. The result is tagged VariantA,
// whose frame (ecliptic and equinox J2000.0) it shares.
func (th *Theory) Heliocentric(body Body, jd float64) (Elements, error) {
	return heliocentric(th.store, th.eval, body, jd)
}

// Mercury computes Mercury in version v.
func (th *Theory) Mercury(v Variant, jd float64) (Elements, error) { return th.Solve(Mercury, v, jd) }

// Venus computes Venus in version v.
func (th *Theory) Venus(v Variant, jd float64) (Elements, error) { return th.Solve(Venus, v, jd) }

// Earth computes the Earth in version v (A to E).
func (th *Theory) Earth(v Variant, jd float64) (Elements, error) { return th.Solve(Earth, v, jd) }

// EarthMoon computes the Earth-Moon barycenter in version v (main version or A).
func (th *Theory) EarthMoon(v Variant, jd float64) (Elements, error) {
	return th.Solve(EarthMoon, v, jd)
}

// Mars computes Mars in version v.
func (th *Theory) Mars(v Variant, jd float64) (Elements, error) { return th.Solve(Mars, v, jd) }

// Jupiter computes Jupiter in version v.
func (th *Theory) Jupiter(v Variant, jd float64) (Elements, error) { return th.Solve(Jupiter, v, jd) }

// Saturn computes Saturn in version v.
func (th *Theory) Saturn(v Variant, jd float64) (Elements, error) { return th.Solve(Saturn, v, jd) }

// Uranus computes Uranus in version v.
func (th *Theory) Uranus(v Variant, jd float64) (Elements, error) { return th.Solve(Uranus, v, jd) }

// Neptune computes Neptune in version v.
func (th *Theory) Neptune(v Variant, jd float64) (Elements, error) { return th.Solve(Neptune, v, jd) }

// Sun computes the barycentric Sun (version E only).
func (th *Theory) Sun(v Variant, jd float64) (Elements, error) { return th.Solve(Sun, v, jd) }

// Solve computes body in version v with the default theory (see Default).
func Solve(body Body, v Variant, jd float64) (Elements, error) {
	th, err := Default()
	if err != nil {
		return nanElements(body, v, jd), err
	}
	return th.Solve(body, v, jd)
}

// Rectangular returns the rectangular position and velocity of body in version v
// with the default theory.
func Rectangular(body Body, v Variant, jd float64) (RectangularCoordinates, Velocity, error) {
	th, err := Default()
	if err != nil {
		return nanRectangular(), nanVelocity(), err
	}
	return th.Rectangular(body, v, jd)
}

// Spherical returns the spherical position of body in version v with the default theory.
func Spherical(body Body, v Variant, jd float64) (SphericalCoordinates, error) {
	th, err := Default()
	if err != nil {
		return nanSpherical(), err
	}
	return th.Spherical(body, v, jd)
}

// Keplerian returns the osculating elements of body in version v with the default theory.
func Keplerian(body Body, v Variant, jd float64) (KeplerianElements, error) {
	th, err := Default()
	if err != nil {
		return nanKeplerian(), err
	}
	return th.Keplerian(body, v, jd)
}

// Heliocentric computes the heliocentric state of body from version E with the default theory.
func Heliocentric(body Body, jd float64) (Elements, error) {
	th, err := Default()
	if err != nil {
		return nanElements(body, VariantA, jd), err
	}
	return th.Heliocentric(body, jd)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
