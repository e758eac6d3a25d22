// ./constants.go
package vsop87

/*
Package vsop87 provides constants for the VSOP87 planetary theory.

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

import "math"

// Constants for the vsop87 package.
//
// Time scale and physical constants are those adopted by Bretagnon & Francou
// (1988), "Planetary theories in rectangular and spherical variables.
// VSOP 87 solutions", A&A 202, 309.

const (
	J2000             = 2451545.0 // J2000 is the Julian Date of the epoch J2000.0 (TDB).
	DaysPerMillennium = 365250.0  // DaysPerMillennium is the length of the theory's time unit in days.
	DaysPerCentury    = 36525.0   // DaysPerCentury is the length of a Julian century in days.

	// GaussianGravitationalConstant is k, in AU^(3/2) / day / solar mass^(1/2).
	GaussianGravitationalConstant = 0.01720209895

	// SunGM is GM of the Sun, k², in AU³/day².
	SunGM = GaussianGravitationalConstant * GaussianGravitationalConstant
)

// Inverse planetary masses (mass of the Sun / mass of the body) used by VSOP87.
const (
	InverseMassMercury   = 6023600.0
	InverseMassVenus     = 408523.5
	InverseMassEarthMoon = 328900.5
	InverseMassEarth     = 332946.0
	InverseMassMars      = 3098710.0
	InverseMassJupiter   = 1047.355
	InverseMassSaturn    = 3498.5
	InverseMassUranus    = 22869.0
	InverseMassNeptune   = 19314.0
)

// Precession constants (Lieske et al. 1977, as tabulated by Meeus, Astronomical
// Algorithms, eq. 21.5). Values are in arcseconds; T is in Julian centuries
// from J2000.0 and t in Julian centuries from the starting epoch.
const (
	precEta1   = 47.0029     // η: coefficient of t
	precEta1T  = -0.06603    // η: coefficient of T·t
	precEta1TT = 0.000598    // η: coefficient of T²·t and T·t²
	precEta2   = -0.03302    // η: coefficient of t²
	precEta3   = 0.000060    // η: coefficient of t³
	precPi0    = 629554.9824 // Π: 174.876384° in arcseconds
	precPiT    = 3289.4789   // Π: coefficient of T
	precPiTT   = 0.60622     // Π: coefficient of T²
	precPi1    = -869.8089   // Π: coefficient of t
	precPi1T   = -0.50491    // Π: coefficient of T·t
	precPi2    = 0.03536     // Π: coefficient of t²
	precP1     = 5029.0966   // p: coefficient of t
	precP1T    = 2.22226     // p: coefficient of T·t
	precP1TT   = -0.000042   // p: coefficient of T²·t and T·t²
	precP2     = 1.11113     // p: coefficient of t²
	precP3     = -0.000006   // p: coefficient of t³
)

const (
	twoPi         = 2 * math.Pi
	arcsecToRad   = math.Pi / (180 * 3600)
	degenerateTol = 1e-11 // degenerateTol bounds e and sin(i) below which angle conventions apply.
)

// Environment variables consulted by the package.
const (
	EnvDataDir = "VSOP87_DATA"    // EnvDataDir names a directory of IMCCE files for the default theory.
	EnvNoSimd  = "VSOP87_NO_SIMD" // EnvNoSimd forces the scalar evaluator when set to a true value.
)
