// ./internal_types.go
package vsop87

/*
Package vsop87 provides internal definitions for the VSOP87 term tables.

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

import "slices"

// Internal definitions for the term table store.
//
// This file contains the data structures shared by the parsers, the
// evaluators and the variable assembler. Only Term and Series are exported.

// File structure notes (IMCCE distribution, ftp://ftp.imcce.fr/pub/ephem/planets/vsop87):
//
// Each file holds one body for one version of the theory. File names are
// VSOP87<V>.<ext>, where <V> is empty for the main (elliptic) version and one of
// A..E otherwise, and <ext> is one of mer ven ear emb mar jup sat ura nep sun.
//
// The file is a sequence of blocks, one per (variable, power of t). Each block
// starts with a header line followed by the announced number of term lines.
//
// Header line (0-based columns):
//
// Column 17:      version digit (0 = VSOP87, 1 = A, 2 = B, 3 = C, 4 = D, 5 = E)
// Columns 22-28:  body name, blank padded ("MERCURY", "EARTH  ", "EMB    ", ...)
// Column 41:      variable index, 1-based (1..6 for VSOP87, 1..3 otherwise)
// Column 59:      power of t (0..5)
// Columns 60-66:  number of term lines that follow
//
// Term line, Fortran format (1x,4i1,i5,12i3,f15.11,2f18.11,f14.11,f20.11):
//
// Columns 1-4:     version, body, variable and power digits
// Columns 5-9:     term rank
// Columns 10-45:   twelve integer multipliers of the planetary mean longitudes
// Columns 46-60:   S = -A sin B
// Columns 61-78:   K = A cos B
// Columns 79-96:   A, amplitude (AU or radians)
// Columns 97-110:  B, phase (radians)
// Columns 111-130: C, frequency (radians per Julian millennium)
//
// Only A, B and C are retained. The multipliers, S and K are redundant for
// evaluation.
//
// Binary pack notes: see pack.go.

// maxPower is the highest power of t used by any VSOP87 series.
const maxPower = 5

// maxVariables is the number of canonical variables per body.
const maxVariables = 6

// Term is one periodic component A·cos(B + C·t) of a VSOP87 series.
type Term struct {
	Amplitude float64 // Amplitude is A, in AU or radians depending on the variable.
	Phase     float64 // Phase is B, in radians.
	Frequency float64 // Frequency is C, in radians per Julian millennium.
}

// Series is an ordered, read-only sequence of terms for one
// (body, variant, variable, power) slot.
//
// The terms are kept as three parallel slices so evaluators can load
// consecutive amplitudes, phases and frequencies into vector lanes.
type Series struct {
	a []float64 // a holds the amplitudes.
	b []float64 // b holds the phases.
	c []float64 // c holds the frequencies.
}

// NewSeries builds a Series from a list of terms. The terms are copied.
func NewSeries(terms []Term) Series {
	s := Series{
		a: make([]float64, len(terms)),
		b: make([]float64, len(terms)),
		c: make([]float64, len(terms)),
	}
	for i, term := range terms {
		s.a[i] = term.Amplitude
		s.b[i] = term.Phase
		s.c[i] = term.Frequency
	}
	return s
}

// Len returns the number of terms in the series.
func (s Series) Len() int {
	return len(s.a)
}

// Term returns the i-th term.
func (s Series) Term(i int) Term {
	return Term{Amplitude: s.a[i], Phase: s.b[i], Frequency: s.c[i]}
}

// Terms returns a copy of the terms in stored order.
func (s Series) Terms() []Term {
	terms := make([]Term, s.Len())
	for i := range terms {
		terms[i] = s.Term(i)
	}
	return terms
}

// Columns returns copies of the amplitudes, phases and frequencies, in the form
// taken by CalculateVar and its variants.
func (s Series) Columns() (a, b, c []float64) {
	return slices.Clone(s.a), slices.Clone(s.b), slices.Clone(s.c)
}

// Sum evaluates the series at t with CalculateVar.
func (s Series) Sum(t float64) float64 {
	return CalculateVar(t, s.a, s.b, s.c)
}

// Rate evaluates the derivative of the series at t with CalculateRate.
func (s Series) Rate(t float64) float64 {
	return CalculateRate(t, s.a, s.b, s.c)
}

// AmplitudeSum returns Σ|A|, the bound used when comparing evaluation paths.
func (s Series) AmplitudeSum() float64 {
	var sum float64
	for _, a := range s.a {
		if a < 0 {
			sum -= a
		} else {
			sum += a
		}
	}
	return sum
}

// tableKey identifies one loaded table in the store arena.
type tableKey struct {
	body    Body
	variant Variant
}

// table holds every series of one body in one variant, indexed [variable][power].
// Unused slots are empty series, which evaluate to zero.
type table struct {
	series    [maxVariables][maxPower + 1]Series
	variables int    // variables is the number of canonical variables (6 for elliptic, 3 otherwise).
	maxPower  int    // maxPower is the highest power of t with at least one term.
	terms     int    // terms is the total number of terms across all slots.
	source    string // source names where the table was loaded from, for diagnostics.
}

// add appends terms to the slot (variable, power). Variables and powers are 0-based.
func (tb *table) add(variable, power int, terms []Term) {
	slot := &tb.series[variable][power]
	for _, term := range terms {
		slot.a = append(slot.a, term.Amplitude)
		slot.b = append(slot.b, term.Phase)
		slot.c = append(slot.c, term.Frequency)
	}
	if power > tb.maxPower && len(terms) > 0 {
		tb.maxPower = power
	}
	tb.terms += len(terms)
}
