// ./assembler.go
package vsop87

import (
	"fmt"
	"math"
)

// Elements holds the VSOP87 variables of one body at one instant, as produced by
// one version of the theory. The meaning of the six slots depends on Variant:
//
//	VariantElliptic  a (AU), λ (rad), k, h, q, p
//	VariantA, C, E   X, Y, Z (AU), Ẋ, Ẏ, Ż (AU/day)
//	VariantB, D      L (rad), B (rad), R (AU), L̇, Ḃ (rad/day), Ṙ (AU/day)
//
// Rates[i] is the time derivative of Values[i], per day, for the variables
// computed by the series (all six for the elliptic version, the first three
// otherwise); the remaining entries are zero.
type Elements struct {
	Body    Body       // Body is the body the variables describe.
	Variant Variant    // Variant is the version of the theory that produced them.
	Epoch   Epoch      // Epoch is the reduced instant.
	Values  [6]float64 // Values holds the six variables.
	Rates   [6]float64 // Rates holds the time derivatives, per day.
}

// String formats the elements compactly, for diagnostics.
func (e Elements) String() string {
	return fmt.Sprintf("%s %s JD %.5f %v", e.Body, e.Variant, e.Epoch.JD, e.Values)
}

// finite reports whether every value is finite.
func (e Elements) finite() bool {
	for _, v := range e.Values {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// assemble evaluates every series of tb at the reduced instant ep. Each variable is
// Σ t^α·S_α(t) over the powers α, and its derivative Σ (α·t^(α-1)·S_α + t^α·S'_α).
// All variables are produced together; no partial result escapes.
func assemble(tb *table, ev Evaluator, body Body, v Variant, ep Epoch) Elements {
	el := Elements{Body: body, Variant: v, Epoch: ep}
	t := ep.T
	for variable := 0; variable < tb.variables; variable++ {
		var value, rate float64
		tPow := 1.0  // t^α
		tPrev := 0.0 // t^(α-1), zero for α = 0
		for power := 0; power <= tb.maxPower; power++ {
			s := tb.series[variable][power]
			if s.Len() > 0 {
				sum := ev.Sum(t, s)
				value += tPow * sum
				rate += tPow*ev.Rate(t, s) + float64(power)*tPrev*sum
			}
			tPrev = tPow
			tPow *= t
		}
		el.Values[variable] = value
		el.Rates[variable] = rate / DaysPerMillennium
	}

	switch {
	case v == VariantElliptic:
		el.Values[1] = normalizeAngle(el.Values[1])
	case v.Spherical():
		el.Values[0] = normalizeAngle(el.Values[0])
	}
	if v != VariantElliptic {
		copy(el.Values[3:], el.Rates[:3])
	}
	return el
}

// normalizeAngle reduces x to [0, 2π).
func normalizeAngle(x float64) float64 {
	x = math.Mod(x, twoPi)
	if x < 0 {
		x += twoPi
	}
	if x >= twoPi {
		x = 0
	}
	return x
}

func nanElements(body Body, v Variant, jd float64) Elements {
	nan := math.NaN()
	el := Elements{Body: body, Variant: v, Epoch: Epoch{JD: jd, T: nan, Precession: nan}}
	for i := range el.Values {
		el.Values[i] = nan
		el.Rates[i] = nan
	}
	return el
}
