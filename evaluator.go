// ./evaluator.go
package vsop87

import "math"

// Evaluator sums VSOP87 series. The two implementations, ScalarEvaluator and
// VectorEvaluator, agree to within floating-point summation order:
//
//	|vector - scalar| <= 1e-12 * max(|scalar|, Σ|A|)
type Evaluator interface {
	// Name identifies the execution path ("scalar" or "vector").
	Name() string
	// Sum returns Σ A·cos(B + C·t).
	Sum(t float64, s Series) float64
	// Rate returns the derivative of Sum with respect to t, Σ -A·C·sin(B + C·t).
	Rate(t float64, s Series) float64
}

// ScalarEvaluator accumulates terms one at a time in stored order.
var ScalarEvaluator Evaluator = scalarEvaluator{}

// VectorEvaluator accumulates terms in go-highway vector lanes.
var VectorEvaluator Evaluator = vectorEvaluator{}

// DefaultEvaluator returns VectorEvaluator when the capability probe selected the
// vector path and ScalarEvaluator otherwise.
func DefaultEvaluator() Evaluator {
	if DetectCapabilities().Vector {
		return VectorEvaluator
	}
	return ScalarEvaluator
}

type scalarEvaluator struct{}

func (scalarEvaluator) Name() string { return "scalar" }

func (scalarEvaluator) Sum(t float64, s Series) float64 {
	return CalculateVarFallback(t, s.a, s.b, s.c)
}

func (scalarEvaluator) Rate(t float64, s Series) float64 {
	return CalculateRateFallback(t, s.a, s.b, s.c)
}

type vectorEvaluator struct{}

func (vectorEvaluator) Name() string { return "vector" }

func (vectorEvaluator) Sum(t float64, s Series) float64 {
	return CalculateVarAVX(t, s.a, s.b, s.c)
}

func (vectorEvaluator) Rate(t float64, s Series) float64 {
	return CalculateRateAVX(t, s.a, s.b, s.c)
}

// CalculateVar returns Σ a[i]·cos(b[i] + c[i]·t) for the series given as parallel
// slices of amplitudes, phases and frequencies. It is the recommended entry point:
// the vector path is used when the capability probe selected it, the scalar path
// otherwise.
//
// An empty series yields 0. Slices of different lengths yield NaN.
func CalculateVar(t float64, a, b, c []float64) float64 {
	if DetectCapabilities().Vector {
		return CalculateVarAVX(t, a, b, c)
	}
	return CalculateVarFallback(t, a, b, c)
}

// CalculateRate returns the derivative of CalculateVar with respect to t,
// Σ -a[i]·c[i]·sin(b[i] + c[i]·t), dispatched like CalculateVar.
func CalculateRate(t float64, a, b, c []float64) float64 {
	if DetectCapabilities().Vector {
		return CalculateRateAVX(t, a, b, c)
	}
	return CalculateRateFallback(t, a, b, c)
}

// CalculateVarFallback is the scalar path of CalculateVar.
func CalculateVarFallback(t float64, a, b, c []float64) float64 {
	if !sameLength(a, b, c) {
		return math.NaN()
	}
	var sum float64
	for i := range a {
		// The explicit conversion keeps c·t rounded on its own, as in the vector lanes.
		sum += a[i] * math.Cos(b[i]+float64(c[i]*t))
	}
	return sum
}

// CalculateRateFallback is the scalar path of CalculateRate.
func CalculateRateFallback(t float64, a, b, c []float64) float64 {
	if !sameLength(a, b, c) {
		return math.NaN()
	}
	var sum float64
	for i := range a {
		sum -= a[i] * c[i] * math.Sin(b[i]+float64(c[i]*t))
	}
	return sum
}

func sameLength(a, b, c []float64) bool {
	return len(a) == len(b) && len(a) == len(c)
}
