// ./evaluator_simd.go
package vsop87

import (
	"math"

	"github.com/ajroetker/go-highway/hwy"
)

// maxLanes bounds the float64 lanes of any go-highway target (512-bit vectors).
const maxLanes = 8

// CalculateVarAVX is the vector path of CalculateVar.
//
// Phases and frequencies are loaded into lanes and the arguments B + C·t are formed
// with lane arithmetic. Cosines are taken per lane with the same routine as the
// scalar path, then multiplied by the amplitudes into per-lane accumulators held in
// a scratch array for the whole call. The lanes are reduced once at the end and the
// remainder that does not fill a vector is summed in scalar.
//
// The function is safe on any CPU: without a vector unit go-highway executes the
// same lane operations in portable Go. The portable hwy.Vec keeps its lanes in a
// heap slice, so each chunk costs four small allocations (two loads, the product
// and the sum); on such targets ScalarEvaluator is the faster choice.
func CalculateVarAVX(t float64, a, b, c []float64) float64 {
	if !sameLength(a, b, c) {
		return math.NaN()
	}
	n := len(a)
	lanes := hwy.MaxLanes[float64]()
	if lanes < 1 || lanes > maxLanes {
		return CalculateVarFallback(t, a, b, c)
	}
	tv := hwy.Set(t)
	var argBuf, accBuf [maxLanes]float64
	args, acc := argBuf[:lanes], accBuf[:lanes]

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		hwy.Store(hwy.Add(hwy.Load(b[i:]), hwy.Mul(hwy.Load(c[i:]), tv)), args)
		amp := a[i : i+lanes]
		for j, x := range args {
			acc[j] += amp[j] * math.Cos(x)
		}
	}
	sum := hwy.ReduceSum(hwy.Load(acc))

	for ; i < n; i++ {
		sum += a[i] * math.Cos(b[i]+float64(c[i]*t))
	}
	return sum
}

// CalculateRateAVX is the vector path of CalculateRate. It has the allocation
// profile of CalculateVarAVX.
func CalculateRateAVX(t float64, a, b, c []float64) float64 {
	if !sameLength(a, b, c) {
		return math.NaN()
	}
	n := len(a)
	lanes := hwy.MaxLanes[float64]()
	if lanes < 1 || lanes > maxLanes {
		return CalculateRateFallback(t, a, b, c)
	}
	tv := hwy.Set(t)
	var argBuf, accBuf [maxLanes]float64
	args, acc := argBuf[:lanes], accBuf[:lanes]

	var i int
	for i = 0; i+lanes <= n; i += lanes {
		hwy.Store(hwy.Add(hwy.Load(b[i:]), hwy.Mul(hwy.Load(c[i:]), tv)), args)
		amp, freq := a[i:i+lanes], c[i:i+lanes]
		for j, x := range args {
			acc[j] += amp[j] * freq[j] * math.Sin(x)
		}
	}
	sum := -hwy.ReduceSum(hwy.Load(acc))

	for ; i < n; i++ {
		sum -= a[i] * c[i] * math.Sin(b[i]+float64(c[i]*t))
	}
	return sum
}
