// ./capability.go
package vsop87

import (
	"os"
	"strconv"
	"sync"

	"github.com/ajroetker/go-highway/hwy"
)

// Capabilities describes the execution environment of the series evaluators.
type Capabilities struct {
	Vector   bool   // Vector reports whether the vector evaluator is selected.
	CPU      string // CPU names the detected vector extension, or "none".
	Level    string // Level is the go-highway dispatch target.
	Lanes    int    // Lanes is the number of float64 lanes per vector.
	Disabled bool   // Disabled reports whether the vector path was switched off by environment.
}

var detectCapabilities = sync.OnceValue(probeCapabilities)

// DetectCapabilities probes the CPU on first use and returns the cached result
// afterwards. The probe is run exactly once per process.
//
// The vector path is selected when the CPU exposes the required extension
// (AVX2 with FMA on amd64, ASIMD on arm64) and neither HWY_NO_SIMD nor
// VSOP87_NO_SIMD is set to a true value.
func DetectCapabilities() Capabilities {
	return detectCapabilities()
}

func probeCapabilities() Capabilities {
	c := Capabilities{
		CPU:   cpuVectorExtension(),
		Level: hwy.CurrentLevel().String(),
		Lanes: hwy.MaxLanes[float64](),
	}
	c.Disabled = hwy.NoSimdEnv() || envBool(EnvNoSimd)
	c.Vector = !c.Disabled && c.CPU != "none" && c.Lanes >= 1 && c.Lanes <= maxLanes

	path := ScalarEvaluator.Name()
	if c.Vector {
		path = VectorEvaluator.Name()
	}
	logger().Debug("series evaluator selected",
		"path", path, "cpu", c.CPU, "level", c.Level, "lanes", c.Lanes, "disabled", c.Disabled)
	return c
}

// envBool reports whether the environment variable is set to a true value.
// Any non-empty value that does not parse as a boolean counts as true.
func envBool(name string) bool {
	val := os.Getenv(name)
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}
