package vsop87

import (
	"math"
	"math/rand/v2"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ellipticValues(a, lambda, e, varpi, inc, node float64) [6]float64 {
	s := math.Sin(inc / 2)
	return [6]float64{a, lambda, e * math.Cos(varpi), e * math.Sin(varpi), s * math.Cos(node), s * math.Sin(node)}
}

func TestKeplerianFromElliptic(t *testing.T) {
	el := Elements{Body: Mars, Variant: VariantElliptic, Values: ellipticValues(1.5, 1.0, 0.1, 0.3, 0.05, 0.8)}
	k, err := el.Keplerian()
	require.NoError(t, err)

	assert.Equal(t, 1.5, k.SemiMajorAxis)
	assert.InDelta(t, 0.1, k.Eccentricity, 1e-15)
	assert.InDelta(t, 0.05, k.Inclination, 1e-15)
	assert.InDelta(t, 0.8, k.AscendingNode, 1e-15)
	assert.InDelta(t, 0.3-0.8+2*math.Pi, k.PerihelionArgument, 1e-14)
	assert.InDelta(t, 0.7, k.MeanAnomaly, 1e-14)
	assert.Equal(t, Mars.GM(), k.Mu)
	assert.Equal(t, Degeneracy(0), k.Degeneracy())

	// The same orbit through a position and velocity.
	pos, vel, err := k.State()
	require.NoError(t, err)
	fromState, err := KeplerianFromState(pos, vel, k.Mu)
	require.NoError(t, err)
	assert.InDelta(t, k.SemiMajorAxis, fromState.SemiMajorAxis, 1e-12)
	assert.InDelta(t, k.Eccentricity, fromState.Eccentricity, 1e-12)
	assert.InDelta(t, k.Inclination, fromState.Inclination, 1e-12)
	assert.InDelta(t, k.AscendingNode, fromState.AscendingNode, 1e-10)
	assert.InDelta(t, k.PerihelionArgument, fromState.PerihelionArgument, 1e-10)
	assert.InDelta(t, k.MeanAnomaly, fromState.MeanAnomaly, 1e-10)
}

func TestKeplerianEllipticDegenerate(t *testing.T) {
	// Circular and equatorial: ω and Ω are zero and M is the mean longitude.
	el := Elements{Body: Venus, Variant: VariantElliptic, Values: [6]float64{0.72, 2.5, 0, 0, 0, 0}}
	k, err := el.Keplerian()
	require.NoError(t, err)
	assert.Zero(t, k.AscendingNode)
	assert.Zero(t, k.PerihelionArgument)
	assert.InDelta(t, 2.5, k.MeanAnomaly, 1e-15)
	assert.Equal(t, DegenerateEccentricity|DegenerateInclination, k.Degeneracy())
}

func TestKeplerianFromStateDegenerate(t *testing.T) {
	mu := SunGM
	vc := math.Sqrt(mu)
	tests := []struct {
		name   string
		pos    RectangularCoordinates
		vel    Velocity
		flags  Degeneracy
		node   float64
		omega  float64
		anomal float64
	}{
		{
			name:   "circular equatorial",
			pos:    RectangularCoordinates{Y: 1},
			vel:    Velocity{DX: -vc},
			flags:  DegenerateEccentricity | DegenerateInclination,
			anomal: math.Pi / 2,
		},
		{
			name:   "circular inclined",
			pos:    RectangularCoordinates{X: 1},
			vel:    Velocity{DY: vc * math.Cos(0.4), DZ: vc * math.Sin(0.4)},
			flags:  DegenerateEccentricity,
			anomal: 0,
		},
		{
			name:   "eccentric equatorial",
			pos:    RectangularCoordinates{Y: 1},
			vel:    Velocity{DX: -1.2 * vc},
			flags:  DegenerateInclination,
			omega:  math.Pi / 2,
			anomal: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := KeplerianFromState(tt.pos, tt.vel, mu)
			require.NoError(t, err)
			assert.Equal(t, tt.flags, k.Degeneracy())
			assert.InDelta(t, tt.node, k.AscendingNode, 1e-12)
			assert.InDelta(t, tt.omega, k.PerihelionArgument, 1e-12)
			assert.InDelta(t, tt.anomal, math.Remainder(k.MeanAnomaly, 2*math.Pi), 1e-12)

			pos, vel, err := k.State()
			require.NoError(t, err)
			assert.InDelta(t, tt.pos.X, pos.X, 1e-12)
			assert.InDelta(t, tt.pos.Y, pos.Y, 1e-12)
			assert.InDelta(t, tt.pos.Z, pos.Z, 1e-12)
			assert.InDelta(t, tt.vel.DX, vel.DX, 1e-14)
			assert.InDelta(t, tt.vel.DY, vel.DY, 1e-14)
			assert.InDelta(t, tt.vel.DZ, vel.DZ, 1e-14)
		})
	}
}

func TestDegeneracyString(t *testing.T) {
	assert.Equal(t, "none", Degeneracy(0).String())
	assert.Equal(t, "eccentricity", DegenerateEccentricity.String())
	assert.Equal(t, "inclination", DegenerateInclination.String())
	assert.Equal(t, "eccentricity|inclination", (DegenerateEccentricity | DegenerateInclination).String())
}

func TestKeplerianStateRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 87))
	for i := 0; i < 300; i++ {
		k := KeplerianElements{
			SemiMajorAxis:      0.3 + 40*rng.Float64(),
			Eccentricity:       0.001 + 0.899*rng.Float64(),
			Inclination:        0.01 + 3.1*rng.Float64(),
			AscendingNode:      2 * math.Pi * rng.Float64(),
			PerihelionArgument: 2 * math.Pi * rng.Float64(),
			MeanAnomaly:        2 * math.Pi * rng.Float64(),
			Mu:                 SunGM,
		}
		pos, vel, err := k.State()
		require.NoError(t, err)

		back, err := KeplerianFromState(pos, vel, k.Mu)
		require.NoError(t, err)
		assert.InDelta(t, k.SemiMajorAxis, back.SemiMajorAxis, 1e-9*k.SemiMajorAxis)
		assert.InDelta(t, k.Eccentricity, back.Eccentricity, 1e-10)
		assert.InDelta(t, k.Inclination, back.Inclination, 1e-10)

		pos2, vel2, err := back.State()
		require.NoError(t, err)
		assert.InDelta(t, pos.X, pos2.X, 1e-9*k.SemiMajorAxis)
		assert.InDelta(t, pos.Y, pos2.Y, 1e-9*k.SemiMajorAxis)
		assert.InDelta(t, pos.Z, pos2.Z, 1e-9*k.SemiMajorAxis)
		assert.InDelta(t, vel.DX, vel2.DX, 1e-12)
		assert.InDelta(t, vel.DY, vel2.DY, 1e-12)
		assert.InDelta(t, vel.DZ, vel2.DZ, 1e-12)
	}
}

func TestEccentricAnomaly(t *testing.T) {
	for _, e := range []float64{0, 0.0167, 0.2, 0.5, 0.8, 0.95, 0.999} {
		for _, m := range []float64{-7, -math.Pi, -1, 0, 1e-9, 0.5, 2, math.Pi, 4, 12} {
			E := EccentricAnomaly(m, e)
			residual := math.Remainder(E-e*math.Sin(E)-m, 2*math.Pi)
			assert.InDelta(t, 0, residual, 1e-13, "e=%v M=%v", e, m)
		}
	}
}

func TestKeplerianUnbound(t *testing.T) {
	mu := SunGM
	k, err := KeplerianFromState(RectangularCoordinates{X: 1}, Velocity{DY: 2 * math.Sqrt(mu)}, mu)
	require.NoError(t, err)
	assert.InDelta(t, 3, k.Eccentricity, 1e-12)
	assert.Less(t, k.SemiMajorAxis, 0.0)
	assert.True(t, math.IsInf(k.Period(), 1))
	assert.InDelta(t, 0, k.MeanAnomaly, 1e-12)

	pos, _, err := k.State()
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, math.IsNaN(pos.X))

	// Parabolic speed: e = 1.
	k, err = KeplerianFromState(RectangularCoordinates{X: 1}, Velocity{DY: math.Sqrt(2 * mu)}, mu)
	require.NoError(t, err)
	assert.InDelta(t, 1, k.Eccentricity, 1e-12)
}

func TestKeplerianFromStateErrors(t *testing.T) {
	tests := []struct {
		name string
		pos  RectangularCoordinates
		vel  Velocity
		mu   float64
	}{
		{"rectilinear", RectangularCoordinates{X: 1}, Velocity{DX: 0.01}, SunGM},
		{"origin", RectangularCoordinates{}, Velocity{DY: 0.01}, SunGM},
		{"nan position", RectangularCoordinates{X: math.NaN()}, Velocity{DY: 0.01}, SunGM},
		{"zero mu", RectangularCoordinates{X: 1}, Velocity{DY: 0.01}, 0},
		{"negative mu", RectangularCoordinates{X: 1}, Velocity{DY: 0.01}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k, err := KeplerianFromState(tt.pos, tt.vel, tt.mu)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.True(t, math.IsNaN(k.Eccentricity))
		})
	}

	_, err := Elements{Body: Mars, Variant: VariantElliptic, Values: [6]float64{math.NaN()}}.Keplerian()
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestKeplerianPeriod(t *testing.T) {
	k := KeplerianElements{SemiMajorAxis: 1, Eccentricity: 0.0167, Mu: SunGM}
	assert.InDelta(t, 365.2568983, k.Period(), 1e-6)
	assert.InDelta(t, GaussianGravitationalConstant, k.MeanMotion(), 1e-15)
}

// TestEllipticMatchesRectangular compares the main version with version A on
// the complete IMCCE tables, when a directory holding them is configured.
func TestEllipticMatchesRectangular(t *testing.T) {
	dir := os.Getenv(EnvDataDir)
	if dir == "" {
		t.Skipf("%s not set", EnvDataDir)
	}
	store, err := LoadFS(os.DirFS(dir), WithBodies(Mars), WithVariants(VariantElliptic, VariantA))
	require.NoError(t, err)
	if !store.Has(Mars, VariantElliptic) || !store.Has(Mars, VariantA) {
		t.Skipf("%s lacks the Mars tables", dir)
	}
	th := NewTheory(store)
	for _, jd := range []float64{J2000, 2415020.0, 2488070.0} {
		el, err := th.Mars(VariantElliptic, jd)
		require.NoError(t, err)
		fromElements, err := el.Rectangular()
		require.NoError(t, err)

		direct, _, err := th.Rectangular(Mars, VariantA, jd)
		require.NoError(t, err)
		assert.InDelta(t, direct.X, fromElements.X, 1e-6)
		assert.InDelta(t, direct.Y, fromElements.Y, 1e-6)
		assert.InDelta(t, direct.Z, fromElements.Z, 1e-6)
	}
}
