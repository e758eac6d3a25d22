package vsop87

import (
	"fmt"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// block is one (variable, power) series of a fixture file.
type block struct {
	variable int // 1-based, as in the files
	power    int
	terms    []Term
}

// imcceHeader formats a block header line in the IMCCE column layout.
func imcceHeader(v Variant, body string, variable, power, count int) string {
	letter := strings.TrimPrefix(v.String(), "VSOP87")
	if letter == "" {
		letter = " "
	}
	return fmt.Sprintf(" VSOP87 VERSION %s%d    %-7s   VARIABLE %d (XYZ)       *T**%d%7d TERMS    TEST",
		letter, int(v), body, variable, power, count)
}

// imcceTerm formats a term line in the IMCCE column layout.
func imcceTerm(v Variant, variable, power, rank int, t Term) string {
	s := -t.Amplitude * math.Sin(t.Phase)
	k := t.Amplitude * math.Cos(t.Phase)
	return fmt.Sprintf(" %d0%d%d%5d", int(v), variable, power, rank) + strings.Repeat("  0", 12) +
		fmt.Sprintf("%15.11f%18.11f%18.11f%14.11f%20.11f", s, k, t.Amplitude, t.Phase, t.Frequency)
}

// imcceFile renders blocks as the content of one IMCCE file.
func imcceFile(v Variant, body string, blocks ...block) string {
	var b strings.Builder
	for _, bl := range blocks {
		b.WriteString(imcceHeader(v, body, bl.variable, bl.power, len(bl.terms)))
		b.WriteByte('\n')
		for i, t := range bl.terms {
			b.WriteString(imcceTerm(v, bl.variable, bl.power, i+1, t))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// circularBlocks describes a circular rectangular orbit of radius r and mean
// motion n (rad per millennium) in the ecliptic plane, plus a small Z term.
func circularBlocks(r, n, phase float64) []block {
	return []block{
		{variable: 1, power: 0, terms: []Term{{r, phase, n}}},
		{variable: 2, power: 0, terms: []Term{{r, phase - math.Pi/2, n}}},
		{variable: 3, power: 0, terms: []Term{{r * 1e-3, phase + 1, n}}},
	}
}

// loadTestdata parses a file under testdata.
func loadTestdata(t *testing.T, name string) *Store {
	t.Helper()
	f, err := os.Open("testdata/" + name)
	require.NoError(t, err)
	defer f.Close()
	store, err := ParseIMCCE(f, name)
	require.NoError(t, err)
	return store
}

// parseString parses IMCCE content held in a string.
func parseString(t *testing.T, content string, opts ...LoadOption) *Store {
	t.Helper()
	store, err := ParseIMCCE(strings.NewReader(content), "test", opts...)
	require.NoError(t, err)
	return store
}

// relClose reports whether got and want agree to tol relative to scale.
func relClose(got, want, tol, scale float64) bool {
	return math.Abs(got-want) <= tol*math.Max(scale, math.Abs(want))
}
