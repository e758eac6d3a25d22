package vsop87

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIMCCE(t *testing.T) {
	content := imcceFile(VariantA, "MARS",
		block{variable: 1, power: 0, terms: []Term{{1.5, 0.25, 3340.6}, {0.01, 1.5, 6681.2}}},
		block{variable: 1, power: 2, terms: []Term{{1e-6, 2.0, 3340.6}}},
		block{variable: 3, power: 0, terms: []Term{{0.03, 0.5, 3340.6}}},
	)
	store := parseString(t, content)
	require.Equal(t, 1, store.Len())
	require.True(t, store.Has(Mars, VariantA))

	s, err := store.Series(Mars, VariantA, 0, 0)
	require.NoError(t, err)
	want := []Term{{1.5, 0.25, 3340.6}, {0.01, 1.5, 6681.2}}
	assert.Empty(t, cmp.Diff(want, s.Terms()))

	s, err = store.Series(Mars, VariantA, 1, 0)
	require.NoError(t, err)
	assert.Zero(t, s.Len(), "variable 2 has no block")

	infos := store.Tables()
	require.Len(t, infos, 1)
	assert.Equal(t, TableInfo{Body: Mars, Variant: VariantA, Terms: 4, MaxPower: 2, Source: "test"}, infos[0])
}

func TestParseIMCCEElliptic(t *testing.T) {
	content := imcceFile(VariantElliptic, "EMB",
		block{variable: 1, power: 0, terms: []Term{{1.0000010, 0, 0}}},
		block{variable: 6, power: 1, terms: []Term{{1e-4, 0.5, 10}}},
	)
	store := parseString(t, content)
	s, err := store.Series(EarthMoon, VariantElliptic, 5, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestParseIMCCEErrors(t *testing.T) {
	valid := imcceFile(VariantB, "VENUS", block{variable: 1, power: 0, terms: []Term{{3.17, 0, 0}, {0.01, 1, 10213.3}}})
	lines := strings.Split(strings.TrimSpace(valid), "\n")

	tests := []struct {
		name    string
		content string
		target  error
		msg     string
	}{
		{
			name:    "truncated block",
			content: strings.Join(lines[:2], "\n"),
			target:  ErrMalformedTable,
			msg:     "expected 2 terms, found 1",
		},
		{
			name:    "short term line",
			content: lines[0] + "\n" + lines[1][:100] + "\n" + lines[2],
			target:  ErrMalformedTable,
			msg:     "too short",
		},
		{
			name:    "garbage header",
			content: "this is not a VSOP87 file at all, not even close to a block header line",
			target:  ErrMalformedTable,
			msg:     ":1:",
		},
		{
			name:    "unknown body",
			content: strings.Replace(valid, "VENUS  ", "PLUTO  ", 1),
			target:  ErrInvalidBody,
		},
		{
			name:    "body not in version",
			content: imcceFile(VariantE, "MARS", block{variable: 1, power: 0}) + imcceFile(VariantB, "SUN", block{variable: 1, power: 0}),
			target:  ErrNotInTheory,
		},
		{
			name:    "bad amplitude",
			content: lines[0] + "\n" + lines[1][:80] + "x" + lines[1][81:] + "\n" + lines[2],
			target:  ErrMalformedTable,
			msg:     "columns 79-96",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIMCCE(strings.NewReader(tt.content), "venus.txt")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
			assert.ErrorIs(t, err, ErrMalformedTable)
			assert.Contains(t, err.Error(), "venus.txt:")
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestParseIMCCEMinAmplitude(t *testing.T) {
	content := imcceFile(VariantA, "SATURN",
		block{variable: 1, power: 0, terms: []Term{{9.5, 0, 213.3}, {1e-9, 1, 426.6}, {-2e-7, 1, 639.9}}},
	)
	store := parseString(t, content, WithMinAmplitude(1e-7))
	s, err := store.Series(Saturn, VariantA, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, -2e-7, s.Term(1).Amplitude)
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name    string
		body    Body
		variant Variant
		ok      bool
	}{
		{"VSOP87.mer", Mercury, VariantElliptic, true},
		{"VSOP87B.jup", Jupiter, VariantB, true},
		{"vsop87d.ear", Earth, VariantD, true},
		{"data/VSOP87E.SUN", Sun, VariantE, true},
		{"VSOP87A.emb", EarthMoon, VariantA, true},
		{"VSOP87.ear", 0, 0, false}, // the Earth is not in the main version
		{"VSOP87B.emb", 0, 0, false},
		{"VSOP87F.jup", 0, 0, false},
		{"VSOP87B.plu", 0, 0, false},
		{"README", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, v, ok := ParseFileName(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.body, body)
				assert.Equal(t, tt.variant, v)
				assert.Equal(t, strings.ToLower(FileName(body, v)), strings.ToLower(tt.name[strings.LastIndex(tt.name, "/")+1:]))
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"VSOP87A.mar":  {Data: []byte(imcceFile(VariantA, "MARS", circularBlocks(1.52, 3340.6, 0.3)...))},
		"VSOP87A.sat":  {Data: []byte(imcceFile(VariantA, "SATURN", circularBlocks(9.55, 213.3, 0.9)...))},
		"VSOP87E.sun":  {Data: []byte(imcceFile(VariantE, "SUN", circularBlocks(0.005, 529.7, 2.0)...))},
		"notes.txt":    {Data: []byte("ignored")},
		"sub/VSOP87.x": {Data: []byte("ignored")},
	}

	store, err := LoadFS(fsys)
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	names := make([]string, 0, store.Len())
	for _, info := range store.Tables() {
		names = append(names, FileName(info.Body, info.Variant))
	}
	assert.Equal(t, []string{"VSOP87A.mar", "VSOP87A.sat", "VSOP87E.sun"}, names)

	store, err = LoadFS(fsys, WithBodies(Saturn))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Has(Saturn, VariantA))

	store, err = LoadFS(fsys, WithVariants(VariantE))
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	assert.True(t, store.Has(Sun, VariantE))
}

func TestLoadFSErrors(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{"readme.md": {Data: []byte("x")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.True(t, IsDataMissing(err))

	_, err = LoadFS(fstest.MapFS{"VSOP87B.ven": {Data: []byte("broken")}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTable)
}

func TestEmbeddedStore(t *testing.T) {
	store, err := EmbeddedStore()
	require.NoError(t, err)
	again, err := EmbeddedStore()
	require.NoError(t, err)
	assert.Same(t, store, again)

	require.True(t, store.Has(Earth, VariantD))
	infos := store.Tables()
	require.Len(t, infos, 1)
	assert.Equal(t, 5, infos[0].MaxPower)
	assert.Greater(t, infos[0].Terms, 100)

	truncated, err := LoadEmbedded(WithMinAmplitude(1e-6))
	require.NoError(t, err)
	assert.Less(t, truncated.Tables()[0].Terms, infos[0].Terms)
}

func TestMerge(t *testing.T) {
	a := parseString(t, imcceFile(VariantA, "MARS", circularBlocks(1.5, 3340.6, 0)...))
	b := parseString(t, imcceFile(VariantA, "MARS", circularBlocks(1.6, 3340.6, 0)...))
	c := parseString(t, imcceFile(VariantA, "URANUS", circularBlocks(19.2, 74.8, 0)...))

	merged := Merge(a, nil, b, c)
	assert.Equal(t, 2, merged.Len())
	s, err := merged.Series(Mars, VariantA, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.6, s.Term(0).Amplitude, "later store wins")
}

func TestSeriesLookupErrors(t *testing.T) {
	store := parseString(t, imcceFile(VariantA, "MARS", circularBlocks(1.5, 3340.6, 0)...))

	tests := []struct {
		name    string
		body    Body
		variant Variant
		target  error
	}{
		{"invalid body", Body(42), VariantA, ErrInvalidBody},
		{"invalid variant", Mars, Variant(9), ErrInvalidVariant},
		{"not in theory", Earth, VariantElliptic, ErrNotInTheory},
		{"not loaded", Jupiter, VariantA, ErrSeriesNotLoaded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Series(tt.body, tt.variant, 0, 0)
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := store.Series(Mars, VariantA, 3, 0)
	assert.Error(t, err, "version A has three variables")
	_, err = store.Series(Mars, VariantA, 0, 6)
	assert.Error(t, err)

	var nilStore *Store
	_, err = nilStore.Series(Mars, VariantA, 0, 0)
	assert.True(t, errors.Is(err, ErrSeriesNotLoaded))
}

func TestSeries(t *testing.T) {
	terms := []Term{{1, 2, 3}, {-4, 5, 6}}
	s := NewSeries(terms)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, terms[1], s.Term(1))
	assert.Equal(t, terms, s.Terms())
	assert.Equal(t, 5.0, s.AmplitudeSum())

	terms[0].Amplitude = 100
	assert.Equal(t, 1.0, s.Term(0).Amplitude, "NewSeries copies its input")
	assert.Zero(t, NewSeries(nil).Len())
}

func TestSeriesColumns(t *testing.T) {
	store, err := EmbeddedStore()
	require.NoError(t, err)
	s, err := store.Series(Earth, VariantD, 2, 0)
	require.NoError(t, err)

	a, b, c := s.Columns()
	require.Len(t, a, s.Len())
	assert.Equal(t, s.Term(3), Term{Amplitude: a[3], Phase: b[3], Frequency: c[3]})

	for _, tt := range []float64{0, 0.1, -0.3} {
		assert.Equal(t, CalculateVar(tt, a, b, c), s.Sum(tt))
		assert.Equal(t, CalculateRate(tt, a, b, c), s.Rate(tt))
		assert.True(t, relClose(CalculateVarFallback(tt, a, b, c), s.Sum(tt), 1e-12, s.AmplitudeSum()))
	}
	// The radius of the Earth at J2000 is dominated by this series.
	assert.InDelta(t, 0.98, s.Sum(0), 0.02)

	a[0] = 42
	assert.NotEqual(t, 42.0, s.Term(0).Amplitude, "Columns returns copies")
}
