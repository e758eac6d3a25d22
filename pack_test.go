package vsop87

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packFixture(t *testing.T) *Store {
	t.Helper()
	embedded, err := EmbeddedStore()
	require.NoError(t, err)
	return Merge(embedded, loadTestdata(t, "VSOP87A.jup"),
		parseString(t, imcceFile(VariantElliptic, "EMB",
			block{variable: 1, power: 0, terms: []Term{{1.0000010, 0, 0}}},
			block{variable: 2, power: 1, terms: []Term{{6283.07585, 0, 0}}},
		)))
}

func assertSameTables(t *testing.T, want, got *Store) {
	t.Helper()
	require.Empty(t, cmp.Diff(want.Tables(), got.Tables()))
	for _, info := range want.Tables() {
		for variable := 0; variable < info.Variant.Variables(); variable++ {
			for power := 0; power <= maxPower; power++ {
				ws, err := want.Series(info.Body, info.Variant, variable, power)
				require.NoError(t, err)
				gs, err := got.Series(info.Body, info.Variant, variable, power)
				require.NoError(t, err)
				assert.Empty(t, cmp.Diff(ws.Terms(), gs.Terms()), "%s %s %d %d", info.Body, info.Variant, variable, power)
			}
		}
	}
}

func TestPackRoundTrip(t *testing.T) {
	store := packFixture(t)
	for _, order := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		t.Run(order.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, store.WritePackOrder(&buf, order))
			assert.Equal(t, packMagic, buf.String()[:8])

			read, err := ReadPack(bytes.NewReader(buf.Bytes()))
			require.NoError(t, err)
			assertSameTables(t, store, read)
		})
	}
}

func TestPackDefaultOrder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, packFixture(t).WritePack(&buf))
	assert.Equal(t, uint32(packVersion), binary.LittleEndian.Uint32(buf.Bytes()[8:12]))
}

func TestReadPackFilters(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, packFixture(t).WritePack(&buf))

	read, err := ReadPack(bytes.NewReader(buf.Bytes()), WithBodies(Jupiter), WithMinAmplitude(0.01))
	require.NoError(t, err)
	require.Equal(t, 1, read.Len())
	s, err := read.Series(Jupiter, VariantA, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len(), "the 0.006 AU term is dropped")
}

func TestReadPackErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, packFixture(t).WritePack(&buf))
	good := buf.Bytes()

	badMagic := append([]byte("NOTVSOP8"), good[8:]...)
	_, err := ReadPack(bytes.NewReader(badMagic))
	assert.ErrorIs(t, err, ErrUnsupportedPack)

	badVersion := bytes.Clone(good)
	binary.LittleEndian.PutUint32(badVersion[8:12], 7)
	_, err = ReadPack(bytes.NewReader(badVersion))
	assert.ErrorIs(t, err, ErrUnsupportedPack)

	for _, n := range []int{4, 12, 20, 40, len(good) - 1} {
		_, err = ReadPack(bytes.NewReader(good[:n]))
		assert.ErrorIs(t, err, ErrMalformedTable, "truncated at %d", n)
	}

	badBody := bytes.Clone(good)
	binary.LittleEndian.PutUint32(badBody[16:20], 77)
	_, err = ReadPack(bytes.NewReader(badBody))
	assert.ErrorIs(t, err, ErrMalformedTable)
}

func TestSwapBytes32(t *testing.T) {
	assert.Equal(t, uint32(0x04030201), swapBytes32(0x01020304))
	assert.Equal(t, uint32(packVersion), swapBytes32(swapBytes32(packVersion)))
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), otherByteOrder(binary.LittleEndian))
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), otherByteOrder(binary.BigEndian))
}
