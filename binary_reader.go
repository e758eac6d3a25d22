// ./binary_reader.go
package vsop87

/*
Package vsop87 provides helper functions for reading and writing binary table packs.

This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"encoding/binary"
	"io"
)

// defaultByteOrder specifies the byte order used when writing packs.
// Packs written on any host are little-endian unless another order is requested.
var defaultByteOrder = binary.LittleEndian

// binaryReader reads fixed-size values from a pack in one byte order.
// The order is set once the pack header has been checked.
type binaryReader struct {
	r     io.Reader        // r is the underlying stream.
	order binary.ByteOrder // order is the byte order of the pack.
}

// getNumber reads a value of the specified type using the reader's byte order.
// It takes a pointer to the variable (or a slice) where the read value will be stored.
func (br *binaryReader) getNumber(data any) error {
	return binary.Read(br.r, br.order, data)
}

// getUint32 reads a uint32 value.
func (br *binaryReader) getUint32() (uint32, error) {
	var val uint32
	err := br.getNumber(&val)
	return val, err
}

// getFloat64Slice reads n float64 (double-precision) values.
func (br *binaryReader) getFloat64Slice(n int) ([]float64, error) {
	vals := make([]float64, n)
	err := br.getNumber(vals)
	return vals, err
}

// getBytes reads exactly n raw bytes.
func (br *binaryReader) getBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := io.ReadFull(br.r, b)
	return b, err
}

// binaryWriter writes fixed-size values in one byte order.
type binaryWriter struct {
	w     io.Writer        // w is the underlying stream.
	order binary.ByteOrder // order is the byte order of the pack.
	err   error            // err is the first write error; later writes are skipped.
}

// putNumber writes a value (or a slice of values) using the writer's byte order.
func (bw *binaryWriter) putNumber(data any) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, bw.order, data)
}

// putUint32 writes a uint32 value.
func (bw *binaryWriter) putUint32(v uint32) {
	bw.putNumber(v)
}

// putBytes writes raw bytes.
func (bw *binaryWriter) putBytes(b []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(b)
}

// uInt32FromBytes converts a byte slice to a uint32 value in the given byte order.
func uInt32FromBytes(b []byte, order binary.ByteOrder) uint32 {
	return order.Uint32(b)
}

// swapBytes32 returns val with its four bytes reversed.
// Used to recognize packs written in the other byte order.
func swapBytes32(val uint32) uint32 {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, val)

	// Swap bytes: 0 <-> 3, 1 <-> 2
	b[0], b[3] = b[3], b[0]
	b[1], b[2] = b[2], b[1]

	return binary.LittleEndian.Uint32(b)
}

// otherByteOrder returns the byte order opposite to order.
func otherByteOrder(order binary.ByteOrder) binary.ByteOrder {
	if order == binary.ByteOrder(binary.LittleEndian) {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
