// ./pack.go
package vsop87

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Binary pack notes:
//
// A pack serializes the tables of a Store so they can be shipped as a single
// versioned resource and loaded without parsing text. All integers are uint32 and
// all reals float64, in the byte order announced by the header.
//
// Header (16 bytes):
//
// Bytes 0-7:   magic "VSOP87PK"
// Bytes 8-11:  format version (packVersion). A value that only matches after byte
//              swapping means the pack was written in the other byte order.
// Bytes 12-15: number of tables
//
// Table record (repeated):
//
// body, variant, number of variables, length of source name, source name bytes,
// then for each variable and each power 0..5: term count n followed by n
// triples (A, B, C) of float64.

const (
	packMagic    = "VSOP87PK"
	packVersion  = 1
	packMaxTerms = 1 << 20 // packMaxTerms bounds a single slot, to reject corrupt counts.
	packMaxName  = 1 << 12
)

// WritePack writes the store as a little-endian binary pack.
func (s *Store) WritePack(w io.Writer) error {
	return s.WritePackOrder(w, defaultByteOrder)
}

// WritePackOrder writes the store as a binary pack in the given byte order.
func (s *Store) WritePackOrder(w io.Writer, order binary.ByteOrder) error {
	buf := bufio.NewWriter(w)
	bw := &binaryWriter{w: buf, order: order}

	infos := s.Tables()
	bw.putBytes([]byte(packMagic))
	bw.putUint32(packVersion)
	bw.putUint32(uint32(len(infos)))

	for _, info := range infos {
		tb := s.tables[tableKey{info.Body, info.Variant}]
		bw.putUint32(uint32(info.Body))
		bw.putUint32(uint32(info.Variant))
		bw.putUint32(uint32(tb.variables))
		bw.putUint32(uint32(len(tb.source)))
		bw.putBytes([]byte(tb.source))
		for variable := 0; variable < tb.variables; variable++ {
			for power := 0; power <= maxPower; power++ {
				series := tb.series[variable][power]
				bw.putUint32(uint32(series.Len()))
				triples := make([]float64, 0, 3*series.Len())
				for i := range series.a {
					triples = append(triples, series.a[i], series.b[i], series.c[i])
				}
				bw.putNumber(triples)
			}
		}
	}
	if bw.err != nil {
		return fmt.Errorf("write pack: %w", bw.err)
	}
	if err := buf.Flush(); err != nil {
		return fmt.Errorf("write pack: %w", err)
	}
	logger().Debug("vsop87 pack written", "tables", len(infos), "byte_order", order.String())
	return nil
}

// ReadPack loads a store from a binary pack written by WritePack, in either byte order.
//
// Returns an error wrapping ErrUnsupportedPack for an unknown magic or version and
// one wrapping ErrMalformedTable for truncated or inconsistent content.
func ReadPack(r io.Reader, opts ...LoadOption) (*Store, error) {
	cfg := newLoadConfig(opts)
	br := &binaryReader{r: bufio.NewReader(r), order: defaultByteOrder}

	header, err := br.getBytes(16)
	if err != nil {
		return nil, fmt.Errorf("read pack header: %w", truncated(err))
	}
	if string(header[:8]) != packMagic {
		return nil, fmt.Errorf("read pack: %w: magic %q", ErrUnsupportedPack, header[:8])
	}
	version := uInt32FromBytes(header[8:12], br.order)
	if version != packVersion {
		if swapBytes32(version) != packVersion {
			return nil, fmt.Errorf("read pack: %w: version %d", ErrUnsupportedPack, version)
		}
		br.order = otherByteOrder(br.order)
	}
	count := uInt32FromBytes(header[12:16], br.order)

	store := &Store{tables: make(map[tableKey]*table)}
	for n := uint32(0); n < count; n++ {
		key, tb, err := readPackTable(br, cfg)
		if err != nil {
			return nil, fmt.Errorf("read pack table %d: %w", n, err)
		}
		if !cfg.wants(key.body, key.variant) {
			continue
		}
		store.tables[key] = tb
	}
	logger().Debug("vsop87 pack read", "tables", store.Len(), "byte_order", br.order.String())
	return store, nil
}

func readPackTable(br *binaryReader, cfg loadConfig) (tableKey, *table, error) {
	var fields [4]uint32
	if err := br.getNumber(fields[:]); err != nil {
		return tableKey{}, nil, truncated(err)
	}
	key := tableKey{body: Body(fields[0]), variant: Variant(fields[1])}
	if !Available(key.body, key.variant) {
		return key, nil, fmt.Errorf("%w: body %d variant %d", ErrMalformedTable, fields[0], fields[1])
	}
	variables := int(fields[2])
	if variables != key.variant.Variables() || fields[3] > packMaxName {
		return key, nil, fmt.Errorf("%w: %s %s header", ErrMalformedTable, key.body, key.variant)
	}
	source, err := br.getBytes(int(fields[3]))
	if err != nil {
		return key, nil, truncated(err)
	}

	tb := &table{variables: variables, source: string(source)}
	for variable := 0; variable < variables; variable++ {
		for power := 0; power <= maxPower; power++ {
			n, err := br.getUint32()
			if err != nil {
				return key, nil, truncated(err)
			}
			if n > packMaxTerms {
				return key, nil, fmt.Errorf("%w: %d terms in one series", ErrMalformedTable, n)
			}
			triples, err := br.getFloat64Slice(3 * int(n))
			if err != nil {
				return key, nil, truncated(err)
			}
			terms := make([]Term, 0, n)
			for i := 0; i < int(n); i++ {
				term := Term{Amplitude: triples[3*i], Phase: triples[3*i+1], Frequency: triples[3*i+2]}
				if cfg.keep(term) {
					terms = append(terms, term)
				}
			}
			tb.add(variable, power, terms)
		}
	}
	return key, tb, nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: unexpected end of pack", ErrMalformedTable)
	}
	return err
}
