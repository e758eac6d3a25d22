// ./imcce.go
package vsop87

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Column layout of the IMCCE files; see the notes in internal_types.go.
const (
	colVersion    = 17
	colBodyStart  = 22
	colBodyEnd    = 29
	colVariable   = 41
	colPower      = 59
	colCountStart = 60
	colCountEnd   = 67

	colAStart = 79
	colAEnd   = 97
	colBEnd   = 111
	colCEnd   = 131
)

// ParseIMCCE reads one stream in IMCCE layout. A stream normally holds a single
// body in a single version, but concatenated files are accepted. source names the
// stream in errors and in TableInfo.
func ParseIMCCE(r io.Reader, source string, opts ...LoadOption) (*Store, error) {
	parsed, err := parseIMCCE(r, source, newLoadConfig(opts))
	if err != nil {
		return nil, err
	}
	return &Store{tables: parsed}, nil
}

func parseIMCCE(r io.Reader, source string, cfg loadConfig) (map[tableKey]*table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256), 1<<16)
	tables := make(map[tableKey]*table)
	lineNo := 0
	dropped := 0

	malformed := func(format string, args ...any) error {
		return fmt.Errorf("%s:%d: %w: %s", source, lineNo, ErrMalformedTable, fmt.Sprintf(format, args...))
	}
	malformedBy := func(err error) error {
		return fmt.Errorf("%s:%d: %w: %w", source, lineNo, ErrMalformedTable, err)
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		hdr, err := parseHeader(line)
		if err != nil {
			return nil, malformedBy(err)
		}

		key := tableKey{hdr.body, hdr.variant}
		wanted := cfg.wants(hdr.body, hdr.variant)
		tb := tables[key]
		if tb == nil && wanted {
			tb = &table{variables: hdr.variant.Variables(), source: source}
			tables[key] = tb
		}

		terms := make([]Term, 0, hdr.count)
		for i := 0; i < hdr.count; i++ {
			if !scanner.Scan() {
				lineNo++
				return nil, malformed("%s %s: expected %d terms, found %d", hdr.body, hdr.variant, hdr.count, i)
			}
			lineNo++
			term, err := parseTerm(strings.TrimRight(scanner.Text(), "\r"))
			if err != nil {
				return nil, malformedBy(err)
			}
			if cfg.keep(term) {
				terms = append(terms, term)
			} else {
				dropped++
			}
		}
		if wanted {
			tb.add(hdr.variable, hdr.power, terms)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if dropped > 0 {
		logger().Debug("vsop87 terms truncated", "source", source, "dropped", dropped, "min_amplitude", cfg.minAmplitude)
	}
	return tables, nil
}

type blockHeader struct {
	variant  Variant
	body     Body
	variable int // 0-based
	power    int
	count    int
}

func parseHeader(line string) (blockHeader, error) {
	var hdr blockHeader
	if len(line) < colCountEnd || !strings.HasPrefix(strings.TrimSpace(line), "VSOP87") {
		return hdr, fmt.Errorf("not a block header: %q", line)
	}

	version := int(line[colVersion] - '0')
	hdr.variant = Variant(version)
	if !hdr.variant.Valid() {
		return hdr, fmt.Errorf("%w: version digit %q", ErrInvalidVariant, line[colVersion])
	}

	name := strings.TrimSpace(line[colBodyStart:colBodyEnd])
	body, err := bodyFromIMCCE(name)
	if err != nil {
		return hdr, err
	}
	hdr.body = body
	if !Available(body, hdr.variant) {
		return hdr, fmt.Errorf("%s %s: %w", body, hdr.variant, ErrNotInTheory)
	}

	hdr.variable = int(line[colVariable]-'0') - 1
	if hdr.variable < 0 || hdr.variable >= hdr.variant.Variables() {
		return hdr, fmt.Errorf("variable %q out of range for %s", line[colVariable], hdr.variant)
	}
	hdr.power = int(line[colPower] - '0')
	if hdr.power < 0 || hdr.power > maxPower {
		return hdr, fmt.Errorf("power %q out of range", line[colPower])
	}
	count, err := strconv.Atoi(strings.TrimSpace(line[colCountStart:colCountEnd]))
	if err != nil || count < 0 {
		return hdr, fmt.Errorf("term count %q", line[colCountStart:colCountEnd])
	}
	hdr.count = count
	return hdr, nil
}

func bodyFromIMCCE(name string) (Body, error) {
	for _, b := range Bodies {
		if bodyInfo[b].imcce == name {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBody, name)
}

func parseTerm(line string) (Term, error) {
	if len(line) < colCEnd {
		return Term{}, fmt.Errorf("term line too short (%d columns)", len(line))
	}
	a, err := parseField(line, colAStart, colAEnd)
	if err != nil {
		return Term{}, err
	}
	b, err := parseField(line, colAEnd, colBEnd)
	if err != nil {
		return Term{}, err
	}
	c, err := parseField(line, colBEnd, colCEnd)
	if err != nil {
		return Term{}, err
	}
	return Term{Amplitude: a, Phase: b, Frequency: c}, nil
}

func parseField(line string, start, end int) (float64, error) {
	field := strings.TrimSpace(line[start:end])
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("columns %d-%d: %w", start, end-1, err)
	}
	return v, nil
}
