// ./store.go
package vsop87

import (
	"cmp"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// The abridged Earth tables of VSOP87D (Meeus, Astronomical Algorithms,
// appendix III), in IMCCE layout. Accuracy is about one arcsecond over a few
// millennia around J2000.0; load the IMCCE files for full precision.
//
//go:embed data/VSOP87D.ear
var embeddedData embed.FS

// Store is a read-only arena of VSOP87 term tables indexed by body and version.
// A Store is built once by one of the Load functions and never mutated
// afterwards; it is safe for concurrent use.
type Store struct {
	tables map[tableKey]*table
}

// TableInfo describes one loaded table.
type TableInfo struct {
	Body     Body    // Body is the body the table belongs to.
	Variant  Variant // Variant is the version of the theory.
	Terms    int     // Terms is the number of terms across all variables and powers.
	MaxPower int     // MaxPower is the highest power of t with terms.
	Source   string  // Source names the file or stream the table was read from.
}

type loadConfig struct {
	minAmplitude float64
	variants     []Variant
	bodies       []Body
}

// LoadOption configures table loading.
type LoadOption func(*loadConfig)

// WithMinAmplitude drops terms whose amplitude is below min in absolute value.
// Truncated tables evaluate faster at the cost of accuracy.
func WithMinAmplitude(min float64) LoadOption {
	return func(c *loadConfig) {
		c.minAmplitude = min
	}
}

// WithVariants restricts loading to the given versions.
func WithVariants(vs ...Variant) LoadOption {
	return func(c *loadConfig) {
		c.variants = append(c.variants, vs...)
	}
}

// WithBodies restricts loading to the given bodies.
func WithBodies(bs ...Body) LoadOption {
	return func(c *loadConfig) {
		c.bodies = append(c.bodies, bs...)
	}
}

func newLoadConfig(opts []LoadOption) loadConfig {
	var c loadConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c loadConfig) wants(body Body, v Variant) bool {
	if len(c.variants) > 0 && !slices.Contains(c.variants, v) {
		return false
	}
	if len(c.bodies) > 0 && !slices.Contains(c.bodies, body) {
		return false
	}
	return true
}

func (c loadConfig) keep(term Term) bool {
	return c.minAmplitude <= 0 || term.Amplitude >= c.minAmplitude || term.Amplitude <= -c.minAmplitude
}

// LoadFS reads every IMCCE file found at the root of fsys. Files are recognized
// by name: VSOP87.<ext> or VSOP87<A-E>.<ext> with ext one of mer, ven, ear, emb,
// mar, jup, sat, ura, nep, sun (case-insensitive). Other entries are ignored.
//
// Returns an error wrapping fs.ErrNotExist when no file is recognized, and one
// wrapping ErrMalformedTable when a file cannot be parsed.
func LoadFS(fsys fs.FS, opts ...LoadOption) (*Store, error) {
	cfg := newLoadConfig(opts)
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	store := &Store{tables: make(map[tableKey]*table)}
	found := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		body, v, ok := ParseFileName(entry.Name())
		if !ok {
			continue
		}
		found++
		if !cfg.wants(body, v) {
			continue
		}
		if err := store.loadFile(fsys, entry.Name(), cfg); err != nil {
			return nil, err
		}
	}
	if found == 0 {
		return nil, fmt.Errorf("load tables: no VSOP87 files: %w", fs.ErrNotExist)
	}
	return store, nil
}

func (s *Store) loadFile(fsys fs.FS, name string, cfg loadConfig) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}
	defer f.Close()

	parsed, err := parseIMCCE(f, name, cfg)
	if err != nil {
		return err
	}
	for key, tb := range parsed {
		if _, dup := s.tables[key]; dup {
			return fmt.Errorf("load tables: %s: %w: %s %s loaded twice", name, ErrMalformedTable, key.body, key.variant)
		}
		s.tables[key] = tb
		logger().Debug("vsop87 table loaded",
			"body", key.body.String(), "variant", key.variant.String(),
			"terms", tb.terms, "max_power", tb.maxPower, "source", name)
	}
	return nil
}

var embeddedStore = sync.OnceValues(func() (*Store, error) {
	return LoadEmbedded()
})

// LoadEmbedded parses the tables compiled into the package with opts applied.
// Use EmbeddedStore for the shared, unfiltered copy.
func LoadEmbedded(opts ...LoadOption) (*Store, error) {
	sub, err := fs.Sub(embeddedData, "data")
	if err != nil {
		return nil, err
	}
	return LoadFS(sub, opts...)
}

// EmbeddedStore returns the tables compiled into the package: the abridged
// VSOP87D series of the Earth. The store is parsed once.
func EmbeddedStore() (*Store, error) {
	return embeddedStore()
}

// Merge returns a store holding the tables of all stores. When two stores hold
// the same body and version, the later one wins.
func Merge(stores ...*Store) *Store {
	merged := &Store{tables: make(map[tableKey]*table)}
	for _, s := range stores {
		if s == nil {
			continue
		}
		for key, tb := range s.tables {
			merged.tables[key] = tb
		}
	}
	return merged
}

// ParseFileName recognizes an IMCCE file name such as "VSOP87B.jup".
func ParseFileName(name string) (Body, Variant, bool) {
	base := strings.ToUpper(path.Base(name))
	stem, ext, ok := strings.Cut(base, ".")
	if !ok || !strings.HasPrefix(stem, "VSOP87") {
		return 0, 0, false
	}
	v, err := ParseVariant(stem)
	if err != nil {
		return 0, 0, false
	}
	ext = strings.ToLower(ext)
	body, found := lo.Find(Bodies, func(b Body) bool { return b.Extension() == ext })
	if !found || !Available(body, v) {
		return 0, 0, false
	}
	return body, v, true
}

// FileName returns the IMCCE file name of body in version v, e.g. "VSOP87B.jup".
func FileName(body Body, v Variant) string {
	return v.String() + "." + body.Extension()
}

// Has reports whether the tables of body in version v are loaded.
func (s *Store) Has(body Body, v Variant) bool {
	if s == nil {
		return false
	}
	_, ok := s.tables[tableKey{body, v}]
	return ok
}

// Len returns the number of loaded tables.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tables)
}

// Tables describes the loaded tables, ordered by version then body.
func (s *Store) Tables() []TableInfo {
	if s == nil {
		return nil
	}
	infos := lo.MapToSlice(s.tables, func(key tableKey, tb *table) TableInfo {
		return TableInfo{
			Body:     key.body,
			Variant:  key.variant,
			Terms:    tb.terms,
			MaxPower: tb.maxPower,
			Source:   tb.source,
		}
	})
	slices.SortFunc(infos, func(a, b TableInfo) int {
		if c := cmp.Compare(a.Variant, b.Variant); c != 0 {
			return c
		}
		return cmp.Compare(slices.Index(Bodies, a.Body), slices.Index(Bodies, b.Body))
	})
	return infos
}

// Series returns the series of body in version v for a 0-based variable index and
// power of t. Empty slots yield an empty series.
func (s *Store) Series(body Body, v Variant, variable, power int) (Series, error) {
	tb, err := s.lookup(body, v)
	if err != nil {
		return Series{}, err
	}
	if variable < 0 || variable >= tb.variables || power < 0 || power > maxPower {
		return Series{}, fmt.Errorf("series %s %s variable %d power %d: %w", body, v, variable, power, ErrInvalidInput)
	}
	return tb.series[variable][power], nil
}

func (s *Store) lookup(body Body, v Variant) (*table, error) {
	switch {
	case !body.Valid():
		return nil, fmt.Errorf("%w: %d", ErrInvalidBody, int(body))
	case !v.Valid():
		return nil, fmt.Errorf("%w: %d", ErrInvalidVariant, int(v))
	case !Available(body, v):
		return nil, fmt.Errorf("%s %s: %w", body, v, ErrNotInTheory)
	}
	if s != nil {
		if tb, ok := s.tables[tableKey{body, v}]; ok {
			return tb, nil
		}
	}
	return nil, fmt.Errorf("%s %s (%s): %w", body, v, FileName(body, v), ErrSeriesNotLoaded)
}

// IsDataMissing reports whether err means that tables must be loaded before the
// request can succeed.
func IsDataMissing(err error) bool {
	return errors.Is(err, ErrSeriesNotLoaded) || errors.Is(err, fs.ErrNotExist)
}
