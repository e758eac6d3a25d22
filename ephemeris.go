// ./ephemeris.go
package vsop87

/*
Package vsop87 provides the composition of time reduction, series evaluation
and coordinate conversion for each body.

This program is free software; you can redistribute it and/or
modify it under the terms of the GNU General Public License
as published by the Free Software Foundation; either version 2
of the License, or (at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program; if not, write to the Free Software
Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston, MA
02110-1301, USA.
*/

import (
	"fmt"
	"os"
	"sync"
)

// solve computes body in version v at jd from the tables of store.
// A non-finite jd yields NaN in every field together with ErrInvalidInput,
// whether or not the tables are loaded.
func solve(store *Store, ev Evaluator, body Body, v Variant, jd float64) (Elements, error) {
	if !isFinite(jd) {
		return nanElements(body, v, jd), fmt.Errorf("solve %s %s: %w: julian day %v", body, v, ErrInvalidInput, jd)
	}
	tb, err := store.lookup(body, v)
	if err != nil {
		return nanElements(body, v, jd), fmt.Errorf("solve: %w", err)
	}
	return assemble(tb, ev, body, v, ReduceTime(jd, v)), nil
}

// heliocentric shifts the barycentric state of body (version E) to the Sun.
func heliocentric(store *Store, ev Evaluator, body Body, jd float64) (Elements, error) {
	bary, err := solve(store, ev, body, VariantE, jd)
	if err != nil {
		return nanElements(body, VariantA, jd), fmt.Errorf("heliocentric %s: %w", body, err)
	}
	sun, err := solve(store, ev, Sun, VariantE, jd)
	if err != nil {
		return nanElements(body, VariantA, jd), fmt.Errorf("heliocentric %s: %w", body, err)
	}

	helio := Elements{Body: body, Variant: VariantA, Epoch: ReduceTime(jd, VariantA)}
	for i := range helio.Values {
		helio.Values[i] = bary.Values[i] - sun.Values[i]
		helio.Rates[i] = bary.Rates[i] - sun.Rates[i]
	}
	return helio, nil
}

var defaultTheory = sync.OnceValues(func() (*Theory, error) {
	store, err := EmbeddedStore()
	if err != nil {
		return nil, fmt.Errorf("default theory: %w", err)
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		full, err := LoadFS(os.DirFS(dir))
		if err != nil {
			return nil, fmt.Errorf("default theory: %s=%s: %w", EnvDataDir, dir, err)
		}
		store = Merge(store, full)
	}
	logger().Debug("vsop87 default theory ready", "tables", store.Len())
	return NewTheory(store), nil
})

// Default returns the package-level theory, built on first use from the embedded
// tables plus, when the VSOP87_DATA environment variable names a directory, every
// IMCCE file found there. Later calls return the same theory or error.
func Default() (*Theory, error) {
	return defaultTheory()
}
