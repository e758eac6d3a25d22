package cli

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mshafiee/vsop87"
)

// PositionOptions holds flags for the position command.
type PositionOptions struct {
	Variant string
	JD      float64
	Date    string
	Kepler  bool
	FK5     bool
}

// Vector is a rectangular triple.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Spherical is a spherical position with angles in degrees.
type Spherical struct {
	Longitude float64 `json:"longitude_deg"`
	Latitude  float64 `json:"latitude_deg"`
	Radius    float64 `json:"radius_au"`
}

// Kepler holds osculating elements with angles in degrees.
type Kepler struct {
	SemiMajorAxis      float64 `json:"a_au"`
	Eccentricity       float64 `json:"e"`
	Inclination        float64 `json:"i_deg"`
	AscendingNode      float64 `json:"node_deg"`
	PerihelionArgument float64 `json:"peri_deg"`
	MeanAnomaly        float64 `json:"mean_anomaly_deg"`
	PeriodDays         float64 `json:"period_days,omitempty"`
	Degeneracy         string  `json:"degeneracy"`
}

// PositionResult is the output of the position command.
type PositionResult struct {
	Body        string     `json:"body"`
	Variant     string     `json:"variant"`
	Frame       string     `json:"frame"`
	JD          float64    `json:"jd"`
	T           float64    `json:"t"`
	Variables   []string   `json:"variables"`
	Values      [6]float64 `json:"values"`
	Rates       [6]float64 `json:"rates"`
	Position    Vector     `json:"position_au"`
	Velocity    Vector     `json:"velocity_au_per_day"`
	Spherical   Spherical  `json:"spherical"`
	Kepler      *Kepler    `json:"kepler,omitempty"`
	EquatorialP *Vector    `json:"fk5_position_au,omitempty"`
}

// NewPositionCommand creates the position command.
func NewPositionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PositionOptions{}

	cmd := &cobra.Command{
		Use:   "position <body>",
		Short: "Compute the position of a body",
		Long: `Compute the VSOP87 variables of a body at one instant, together with the
rectangular and spherical position, the velocity and optionally the osculating
Keplerian elements.

The instant is given by --jd (Julian Date, TDB) or --date (RFC 3339 or
YYYY-MM-DD, read as TDB); without either the current time is used.`,
		Example: `  vsop87 position earth --variant D --jd 2451545
  vsop87 --data ./vsop87 position jupiter --variant A --date 2024-04-08 --kepler`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPosition(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Variant, "variant", "", "VSOP87 version: elliptic, A, B, C, D or E (default D, or the config value)")
	cmd.Flags().Float64Var(&opts.JD, "jd", 0, "Julian Date (TDB)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "calendar date, RFC 3339 or YYYY-MM-DD")
	cmd.Flags().BoolVar(&opts.Kepler, "kepler", false, "print osculating Keplerian elements")
	cmd.Flags().BoolVar(&opts.FK5, "fk5", false, "print the FK5 equatorial position (versions A and E)")
	cmd.MarkFlagsMutuallyExclusive("jd", "date")

	return cmd
}

func runPosition(rootOpts *RootOptions, opts *PositionOptions, bodyName string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	body, err := vsop87.ParseBody(bodyName)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "position", err)
	}
	variantName := opts.Variant
	if variantName == "" {
		variantName = rootOpts.Variant
	}
	if variantName == "" {
		variantName = "D"
	}
	variant, err := vsop87.ParseVariant(variantName)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "position", err)
	}
	jd, err := resolveJD(cmd, opts.JD, opts.Date, time.Now)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "position", err)
	}

	theory, err := rootOpts.theory()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeData, "load tables", err)
	}
	formatter.VerboseLog("Evaluating %s %s at JD %.6f with the %s evaluator", body, variant, jd, theory.Evaluator().Name())

	result, err := position(theory, body, variant, jd, opts)
	if err != nil {
		if vsop87.IsDataMissing(err) {
			err = fmt.Errorf("%w (use --data to load the IMCCE files)", err)
		}
		return formatter.Fail(ExitFailure, ErrCodeCompute, "position", err)
	}
	return formatter.Success(result)
}

// position evaluates the theory and collects every derived form.
func position(theory *vsop87.Theory, body vsop87.Body, variant vsop87.Variant, jd float64, opts *PositionOptions) (*PositionResult, error) {
	el, err := theory.Solve(body, variant, jd)
	if err != nil {
		return nil, err
	}
	pos, vel, err := el.State()
	if err != nil {
		return nil, err
	}
	sph, err := el.Spherical()
	if err != nil {
		return nil, err
	}

	result := &PositionResult{
		Body:      body.String(),
		Variant:   variant.String(),
		Frame:     frameName(variant),
		JD:        jd,
		T:         el.Epoch.T,
		Variables: variableNames(variant),
		Values:    el.Values,
		Rates:     el.Rates,
		Position:  Vector{X: pos.X, Y: pos.Y, Z: pos.Z},
		Velocity:  Vector{X: vel.DX, Y: vel.DY, Z: vel.DZ},
		Spherical: Spherical{
			Longitude: degrees(sph.Longitude),
			Latitude:  degrees(sph.Latitude),
			Radius:    sph.Radius,
		},
	}

	if opts.Kepler {
		k, err := el.Keplerian()
		if err != nil {
			return nil, err
		}
		result.Kepler = &Kepler{
			SemiMajorAxis:      k.SemiMajorAxis,
			Eccentricity:       k.Eccentricity,
			Inclination:        degrees(k.Inclination),
			AscendingNode:      degrees(k.AscendingNode),
			PerihelionArgument: degrees(k.PerihelionArgument),
			MeanAnomaly:        degrees(k.MeanAnomaly),
			Degeneracy:         k.Degeneracy().String(),
		}
		if p := k.Period(); !math.IsInf(p, 0) {
			result.Kepler.PeriodDays = p
		}
	}
	if opts.FK5 {
		eq, _, err := el.EquatorialFK5()
		if err != nil {
			return nil, err
		}
		result.EquatorialP = &Vector{X: eq.X, Y: eq.Y, Z: eq.Z}
	}
	return result, nil
}

// WriteText renders the result for humans.
func (r *PositionResult) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  JD %.6f  t = %.12f\n", r.Body, r.Variant, r.JD, r.T)
	fmt.Fprintf(&b, "%s\n", r.Frame)
	for i, name := range r.Variables {
		fmt.Fprintf(&b, "  %-2s = %20.12f   d/dt = %20.12e\n", name, r.Values[i], r.Rates[i])
	}
	fmt.Fprintf(&b, "  position  (AU)     [%16.10f, %16.10f, %16.10f]\n", r.Position.X, r.Position.Y, r.Position.Z)
	fmt.Fprintf(&b, "  velocity  (AU/day) [%16.10e, %16.10e, %16.10e]\n", r.Velocity.X, r.Velocity.Y, r.Velocity.Z)
	fmt.Fprintf(&b, "  longitude %14.8f°  latitude %12.8f°  radius %14.10f AU\n",
		r.Spherical.Longitude, r.Spherical.Latitude, r.Spherical.Radius)
	if k := r.Kepler; k != nil {
		fmt.Fprintf(&b, "Osculating elements (degeneracy: %s)\n", k.Degeneracy)
		fmt.Fprintf(&b, "  a = %.10f AU  e = %.10f  i = %.8f°\n", k.SemiMajorAxis, k.Eccentricity, k.Inclination)
		fmt.Fprintf(&b, "  Ω = %.8f°  ω = %.8f°  M = %.8f°\n", k.AscendingNode, k.PerihelionArgument, k.MeanAnomaly)
		if k.PeriodDays > 0 {
			fmt.Fprintf(&b, "  period = %.4f days\n", k.PeriodDays)
		}
	}
	if eq := r.EquatorialP; eq != nil {
		fmt.Fprintf(&b, "  FK5 equatorial (AU) [%16.10f, %16.10f, %16.10f]\n", eq.X, eq.Y, eq.Z)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// resolveJD returns the instant selected by --jd or --date, or now.
func resolveJD(cmd *cobra.Command, jd float64, date string, now func() time.Time) (float64, error) {
	switch {
	case cmd.Flags().Changed("jd"):
		if math.IsNaN(jd) || math.IsInf(jd, 0) {
			return 0, fmt.Errorf("--jd %v: %w", jd, vsop87.ErrInvalidInput)
		}
		return jd, nil
	case date != "":
		return parseDate(date)
	}
	return vsop87.JulianDay(now()), nil
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(s string) (float64, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if tm, err := time.Parse(layout, s); err == nil {
			return vsop87.JulianDay(tm), nil
		}
	}
	return 0, errors.New("--date " + s + ": expected RFC 3339 or YYYY-MM-DD")
}

// variableNames lists the names of the six slots of a version.
func variableNames(v vsop87.Variant) []string {
	switch {
	case v == vsop87.VariantElliptic:
		return []string{"a", "λ", "k", "h", "q", "p"}
	case v.Spherical():
		return []string{"L", "B", "R", "L'", "B'", "R'"}
	}
	return []string{"X", "Y", "Z", "X'", "Y'", "Z'"}
}

// frameName describes the reference frame of a version, title-cased.
func frameName(v vsop87.Variant) string {
	var frame string
	switch {
	case v == vsop87.VariantElliptic:
		frame = "heliocentric elliptic elements, ecliptic and equinox J2000"
	case v.Barycentric():
		frame = "barycentric rectangular, ecliptic and equinox J2000"
	case v.OfDate() && v.Spherical():
		frame = "heliocentric spherical, ecliptic and equinox of date"
	case v.OfDate():
		frame = "heliocentric rectangular, ecliptic and equinox of date"
	case v.Spherical():
		frame = "heliocentric spherical, ecliptic and equinox J2000"
	default:
		frame = "heliocentric rectangular, ecliptic and equinox J2000"
	}
	return cases.Title(language.English, cases.NoLower).String(frame)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
