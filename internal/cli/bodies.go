package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mshafiee/vsop87"
)

// BodiesOptions holds flags for the bodies command.
type BodiesOptions struct {
	JD     float64
	Matrix bool
}

// BodyState is the state of one loaded table at the requested instant.
type BodyState struct {
	Body     string     `json:"body"`
	Variant  string     `json:"variant"`
	Values   [6]float64 `json:"values"`
	Distance float64    `json:"distance_au"`
	Error    string     `json:"error,omitempty"`
}

// BodiesResult is the output of the bodies command.
type BodiesResult struct {
	JD     float64     `json:"jd"`
	States []BodyState `json:"states"`
}

// AvailabilityCell tells whether VSOP87 publishes a body in one version and
// whether the table is loaded.
type AvailabilityCell struct {
	Body      string `json:"body"`
	Variant   string `json:"variant"`
	Available bool   `json:"available"`
	Loaded    bool   `json:"loaded"`
}

// AvailabilityResult is the output of the bodies command with --matrix.
type AvailabilityResult struct {
	Cells []AvailabilityCell `json:"cells"`
}

// NewBodiesCommand creates the bodies command.
func NewBodiesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BodiesOptions{}

	cmd := &cobra.Command{
		Use:   "bodies",
		Short: "Evaluate every loaded body and version",
		Long: `Evaluate every loaded table at one instant and print the first variables
and the heliocentric (barycentric for version E) distance.

With --matrix, print which versions VSOP87 publishes for each body and which
of them are loaded instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBodies(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.JD, "jd", vsop87.J2000, "Julian Date (TDB)")
	cmd.Flags().BoolVar(&opts.Matrix, "matrix", false, "print the availability matrix")

	return cmd
}

func runBodies(rootOpts *RootOptions, opts *BodiesOptions, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	theory, err := rootOpts.theory()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeData, "load tables", err)
	}
	if opts.Matrix {
		return formatter.Success(availability(theory.Store()))
	}

	if math.IsNaN(opts.JD) || math.IsInf(opts.JD, 0) {
		return formatter.Fail(ExitCommandError, ErrCodeUsage, "bodies",
			fmt.Errorf("--jd %v: %w", opts.JD, vsop87.ErrInvalidInput))
	}

	tables := theory.Store().Tables()
	formatter.VerboseLog("Evaluating %d table(s) at JD %.6f", len(tables), opts.JD)
	result := &BodiesResult{
		JD: opts.JD,
		States: lo.Map(tables, func(info vsop87.TableInfo, _ int) BodyState {
			return bodyState(theory, info.Body, info.Variant, opts.JD)
		}),
	}
	if failed := lo.CountBy(result.States, func(s BodyState) bool { return s.Error != "" }); failed > 0 {
		if err := formatter.Success(result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("%d table(s) could not be evaluated", failed))
	}
	return formatter.Success(result)
}

// bodyState evaluates one table; failures are recorded, not returned.
func bodyState(theory *vsop87.Theory, body vsop87.Body, v vsop87.Variant, jd float64) BodyState {
	s := BodyState{Body: body.String(), Variant: v.String()}
	el, err := theory.Solve(body, v, jd)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	pos, err := el.Rectangular()
	if err != nil {
		s.Error = err.Error()
		return s
	}
	sph, err := pos.Spherical()
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.Values = el.Values
	s.Distance = sph.Radius
	return s
}

// availability builds the body × version matrix.
func availability(store *vsop87.Store) *AvailabilityResult {
	cells := lo.FlatMap(vsop87.Bodies, func(b vsop87.Body, _ int) []AvailabilityCell {
		return lo.Map(vsop87.Variants, func(v vsop87.Variant, _ int) AvailabilityCell {
			return AvailabilityCell{
				Body:      b.String(),
				Variant:   v.String(),
				Available: vsop87.Available(b, v),
				Loaded:    store.Has(b, v),
			}
		})
	})
	return &AvailabilityResult{Cells: cells}
}

// WriteText renders the states for humans.
func (r *BodiesResult) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "JD %.6f\n", r.JD)
	for _, s := range r.States {
		if s.Error != "" {
			fmt.Fprintf(&b, "%-22s %-8s error: %s\n", s.Body, s.Variant, s.Error)
			continue
		}
		fmt.Fprintf(&b, "%-22s %-8s [%16.10f, %16.10f, %16.10f]  r = %.10f AU\n",
			s.Body, s.Variant, s.Values[0], s.Values[1], s.Values[2], s.Distance)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText renders the matrix for humans: "loaded", "yes" for available but not
// loaded, "-" for versions VSOP87 does not publish.
func (r *AvailabilityResult) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-22s", "Body")
	for _, v := range vsop87.Variants {
		fmt.Fprintf(&b, " %7s", v)
	}
	b.WriteByte('\n')

	rows := lo.GroupBy(r.Cells, func(c AvailabilityCell) string { return c.Body })
	for _, body := range vsop87.Bodies {
		fmt.Fprintf(&b, "%-22s", body)
		for _, c := range rows[body.String()] {
			mark := "-"
			switch {
			case c.Loaded:
				mark = "loaded"
			case c.Available:
				mark = "yes"
			}
			fmt.Fprintf(&b, " %7s", mark)
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}
