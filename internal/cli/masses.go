package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mshafiee/vsop87"
)

// MassRow is one line of the mass table.
type MassRow struct {
	Body        string  `json:"body"`
	MassRatio   float64 `json:"mass_ratio"`   // mass(body)/mass(Sun)
	InverseMass float64 `json:"inverse_mass"` // mass(Sun)/mass(body)
	GM          float64 `json:"gm_au3_day2"`  // k²(1 + mass ratio)
}

// MassesResult is the output of the masses command.
type MassesResult struct {
	GaussianConstant float64   `json:"gaussian_constant"`
	Bodies           []MassRow `json:"bodies"`
}

// NewMassesCommand creates the masses command.
func NewMassesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "masses",
		Short: "Print the planetary masses used by the theory",
		Long: `Print the planetary masses adopted by VSOP87 and the gravitational
parameters k²(1 + m) used to convert positions and velocities to osculating
elements. For the Sun the parameter is k².`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.formatter(cmd).Success(masses())
		},
	}
}

func masses() *MassesResult {
	return &MassesResult{
		GaussianConstant: vsop87.GaussianGravitationalConstant,
		Bodies: lo.Map(vsop87.Bodies, func(b vsop87.Body, _ int) MassRow {
			if b == vsop87.Sun {
				return MassRow{Body: b.String(), MassRatio: 1, InverseMass: 1, GM: vsop87.SunGM}
			}
			ratio := b.MassRatio()
			return MassRow{Body: b.String(), MassRatio: ratio, InverseMass: 1 / ratio, GM: b.GM()}
		}),
	}
}

// WriteText renders the mass table for humans.
func (r *MassesResult) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Gaussian gravitational constant k = %.11f\n", r.GaussianConstant)
	fmt.Fprintf(&b, "%-22s %21s %21s %21s\n", "Body", "mass(body)/mass(sun)", "mass(sun)/mass(body)", "GM (AU³/day²)")
	for _, row := range r.Bodies {
		fmt.Fprintf(&b, "%-22s %21.15e %21.4f %21.15e\n", row.Body, row.MassRatio, row.InverseMass, row.GM)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
