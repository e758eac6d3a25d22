package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mshafiee/vsop87"
)

// TableRow describes one loaded table.
type TableRow struct {
	File     string `json:"file"`
	Terms    int    `json:"terms"`
	MaxPower int    `json:"max_power"`
	Source   string `json:"source"`
}

// InfoResult is the output of the info command.
type InfoResult struct {
	Evaluator string     `json:"evaluator"`
	Vector    bool       `json:"vector"`
	CPU       string     `json:"cpu"`
	Level     string     `json:"level"`
	Lanes     int        `json:"lanes"`
	Disabled  bool       `json:"simd_disabled"`
	Tables    []TableRow `json:"tables"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "info",
		Short:         "Show the evaluator selection and the loaded tables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			theory, err := rootOpts.theory()
			if err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeData, "load tables", err)
			}
			return formatter.Success(info(theory))
		},
	}
}

func info(theory *vsop87.Theory) *InfoResult {
	caps := vsop87.DetectCapabilities()
	return &InfoResult{
		Evaluator: theory.Evaluator().Name(),
		Vector:    caps.Vector,
		CPU:       caps.CPU,
		Level:     caps.Level,
		Lanes:     caps.Lanes,
		Disabled:  caps.Disabled,
		Tables: lo.Map(theory.Store().Tables(), func(t vsop87.TableInfo, _ int) TableRow {
			return TableRow{
				File:     vsop87.FileName(t.Body, t.Variant),
				Terms:    t.Terms,
				MaxPower: t.MaxPower,
				Source:   t.Source,
			}
		}),
	}
}

// WriteText renders the result for humans.
func (r *InfoResult) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "evaluator  %s\n", r.Evaluator)
	fmt.Fprintf(&b, "cpu        %s (level %s, %d float64 lanes)\n", r.CPU, r.Level, r.Lanes)
	if r.Disabled {
		fmt.Fprintf(&b, "simd       disabled by environment\n")
	}
	fmt.Fprintf(&b, "tables     %d\n", len(r.Tables))
	for _, t := range r.Tables {
		fmt.Fprintf(&b, "  %-12s %7d terms  t^%d  %s\n", t.File, t.Terms, t.MaxPower, t.Source)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
