package cli

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/mshafiee/vsop87"
)

// PackOptions holds flags for the pack command.
type PackOptions struct {
	BigEndian bool
}

// PackResult is the output of the pack command.
type PackResult struct {
	Output    string   `json:"output"`
	ByteOrder string   `json:"byte_order"`
	Tables    []string `json:"tables"`
	Terms     int      `json:"terms"`
}

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PackOptions{}

	cmd := &cobra.Command{
		Use:   "pack <src-dir> <output>",
		Short: "Convert IMCCE files to a binary pack",
		Long: `Read every VSOP87 file of src-dir and write the tables as one binary
pack, loadable with --pack. --min-amplitude truncates the series while packing.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(rootOpts, opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.BigEndian, "big-endian", false, "write the pack in big-endian byte order")

	return cmd
}

func runPack(rootOpts *RootOptions, opts *PackOptions, srcDir, output string, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)

	store, err := vsop87.LoadFS(os.DirFS(srcDir), rootOpts.loadOptions()...)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeData, "load "+srcDir, err)
	}
	infos := store.Tables()
	formatter.VerboseLog("Loaded %d table(s) from %s", len(infos), srcDir)

	var order binary.ByteOrder = binary.LittleEndian
	if opts.BigEndian {
		order = binary.BigEndian
	}
	if err := writePack(store, output, order); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeData, "write "+output, err)
	}

	return formatter.Success(&PackResult{
		Output:    output,
		ByteOrder: order.String(),
		Tables: lo.Map(infos, func(info vsop87.TableInfo, _ int) string {
			return vsop87.FileName(info.Body, info.Variant)
		}),
		Terms: lo.SumBy(infos, func(info vsop87.TableInfo) int { return info.Terms }),
	})
}

func writePack(store *vsop87.Store, path string, order binary.ByteOrder) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return store.WritePackOrder(f, order)
}

// WriteText renders the result for humans.
func (r *PackResult) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Wrote %s (%s): %d table(s), %d term(s)\n  %s\n",
		r.Output, r.ByteOrder, len(r.Tables), r.Terms, strings.Join(r.Tables, " "))
	return err
}
