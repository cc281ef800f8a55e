package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfbtools/pfbgen/pkg/compare"
	"github.com/pfbtools/pfbgen/pkg/signal"
)

var (
	compareRaw       bool
	compareDType     string
	compareOffset    int
	comparePol       int
	compareNormalize bool

	compareCmd = &cobra.Command{
		Use:   "compare FILE_A FILE_B",
		Short: "Compare two dump files sample by sample",
		Long: paragraph(fmt.Sprintf(
			"\nCompare two dump files %s and report difference statistics. In raw mode the files are read as headerless binary samples starting at the given byte offset.",
			keyword("sample by sample"))),
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			dtype, err := signal.ParseDType(compareDType)
			if err != nil {
				return err
			}

			stats, err := compare.Files(args[0], args[1], compare.Options{
				Raw:       compareRaw,
				DType:     dtype,
				Offset:    compareOffset,
				Pol:       comparePol,
				Normalize: compareNormalize,
			})
			if err != nil {
				return err
			}

			fmt.Print(stats.Render())
			return nil
		},
	}
)

func init() {
	compareCmd.Flags().BoolVar(&compareRaw, "raw", false, "read headerless binary samples instead of dump files")
	compareCmd.Flags().StringVar(&compareDType, "dtype", "c64", "sample type in raw mode: f32, f64, c64 or c128")
	compareCmd.Flags().IntVar(&compareOffset, "offset", 0, "byte offset of the first sample in raw mode")
	compareCmd.Flags().IntVar(&comparePol, "pol", 0, "polarization to compare in dump mode")
	compareCmd.Flags().BoolVar(&compareNormalize, "normalize", false, "scale each series by its peak magnitude before differencing")
}
