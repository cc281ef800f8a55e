package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pfbtools/pfbgen/pkg/signal"
	"github.com/pfbtools/pfbgen/pkg/vector"
)

var (
	generateDomain string
	generateNBins  int
	generateArgs   []float64
	generateNPol   int
	generateDType  string
	generateOutDir string
	generateOut    string

	generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "Generate a single test vector dump file",
		Long: paragraph(fmt.Sprintf(
			"\nGenerate a %s test vector and write it as a dump file. Time domain vectors take an impulse offset and width; frequency domain vectors take a frequency, phase and bin offset.",
			keyword("deterministic"))),
		Example: paragraph(strings.Join([]string{
			"pfbgen generate --domain freq --n 1000 --args 0.1,0.785,0.05",
			"pfbgen generate --domain time --n 1000 --args 0.2,3 --npol 1",
		}, "\n")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := pipelineConfig()
			if err != nil {
				return err
			}

			domain, err := vector.ParseDomain(generateDomain)
			if err != nil {
				return err
			}
			dtype, err := signal.ParseDType(generateDType)
			if err != nil {
				return err
			}

			outDir := generateOutDir
			if outDir == "" {
				outDir = "."
			}

			invoker := vector.NewInvoker(cfg, log.Default())
			path, err := invoker.GenerateTestVector(cmd.Context(), domain, generateNBins, generateArgs, vector.GenerateOptions{
				NPol:           generateNPol,
				DType:          dtype,
				OutputDir:      outDir,
				OutputFileName: generateOut,
				HeaderTemplate: cfg.HeaderTemplate,
			})
			if err != nil {
				return err
			}

			fmt.Println(path)
			return nil
		},
	}
)

func init() {
	generateCmd.Flags().StringVarP(&generateDomain, "domain", "d", "freq", "test vector domain: time or freq")
	generateCmd.Flags().IntVarP(&generateNBins, "n", "n", 1000, "number of samples to generate")
	generateCmd.Flags().Float64SliceVarP(&generateArgs, "args", "a", nil, "generator arguments in positional order")
	generateCmd.Flags().IntVar(&generateNPol, "npol", 2, "number of polarizations")
	generateCmd.Flags().StringVar(&generateDType, "dtype", "c64", "sample type: f32, f64, c64 or c128")
	generateCmd.Flags().StringVarP(&generateOutDir, "output-dir", "o", "", "directory to write the dump file into")
	generateCmd.Flags().StringVar(&generateOut, "output", "", "override the canonical output file name")
	_ = generateCmd.MarkFlagRequired("args")
}
