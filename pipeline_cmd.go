package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pfbtools/pfbgen/pkg/signal"
	"github.com/pfbtools/pfbgen/pkg/vector"
)

var (
	pipelineDomain string
	pipelineParams []float64
	pipelineNBins  int
	pipelineNPol   int
	pipelineDType  string
	pipelineChans  int
	pipelineOS     string
	pipelineFIR    string
	pipelineFFT    int

	pipelineCmd = &cobra.Command{
		Use:   "pipeline",
		Short: "Run generate, channelize and synthesize for one parameter set",
		Long: paragraph(fmt.Sprintf(
			"\nRun the full pipeline for one parameter set. Results are %s by the generation parameters: a later run with the same parameters reuses the stored artifacts instead of invoking the toolchain again.",
			keyword("cached"))),
		Example: paragraph(strings.Join([]string{
			"pfbgen pipeline --domain freq --params 0.1,0.785,0.05 --channels 8 --os-factor 8/7 --fir OS_Prototype_FIR_8.mat",
			"pfbgen pipeline --domain time --params 0.2,3 --channels 8 --os-factor 1/1 --fir FIR_8.mat --fft-length 16384",
		}, "\n")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := pipelineConfig()
			if err != nil {
				return err
			}

			domain, err := vector.ParseDomain(pipelineDomain)
			if err != nil {
				return err
			}
			dtype, err := signal.ParseDType(pipelineDType)
			if err != nil {
				return err
			}
			params, err := vector.NewParameterSet(domain, pipelineParams...)
			if err != nil {
				return err
			}

			logger := log.Default()
			cache := vector.NewCache(cfg, logger)
			invoker := vector.NewInvoker(cfg, logger)

			meta, fromCache, err := vector.Produce(cmd.Context(), cache, invoker, params,
				vector.GenerateArgs{NPol: pipelineNPol, NBins: pipelineNBins, DType: dtype},
				vector.ChannelizeArgs{Channels: pipelineChans, OSFactor: pipelineOS, FIRPath: pipelineFIR},
				vector.SynthesizeArgs{InputFFTLength: pipelineFFT},
				logger)
			if err != nil {
				return err
			}

			if fromCache {
				logger.Info("Reusing cached artifacts", "key", params.Key())
			} else {
				logger.Info("Pipeline complete", "key", params.Key())
			}

			dir := cache.EntryDir(params)
			fmt.Println(filepath.Join(dir, meta.InputFile))
			fmt.Println(filepath.Join(dir, meta.ChannelizedFile))
			fmt.Println(filepath.Join(dir, meta.InvertedFile))
			return nil
		},
	}
)

func init() {
	pipelineCmd.Flags().StringVarP(&pipelineDomain, "domain", "d", "freq", "test vector domain: time or freq")
	pipelineCmd.Flags().Float64SliceVarP(&pipelineParams, "params", "p", nil, "generation parameters in positional order")
	pipelineCmd.Flags().IntVarP(&pipelineNBins, "n", "n", 1000, "number of samples to generate")
	pipelineCmd.Flags().IntVar(&pipelineNPol, "npol", 2, "number of polarizations")
	pipelineCmd.Flags().StringVar(&pipelineDType, "dtype", "c64", "sample type: f32, f64, c64 or c128")
	pipelineCmd.Flags().IntVarP(&pipelineChans, "channels", "c", 8, "number of PFB output channels")
	pipelineCmd.Flags().StringVar(&pipelineOS, "os-factor", "8/7", "oversampling factor as a ratio")
	pipelineCmd.Flags().StringVar(&pipelineFIR, "fir", "", "path to the FIR filter coefficient file")
	pipelineCmd.Flags().IntVar(&pipelineFFT, "fft-length", 16384, "input FFT length for synthesis")
	_ = pipelineCmd.MarkFlagRequired("params")
	_ = pipelineCmd.MarkFlagRequired("fir")
}
