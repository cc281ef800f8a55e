package vector

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pfbtools/pfbgen/pkg/dada"
	"github.com/pfbtools/pfbgen/pkg/signal"
)

// Tool names of the external toolchain executables, resolved relative to
// Config.BuildDir.
const (
	generateTool   = "generate_test_vector"
	channelizeTool = "channelize"
	synthesizeTool = "synthesize"
)

// Invoker executes the pipeline stages under a configured backend. The
// generation stage runs natively or through the external toolchain;
// channelization and synthesis only exist in the external toolchain.
type Invoker struct {
	cfg    Config
	logger *log.Logger
}

// NewInvoker builds an invoker from explicit configuration.
func NewInvoker(cfg Config, logger *log.Logger) *Invoker {
	if logger == nil {
		logger = log.Default()
	}
	return &Invoker{cfg: cfg, logger: logger}
}

// Backend returns the configured backend.
func (inv *Invoker) Backend() Backend { return inv.cfg.Backend }

// GenerateOptions carries the per-request knobs of the generation stage.
type GenerateOptions struct {
	// NPol is the polarization count of the output vector.
	NPol int
	// DType is the sample datatype.
	DType signal.DType
	// OutputDir receives the data and log files. Defaults to ".".
	OutputDir string
	// OutputFileName overrides the canonical data file name. The
	// canonical name still governs cache placement.
	OutputFileName string
	// HeaderTemplate overrides the configured header template path.
	HeaderTemplate string
}

// GenerateTestVector runs the generation stage: it produces the domain's
// signal with args as the ordered domain parameters and writes it as a
// dump file. It returns the full path of the written file.
func (inv *Invoker) GenerateTestVector(ctx context.Context, domain Domain, nBins int, args []float64, opts GenerateOptions) (string, error) {
	if opts.NPol < 1 {
		opts.NPol = 1
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}
	headerTemplate := opts.HeaderTemplate
	if headerTemplate == "" {
		headerTemplate = inv.cfg.HeaderTemplate
	}

	base := CanonicalName(domain.GeneratorName(), nBins, args, opts.NPol, opts.DType, inv.cfg.Backend)
	outName, logName := outputFileNames(opts.OutputFileName, base)
	outPath := filepath.Join(opts.OutputDir, outName)

	if inv.cfg.Backend == BackendExternal {
		argv := []string{
			domain.GeneratorName(),
			strconv.Itoa(nBins),
			joinArgs(args, ","),
			opts.DType.Tag(),
			strconv.Itoa(opts.NPol),
			headerTemplate,
			outName,
			opts.OutputDir,
			"1",
		}
		if err := inv.runTool(ctx, "generate", generateTool, argv, filepath.Join(opts.OutputDir, logName)); err != nil {
			return "", err
		}
		return outPath, nil
	}

	sig, err := inv.generateNative(domain, nBins, args, opts.DType)
	if err != nil {
		return "", err
	}

	tmpl := dada.Header{}
	if headerTemplate != "" {
		tmpl, err = dada.LoadTemplate(headerTemplate)
		if err != nil {
			return "", err
		}
	}
	if err := dada.WriteFile(outPath, tmpl, sig, opts.NPol); err != nil {
		return "", err
	}
	inv.logger.Debug("generated test vector",
		"domain", domain, "n", nBins, "npol", opts.NPol, "file", outPath)
	return outPath, nil
}

// generateNative dispatches to the in-process signal generators with the
// parameter values interleaved in their fixed domain order.
func (inv *Invoker) generateNative(domain Domain, nBins int, args []float64, dtype signal.DType) (signal.Signal, error) {
	names := domain.ParamNames()
	if len(args) != len(names) {
		return signal.Signal{}, fmt.Errorf("domain %s takes %d generator arguments %v, got %d",
			domain, len(names), names, len(args))
	}

	switch domain {
	case DomainTime:
		return signal.TimeDomainImpulse(nBins, []float64{args[0]}, []int{int(args[1])}, dtype)
	default:
		return signal.ComplexSinusoid(nBins, []float64{args[0]}, []float64{args[1]}, args[2], dtype)
	}
}

// Channelize runs the channelization stage on a previously generated dump
// file, decomposing it into channels sub-bands at the given oversampling
// factor (e.g. "8/7") using the FIR filter coefficients at firPath. Only
// the external toolchain implements this stage.
func (inv *Invoker) Channelize(ctx context.Context, inputPath string, channels int, osFactor, firPath string, outputDir, outputFileName string) (string, error) {
	if inv.cfg.Backend != BackendExternal {
		return "", fmt.Errorf("%w: channelize has no native implementation", ErrUnsupportedCapability)
	}
	if outputDir == "" {
		outputDir = "."
	}

	base := fmt.Sprintf("%s.%d.%s", channelizeTool, channels, strings.ReplaceAll(osFactor, "/", "-"))
	outName, logName := outputFileNames(outputFileName, base)

	argv := []string{
		inputPath,
		strconv.Itoa(channels),
		osFactor,
		firPath,
		outName,
		outputDir,
		"1",
	}
	if err := inv.runTool(ctx, "channelize", channelizeTool, argv, filepath.Join(outputDir, logName)); err != nil {
		return "", err
	}
	return filepath.Join(outputDir, outName), nil
}

// Synthesize runs the synthesis (inverse PFB) stage on a channelized dump
// file with the given forward FFT length. Only the external toolchain
// implements this stage.
func (inv *Invoker) Synthesize(ctx context.Context, inputPath string, inputFFTLength int, outputDir, outputFileName string) (string, error) {
	if inv.cfg.Backend != BackendExternal {
		return "", fmt.Errorf("%w: synthesize has no native implementation", ErrUnsupportedCapability)
	}
	if outputDir == "" {
		outputDir = "."
	}

	base := fmt.Sprintf("%s.%d", synthesizeTool, inputFFTLength)
	outName, logName := outputFileNames(outputFileName, base)

	argv := []string{
		inputPath,
		strconv.Itoa(inputFFTLength),
		outName,
		outputDir,
		"1",
	}
	if err := inv.runTool(ctx, "synthesize", synthesizeTool, argv, filepath.Join(outputDir, logName)); err != nil {
		return "", err
	}
	return filepath.Join(outputDir, outName), nil
}

// runTool invokes one toolchain executable, capturing combined
// stdout+stderr into logPath. A non-zero exit status is fatal. There is
// no timeout: a hung tool blocks the pipeline, and cancellation only
// happens through ctx.
func (inv *Invoker) runTool(ctx context.Context, stage, tool string, argv []string, logPath string) error {
	toolPath := filepath.Join(inv.cfg.BuildDir, tool)

	logFile, err := os.Create(logPath)
	if err != nil {
		return &StageError{Stage: stage, Err: fmt.Errorf("unable to create log file: %w", err)}
	}
	defer logFile.Close() //nolint:errcheck

	inv.logger.Debug("running external stage", "stage", stage, "cmd", toolPath, "args", argv)
	start := time.Now()

	cmd := exec.CommandContext(ctx, toolPath, argv...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			// The tool never ran (missing binary, permission problem); keep
			// the cause, there is no exit status or log to point at.
			inv.logger.Error("external stage failed to start", "stage", stage, "cmd", toolPath, "err", err)
			return &StageError{Stage: stage, ExitCode: -1, Err: fmt.Errorf("%w: %v", ErrExternalTool, err)}
		}
		inv.logger.Error("external stage failed",
			"stage", stage, "exitCode", exitErr.ExitCode(), "log", logPath, "duration", time.Since(start))
		return &StageError{Stage: stage, ExitCode: exitErr.ExitCode(), LogFile: logPath, Err: nil}
	}

	inv.logger.Debug("external stage finished", "stage", stage, "duration", time.Since(start))
	return nil
}
