// Package compare computes difference statistics between dump files, the
// text-mode counterpart of the plotting comparator used alongside the
// external toolchain.
package compare

import (
	"fmt"
	"math"
	"math/cmplx"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pfbtools/pfbgen/pkg/dada"
	"github.com/pfbtools/pfbgen/pkg/signal"
)

// Options controls how input files are loaded before comparison.
type Options struct {
	// Raw switches to headerless binary mode: samples of the given DType
	// are read starting at Offset bytes. When false, files are parsed as
	// DADA dump files and polarization Pol is compared.
	Raw    bool
	DType  signal.DType
	Offset int

	// Pol selects the polarization to compare in dump mode.
	Pol int

	// Normalize scales each series by its own peak magnitude before
	// differencing.
	Normalize bool
}

// Stats are the per-pair comparison products: the same argmax/mean/sum
// products the plotting comparator reports, without the figures.
type Stats struct {
	FileA, FileB string
	N            int

	MaxDiff    float64
	MeanDiff   float64
	ArgMaxDiff int
	SumDiff    float64

	PowerA float64
	PowerB float64
}

// Signals compares two sample series, chopped to their common length.
func Signals(a, b []complex128) Stats {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var s Stats
	s.N = n
	for i := 0; i < n; i++ {
		d := cmplx.Abs(a[i] - b[i])
		s.SumDiff += d
		if d > s.MaxDiff {
			s.MaxDiff = d
			s.ArgMaxDiff = i
		}
		s.PowerA += real(a[i])*real(a[i]) + imag(a[i])*imag(a[i])
		s.PowerB += real(b[i])*real(b[i]) + imag(b[i])*imag(b[i])
	}
	if n > 0 {
		s.MeanDiff = s.SumDiff / float64(n)
	}
	return s
}

// Files loads two files per opts and compares them.
func Files(pathA, pathB string, opts Options) (Stats, error) {
	a, err := load(pathA, opts)
	if err != nil {
		return Stats{}, err
	}
	b, err := load(pathB, opts)
	if err != nil {
		return Stats{}, err
	}

	if opts.Normalize {
		normalize(a)
		normalize(b)
	}

	s := Signals(a, b)
	s.FileA = filepath.Base(pathA)
	s.FileB = filepath.Base(pathB)
	return s, nil
}

func load(path string, opts Options) ([]complex128, error) {
	if opts.Raw {
		return dada.ReadRaw(path, opts.DType, opts.Offset)
	}

	f, err := dada.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if opts.Pol < 0 || opts.Pol >= f.NPol {
		return nil, fmt.Errorf("file %s has %d polarizations, requested %d", path, f.NPol, opts.Pol)
	}
	return f.Data[opts.Pol], nil
}

func normalize(data []complex128) {
	var peak float64
	for _, v := range data {
		if a := cmplx.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	for i := range data {
		data[i] /= complex(peak, 0)
	}
}

var (
	labelStyle = lipgloss.NewStyle().Bold(true).Width(12)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	diffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// Render formats the statistics as an aligned report for the terminal.
func (s Stats) Render() string {
	verdict := diffStyle.Render("signals differ")
	if s.MaxDiff < 1e-6 {
		verdict = okStyle.Render("signals match (tolerance 1e-6)")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s vs %s\n", labelStyle.Render("files"), s.FileA, s.FileB)
	fmt.Fprintf(&b, "%s %d samples\n", labelStyle.Render("compared"), s.N)
	fmt.Fprintf(&b, "%s %.6g (at sample %d)\n", labelStyle.Render("max |diff|"), s.MaxDiff, s.ArgMaxDiff)
	fmt.Fprintf(&b, "%s %.6g\n", labelStyle.Render("mean |diff|"), s.MeanDiff)
	fmt.Fprintf(&b, "%s %.6g / %.6g (%.2f dB)\n", labelStyle.Render("power"), s.PowerA, s.PowerB, s.PowerRatioDB())
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("verdict"), verdict)
	return b.String()
}

// PowerRatioDB returns the power ratio of the two series in decibels,
// +Inf safe.
func (s Stats) PowerRatioDB() float64 {
	if s.PowerB == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(s.PowerA/s.PowerB)
}
