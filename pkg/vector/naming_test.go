package vector

import (
	"testing"

	"github.com/pfbtools/pfbgen/pkg/signal"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		name    string
		funcID  string
		n       int
		args    []float64
		nPol    int
		dtype   signal.DType
		backend Backend
		want    string
	}{
		{
			name:    "single tone native",
			funcID:  "complex_sinusoid",
			n:       1000,
			args:    []float64{0.1},
			nPol:    2,
			dtype:   signal.Complex64,
			backend: BackendNative,
			want:    "complex_sinusoid.1000.0.100.2.single.python",
		},
		{
			name:    "impulse external double",
			funcID:  "time_domain_impulse",
			n:       1000,
			args:    []float64{0.1, 1},
			nPol:    2,
			dtype:   signal.Complex128,
			backend: BackendExternal,
			want:    "time_domain_impulse.1000.0.100-1.000.2.double.matlab",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanonicalName(tt.funcID, tt.n, tt.args, tt.nPol, tt.dtype, tt.backend)
			if got != tt.want {
				t.Errorf("CanonicalName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDumpFileName(t *testing.T) {
	base := CanonicalName("complex_sinusoid", 1000, []float64{0.1}, 2, signal.Complex64, BackendNative)
	if got, want := DumpFileName(base), "complex_sinusoid.1000.0.100.2.single.python.dump"; got != want {
		t.Errorf("DumpFileName = %q, want %q", got, want)
	}
}

func TestOutputFileNames(t *testing.T) {
	out, logName := outputFileNames("", "base")
	if out != "base.dump" || logName != "base.log" {
		t.Errorf("default names = (%q, %q), want (base.dump, base.log)", out, logName)
	}

	// An explicit output name wins for the data file; the log follows its
	// stem rather than the canonical base.
	out, logName = outputFileNames("custom.dump", "base")
	if out != "custom.dump" || logName != "custom.log" {
		t.Errorf("explicit names = (%q, %q), want (custom.dump, custom.log)", out, logName)
	}

	// Any extension is stripped when deriving the log stem, not just .dump.
	out, logName = outputFileNames("custom.bin", "base")
	if out != "custom.bin" || logName != "custom.log" {
		t.Errorf("explicit names = (%q, %q), want (custom.bin, custom.log)", out, logName)
	}

	out, logName = outputFileNames("bare", "base")
	if out != "bare" || logName != "bare.log" {
		t.Errorf("explicit names = (%q, %q), want (bare, bare.log)", out, logName)
	}
}
