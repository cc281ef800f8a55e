package dada

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pfbtools/pfbgen/pkg/signal"
)

func TestWriteReadRoundTrip(t *testing.T) {
	sig, err := signal.ComplexSinusoid(64, []float64{0.25}, []float64{0}, 0, signal.Complex64)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "tone.dump")
	tmpl := Header{"TELESCOPE": "TEST", "TSAMP": "0.025"}
	if err := WriteFile(path, tmpl, sig, 2); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if f.NPol != 2 {
		t.Errorf("NPOL = %d, want 2", f.NPol)
	}
	if f.DType != signal.Complex64 {
		t.Errorf("dtype = %v, want %v", f.DType, signal.Complex64)
	}
	if f.Header["TELESCOPE"] != "TEST" {
		t.Errorf("template field dropped: TELESCOPE = %q", f.Header["TELESCOPE"])
	}

	for p := 0; p < 2; p++ {
		if len(f.Data[p]) != sig.Len() {
			t.Fatalf("pol %d: got %d samples, want %d", p, len(f.Data[p]), sig.Len())
		}
		for i := range f.Data[p] {
			// Single precision round trip loses double precision tails.
			if d := f.Data[p][i] - sig.Data[i]; real(d)*real(d)+imag(d)*imag(d) > 1e-12 {
				t.Fatalf("pol %d sample %d: got %v, want %v", p, i, f.Data[p][i], sig.Data[i])
			}
		}
	}
}

func TestWriteRealDType(t *testing.T) {
	sig, err := signal.TimeDomainImpulse(10, []float64{0.2}, []int{3}, signal.Float64)
	if err != nil {
		t.Fatalf("TimeDomainImpulse failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "impulse.dump")
	if err := WriteFile(path, Header{}, sig, 1); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if f.DType != signal.Float64 {
		t.Fatalf("dtype = %v, want %v", f.DType, signal.Float64)
	}
	for i, v := range f.Data[0] {
		if v != sig.Data[i] {
			t.Errorf("sample %d: got %v, want %v", i, v, sig.Data[i])
		}
	}
}

func TestReadRawOffset(t *testing.T) {
	sig, err := signal.ComplexSinusoid(16, []float64{0.125}, []float64{0}, 0, signal.Complex128)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "raw.dump")
	if err := WriteFile(path, Header{}, sig, 1); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Skipping the header block yields the raw payload.
	data, err := ReadRaw(path, signal.Complex128, HeaderSize)
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	if len(data) != sig.Len() {
		t.Fatalf("got %d samples, want %d", len(data), sig.Len())
	}
	for i := range data {
		if data[i] != sig.Data[i] {
			t.Errorf("sample %d: got %v, want %v", i, data[i], sig.Data[i])
		}
	}
}

func TestReadRawOffsetOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.dump")
	if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}

	if _, err := ReadRaw(path, signal.Complex128, -1); err == nil {
		t.Error("expected error for negative offset")
	}
	if _, err := ReadRaw(path, signal.Complex128, 65); err == nil {
		t.Error("expected error for offset past end of file")
	}
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "header.json")
	body := `{"TELESCOPE": "TEST", "NCHAN": 1, "TSAMP": 0.025, "FREQ": 1405.0}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("unable to write template: %v", err)
	}

	hdr, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}

	tests := map[string]string{
		"TELESCOPE": "TEST",
		"NCHAN":     "1",
		"TSAMP":     "0.025",
		"FREQ":      "1405",
	}
	for k, want := range tests {
		if got := hdr[k]; got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestTruncatedFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.dump")
	if err := os.WriteFile(path, []byte("HDR"), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}
	if _, err := ReadFile(path); err == nil {
		t.Fatal("expected error for truncated dump file")
	}
}
