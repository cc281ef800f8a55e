package signal

import (
	"math"
	"testing"
)

const tol = 1e-6

func TestComplexSinusoidSingleTone(t *testing.T) {
	// A tone at a quarter of the sampling rate lands exactly on bin 2 of an
	// 8 point signal and cycles through the four cardinal phasors.
	sig, err := ComplexSinusoid(8, []float64{0.25}, []float64{0}, 0, Complex64)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}

	want := []complex128{1, 1i, -1, -1i, 1, 1i, -1, -1i}
	if sig.Len() != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), sig.Len())
	}
	for i := range want {
		if d := cmplxAbsDiff(sig.Data[i], want[i]); d > tol {
			t.Errorf("sample %d: got %v, want %v (diff %g)", i, sig.Data[i], want[i], d)
		}
	}
}

func TestComplexSinusoidDeterminism(t *testing.T) {
	a, err := ComplexSinusoid(1000, []float64{0.1, 0.33}, []float64{0, math.Pi / 4}, 0.1, Complex128)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}
	b, err := ComplexSinusoid(1000, []float64{0.1, 0.33}, []float64{0, math.Pi / 4}, 0.1, Complex128)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}

	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("sample %d differs between identical calls: %v != %v", i, a.Data[i], b.Data[i])
		}
	}
}

func TestComplexSinusoidSuperposition(t *testing.T) {
	one, err := ComplexSinusoid(64, []float64{0.1}, []float64{0}, 0, Complex64)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}
	other, err := ComplexSinusoid(64, []float64{0.2}, []float64{1}, 0, Complex64)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}
	both, err := ComplexSinusoid(64, []float64{0.1, 0.2}, []float64{0, 1}, 0, Complex64)
	if err != nil {
		t.Fatalf("ComplexSinusoid failed: %v", err)
	}

	for i := range both.Data {
		want := one.Data[i] + other.Data[i]
		if d := cmplxAbsDiff(both.Data[i], want); d > tol {
			t.Errorf("sample %d: composite tone is not the sum of its parts (diff %g)", i, d)
		}
	}
}

func TestComplexSinusoidLengthMismatch(t *testing.T) {
	if _, err := ComplexSinusoid(8, []float64{0.1, 0.2}, []float64{0}, 0, Complex64); err == nil {
		t.Fatal("expected error for mismatched freqs/phases lengths")
	}
}

func TestTimeDomainImpulsePlacement(t *testing.T) {
	sig, err := TimeDomainImpulse(10, []float64{0.2}, []int{3}, Complex64)
	if err != nil {
		t.Fatalf("TimeDomainImpulse failed: %v", err)
	}

	on := map[int]bool{2: true, 3: true, 4: true}
	for i, v := range sig.Data {
		want := complex128(0)
		if on[i] {
			want = 1
		}
		if v != want {
			t.Errorf("sample %d: got %v, want %v", i, v, want)
		}
	}
}

func TestTimeDomainImpulseOverlapOverwrites(t *testing.T) {
	// Overlapping impulses do not sum: the overlapped region stays at 1.
	// Tones superpose, impulses overwrite; the asymmetry is intentional.
	sig, err := TimeDomainImpulse(10, []float64{0.2, 0.3}, []int{3, 2}, Complex64)
	if err != nil {
		t.Fatalf("TimeDomainImpulse failed: %v", err)
	}

	for i := 2; i <= 4; i++ {
		if sig.Data[i] != 1 {
			t.Errorf("sample %d: got %v, want 1 (overwrite, not sum)", i, sig.Data[i])
		}
	}
}

func TestTimeDomainImpulseClampsAtEnd(t *testing.T) {
	sig, err := TimeDomainImpulse(10, []float64{0.9}, []int{5}, Float32)
	if err != nil {
		t.Fatalf("TimeDomainImpulse failed: %v", err)
	}
	if sig.Data[9] != 1 {
		t.Errorf("sample 9: got %v, want 1", sig.Data[9])
	}
	if sig.Len() != 10 {
		t.Errorf("impulse ran past the end of the signal: len %d", sig.Len())
	}
}

func cmplxAbsDiff(a, b complex128) float64 {
	d := a - b
	return math.Hypot(real(d), imag(d))
}
