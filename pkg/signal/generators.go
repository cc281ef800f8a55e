package signal

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Signal is an ordered finite sequence of samples together with the
// datatype it was generated for. Samples are held as complex128
// internally; real datatypes carry a zero imaginary part and are narrowed
// at serialization time. A Signal is immutable once generated.
type Signal struct {
	Data  []complex128
	DType DType
}

// Len returns the number of samples.
func (s Signal) Len() int { return len(s.Data) }

// ComplexSinusoid generates a complex sinusoid of length n composed of
// len(freqs) superposed tones. Each tone i has a phase shift phases[i].
// Frequencies are expressed as a fraction of n; the tone is snapped to the
// nearest integer sample bin before binOffset is added, so the dominant
// tone sits on a fixed bin while binOffset introduces controlled sub-bin
// leakage:
//
//	sig[t] = sum_i exp(j*(2*pi*(round(n*freqs[i]) + binOffset)/n*t + phases[i]))
func ComplexSinusoid(n int, freqs, phases []float64, binOffset float64, dtype DType) (Signal, error) {
	if n <= 0 {
		return Signal{}, fmt.Errorf("signal length must be positive, got %d", n)
	}
	if len(freqs) != len(phases) {
		return Signal{}, fmt.Errorf("freqs and phases must have equal length: %d != %d", len(freqs), len(phases))
	}

	sig := Signal{Data: make([]complex128, n), DType: dtype}
	for i := range freqs {
		bin := math.Round(float64(n) * freqs[i])
		omega := 2 * math.Pi * (bin + binOffset) / float64(n)
		for t := 0; t < n; t++ {
			sig.Data[t] += cmplx.Exp(complex(0, omega*float64(t)+phases[i]))
		}
	}
	return sig, nil
}

// TimeDomainImpulse generates a signal of length n that is zero everywhere
// except for len(offsets) rectangular impulses. Impulse i sets samples
// [floor(offsets[i]*n), floor(offsets[i]*n)+widths[i]) to the real value 1.
// Offsets are expressed as a fraction of n.
//
// Overlapping impulses overwrite rather than sum; the last impulse in the
// list wins in the overlapped region. This differs from ComplexSinusoid,
// which superposes its tones.
func TimeDomainImpulse(n int, offsets []float64, widths []int, dtype DType) (Signal, error) {
	if n <= 0 {
		return Signal{}, fmt.Errorf("signal length must be positive, got %d", n)
	}
	if len(offsets) != len(widths) {
		return Signal{}, fmt.Errorf("offsets and widths must have equal length: %d != %d", len(offsets), len(widths))
	}

	sig := Signal{Data: make([]complex128, n), DType: dtype}
	for i := range offsets {
		start := int(math.Floor(offsets[i] * float64(n)))
		for t := start; t < start+widths[i] && t < n; t++ {
			if t < 0 {
				continue
			}
			sig.Data[t] = 1
		}
	}
	return sig, nil
}
