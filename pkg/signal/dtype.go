// Package signal provides deterministic synthetic signal generators for
// exercising polyphase filterbank channelization and inversion pipelines.
package signal

import "fmt"

// DType identifies the sample datatype of a generated signal.
type DType int

const (
	// Float32 is single precision real data.
	Float32 DType = iota
	// Float64 is double precision real data.
	Float64
	// Complex64 is single precision complex data (two float32 per sample).
	Complex64
	// Complex128 is double precision complex data (two float64 per sample).
	Complex128
)

// Tag returns the precision tag used in canonical file names and in the
// argument contract of the external toolchain. The tag reflects precision
// only; real and complex datatypes of the same width share a tag.
func (d DType) Tag() string {
	switch d {
	case Float32, Complex64:
		return "single"
	case Float64, Complex128:
		return "double"
	default:
		return "single"
	}
}

// IsComplex reports whether the datatype carries an imaginary component.
func (d DType) IsComplex() bool {
	return d == Complex64 || d == Complex128
}

// NDim returns the number of scalar dimensions per sample (1 for real
// data, 2 for complex), matching the NDIM convention of dump headers.
func (d DType) NDim() int {
	if d.IsComplex() {
		return 2
	}
	return 1
}

// NBit returns the number of bits per scalar component.
func (d DType) NBit() int {
	switch d {
	case Float32, Complex64:
		return 32
	default:
		return 64
	}
}

// SampleSize returns the serialized size of one sample in bytes.
func (d DType) SampleSize() int {
	return d.NDim() * d.NBit() / 8
}

// String returns the short datatype code, e.g. "c64" for single precision
// complex data.
func (d DType) String() string {
	switch d {
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	case Complex64:
		return "c64"
	case Complex128:
		return "c128"
	default:
		return "unknown"
	}
}

// ParseDType parses a short datatype code as accepted on the command line.
func ParseDType(s string) (DType, error) {
	switch s {
	case "f32":
		return Float32, nil
	case "f64":
		return Float64, nil
	case "c64":
		return Complex64, nil
	case "c128":
		return Complex128, nil
	default:
		return 0, fmt.Errorf("unknown datatype %q (available: f32, f64, c64, c128)", s)
	}
}
