// Package dada reads and writes DADA-style dump files: a fixed-size ASCII
// header followed by raw little-endian sample data interleaved per
// polarization. Header defaults come from a JSON header template.
package dada

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pfbtools/pfbgen/pkg/signal"
)

// HeaderSize is the fixed size of the ASCII header block in bytes.
const HeaderSize = 4096

// Header holds the key/value pairs of a dump file header.
type Header map[string]string

// LoadTemplate reads a JSON header template and flattens its values to
// header strings. Numeric values are rendered without a trailing ".0" so
// integer-valued fields stay integers on the wire.
func LoadTemplate(path string) (Header, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read header template: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("unable to parse header template %s: %w", path, err)
	}

	hdr := make(Header, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			hdr[k] = val
		case float64:
			if val == math.Trunc(val) {
				hdr[k] = strconv.FormatInt(int64(val), 10)
			} else {
				hdr[k] = strconv.FormatFloat(val, 'f', -1, 64)
			}
		case bool:
			hdr[k] = strconv.FormatBool(val)
		default:
			hdr[k] = fmt.Sprintf("%v", val)
		}
	}
	return hdr, nil
}

// Clone returns a copy of the header.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

// SetInt sets an integer-valued header field.
func (h Header) SetInt(key string, v int) {
	h[key] = strconv.Itoa(v)
}

// Int returns an integer-valued header field.
func (h Header) Int(key string) (int, error) {
	raw, ok := h[key]
	if !ok {
		return 0, fmt.Errorf("header field %s missing", key)
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("header field %s is not an integer: %w", key, err)
	}
	return v, nil
}

// encode renders the header into a HeaderSize block, keys sorted for
// deterministic output, padded with NUL bytes.
func (h Header) encode() ([]byte, error) {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "%s %s\n", k, h[k])
	}
	if buf.Len() > HeaderSize {
		return nil, fmt.Errorf("header exceeds %d bytes", HeaderSize)
	}
	block := make([]byte, HeaderSize)
	copy(block, buf.Bytes())
	return block, nil
}

func parseHeader(block []byte) Header {
	hdr := make(Header)
	for _, line := range strings.Split(string(bytes.TrimRight(block, "\x00")), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, " ", 2)
		if len(parts) != 2 {
			continue
		}
		hdr[parts[0]] = strings.TrimSpace(parts[1])
	}
	return hdr
}

// File is a loaded dump file: the parsed header plus per-polarization
// sample data.
type File struct {
	Header Header
	DType  signal.DType
	NPol   int
	Data   [][]complex128
}

// WriteFile writes sig to path as a dump file, replicating the signal
// across nPol polarizations the way the generator stage emits it. The
// header template is cloned and its size fields are filled from the
// signal before writing.
func WriteFile(path string, tmpl Header, sig signal.Signal, nPol int) error {
	if nPol < 1 {
		return fmt.Errorf("polarization count must be at least 1, got %d", nPol)
	}

	hdr := tmpl.Clone()
	hdr.SetInt("HDR_SIZE", HeaderSize)
	hdr.SetInt("NBIT", sig.DType.NBit())
	hdr.SetInt("NDIM", sig.DType.NDim())
	hdr.SetInt("NPOL", nPol)
	hdr.SetInt("NCHAN", 1)
	hdr.SetInt("NDAT", sig.Len())

	block, err := hdr.encode()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Write(block)
	for t := 0; t < sig.Len(); t++ {
		for p := 0; p < nPol; p++ {
			if err := writeSample(&buf, sig.Data[t], sig.DType); err != nil {
				return err
			}
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("unable to write dump file: %w", err)
	}
	return nil
}

// ReadFile loads a dump file written by WriteFile or by the external
// toolchain.
func ReadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read dump file: %w", err)
	}
	if len(raw) < HeaderSize {
		return nil, fmt.Errorf("dump file %s is shorter than its header block", path)
	}

	hdr := parseHeader(raw[:HeaderSize])
	dtype, err := dtypeFromHeader(hdr)
	if err != nil {
		return nil, fmt.Errorf("dump file %s: %w", path, err)
	}
	nPol, err := hdr.Int("NPOL")
	if err != nil {
		return nil, fmt.Errorf("dump file %s: %w", path, err)
	}

	payload := raw[HeaderSize:]
	sampleSize := dtype.SampleSize()
	nDat := len(payload) / (sampleSize * nPol)

	data := make([][]complex128, nPol)
	for p := range data {
		data[p] = make([]complex128, nDat)
	}
	for t := 0; t < nDat; t++ {
		for p := 0; p < nPol; p++ {
			off := (t*nPol + p) * sampleSize
			data[p][t] = readSample(payload[off:off+sampleSize], dtype)
		}
	}

	return &File{Header: hdr, DType: dtype, NPol: nPol, Data: data}, nil
}

// ReadRaw loads headerless binary sample data of the given datatype,
// skipping offset bytes first. Used to inspect outputs of tools that do
// not write a header block.
func ReadRaw(path string, dtype signal.DType, offset int) ([]complex128, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read file: %w", err)
	}
	if offset < 0 || offset > len(raw) {
		return nil, fmt.Errorf("offset %d out of range for %s (%d bytes)", offset, path, len(raw))
	}
	payload := raw[offset:]

	sampleSize := dtype.SampleSize()
	n := len(payload) / sampleSize
	out := make([]complex128, n)
	for i := 0; i < n; i++ {
		out[i] = readSample(payload[i*sampleSize:(i+1)*sampleSize], dtype)
	}
	return out, nil
}

func dtypeFromHeader(hdr Header) (signal.DType, error) {
	nbit, err := hdr.Int("NBIT")
	if err != nil {
		return 0, err
	}
	ndim, err := hdr.Int("NDIM")
	if err != nil {
		return 0, err
	}

	switch {
	case nbit == 32 && ndim == 1:
		return signal.Float32, nil
	case nbit == 64 && ndim == 1:
		return signal.Float64, nil
	case nbit == 32 && ndim == 2:
		return signal.Complex64, nil
	case nbit == 64 && ndim == 2:
		return signal.Complex128, nil
	default:
		return 0, fmt.Errorf("unsupported sample layout NBIT=%d NDIM=%d", nbit, ndim)
	}
}

func writeSample(buf *bytes.Buffer, v complex128, dtype signal.DType) error {
	var scalars []float64
	if dtype.IsComplex() {
		scalars = []float64{real(v), imag(v)}
	} else {
		scalars = []float64{real(v)}
	}

	for _, s := range scalars {
		var err error
		if dtype.NBit() == 32 {
			err = binary.Write(buf, binary.LittleEndian, float32(s))
		} else {
			err = binary.Write(buf, binary.LittleEndian, s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func readSample(raw []byte, dtype signal.DType) complex128 {
	read := func(off int) float64 {
		if dtype.NBit() == 32 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[off:])))
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(raw[off:]))
	}

	re := read(0)
	if !dtype.IsComplex() {
		return complex(re, 0)
	}
	return complex(re, read(dtype.NBit()/8))
}
