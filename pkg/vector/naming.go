package vector

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pfbtools/pfbgen/pkg/signal"
)

// CanonicalName derives the deterministic basename of a generated vector
// from the identity of the generating function, the signal size, the
// ordered numeric argument list, the polarization count, the datatype
// precision tag and the backend tag. The same name keys the cache and
// serves as the default output file name.
func CanonicalName(funcName string, n int, args []float64, nPol int, dtype signal.DType, backend Backend) string {
	return fmt.Sprintf("%s.%d.%s.%d.%s.%s",
		funcName, n, joinArgs(args, "-"), nPol, dtype.Tag(), backend.Tag())
}

// DumpFileName appends the data file extension to a basename.
func DumpFileName(base string) string { return base + ".dump" }

// LogFileName appends the log file extension to a basename.
func LogFileName(base string) string { return base + ".log" }

// joinArgs formats each value at fixed 3 decimal places and joins with
// sep. The fixed precision makes the result (and everything keyed by it)
// stable across runs.
func joinArgs(args []float64, sep string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%.3f", a)
	}
	return strings.Join(parts, sep)
}

// outputFileNames resolves the output and log file names for a stage. If
// the caller supplied an explicit output file name it is used as-is and
// the log file is named after its stem; otherwise both derive from
// defaultBase. The canonical name still governs the cache subdirectory
// either way.
func outputFileNames(outputFileName, defaultBase string) (outName, logName string) {
	if outputFileName == "" {
		return DumpFileName(defaultBase), LogFileName(defaultBase)
	}
	base := strings.TrimSuffix(outputFileName, filepath.Ext(outputFileName))
	return outputFileName, LogFileName(base)
}
