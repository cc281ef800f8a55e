package vector

import (
	"fmt"
	"strings"
)

// Backend selects how pipeline stages are executed: by shelling out to
// the compiled external toolchain, or natively in process. Channelization
// and synthesis only exist in the external toolchain; the native backend
// implements the generation stage only.
type Backend int

const (
	// BackendExternal invokes the compiled toolchain executables.
	BackendExternal Backend = iota
	// BackendNative generates signals in process. Channelize and
	// synthesize are not available under this backend.
	BackendNative
)

// Tag returns the backend tag embedded in canonical file names. The tags
// are inherited from the original toolchain ("matlab" for the compiled
// tools, "python" for the scripted generator) so that names remain
// comparable across vector corpora produced by either implementation.
func (b Backend) Tag() string {
	switch b {
	case BackendExternal:
		return "matlab"
	default:
		return "python"
	}
}

// String returns the same tag as Tag.
func (b Backend) String() string { return b.Tag() }

// ParseBackend parses a backend tag.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(s) {
	case "matlab", "external":
		return BackendExternal, nil
	case "python", "native":
		return BackendNative, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (available: matlab, python)", s)
	}
}
