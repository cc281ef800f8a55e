// Package vector implements the parameter-keyed test vector cache and the
// staged generate/channelize/synthesize pipeline that populates it.
package vector

import (
	"errors"
	"fmt"
)

// Sentinel errors for the pipeline failure taxonomy. Callers match these
// with errors.Is; none of them is ever downgraded to a warning or retried.
var (
	// ErrCacheCorruption indicates a cache subdirectory exists but its
	// metadata record is missing or undecodable. Not auto-repaired.
	ErrCacheCorruption = errors.New("cache entry corrupt")

	// ErrExternalTool indicates an external stage executable exited with a
	// non-zero status.
	ErrExternalTool = errors.New("external tool failed")

	// ErrUnsupportedCapability indicates a stage was requested under a
	// backend that has no implementation for it.
	ErrUnsupportedCapability = errors.New("capability not available")

	// ErrSequencingViolation indicates the caller supplied a stage
	// argument payload that does not match the sequencer's current state.
	ErrSequencingViolation = errors.New("sequencing violation")

	// ErrPersistence indicates the metadata record could not be written
	// after all stages succeeded. The produced artifacts remain on disk
	// without a committed cache entry.
	ErrPersistence = errors.New("metadata persistence failed")
)

// StageError describes a failed stage invocation with enough context to
// diagnose it: the stage name, the tool exit code and the captured log.
type StageError struct {
	Stage    string
	ExitCode int
	LogFile  string
	Err      error
}

func (e *StageError) Error() string {
	if e.LogFile != "" {
		return fmt.Sprintf("stage %s: exit status %d (log: %s)", e.Stage, e.ExitCode, e.LogFile)
	}
	if e.Err != nil {
		return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("stage %s failed", e.Stage)
}

func (e *StageError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrExternalTool
}

// ViolationError describes a caller error in the staged argument protocol.
type ViolationError struct {
	State State
	Got   string
}

func (e *ViolationError) Error() string {
	return fmt.Sprintf("sequencer in state %s cannot accept %s arguments", e.State, e.Got)
}

func (e *ViolationError) Unwrap() error { return ErrSequencingViolation }
