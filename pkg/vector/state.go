package vector

// State identifies where a Sequencer is in the staged pipeline. A
// sequencer owns its state exclusively for the lifetime of one
// (domain, params) request; states only ever move forward.
type State int

const (
	// StateInit indicates a confirmed cache miss awaiting directory
	// creation.
	StateInit State = iota
	// StateAwaitGenerateArgs indicates the sequencer is waiting for the
	// generate stage argument tuple.
	StateAwaitGenerateArgs
	// StateAwaitChannelizeArgs indicates the sequencer is waiting for the
	// channelize stage argument tuple.
	StateAwaitChannelizeArgs
	// StateAwaitSynthesizeArgs indicates the sequencer is waiting for the
	// synthesize stage argument tuple.
	StateAwaitSynthesizeArgs
	// StateDone indicates all stages succeeded and metadata was
	// persisted. Terminal.
	StateDone
	// StateFailed indicates a stage invocation or the metadata write
	// failed. Terminal; partial outputs stay on disk uncommitted.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateAwaitGenerateArgs:
		return "AWAIT_GENERATE_ARGS"
	case StateAwaitChannelizeArgs:
		return "AWAIT_CHANNELIZE_ARGS"
	case StateAwaitSynthesizeArgs:
		return "AWAIT_SYNTHESIZE_ARGS"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether the state is terminal.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}
