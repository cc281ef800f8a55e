package vector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/pfbtools/pfbgen/pkg/signal"
)

// StageArgs is the tagged argument payload fed to the sequencer, one
// concrete type per stage. Supplying the wrong payload for the current
// state is a caller error and is rejected synchronously.
type StageArgs interface {
	stage() string
}

// GenerateArgs are the arguments the generation stage awaits: everything
// the request parameters do not already pin down.
type GenerateArgs struct {
	NPol  int
	NBins int
	DType signal.DType
}

func (GenerateArgs) stage() string { return "generate" }

// ChannelizeArgs are the arguments the channelization stage awaits.
type ChannelizeArgs struct {
	Channels int
	OSFactor string
	FIRPath  string
}

func (ChannelizeArgs) stage() string { return "channelize" }

// SynthesizeArgs are the arguments the synthesis stage awaits.
type SynthesizeArgs struct {
	InputFFTLength int
}

func (SynthesizeArgs) stage() string { return "synthesize" }

// Sequencer drives the three-stage pipeline for a single cache-miss
// request. The caller resumes it stage by stage, supplying exactly the
// argument tuple the current state expects; the sequencer never revisits
// a prior state. One instance serves one (domain, params) request and is
// not shared.
//
// Usage:
//
//	seq := vector.NewSequencer(cache, invoker, params, logger)
//	if err := seq.Start(); err != nil { ... }
//	seq.Advance(ctx, vector.GenerateArgs{NPol: 2, NBins: 1000, DType: signal.Float32})
//	seq.Advance(ctx, vector.ChannelizeArgs{Channels: 8, OSFactor: "8/7", FIRPath: fir})
//	seq.Advance(ctx, vector.SynthesizeArgs{InputFFTLength: 1024})
//	meta := seq.Metadata()
type Sequencer struct {
	cache   *Cache
	invoker *Invoker
	params  ParameterSet
	logger  *log.Logger

	state State
	dir   string

	inputFile       string
	channelizedFile string
	invertedFile    string

	meta *Metadata
}

// NewSequencer creates a sequencer in INIT for one request. The caller
// is expected to have confirmed a cache miss first.
func NewSequencer(cache *Cache, invoker *Invoker, params ParameterSet, logger *log.Logger) *Sequencer {
	if logger == nil {
		logger = log.Default()
	}
	return &Sequencer{
		cache:   cache,
		invoker: invoker,
		params:  params,
		logger:  logger,
		state:   StateInit,
	}
}

// State returns the current pipeline state.
func (s *Sequencer) State() State { return s.state }

// Metadata returns the committed record once the sequencer is DONE, nil
// before that.
func (s *Sequencer) Metadata() *Metadata { return s.meta }

// Start materializes the cache subdirectory and arms the sequencer for
// the generation stage.
func (s *Sequencer) Start() error {
	if s.state != StateInit {
		return &ViolationError{State: s.state, Got: "start"}
	}

	s.dir = s.cache.EntryDir(s.params)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.state = StateFailed
		return fmt.Errorf("unable to create cache subdirectory: %w", err)
	}

	s.logger.Debug("pipeline started", "domain", s.params.Domain(), "key", s.params.Key(), "dir", s.dir)
	s.state = StateAwaitGenerateArgs
	return nil
}

// Advance resumes the sequencer with the argument tuple for the current
// state. A payload that does not match the awaited stage returns a
// ViolationError and leaves the state unchanged; a failed stage
// invocation moves the sequencer to FAILED and propagates the error. On
// the final advance the metadata record is assembled and persisted.
func (s *Sequencer) Advance(ctx context.Context, args StageArgs) error {
	if s.state.Terminal() {
		return &ViolationError{State: s.state, Got: args.stage()}
	}

	switch s.state {
	case StateAwaitGenerateArgs:
		a, ok := args.(GenerateArgs)
		if !ok {
			return &ViolationError{State: s.state, Got: args.stage()}
		}
		return s.runGenerate(ctx, a)

	case StateAwaitChannelizeArgs:
		a, ok := args.(ChannelizeArgs)
		if !ok {
			return &ViolationError{State: s.state, Got: args.stage()}
		}
		return s.runChannelize(ctx, a)

	case StateAwaitSynthesizeArgs:
		a, ok := args.(SynthesizeArgs)
		if !ok {
			return &ViolationError{State: s.state, Got: args.stage()}
		}
		return s.runSynthesize(ctx, a)

	default:
		return &ViolationError{State: s.state, Got: args.stage()}
	}
}

func (s *Sequencer) runGenerate(ctx context.Context, a GenerateArgs) error {
	path, err := s.invoker.GenerateTestVector(ctx, s.params.Domain(), a.NBins, s.params.Values(), GenerateOptions{
		NPol:      a.NPol,
		DType:     a.DType,
		OutputDir: s.dir,
	})
	if err != nil {
		s.state = StateFailed
		return err
	}

	s.inputFile = path
	s.state = StateAwaitChannelizeArgs
	return nil
}

func (s *Sequencer) runChannelize(ctx context.Context, a ChannelizeArgs) error {
	path, err := s.invoker.Channelize(ctx, s.inputFile, a.Channels, a.OSFactor, a.FIRPath, s.dir, "")
	if err != nil {
		s.state = StateFailed
		return err
	}

	s.channelizedFile = path
	s.state = StateAwaitSynthesizeArgs
	return nil
}

func (s *Sequencer) runSynthesize(ctx context.Context, a SynthesizeArgs) error {
	path, err := s.invoker.Synthesize(ctx, s.channelizedFile, a.InputFFTLength, s.dir, "")
	if err != nil {
		s.state = StateFailed
		return err
	}
	s.invertedFile = path

	meta := &Metadata{
		Params:          s.params.Named(),
		InputFile:       filepath.Base(s.inputFile),
		ChannelizedFile: filepath.Base(s.channelizedFile),
		InvertedFile:    filepath.Base(s.invertedFile),
	}
	if err := s.cache.Commit(s.dir, meta); err != nil {
		s.state = StateFailed
		return err
	}

	s.meta = meta
	s.state = StateDone
	s.logger.Info("pipeline done", "domain", s.params.Domain(), "key", s.params.Key())
	return nil
}

// Produce is the high-level driver: it returns the committed record for
// params, either straight from the cache or by running the full staged
// pipeline with the supplied stage arguments. The boolean reports whether
// the record came from the cache.
func Produce(ctx context.Context, cache *Cache, invoker *Invoker, params ParameterSet,
	gen GenerateArgs, ch ChannelizeArgs, syn SynthesizeArgs, logger *log.Logger) (*Metadata, bool, error) {

	meta, found, err := cache.Lookup(params)
	if err != nil {
		return nil, false, err
	}
	if found {
		return meta, true, nil
	}

	seq := NewSequencer(cache, invoker, params, logger)
	if err := seq.Start(); err != nil {
		return nil, false, err
	}
	for _, args := range []StageArgs{gen, ch, syn} {
		if err := seq.Advance(ctx, args); err != nil {
			return nil, false, err
		}
	}
	return seq.Metadata(), false, nil
}
