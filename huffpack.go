// Package huffpack implements a greedy prefix-code text compressor.
//
// Text is analyzed in full, a codebook is built by repeatedly merging the two
// lowest-weight symbol groups, and every symbol is replaced by its code in a
// tightly packed bitstream. The codebook and the padding count travel
// alongside the packed bytes so decoding needs no frequency data.
package huffpack

import (
	"errors"
	"fmt"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("huffpack")

var (
	// ErrMissingCode indicates a symbol being packed has no code in the codebook.
	ErrMissingCode = errors.New("symbol has no code")
	// ErrMalformedStream indicates a packed stream that cannot be decoded with its codebook.
	ErrMalformedStream = errors.New("malformed stream")
	// ErrInvalidCodebook indicates a codebook that is unparsable or not prefix-free.
	ErrInvalidCodebook = errors.New("invalid codebook")
	// ErrUnknownMode indicates an unrecognized operating mode selector.
	ErrUnknownMode = errors.New("unknown mode")
	// ErrUntrainedModel indicates Encode was called before a model was trained.
	ErrUntrainedModel = errors.New("model is not trained")
	// ErrEmptySample indicates a model was trained on text with no symbols.
	ErrEmptySample = errors.New("training sample is empty")
)

// Config holds configuration for the encoder.
type Config struct {
	Cache *CodebookCache // Reuse codebooks for identical frequency tables (nil = off)
}

// Option is a functional option for configuring the encoder.
type Option func(*Config)

// WithCodebookCache makes the encoder look up and store codebooks in c.
func WithCodebookCache(c *CodebookCache) Option {
	return func(cfg *Config) {
		cfg.Cache = c
	}
}

// Encoder builds a codebook for its input and packs it.
type Encoder struct {
	config Config
}

// NewEncoder creates a new encoder with the given options.
func NewEncoder(opts ...Option) *Encoder {
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Encoder{config: cfg}
}

// Encode counts the symbols of text, builds a codebook from the counts and
// packs text with it.
func (e *Encoder) Encode(text []Symbol) (*Archive, error) {
	freqs := CountFrequencies(text)
	cb := e.codebook(freqs)

	data, padding, err := Pack(text, cb)
	if err != nil {
		return nil, err
	}
	log.Debugf("packed %d symbols into %d bytes (padding %d)", len(text), len(data), padding)
	return &Archive{Codebook: cb, Padding: padding, Data: data}, nil
}

// EncodeString is Encode over the code points of s.
func (e *Encoder) EncodeString(s string) (*Archive, error) {
	return e.Encode([]Symbol(s))
}

func (e *Encoder) codebook(freqs FrequencyTable) *Codebook {
	if e.config.Cache == nil {
		return BuildCodebook(freqs)
	}
	if cb, ok := e.config.Cache.Get(freqs); ok {
		return cb
	}
	cb := BuildCodebook(freqs)
	e.config.Cache.Add(freqs, cb)
	return cb
}

// Mode selects what the command surface does.
type Mode int

const (
	ModeCompress Mode = iota + 1
	ModeDecompress
	ModeCompressArchive
	ModeDecompressArchive
)

// ParseMode maps a mode selector to a Mode. Both the short flags and the
// long names are accepted.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "-c", "compress":
		return ModeCompress, nil
	case "-d", "decompress":
		return ModeDecompress, nil
	case "-ca", "compress-archive":
		return ModeCompressArchive, nil
	case "-da", "decompress-archive":
		return ModeDecompressArchive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeCompress:
		return "compress"
	case ModeDecompress:
		return "decompress"
	case ModeCompressArchive:
		return "compress-archive"
	case ModeDecompressArchive:
		return "decompress-archive"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
