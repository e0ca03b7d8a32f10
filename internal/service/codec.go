package service

import (
	"bytes"
	"errors"

	"github.com/seiflotfy/huffpack"
)

// Logger is satisfied by *logging.Logger.
type Logger interface {
	Infof(format string, v ...any)
	Errorf(format string, v ...any)
}

// CodecService compresses and decompresses text for the HTTP API.
type CodecService struct {
	encoder *huffpack.Encoder
	logger  Logger
}

// NewCodecService creates a service whose encoder shares cache.
func NewCodecService(cache *huffpack.CodebookCache, l Logger) *CodecService {
	return &CodecService{
		encoder: huffpack.NewEncoder(huffpack.WithCodebookCache(cache)),
		logger:  l,
	}
}

// CompressResult is an encoded input with its codebook file text.
type CompressResult struct {
	Archive  *huffpack.Archive
	Codebook string
	Symbols  int
}

func (s *CodecService) Compress(text string) (*CompressResult, error) {
	symbols := []huffpack.Symbol(text)
	archive, err := s.encoder.Encode(symbols)
	if err != nil {
		s.logger.Errorf("compress failed: %v", err)
		return nil, err
	}
	var cb bytes.Buffer
	if err := archive.WriteCodebookTo(&cb); err != nil {
		return nil, err
	}
	s.logger.Infof("compressed %d symbols into %d bytes (codebook %016x)", len(symbols), len(archive.Data), archive.Codebook.Fingerprint())
	return &CompressResult{Archive: archive, Codebook: cb.String(), Symbols: len(symbols)}, nil
}

func (s *CodecService) Decompress(codebook string, data []byte) (string, error) {
	archive, err := huffpack.ReadSplit(bytes.NewReader([]byte(codebook)), bytes.NewReader(data))
	if err != nil {
		s.logger.Errorf("decompress: load: %v", err)
		return "", err
	}
	text, err := archive.DecodeString()
	if err != nil {
		if errors.Is(err, huffpack.ErrMalformedStream) {
			s.logger.Errorf("decompress: %v", err)
		}
		return "", err
	}
	s.logger.Infof("decompressed %d bytes", len(data))
	return text, nil
}
