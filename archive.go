package huffpack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	archiveMagic   = "HFPK"
	archiveVersion = uint16(1)

	stageCodebook   = "codebook"
	stagePackedData = "packed_data"

	maxArchiveStages     = 64
	maxStagePayloadBytes = 1 << 30 // 1 GiB
)

// Wire format (version 1):
//
//	magic[4] = "HFPK"
//	version  = uint16 little-endian
//	stageCnt = uint16 little-endian
//	repeat stageCnt times:
//	  nameLen  = uint8
//	  paramLen = uint16 little-endian
//	  dataLen  = uint32 little-endian
//	  name     = nameLen bytes
//	  params   = paramLen bytes
//	  payload  = dataLen bytes
//
// Required stages:
//
//	codebook     payload is the codebook file text, padding line included
//	packed_data  params[0] is the padding count, payload is the packed bytes
//
// Unknown stages are skipped via dataLen framing.
type wireStageHeader struct {
	name     string
	paramLen uint16
	dataLen  uint32
}

func writeBytes(w io.Writer, b []byte) (int64, error) {
	n, err := w.Write(b)
	if err != nil {
		return int64(n), err
	}
	if n != len(b) {
		return int64(n), io.ErrShortWrite
	}
	return int64(n), nil
}

func writeStage(w io.Writer, name string, params []byte, payload []byte) (int64, error) {
	if len(name) == 0 || len(name) > 255 {
		return 0, fmt.Errorf("invalid stage name length: %d", len(name))
	}
	if len(params) > int(^uint16(0)) {
		return 0, fmt.Errorf("stage params too large for %q: %d", name, len(params))
	}
	if len(payload) > maxStagePayloadBytes {
		return 0, fmt.Errorf("stage payload too large for %q: %d", name, len(payload))
	}

	header := make([]byte, 7, 7+len(name))
	header[0] = uint8(len(name))
	binary.LittleEndian.PutUint16(header[1:3], uint16(len(params)))
	binary.LittleEndian.PutUint32(header[3:7], uint32(len(payload)))
	header = append(header, name...)

	var total int64
	for _, part := range [][]byte{header, params, payload} {
		n, err := writeBytes(w, part)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func readStageHeader(r io.Reader) (wireStageHeader, int64, error) {
	var total int64
	var fixed [7]byte
	n, err := io.ReadFull(r, fixed[:])
	total += int64(n)
	if err != nil {
		return wireStageHeader{}, total, err
	}

	nameLen := fixed[0]
	if nameLen == 0 {
		return wireStageHeader{}, total, fmt.Errorf("stage name length must be > 0")
	}
	paramLen := binary.LittleEndian.Uint16(fixed[1:3])
	dataLen := binary.LittleEndian.Uint32(fixed[3:7])
	if dataLen > uint32(maxStagePayloadBytes) {
		return wireStageHeader{}, total, fmt.Errorf("stage payload too large: %d", dataLen)
	}

	nameBytes := make([]byte, int(nameLen))
	n, err = io.ReadFull(r, nameBytes)
	total += int64(n)
	if err != nil {
		return wireStageHeader{}, total, err
	}

	return wireStageHeader{
		name:     string(nameBytes),
		paramLen: paramLen,
		dataLen:  dataLen,
	}, total, nil
}

// Archive holds one encoded input: the packed bytes, the number of padding
// bits in the last byte, and the codebook needed to decode them.
type Archive struct {
	Codebook *Codebook
	Padding  int
	Data     []byte
}

// Decode reconstructs the original symbols.
func (a *Archive) Decode() ([]Symbol, error) {
	return Decode(a.Data, a.Padding, a.Codebook)
}

// DecodeString reconstructs the original text.
func (a *Archive) DecodeString() (string, error) {
	return DecodeString(a.Data, a.Padding, a.Codebook)
}

// BitLen returns the number of meaningful bits in Data.
func (a *Archive) BitLen() int {
	return len(a.Data)*8 - a.Padding
}

// SpaceUsed returns the total space (in bytes) used by the packed data and
// the codebook file.
func (a *Archive) SpaceUsed() int {
	var cb bytes.Buffer
	_ = WriteCodebook(&cb, a.Codebook, a.Padding)
	return len(a.Data) + cb.Len()
}

// WriteCodebookTo writes the codebook file (padding count included).
func (a *Archive) WriteCodebookTo(w io.Writer) error {
	return WriteCodebook(w, a.Codebook, a.Padding)
}

// WriteDataTo writes the packed bytes with no header.
func (a *Archive) WriteDataTo(w io.Writer) (int64, error) {
	return writeBytes(w, a.Data)
}

// ReadSplit assembles an Archive from a codebook file and a packed data
// stream, the two-file layout of the command-line tool.
func ReadSplit(codebook io.Reader, data io.Reader) (*Archive, error) {
	cb, padding, err := ReadCodebook(codebook)
	if err != nil {
		return nil, err
	}
	packed, err := io.ReadAll(data)
	if err != nil {
		return nil, fmt.Errorf("read packed data: %w", err)
	}
	a := &Archive{Codebook: cb, Padding: padding, Data: packed}
	if err := validateArchiveStructure(a); err != nil {
		return nil, err
	}
	return a, nil
}

func validateArchiveStructure(a *Archive) error {
	if a.Codebook == nil {
		return fmt.Errorf("archive has no codebook")
	}
	if a.Padding < 0 || a.Padding > 7 {
		return fmt.Errorf("%w: padding %d out of range", ErrMalformedStream, a.Padding)
	}
	if a.Padding > len(a.Data)*8 {
		return fmt.Errorf("%w: padding %d exceeds %d available bits", ErrMalformedStream, a.Padding, len(a.Data)*8)
	}
	if len(a.Data) > 0 && a.Codebook.Len() == 0 {
		return fmt.Errorf("%w: %d packed bytes with an empty codebook", ErrMalformedStream, len(a.Data))
	}
	return nil
}

// WriteTo serializes the Archive to an io.Writer.
func (a *Archive) WriteTo(w io.Writer) (int64, error) {
	if err := validateArchiveStructure(a); err != nil {
		return 0, fmt.Errorf("invalid archive: %w", err)
	}

	var codebookPayload bytes.Buffer
	if err := WriteCodebook(&codebookPayload, a.Codebook, a.Padding); err != nil {
		return 0, err
	}

	stages := []struct {
		name    string
		params  []byte
		payload []byte
	}{
		{
			name:    stageCodebook,
			params:  nil,
			payload: codebookPayload.Bytes(),
		},
		{
			name:    stagePackedData,
			params:  []byte{uint8(a.Padding)},
			payload: a.Data,
		},
	}

	var total int64
	n, err := writeBytes(w, []byte(archiveMagic))
	total += n
	if err != nil {
		return total, err
	}

	var header [4]byte
	binary.LittleEndian.PutUint16(header[0:2], archiveVersion)
	binary.LittleEndian.PutUint16(header[2:4], uint16(len(stages)))
	n, err = writeBytes(w, header[:])
	total += n
	if err != nil {
		return total, err
	}

	for _, stage := range stages {
		n, err := writeStage(w, stage.name, stage.params, stage.payload)
		total += n
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// ReadFrom deserializes an Archive from an io.Reader.
func (a *Archive) ReadFrom(r io.Reader) (int64, error) {
	var total int64
	var magic [4]byte
	n, err := io.ReadFull(r, magic[:])
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("read archive magic at offset 0: %w", err)
	}
	if string(magic[:]) != archiveMagic {
		return total, fmt.Errorf("invalid archive magic at offset 0: %q", string(magic[:]))
	}

	var header [4]byte
	headerOffset := total
	n, err = io.ReadFull(r, header[:])
	total += int64(n)
	if err != nil {
		return total, fmt.Errorf("read archive header at offset %d: %w", headerOffset, err)
	}
	if version := binary.LittleEndian.Uint16(header[0:2]); version != archiveVersion {
		return total, fmt.Errorf("unsupported archive version at offset %d: %d", headerOffset, version)
	}
	stageCount := binary.LittleEndian.Uint16(header[2:4])
	if stageCount == 0 || stageCount > maxArchiveStages {
		return total, fmt.Errorf("invalid stage count at offset %d: %d", headerOffset+2, stageCount)
	}

	var tmp Archive
	seenStages := make(map[string]bool, stageCount)

	for i := 0; i < int(stageCount); i++ {
		headerOffset := total
		header, n, err := readStageHeader(r)
		total += n
		if err != nil {
			return total, fmt.Errorf("read stage header at offset %d (stage index %d): %w", headerOffset, i, err)
		}
		if seenStages[header.name] {
			return total, fmt.Errorf("duplicate stage %q at stage index %d", header.name, i)
		}

		params := make([]byte, int(header.paramLen))
		paramsOffset := total
		nParams, err := io.ReadFull(r, params)
		total += int64(nParams)
		if err != nil {
			return total, fmt.Errorf("read stage %q params at offset %d (stage index %d): %w", header.name, paramsOffset, i, err)
		}

		switch header.name {
		case stageCodebook, stagePackedData:
			payloadOffset := total
			payload, err := readPayload(r, header.dataLen)
			total += int64(len(payload))
			if err != nil {
				return total, fmt.Errorf("read stage %q payload at offset %d (stage index %d): %w", header.name, payloadOffset, i, err)
			}

			var decodeErr error
			switch header.name {
			case stageCodebook:
				decodeErr = decodeCodebookStage(&tmp, payload)
			case stagePackedData:
				decodeErr = decodePackedDataStage(&tmp, params, payload)
			}
			if decodeErr != nil {
				return total, fmt.Errorf("decode stage %q at offset %d (stage index %d): %w", header.name, payloadOffset, i, decodeErr)
			}
			seenStages[header.name] = true

		default:
			skipOffset := total
			skipped, err := io.CopyN(io.Discard, r, int64(header.dataLen))
			total += skipped
			if err != nil {
				return total, fmt.Errorf("skip unknown stage %q at offset %d (stage index %d): %w", header.name, skipOffset, i, err)
			}
		}
	}

	for _, stageName := range []string{stageCodebook, stagePackedData} {
		if !seenStages[stageName] {
			return total, fmt.Errorf("missing required stage %q", stageName)
		}
	}
	if err := validateArchiveStructure(&tmp); err != nil {
		return total, fmt.Errorf("invalid archive structure: %w", err)
	}

	*a = tmp
	return total, nil
}

// readPayload reads exactly n bytes, growing the buffer as data arrives so a
// header claiming more than the stream holds costs only what was read.
func readPayload(r io.Reader, n uint32) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return payload, err
	}
	if len(payload) != int(n) {
		return payload, fmt.Errorf("got %d of %d bytes: %w", len(payload), n, io.ErrUnexpectedEOF)
	}
	return payload, nil
}

func decodeCodebookStage(dst *Archive, payload []byte) error {
	cb, padding, err := ReadCodebook(bytes.NewReader(payload))
	if err != nil {
		return err
	}
	dst.Codebook = cb
	// packed_data carries the authoritative padding; this one must agree.
	if dst.Data != nil && dst.Padding != padding {
		return fmt.Errorf("%w: codebook padding %d disagrees with packed_data padding %d", ErrMalformedStream, padding, dst.Padding)
	}
	dst.Padding = padding
	return nil
}

func decodePackedDataStage(dst *Archive, params []byte, payload []byte) error {
	if len(params) != 1 {
		return fmt.Errorf("packed_data params must be 1 byte, got %d", len(params))
	}
	padding := int(params[0])
	if dst.Codebook != nil && dst.Padding != padding {
		return fmt.Errorf("%w: packed_data padding %d disagrees with codebook padding %d", ErrMalformedStream, padding, dst.Padding)
	}
	dst.Padding = padding
	dst.Data = append([]byte{}, payload...)
	return nil
}
