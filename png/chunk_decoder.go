package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// CheckSignature verifies buf starts with the PNG signature.
func CheckSignature(buf []byte) error {
	if len(buf) < SignatureSize {
		return formatErrorf(0, "buffer too small for signature (got %d, need %d)", len(buf), SignatureSize)
	}
	if !bytes.Equal(buf[:SignatureSize], Signature[:]) {
		return formatErrorf(0, "bad signature % x", buf[:SignatureSize])
	}
	return nil
}

// DecodeChunk reads the chunk starting at offset. Every field is bounds
// checked against buf; a length that runs past the end is a FormatError.
func DecodeChunk(buf []byte, offset int) (Chunk, error) {
	if offset < 0 || len(buf)-offset < ChunkHeaderSize {
		return Chunk{}, formatErrorf(offset, "truncated chunk header (%d bytes left, need %d)",
			max(len(buf)-offset, 0), ChunkHeaderSize)
	}

	c := Chunk{Offset: offset}
	c.Length = binary.BigEndian.Uint32(buf[offset : offset+lengthFieldSize])
	copy(c.Type[:], buf[offset+lengthFieldSize:offset+ChunkHeaderSize])

	// uint64 so a huge length cannot overflow int on 32-bit platforms
	if uint64(c.Length)+ChunkOverhead > uint64(len(buf)-offset) {
		return Chunk{}, formatErrorf(offset, "%s chunk length %d exceeds buffer (%d bytes left)",
			c.Type, c.Length, len(buf)-offset)
	}

	dataStart := offset + ChunkHeaderSize
	dataEnd := dataStart + int(c.Length)
	c.Data = buf[dataStart:dataEnd]
	c.CRC = binary.BigEndian.Uint32(buf[dataEnd : dataEnd+crcFieldSize])
	return c, nil
}

// DecodeChunks walks the whole container and returns every chunk up to and
// including IEND. With verify set, a chunk whose stored checksum is wrong
// fails the walk with ErrChecksumMismatch.
func DecodeChunks(buf []byte, verify bool) ([]Chunk, error) {
	if err := CheckSignature(buf); err != nil {
		return nil, err
	}

	var chunks []Chunk
	offset := SignatureSize
	for {
		if offset >= len(buf) {
			return nil, &FormatError{Offset: offset, Reason: ErrTerminatorMissing.Error(), Err: ErrTerminatorMissing}
		}

		c, err := DecodeChunk(buf, offset)
		if err != nil {
			return nil, err
		}
		if verify && !c.Valid() {
			return nil, fmt.Errorf("%w: %s at offset %d (stored %08X, computed %08X)",
				ErrChecksumMismatch, c.Type, c.Offset, c.CRC, c.CalculateCRC())
		}

		chunks = append(chunks, c)
		if c.Type == ChunkIEND {
			return chunks, nil
		}
		offset += c.Size()
	}
}

// DecodeText splits tEXt chunk data at the first zero byte.
func DecodeText(data []byte) (TextEntry, error) {
	sep := bytes.IndexByte(data, 0)
	if sep < 0 {
		return TextEntry{}, fmt.Errorf("%w: missing zero separator", ErrInvalidKeyword)
	}
	return TextEntry{Keyword: string(data[:sep]), Value: string(data[sep+1:])}, nil
}

// TextEntries collects the keyword/value pairs of every well-formed tEXt
// chunk, in stream order. Duplicate keywords are all returned.
func TextEntries(chunks []Chunk) []TextEntry {
	var entries []TextEntry
	for i := range chunks {
		if chunks[i].Type != ChunkTEXT {
			continue
		}
		entry, err := DecodeText(chunks[i].Data)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}
