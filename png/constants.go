// Package png provides a byte-level codec for the PNG chunk stream.
// It walks, verifies and re-assembles chunks without ever decoding pixel data.
package png

// =============================================================================
// Container Constants
// =============================================================================

// Signature: the fixed 8 bytes every PNG container starts with.
var Signature = [SignatureSize]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}

// SignatureSize: length (bytes) of the container signature.
const SignatureSize = 8

// =============================================================================
// Chunk Layout
// =============================================================================

const (
	lengthFieldSize = 4 // big-endian data length
	typeFieldSize   = 4 // ASCII chunk type
	crcFieldSize    = 4 // big-endian CRC-32 over type + data

	// ChunkHeaderSize: length field + type tag.
	ChunkHeaderSize = lengthFieldSize + typeFieldSize

	// ChunkOverhead: bytes a chunk occupies on the wire beyond its data.
	ChunkOverhead = ChunkHeaderSize + crcFieldSize
)

// MaxKeywordSize: longest keyword a tEXt chunk may carry.
const MaxKeywordSize = 79

// =============================================================================
// Chunk Types
// =============================================================================

// ChunkType: the 4-byte ASCII tag identifying a chunk.
type ChunkType [4]byte

var (
	ChunkIHDR = ChunkType{'I', 'H', 'D', 'R'} // Image header
	ChunkIEND = ChunkType{'I', 'E', 'N', 'D'} // End of stream
	ChunkTEXT = ChunkType{'t', 'E', 'X', 't'} // Uncompressed Latin-1 text
)

// String returns the type tag as text.
func (t ChunkType) String() string {
	return string(t[:])
}

// IsCritical reports whether decoders must understand the chunk (uppercase first letter).
func (t ChunkType) IsCritical() bool {
	return t[0]&0x20 == 0
}

// IsValid returns true if every byte of the tag is an ASCII letter.
func (t ChunkType) IsValid() bool {
	for _, b := range t {
		if (b < 'A' || b > 'Z') && (b < 'a' || b > 'z') {
			return false
		}
	}
	return true
}
