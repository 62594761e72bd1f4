package png

import (
	"encoding/binary"
	"fmt"
)

// EncodeChunk serializes a chunk (length, type, data, checksum) into a new slice.
func EncodeChunk(typ ChunkType, data []byte) []byte {
	return AppendChunk(make([]byte, 0, len(data)+ChunkOverhead), typ, data)
}

// AppendChunk appends the wire form of a chunk to dst and returns the extended slice.
func AppendChunk(dst []byte, typ ChunkType, data []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(data)))
	dst = append(dst, typ[:]...)
	dst = append(dst, data...)
	return binary.BigEndian.AppendUint32(dst, chunkChecksum(typ, data))
}

// EncodeText builds the data of a tEXt chunk: keyword, a zero byte, then the value.
func EncodeText(keyword, value string) ([]byte, error) {
	if err := checkKeywordSeparator(keyword); err != nil {
		return nil, err
	}

	data := make([]byte, 0, len(keyword)+1+len(value))
	data = append(data, keyword...)
	data = append(data, 0)
	data = append(data, value...)
	return data, nil
}

// checkKeywordSeparator enforces the one invariant the raw encoder needs:
// the keyword must not contain the zero separator.
func checkKeywordSeparator(keyword string) error {
	for i := 0; i < len(keyword); i++ {
		if keyword[i] == 0 {
			return fmt.Errorf("%w: zero byte at position %d", ErrInvalidKeyword, i)
		}
	}
	return nil
}

// ValidateKeyword applies the tEXt keyword rules: 1 to 79 printable ASCII
// bytes, no leading, trailing or consecutive spaces. Keywords are Go strings
// (UTF-8), so bytes >= 0x80 are rejected rather than taken as Latin-1.
func ValidateKeyword(keyword string) error {
	if len(keyword) == 0 {
		return fmt.Errorf("%w: empty keyword", ErrInvalidKeyword)
	}
	if len(keyword) > MaxKeywordSize {
		return fmt.Errorf("%w: keyword is %d bytes, max %d", ErrInvalidKeyword, len(keyword), MaxKeywordSize)
	}
	if keyword[0] == ' ' || keyword[len(keyword)-1] == ' ' {
		return fmt.Errorf("%w: leading or trailing space", ErrInvalidKeyword)
	}

	for i := 0; i < len(keyword); i++ {
		b := keyword[i]
		if b < 32 || b > 126 {
			return fmt.Errorf("%w: byte 0x%02x at position %d is not printable ASCII", ErrInvalidKeyword, b, i)
		}
		if b == ' ' && keyword[i+1] == ' ' {
			return fmt.Errorf("%w: consecutive spaces at position %d", ErrInvalidKeyword, i)
		}
	}
	return nil
}
