package png

// Chunk is one length-prefixed record of the stream. Data aliases the
// buffer the chunk was decoded from; treat it as read-only.
type Chunk struct {
	Offset int       // Position of the length field within the container
	Length uint32    // Data length as stored in the length field
	Type   ChunkType // 4-byte type tag
	Data   []byte    // Chunk payload (Length bytes)
	CRC    uint32    // Stored checksum over Type + Data
}

// Size returns the number of bytes the chunk occupies on the wire.
func (c *Chunk) Size() int {
	return int(c.Length) + ChunkOverhead
}

// CalculateCRC computes the checksum the chunk should carry.
func (c *Chunk) CalculateCRC() uint32 {
	return chunkChecksum(c.Type, c.Data)
}

// Valid reports whether the stored checksum matches the contents.
func (c *Chunk) Valid() bool {
	return c.CRC == c.CalculateCRC()
}

// CRCOffset returns where the checksum field starts in the container.
func (c *Chunk) CRCOffset() int {
	return c.Offset + ChunkHeaderSize + int(c.Length)
}

// TextEntry is the keyword/value pair carried by a tEXt chunk.
type TextEntry struct {
	Keyword string `yaml:"keyword"`
	Value   string `yaml:"value"`
}
