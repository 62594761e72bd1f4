package png

import "sync"

// crcPolynomial is the reversed IEEE 802.3 polynomial used by PNG.
const crcPolynomial uint32 = 0xEDB88320

var (
	crcTable     [256]uint32
	crcTableOnce sync.Once
)

func makeChecksumTable() {
	for n := 0; n < 256; n++ {
		c := uint32(n)
		for k := 0; k < 8; k++ {
			if c&1 == 1 {
				c = crcPolynomial ^ (c >> 1)
			} else {
				c >>= 1
			}
		}
		crcTable[n] = c
	}
}

// ChecksumTable returns a copy of the lookup table, building it on first use.
func ChecksumTable() [256]uint32 {
	crcTableOnce.Do(makeChecksumTable)
	return crcTable
}

// UpdateChecksum feeds data into a running (pre-inverted) register.
// Start with 0xFFFFFFFF and invert the result when done.
func UpdateChecksum(crc uint32, data []byte) uint32 {
	crcTableOnce.Do(makeChecksumTable)
	for _, b := range data {
		crc = (crc >> 8) ^ crcTable[byte(crc)^b]
	}
	return crc
}

// Checksum calculates the PNG CRC-32 over data.
func Checksum(data []byte) uint32 {
	return UpdateChecksum(0xFFFFFFFF, data) ^ 0xFFFFFFFF
}

// chunkChecksum calculates the CRC stored after a chunk: type tag followed by data.
func chunkChecksum(typ ChunkType, data []byte) uint32 {
	crc := UpdateChecksum(0xFFFFFFFF, typ[:])
	return UpdateChecksum(crc, data) ^ 0xFFFFFFFF
}
