package png

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	stdpng "image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKeyword = "Rev3alIdKey"

// minimalContainer returns signature + IEND.
func minimalContainer() []byte {
	buf := append([]byte{}, Signature[:]...)
	return AppendChunk(buf, ChunkIEND, nil)
}

// encodedImage returns a real PNG produced by the standard encoder.
func encodedImage(t *testing.T) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, stdpng.Encode(&buf, img))
	return buf.Bytes()
}

func TestRewrite_MinimalContainer(t *testing.T) {
	original := minimalContainer()
	require.Len(t, original, SignatureSize+ChunkOverhead)
	require.Equal(t, uint32(0xAE426082), binary.BigEndian.Uint32(original[len(original)-4:]))

	out, err := Rewrite(original, testKeyword, "hello")
	require.NoError(t, err)

	wantLen := SignatureSize + (ChunkOverhead + len(testKeyword) + 1 + 5) + ChunkOverhead
	require.Len(t, out, wantLen)

	chunks, err := DecodeChunks(out, true)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	text := chunks[0]
	assert.Equal(t, ChunkTEXT, text.Type)
	assert.Equal(t, uint32(len(testKeyword)+1+5), text.Length)
	assert.Equal(t, []byte(testKeyword+"\x00hello"), text.Data)
	assert.Equal(t, Checksum([]byte("tEXt"+testKeyword+"\x00hello")), text.CRC)

	assert.Equal(t, original[SignatureSize:], out[len(out)-ChunkOverhead:], "IEND must be copied verbatim")
	assert.Equal(t, original[:SignatureSize], out[:SignatureSize])
}

func TestRewrite_RealImage(t *testing.T) {
	original := encodedImage(t)
	before, err := DecodeChunks(original, true)
	require.NoError(t, err)

	out, err := Rewrite(original, testKeyword, "!PWNED!")
	require.NoError(t, err)

	after, err := DecodeChunks(out, true)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	// original chunks keep their order and bytes, text sits right before IEND
	for i := 0; i < len(before)-1; i++ {
		assert.Equal(t, before[i].Type, after[i].Type, "chunk %d", i)
		assert.Equal(t, before[i].Data, after[i].Data, "chunk %d", i)
		assert.Equal(t, before[i].CRC, after[i].CRC, "chunk %d", i)
	}
	assert.Equal(t, ChunkTEXT, after[len(after)-2].Type)
	assert.Equal(t, ChunkIEND, after[len(after)-1].Type)

	last := after[len(after)-1]
	assert.Equal(t, len(out), last.Offset+last.Size(), "no trailing bytes")

	assert.Equal(t, []TextEntry{{Keyword: testKeyword, Value: "!PWNED!"}}, TextEntries(after))

	decoded, err := stdpng.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), decoded.Bounds())
}

func TestRewrite_Deterministic(t *testing.T) {
	original := encodedImage(t)

	first, err := Rewrite(original, testKeyword, "same")
	require.NoError(t, err)
	second, err := Rewrite(original, testKeyword, "same")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRewrite_DoesNotMutateInput(t *testing.T) {
	original := encodedImage(t)
	snapshot := append([]byte{}, original...)

	out, err := Rewrite(original, testKeyword, "value")
	require.NoError(t, err)

	assert.Equal(t, snapshot, original)

	// the result must not share memory with the input
	out[SignatureSize] ^= 0xFF
	assert.Equal(t, snapshot, original)
}

func TestRewrite_DuplicateKeywordsAccumulate(t *testing.T) {
	out, err := Rewrite(minimalContainer(), testKeyword, "one")
	require.NoError(t, err)
	out, err = Rewrite(out, testKeyword, "two")
	require.NoError(t, err)

	chunks, err := DecodeChunks(out, true)
	require.NoError(t, err)

	assert.Equal(t, []TextEntry{
		{Keyword: testKeyword, Value: "one"},
		{Keyword: testKeyword, Value: "two"},
	}, TextEntries(chunks))
}

func TestRewrite_DropsBytesAfterTerminator(t *testing.T) {
	original := append(minimalContainer(), []byte("trailing garbage")...)

	out, err := Rewrite(original, testKeyword, "v")
	require.NoError(t, err)

	assert.Len(t, out, SignatureSize+ChunkOverhead+len(testKeyword)+1+1+ChunkOverhead)
	assert.Equal(t, Signature[:], out[:SignatureSize])
	assert.True(t, bytes.HasSuffix(out, EncodeChunk(ChunkIEND, nil)))
}

func TestRewrite_EmptyAndBinaryValues(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"empty value", ""},
		{"utf-8 value", "héllo wörld"},
		{"value with zero byte", "a\x00b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Rewrite(minimalContainer(), testKeyword, tt.value)
			require.NoError(t, err)

			chunks, err := DecodeChunks(out, true)
			require.NoError(t, err)
			assert.Equal(t, []byte(testKeyword+"\x00"+tt.value), chunks[0].Data)
		})
	}
}

func TestRewrite_FormatErrors(t *testing.T) {
	valid := encodedImage(t)

	hugeLength := append([]byte{}, Signature[:]...)
	hugeLength = binary.BigEndian.AppendUint32(hugeLength, 0xFFFFFFF0)
	hugeLength = append(hugeLength, "IHDR"...)

	noTerminator := append([]byte{}, Signature[:]...)
	noTerminator = AppendChunk(noTerminator, ChunkIHDR, make([]byte, 13))

	tests := []struct {
		name  string
		input []byte
	}{
		{"nil buffer", nil},
		{"short signature", Signature[:5]},
		{"bad signature", append([]byte("GIF89a.."), valid[SignatureSize:]...)},
		{"signature only", Signature[:]},
		{"truncated header", append(append([]byte{}, Signature[:]...), 0, 0, 0)},
		{"length beyond buffer", hugeLength},
		{"truncated before terminator", valid[:len(valid)-ChunkOverhead]},
		{"terminator checksum cut", valid[:len(valid)-2]},
		{"no terminator", noTerminator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Rewrite(tt.input, testKeyword, "hello")
			require.Error(t, err)
			assert.Nil(t, out, "no partial output on failure")
			assert.True(t, errors.Is(err, ErrFormat), "want FormatError, got %v", err)

			var formatErr *FormatError
			assert.True(t, errors.As(err, &formatErr))
		})
	}
}

func TestRewrite_SignatureOnlyReportsMissingTerminator(t *testing.T) {
	_, err := Rewrite(Signature[:], testKeyword, "hello")
	require.ErrorIs(t, err, ErrTerminatorMissing)

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, SignatureSize, formatErr.Offset)
}

func TestRewrite_KeywordWithZeroByte(t *testing.T) {
	_, err := Rewrite(minimalContainer(), "bad\x00key", "v")
	require.ErrorIs(t, err, ErrInvalidKeyword)
}

func TestRewrite_Concurrent(t *testing.T) {
	original := encodedImage(t)
	want, err := Rewrite(original, testKeyword, "parallel")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := Rewrite(original, testKeyword, "parallel")
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(got, want) {
				errs <- errors.New("concurrent rewrite produced different bytes")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestRewriter(t *testing.T) {
	_, err := NewRewriter("")
	require.ErrorIs(t, err, ErrInvalidKeyword)

	r, err := NewRewriter("Comment")
	require.NoError(t, err)
	assert.Equal(t, "Comment", r.Keyword())

	out, err := r.Rewrite(minimalContainer(), "hi")
	require.NoError(t, err)

	direct, err := Rewrite(minimalContainer(), "Comment", "hi")
	require.NoError(t, err)
	assert.Equal(t, direct, out)
}
