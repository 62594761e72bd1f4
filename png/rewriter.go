package png

// findTerminator walks the chunk stream from the end of the signature and
// returns the IEND chunk. Chunks before it are only bounds checked; their
// contents and checksums are left alone.
func findTerminator(buf []byte) (Chunk, error) {
	offset := SignatureSize
	for offset < len(buf) {
		c, err := DecodeChunk(buf, offset)
		if err != nil {
			return Chunk{}, err
		}
		if c.Type == ChunkIEND {
			return c, nil
		}
		offset += c.Size()
	}
	return Chunk{}, &FormatError{Offset: offset, Reason: ErrTerminatorMissing.Error(), Err: ErrTerminatorMissing}
}

// Rewrite returns a new container holding every chunk of original up to
// IEND unchanged, then one tEXt chunk carrying keyword and value, then the
// original IEND chunk. Bytes after IEND are dropped. original is never
// modified, and on error no buffer is returned.
//
// Existing tEXt chunks are copied as-is even if they use the same keyword,
// so repeated rewrites accumulate entries.
func Rewrite(original []byte, keyword, value string) ([]byte, error) {
	if err := CheckSignature(original); err != nil {
		return nil, err
	}

	text, err := EncodeText(keyword, value)
	if err != nil {
		return nil, err
	}

	iend, err := findTerminator(original)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, iend.Offset+len(text)+ChunkOverhead+iend.Size())
	// signature and every chunk before IEND are contiguous, copy them in one go
	out = append(out, original[:iend.Offset]...)
	out = AppendChunk(out, ChunkTEXT, text)
	out = append(out, original[iend.Offset:iend.Offset+iend.Size()]...)
	return out, nil
}

// Rewriter inserts text chunks under a fixed, pre-validated keyword.
type Rewriter struct {
	keyword string
}

// NewRewriter validates keyword against the tEXt keyword rules.
func NewRewriter(keyword string) (*Rewriter, error) {
	if err := ValidateKeyword(keyword); err != nil {
		return nil, err
	}
	return &Rewriter{keyword: keyword}, nil
}

// Keyword returns the keyword every inserted chunk carries.
func (r *Rewriter) Keyword() string {
	return r.keyword
}

// Rewrite inserts value under the rewriter's keyword. See the package-level Rewrite.
func (r *Rewriter) Rewrite(original []byte, value string) ([]byte, error) {
	return Rewrite(original, r.keyword, value)
}
