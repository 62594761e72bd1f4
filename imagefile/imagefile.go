// Package imagefile loads PNG containers from disk and writes rewritten ones back.
// It is the byte source and byte sink around the png package: png never does I/O itself.
package imagefile

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

var ErrTooLarge = errors.New("imagefile: input exceeds size limit")

// Image is a loaded container. Data may be a read-only memory mapping:
// writing to it faults, so callers must treat it as immutable.
type Image struct {
	Path string
	Data []byte

	release func() error
}

// Close releases the mapping (if any). Data must not be used afterwards.
func (img *Image) Close() error {
	if img.release == nil {
		return nil
	}
	release := img.release
	img.release = nil
	img.Data = nil
	return release()
}

// Load reads the file at path. maxSize of zero disables the size check.
func Load(path string, maxSize int64) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s is not a regular file", path)
	}
	if maxSize > 0 && info.Size() > maxSize {
		return nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, info.Size(), maxSize)
	}

	data, release, err := mapFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &Image{Path: path, Data: data, release: release}, nil
}

// WriteAtomic writes data to path through a uniquely named temporary file in
// the same directory, so readers never observe a partially written image.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmpPath := filepath.Join(dir, "."+base+"."+uuid.NewString()+".tmp")

	file, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}
	return nil
}

// DerivedPath inserts suffix before the extension: "a/cat.png" + "-modified" -> "a/cat-modified.png".
func DerivedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// Digest returns the hex BLAKE3 fingerprint of data, used in logs to tie
// an output file back to the input it came from.
func Digest(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
