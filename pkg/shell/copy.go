package shell

import (
	"fmt"
	"io"

	. "github.com/weberc2/simplefs/pkg/types"
)

// Files is the subset of a mounted file system needed to move whole files
// in and out of it.
type Files interface {
	Read(ino Ino, p []byte, offset Byte) (Byte, error)
	Write(ino Ino, p []byte, offset Byte) (Byte, error)
}

// CopyIn writes everything from `r` into the file starting at offset 0 in
// ChunkSize pieces. It stops early without error when the file system runs
// out of space, returning the number of bytes stored.
func CopyIn(files Files, ino Ino, r io.Reader) (Byte, error) {
	buf := make([]byte, ChunkSize)
	var offset Byte
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			written, werr := files.Write(ino, buf[:n], offset)
			offset += written
			if werr != nil {
				return offset, fmt.Errorf(
					"copying into inode `%d`: %w",
					ino,
					werr,
				)
			}
			if written < Byte(n) {
				return offset, nil
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return offset, nil
		}
		if err != nil {
			return offset, fmt.Errorf("copying into inode `%d`: %w", ino, err)
		}
	}
}

// CopyOut writes the whole file to `w` in ChunkSize pieces.
func CopyOut(files Files, ino Ino, w io.Writer) (Byte, error) {
	buf := make([]byte, ChunkSize)
	var offset Byte
	for {
		n, err := files.Read(ino, buf, offset)
		if err != nil {
			return offset, fmt.Errorf("copying out of inode `%d`: %w", ino, err)
		}
		if n == 0 {
			return offset, nil
		}
		if _, err := w.Write(buf[:n]); err != nil {
			return offset, fmt.Errorf("copying out of inode `%d`: %w", ino, err)
		}
		offset += n
	}
}
