package data

import (
	"errors"
	"fmt"

	"github.com/weberc2/simplefs/pkg/inode/data/block"
	"github.com/weberc2/simplefs/pkg/math"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Writer struct {
	geometry    Geometry
	blockWriter block.Writer
	inodeStore  InodeStore
}

func NewWriter(
	geometry Geometry,
	blockWriter block.Writer,
	inodeStore InodeStore,
) Writer {
	return Writer{geometry, blockWriter, inodeStore}
}

// Write stores `b` in the file starting at `offset`, allocating blocks as it
// goes. When the disk runs out of free blocks, Write stops and reports the
// bytes written so far without an error. The inode size grows to cover the
// written range and never shrinks. Bytes past the maximum file size are
// dropped; a write that starts there fails with
// IndirectCapacityExceededErr.
func (w *Writer) Write(inode *Inode, offset Byte, b []byte) (Byte, error) {
	if offset < 0 {
		return 0, fmt.Errorf(
			"writing to inode `%d` at offset `%d`: %w",
			inode.Ino,
			offset,
			NegativeOffsetErr,
		)
	}
	if len(b) < 1 {
		return 0, nil
	}
	if maxSize := w.geometry.MaxFileSize(); offset >= maxSize {
		return 0, fmt.Errorf(
			"writing to inode `%d` at offset `%d` (max file size `%d`): %w",
			inode.Ino,
			offset,
			maxSize,
			IndirectCapacityExceededErr,
		)
	} else if offset+Byte(len(b)) > maxSize {
		b = b[:maxSize-offset]
	}

	blockSize := w.geometry.BlockSize
	var chunkBegin Byte

	for chunkBegin < Byte(len(b)) {
		chunkBlock := Block((offset + chunkBegin) / blockSize)
		chunkOffset := (offset + chunkBegin) % blockSize
		chunkLength := math.Min(Byte(len(b))-chunkBegin, blockSize-chunkOffset)

		actual, err := w.blockWriter.Write(
			inode,
			chunkBlock,
			chunkOffset,
			b[chunkBegin:chunkBegin+chunkLength],
		)
		if errors.Is(err, OutOfBlocksErr) {
			break
		}
		if err != nil {
			return chunkBegin, fmt.Errorf(
				"writing up to `%d` bytes to inode `%d` at offset `%d`: %w",
				len(b),
				inode.Ino,
				offset,
				err,
			)
		}

		if actual != chunkLength {
			panic(fmt.Sprintf(
				"intended to write `%d` bytes; actually wrote `%d` bytes",
				chunkLength,
				actual,
			))
		}

		chunkBegin += chunkLength

		// pick up any pointers the block writer persisted
		if err := w.inodeStore.Get(inode.Ino, inode); err != nil {
			return chunkBegin, fmt.Errorf(
				"writing up to `%d` bytes to inode `%d` at offset `%d`: "+
					"reloading inode: %w",
				len(b),
				inode.Ino,
				offset,
				err,
			)
		}
	}

	if chunkBegin > 0 && inode.Size < offset+chunkBegin {
		clone := *inode
		clone.Size = offset + chunkBegin
		if err := w.inodeStore.Put(&clone); err != nil {
			return chunkBegin, fmt.Errorf(
				"writing up to `%d` bytes to inode `%d` at offset `%d`: "+
					"updating inode size: %w",
				len(b),
				inode.Ino,
				offset,
				err,
			)
		}
		*inode = clone
	}

	return chunkBegin, nil
}
