package data

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/inode/data/block"
	"github.com/weberc2/simplefs/pkg/math"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Reader struct {
	geometry    Geometry
	blockReader block.Reader
}

func NewReader(geometry Geometry, blockReader block.Reader) Reader {
	return Reader{geometry, blockReader}
}

// Read copies file contents starting at `offset` into `b`. It never reads
// past the inode's size and returns 0 when `offset` is at or beyond it.
func (r *Reader) Read(inode *Inode, offset Byte, b []byte) (Byte, error) {
	if offset < 0 {
		return 0, fmt.Errorf(
			"reading from inode `%d` at offset `%d`: %w",
			inode.Ino,
			offset,
			NegativeOffsetErr,
		)
	}
	if offset >= inode.Size {
		return 0, nil
	}

	blockSize := r.geometry.BlockSize
	maxLength := math.Min(Byte(len(b)), inode.Size-offset)
	var chunkBegin Byte = 0

	for chunkBegin < maxLength {
		chunkBlock := Block((offset + chunkBegin) / blockSize)
		chunkOffset := (offset + chunkBegin) % blockSize
		chunkLength := math.Min(maxLength-chunkBegin, blockSize-chunkOffset)

		actual, err := r.blockReader.Read(
			inode,
			chunkBlock,
			chunkOffset,
			b[chunkBegin:chunkBegin+chunkLength],
		)
		if err != nil {
			return chunkBegin, fmt.Errorf(
				"reading up to `%d` bytes from inode `%d` at offset `%d`: %w",
				len(b),
				inode.Ino,
				offset,
				err,
			)
		}
		if actual != chunkLength {
			panic(fmt.Sprintf(
				"intended to read `%d` bytes; actually read `%d` bytes",
				chunkLength,
				actual,
			))
		}

		chunkBegin += chunkLength
	}

	return chunkBegin, nil
}
