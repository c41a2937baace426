package block

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/inode/data/block/physical"
	"github.com/weberc2/simplefs/pkg/math"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Writer struct {
	physicalReadWriter physical.ReadWriter
	disk               disk.Disk
}

func NewWriter(physical physical.ReadWriter, d disk.Disk) Writer {
	return Writer{physicalReadWriter: physical, disk: d}
}

// Write stores up to one block's worth of `buf` in a file block, starting
// at `offset` within the block, allocating the block if necessary. Partial
// blocks are read, patched and written back.
func (w *Writer) Write(
	inode *Inode,
	block Block,
	offset Byte,
	buf []byte,
) (Byte, error) {
	if len(buf) < 1 {
		return 0, nil
	}

	blockSize := w.disk.BlockSize()
	n := math.Min(blockSize-offset, Byte(len(buf)))

	physicalBlock, err := w.physicalReadWriter.ReadAlloc(inode, block)
	if err != nil {
		return 0, fmt.Errorf(
			"writing `%d` bytes to inode `%d` block `%d` at offset `%d`: "+
				"reading physical block: %w",
			n,
			inode.Ino,
			block,
			offset,
			err,
		)
	}

	data := make([]byte, blockSize)
	if n < blockSize {
		if err := w.disk.ReadBlock(physicalBlock, data); err != nil {
			return 0, fmt.Errorf(
				"writing `%d` bytes to inode `%d` block `%d` at offset "+
					"`%d`: reading physical block `%d`: %w",
				n,
				inode.Ino,
				block,
				offset,
				physicalBlock,
				err,
			)
		}
	}
	copy(data[offset:offset+n], buf[:n])

	if err := w.disk.WriteBlock(physicalBlock, data); err != nil {
		return 0, fmt.Errorf(
			"writing `%d` bytes to inode `%d` block `%d` at offset `%d`: "+
				"writing to physical block `%d`: %w",
			n,
			inode.Ino,
			block,
			offset,
			physicalBlock,
			err,
		)
	}

	return n, nil
}
