package block

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/inode/data/block/physical"
	"github.com/weberc2/simplefs/pkg/math"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Reader struct {
	physicalReader physical.Reader
	disk           disk.Disk
}

func NewReader(physicalReader physical.Reader, d disk.Disk) Reader {
	return Reader{physicalReader, d}
}

// Read copies up to one block's worth of a file block, starting at `offset`
// within the block, into `buf`. A block that was never allocated reads as
// zeroes.
func (r Reader) Read(
	inode *Inode,
	block Block,
	offset Byte,
	buf []byte,
) (Byte, error) {
	blockSize := r.disk.BlockSize()
	n := math.Min(blockSize-offset, Byte(len(buf)))

	// we could truncate this to zero, but it's probably always a programming
	// error, so let's not hide it
	if n < 0 {
		panic(fmt.Sprintf(
			"offset `%d` exceeds block size (`%d`)!",
			offset,
			blockSize,
		))
	}

	physicalBlock, err := r.physicalReader.Read(inode, block)
	if err != nil {
		return 0, fmt.Errorf(
			"reading `%d` bytes from block `%d` from inode `%d` at offset "+
				"`%d`: %w",
			n,
			block,
			inode.Ino,
			offset,
			err,
		)
	}

	if physicalBlock == BlockNil {
		for i := range buf[:n] {
			buf[i] = 0
		}
		return n, nil
	}

	data := make([]byte, blockSize)
	if err := r.disk.ReadBlock(physicalBlock, data); err != nil {
		return 0, fmt.Errorf(
			"reading `%d` bytes from block `%d` from inode `%d` at "+
				"offset `%d`: reading from physical block: %w",
			n,
			block,
			inode.Ino,
			offset,
			err,
		)
	}
	copy(buf[:n], data[offset:offset+n])
	return n, nil
}
