package types

import "fmt"

type Byte int64

type Block uint32

const (
	BlockPointerSize Byte = 4
	MaxBlockSize     Byte = 64 * 1024

	BlockNil Block = 0
)

// Geometry holds the block size of a device and the layout constants that
// follow from it.
type Geometry struct {
	BlockSize Byte
}

func (g Geometry) PointersPerBlock() Block {
	return Block(g.BlockSize / BlockPointerSize)
}

func (g Geometry) InodesPerBlock() Ino {
	return Ino(g.BlockSize / InodeSize)
}

// MaxFileBlocks is the number of data blocks addressable by one inode: the
// direct pointers plus one full indirect block.
func (g Geometry) MaxFileBlocks() Block {
	return DirectBlocksCount + g.PointersPerBlock()
}

func (g Geometry) MaxFileSize() Byte {
	return Byte(g.MaxFileBlocks()) * g.BlockSize
}

func (g Geometry) Validate() error {
	if g.BlockSize < InodeSize ||
		g.BlockSize > MaxBlockSize ||
		g.BlockSize%InodeSize != 0 {
		return fmt.Errorf(
			"validating block size `%d`: %w",
			g.BlockSize,
			InvalidBlockSizeErr,
		)
	}
	return nil
}
