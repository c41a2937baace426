package physical

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/inode/data/block/indirect"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Level int

const (
	LevelDirect Level = iota
	LevelSingly
	LevelOutOfRange
)

func (level Level) String() string {
	switch level {
	case LevelDirect:
		return "direct"
	case LevelSingly:
		return "singly indirect"
	case LevelOutOfRange:
		return "out of range"
	default:
		panic(fmt.Sprintf("invalid level: %d", level))
	}
}

// Address names the pointer that holds a file block. For direct blocks
// Index is the slot in the inode's direct pointers; for singly indirect
// blocks it is the slot in the indirect block.
type Address struct {
	Level      Level
	Index      indirect.Index
	InodeBlock Block
	Offset     Byte
}

// Translate maps a byte offset within a file onto the file block holding it
// and the pointer that names that block. It does no IO.
func Translate(geometry Geometry, offset Byte) (Address, error) {
	if offset < 0 {
		return Address{}, fmt.Errorf(
			"translating offset `%d`: %w",
			offset,
			NegativeOffsetErr,
		)
	}
	if offset >= geometry.MaxFileSize() {
		return Address{Level: LevelOutOfRange}, fmt.Errorf(
			"translating offset `%d` (max file size `%d`): %w",
			offset,
			geometry.MaxFileSize(),
			IndirectCapacityExceededErr,
		)
	}

	var addr Address
	if err := addr.fromInodeBlock(
		geometry,
		Block(offset/geometry.BlockSize),
	); err != nil {
		return addr, fmt.Errorf("translating offset `%d`: %w", offset, err)
	}
	addr.Offset = offset % geometry.BlockSize
	return addr, nil
}

func (addr *Address) fromInodeBlock(geometry Geometry, block Block) error {
	if block < DirectBlocksCount {
		*addr = Address{
			Level:      LevelDirect,
			Index:      indirect.Index(block),
			InodeBlock: block,
		}
		return nil
	}

	if block-DirectBlocksCount < geometry.PointersPerBlock() {
		*addr = Address{
			Level:      LevelSingly,
			Index:      indirect.Index(block - DirectBlocksCount),
			InodeBlock: block,
		}
		return nil
	}

	*addr = Address{Level: LevelOutOfRange, InodeBlock: block}
	return fmt.Errorf(
		"file block `%d` (max `%d`): %w",
		block,
		geometry.MaxFileBlocks()-1,
		IndirectCapacityExceededErr,
	)
}

// ptr returns the inode field at the top of the address: the direct pointer
// itself, or the indirect block pointer.
func (addr *Address) ptr(inode *Inode) *Block {
	switch addr.Level {
	case LevelDirect:
		return &inode.DirectBlocks[addr.Index]
	case LevelSingly:
		return &inode.IndirectBlock
	default:
		panic(fmt.Sprintf("no pointer for %s address", addr.Level))
	}
}
