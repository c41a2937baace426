package physical

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/inode/data/block/indirect"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Reader struct {
	geometry       Geometry
	indirectReader indirect.Reader
}

func NewReader(geometry Geometry, indirectReader indirect.Reader) Reader {
	return Reader{geometry, indirectReader}
}

// Read resolves a file block to its physical block. BlockNil means the block
// has never been written.
func (r Reader) Read(inode *Inode, inodeBlock Block) (Block, error) {
	var addr Address
	if err := addr.fromInodeBlock(r.geometry, inodeBlock); err != nil {
		return BlockNil, fmt.Errorf(
			"reading physical block for inode `%d`, block `%d`: %w",
			inode.Ino,
			inodeBlock,
			err,
		)
	}

	top := *addr.ptr(inode)
	if addr.Level == LevelDirect || top == BlockNil {
		return top, nil
	}

	block, err := r.indirectReader.ReadIndirect(top, addr.Index)
	if err != nil {
		return BlockNil, fmt.Errorf(
			"reading physical block for inode `%d`, block `%d`: reading "+
				"block `%d`, index `%d`: %w",
			inode.Ino,
			inodeBlock,
			top,
			addr.Index,
			err,
		)
	}
	return block, nil
}
