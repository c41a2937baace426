package indirect

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/encode"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Reader struct {
	disk disk.Disk
}

func NewReader(d disk.Disk) Reader {
	return Reader{d}
}

func (r Reader) ReadIndirect(
	indirect Block,
	index Index,
) (Block, error) {
	buf := make([]byte, r.disk.BlockSize())
	if err := r.disk.ReadBlock(indirect, buf); err != nil {
		return BlockNil, fmt.Errorf(
			"reading indirect block `%d` at index `%d`: %w",
			indirect,
			index,
			err,
		)
	}
	start := offset(r.disk, index)
	return encode.DecodeBlock(
		(*[BlockPointerSize]byte)(buf[start : start+BlockPointerSize]),
	), nil
}

// ReadAll returns every pointer in the indirect block, including nil ones.
func (r Reader) ReadAll(indirect Block) ([]Block, error) {
	buf := make([]byte, r.disk.BlockSize())
	if err := r.disk.ReadBlock(indirect, buf); err != nil {
		return nil, fmt.Errorf("reading indirect block `%d`: %w", indirect, err)
	}
	pointers := make([]Block, disk.GeometryOf(r.disk).PointersPerBlock())
	encode.DecodeBlocks(buf, pointers)
	return pointers, nil
}
