package alloc

import . "github.com/weberc2/simplefs/pkg/types"

// BlockAllocator maps handles one-to-one onto disk blocks. Block 0 holds the
// superblock and is reserved at mount, so a successful Alloc never returns
// BlockNil.
type BlockAllocator struct {
	Allocator
}

func NewBlockAllocator(blocks Block) BlockAllocator {
	bitmap := New(uint64(blocks))
	return BlockAllocator{Allocator: &bitmap}
}

func (ba BlockAllocator) Alloc() (Block, bool) {
	if b, ok := ba.Allocator.Alloc(); ok {
		return Block(b), true
	}
	return BlockNil, false
}

func (ba BlockAllocator) Free(b Block) {
	ba.Allocator.Free(uint64(b))
}

func (ba BlockAllocator) Reserve(b Block) {
	ba.Allocator.Reserve(uint64(b))
}

func (ba BlockAllocator) Reserved(b Block) bool {
	return ba.Allocator.Reserved(uint64(b))
}

func (ba BlockAllocator) Available() Block {
	return Block(ba.Allocator.Available())
}
