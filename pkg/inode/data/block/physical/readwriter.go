package physical

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/alloc"
	"github.com/weberc2/simplefs/pkg/inode/data/block/indirect"
	. "github.com/weberc2/simplefs/pkg/types"
)

type ReadWriter struct {
	geometry   Geometry
	allocator  alloc.BlockAllocator
	inodeStore InodeStore
	indirects  indirect.ReadWriter
}

func NewReadWriter(
	geometry Geometry,
	allocator alloc.BlockAllocator,
	indirects indirect.ReadWriter,
	inodeStore InodeStore,
) ReadWriter {
	return ReadWriter{
		geometry:   geometry,
		allocator:  allocator,
		indirects:  indirects,
		inodeStore: inodeStore,
	}
}

func (rw *ReadWriter) Reader() Reader {
	return Reader{rw.geometry, rw.indirects.Reader()}
}

func (rw *ReadWriter) Read(inode *Inode, block Block) (Block, error) {
	return rw.Reader().Read(inode, block)
}

// ReadAlloc resolves a file block to its physical block, allocating the
// block (and the indirect block, if needed) when it doesn't exist yet. The
// inode is persisted whenever one of its pointers changes. Returns
// OutOfBlocksErr when the allocator is exhausted.
func (rw *ReadWriter) ReadAlloc(inode *Inode, inodeBlock Block) (Block, error) {
	var addr Address
	if err := addr.fromInodeBlock(rw.geometry, inodeBlock); err != nil {
		return BlockNil, fmt.Errorf(
			"getting physical block for inode `%d`, block `%d`: %w",
			inode.Ino,
			inodeBlock,
			err,
		)
	}

	// if the inode points to an invalid block, allocate a valid block, stick
	// it on the inode (store the updated inode).
	if err := rw.ensureToplevel(inode, &addr); err != nil {
		return BlockNil, fmt.Errorf(
			"getting physical block for inode `%d`, block `%d`: %w",
			inode.Ino,
			inodeBlock,
			err,
		)
	}

	if addr.Level == LevelDirect {
		return *addr.ptr(inode), nil
	}

	p, err := rw.readIndirect(*addr.ptr(inode), addr.Index)
	if err != nil {
		return BlockNil, fmt.Errorf(
			"getting physical block for inode `%d`, block `%d`: "+
				"traversing %s block: %w",
			inode.Ino,
			inodeBlock,
			addr.Level,
			err,
		)
	}
	return p, nil
}

func (rw *ReadWriter) ensureToplevel(inode *Inode, addr *Address) error {
	ptr := addr.ptr(inode)
	if *ptr != BlockNil {
		return nil
	}

	b, err := rw.allocOne()
	if err != nil {
		return fmt.Errorf("allocating %s block: %w", addr.Level, err)
	}

	if addr.Level == LevelSingly {
		if err := rw.indirects.Clear(b); err != nil {
			rw.allocator.Free(b)
			return fmt.Errorf("allocating %s block: %w", addr.Level, err)
		}
	}

	*ptr = b
	if err := rw.inodeStore.Put(inode); err != nil {
		rw.allocator.Free(b)
		*ptr = BlockNil
		return fmt.Errorf(
			"allocating %s block: storing updated inode: %w",
			addr.Level,
			err,
		)
	}
	return nil
}

func (rw *ReadWriter) readIndirect(
	indirectBlock Block,
	index indirect.Index,
) (Block, error) {
	p, err := rw.indirects.ReadIndirect(indirectBlock, index)
	if err != nil {
		return BlockNil, err
	}
	if p != BlockNil {
		return p, nil
	}

	p, err = rw.allocOne()
	if err != nil {
		return BlockNil, fmt.Errorf(
			"allocating block to store in (block `%d`, index `%d`): %w",
			indirectBlock,
			index,
			err,
		)
	}

	// free the block if we can't persist a pointer to it in the indirect
	// block.
	if err := rw.indirects.WriteIndirect(indirectBlock, index, p); err != nil {
		rw.allocator.Free(p)
		return BlockNil, fmt.Errorf(
			"writing newly-allocated block pointer `%d` to indirect block "+
				"`%d` at index `%d`: %w",
			p,
			indirectBlock,
			index,
			err,
		)
	}
	return p, nil
}

// Release frees every block the inode references: its direct blocks, the
// data blocks named by its indirect block, and the indirect block itself.
// Nothing is freed unless the indirect block can be read. The inode itself
// is left for the caller to clear and persist.
func (rw *ReadWriter) Release(inode *Inode) error {
	var pointers []Block
	if inode.IndirectBlock != BlockNil {
		var err error
		if pointers, err = rw.indirects.ReadAll(inode.IndirectBlock); err != nil {
			return fmt.Errorf(
				"releasing blocks of inode `%d`: %w",
				inode.Ino,
				err,
			)
		}
		pointers = append(pointers, inode.IndirectBlock)
	}

	for _, b := range append(inode.DirectBlocks[:], pointers...) {
		if b != BlockNil {
			rw.allocator.Free(b)
		}
	}
	return nil
}

func (rw *ReadWriter) allocOne() (Block, error) {
	b, ok := rw.allocator.Alloc()
	if !ok {
		return BlockNil, OutOfBlocksErr
	}
	return b, nil
}
