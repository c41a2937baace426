package store

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/encode"
	. "github.com/weberc2/simplefs/pkg/types"
)

// BlockReleaser returns every block an inode references to the allocator.
type BlockReleaser interface {
	Release(inode *Inode) error
}

// InodeTable stores inode records in the inode blocks that follow the
// superblock. Inumbers are dense across inode blocks: inumber `i` lives in
// block `1 + i/inodesPerBlock` at slot `i%inodesPerBlock`. Inumber 0 is
// never handed out.
type InodeTable struct {
	disk       disk.Disk
	superblock Superblock
}

func NewInodeTable(d disk.Disk, superblock Superblock) InodeTable {
	return InodeTable{disk: d, superblock: superblock}
}

func (table InodeTable) locate(ino Ino) (Block, Byte, error) {
	if ino == InoNil || ino >= table.superblock.Inodes() {
		return BlockNil, 0, fmt.Errorf(
			"locating inode `%d` of `%d`: %w",
			ino,
			table.superblock.Inodes(),
			InvalidInumberErr,
		)
	}
	perBlock := table.superblock.InodesPerBlock
	return Block(ino/perBlock) + 1, Byte(ino%perBlock) * InodeSize, nil
}

func (table InodeTable) Get(ino Ino, output *Inode) error {
	block, offset, err := table.locate(ino)
	if err != nil {
		return err
	}
	buf := make([]byte, table.disk.BlockSize())
	if err := table.disk.ReadBlock(block, buf); err != nil {
		return fmt.Errorf(
			"reading inode `%d` from block `%d`: %w",
			ino,
			block,
			err,
		)
	}
	encode.DecodeInode(output, (*[InodeSize]byte)(buf[offset:offset+InodeSize]))
	output.Ino = ino
	return nil
}

// GetValid is Get for callers that require a live inode.
func (table InodeTable) GetValid(ino Ino, output *Inode) error {
	if err := table.Get(ino, output); err != nil {
		return err
	}
	if !output.Valid {
		return fmt.Errorf("getting inode `%d`: %w", ino, InvalidInodeErr)
	}
	return nil
}

func (table InodeTable) Put(inode *Inode) error {
	block, offset, err := table.locate(inode.Ino)
	if err != nil {
		return err
	}
	buf := make([]byte, table.disk.BlockSize())
	if err := table.disk.ReadBlock(block, buf); err != nil {
		return fmt.Errorf(
			"writing inode `%d` to block `%d`: reading block: %w",
			inode.Ino,
			block,
			err,
		)
	}
	encode.EncodeInode(inode, (*[InodeSize]byte)(buf[offset:offset+InodeSize]))
	if err := table.disk.WriteBlock(block, buf); err != nil {
		return fmt.Errorf(
			"writing inode `%d` to block `%d`: %w",
			inode.Ino,
			block,
			err,
		)
	}
	return nil
}

// Create claims the first invalid inode slot, initialized as an empty file.
func (table InodeTable) Create() (Ino, error) {
	var (
		buf      = make([]byte, table.disk.BlockSize())
		perBlock = table.superblock.InodesPerBlock
		inode    Inode
	)
	for k := Block(0); k < table.superblock.InodeBlocks; k++ {
		if err := table.disk.ReadBlock(k+1, buf); err != nil {
			return InoNil, fmt.Errorf(
				"creating inode: reading inode block `%d`: %w",
				k+1,
				err,
			)
		}
		for slot := Ino(0); slot < perBlock; slot++ {
			ino := Ino(k)*perBlock + slot
			if ino == InoNil {
				continue
			}
			offset := Byte(slot) * InodeSize
			record := (*[InodeSize]byte)(buf[offset : offset+InodeSize])
			encode.DecodeInode(&inode, record)
			if inode.Valid {
				continue
			}

			inode = Inode{Ino: ino, Valid: true}
			encode.EncodeInode(&inode, record)
			if err := table.disk.WriteBlock(k+1, buf); err != nil {
				return InoNil, fmt.Errorf(
					"creating inode `%d`: writing inode block `%d`: %w",
					ino,
					k+1,
					err,
				)
			}
			return ino, nil
		}
	}
	return InoNil, fmt.Errorf("creating inode: %w", NoFreeInodeErr)
}

// Delete releases the inode's blocks and clears its record.
func (table InodeTable) Delete(ino Ino, releaser BlockReleaser) error {
	var inode Inode
	if err := table.GetValid(ino, &inode); err != nil {
		return fmt.Errorf("deleting inode: %w", err)
	}
	if err := releaser.Release(&inode); err != nil {
		return fmt.Errorf("deleting inode `%d`: %w", ino, err)
	}
	inode.Reset()
	if err := table.Put(&inode); err != nil {
		return fmt.Errorf("deleting inode `%d`: %w", ino, err)
	}
	return nil
}

// Size returns -1 for an inode slot that is in range but not in use.
func (table InodeTable) Size(ino Ino) (Byte, error) {
	var inode Inode
	if err := table.Get(ino, &inode); err != nil {
		return -1, fmt.Errorf("getting size: %w", err)
	}
	if !inode.Valid {
		return -1, nil
	}
	return inode.Size, nil
}

// Each calls `f` with every valid inode in inumber order. The inode passed
// to `f` is reused between calls.
func (table InodeTable) Each(f func(inode *Inode) error) error {
	var (
		buf      = make([]byte, table.disk.BlockSize())
		perBlock = table.superblock.InodesPerBlock
		inode    Inode
	)
	for k := Block(0); k < table.superblock.InodeBlocks; k++ {
		if err := table.disk.ReadBlock(k+1, buf); err != nil {
			return fmt.Errorf("reading inode block `%d`: %w", k+1, err)
		}
		for slot := Ino(0); slot < perBlock; slot++ {
			ino := Ino(k)*perBlock + slot
			if ino == InoNil {
				continue
			}
			offset := Byte(slot) * InodeSize
			encode.DecodeInode(
				&inode,
				(*[InodeSize]byte)(buf[offset:offset+InodeSize]),
			)
			if !inode.Valid {
				continue
			}
			inode.Ino = ino
			if err := f(&inode); err != nil {
				return err
			}
		}
	}
	return nil
}

var _ InodeStore = InodeTable{}
