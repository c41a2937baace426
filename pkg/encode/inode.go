package encode

import (
	. "github.com/weberc2/simplefs/pkg/types"
)

func EncodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]

	putBool(p, inodeValidStart, inode.Valid)
	putI32(p, inodeSizeStart, int32(inode.Size))

	for i := Byte(0); i < Byte(DirectBlocksCount); i++ {
		blockPointerStart := inodeDirectBlocksStart + i*BlockPointerSize
		EncodeBlock(
			inode.DirectBlocks[i],
			(*[BlockPointerSize]byte)(p[blockPointerStart:]),
		)
	}

	EncodeBlock(
		inode.IndirectBlock,
		(*[BlockPointerSize]byte)(p[inodeIndirectStart:inodeIndirectEnd]),
	)
}

// DecodeInode leaves `inode.Ino` untouched; the inumber is a function of the
// record's position, not of its contents.
func DecodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]

	inode.Valid = getBool(p, inodeValidStart)
	inode.Size = Byte(getI32(p, inodeSizeStart))

	for i := Byte(0); i < Byte(DirectBlocksCount); i++ {
		blockPointerStart := inodeDirectBlocksStart + i*BlockPointerSize
		inode.DirectBlocks[i] = DecodeBlock(
			(*[BlockPointerSize]byte)(p[blockPointerStart:]),
		)
	}

	inode.IndirectBlock = DecodeBlock(
		(*[BlockPointerSize]byte)(p[inodeIndirectStart:inodeIndirectEnd]),
	)
}

const (
	inodeValidStart = 0
	inodeValidSize  = 4
	inodeValidEnd   = inodeValidStart + inodeValidSize

	inodeSizeStart = inodeValidEnd
	inodeSizeSize  = 4
	inodeSizeEnd   = inodeSizeStart + inodeSizeSize

	inodeDirectBlocksStart = inodeSizeEnd
	inodeDirectBlocksSize  = Byte(DirectBlocksCount) * BlockPointerSize
	inodeDirectBlocksEnd   = inodeDirectBlocksStart + inodeDirectBlocksSize

	inodeIndirectStart = inodeDirectBlocksEnd
	inodeIndirectSize  = BlockPointerSize
	inodeIndirectEnd   = inodeIndirectStart + inodeIndirectSize
)
