package encode

import (
	. "github.com/weberc2/simplefs/pkg/types"
)

const SuperblockSize Byte = superblockInodesPerBlockEnd

func EncodeSuperblock(sb *Superblock, b *[SuperblockSize]byte) {
	p := b[:]
	putU32(p, superblockMagicStart, sb.Magic)
	putU32(p, superblockBlocksStart, uint32(sb.Blocks))
	putU32(p, superblockInodeBlocksStart, uint32(sb.InodeBlocks))
	putU32(p, superblockInodesPerBlockStart, uint32(sb.InodesPerBlock))
}

func DecodeSuperblock(sb *Superblock, b *[SuperblockSize]byte) {
	p := b[:]
	sb.Magic = getU32(p, superblockMagicStart)
	sb.Blocks = Block(getU32(p, superblockBlocksStart))
	sb.InodeBlocks = Block(getU32(p, superblockInodeBlocksStart))
	sb.InodesPerBlock = Ino(getU32(p, superblockInodesPerBlockStart))
}

const (
	superblockMagicStart = 0
	superblockMagicSize  = 4
	superblockMagicEnd   = superblockMagicStart + superblockMagicSize

	superblockBlocksStart = superblockMagicEnd
	superblockBlocksSize  = 4
	superblockBlocksEnd   = superblockBlocksStart + superblockBlocksSize

	superblockInodeBlocksStart = superblockBlocksEnd
	superblockInodeBlocksSize  = 4
	superblockInodeBlocksEnd   = superblockInodeBlocksStart +
		superblockInodeBlocksSize

	superblockInodesPerBlockStart = superblockInodeBlocksEnd
	superblockInodesPerBlockSize  = 4
	superblockInodesPerBlockEnd   = superblockInodesPerBlockStart +
		superblockInodesPerBlockSize
)
