package types

const Magic uint32 = 0xf0f03410

type Superblock struct {
	Magic          uint32 `json:"magic"`
	Blocks         Block  `json:"blocks"`
	InodeBlocks    Block  `json:"inodeBlocks"`
	InodesPerBlock Ino    `json:"inodesPerBlock"`
}

// InodeRegionBlocks reserves ten percent of the disk, rounded down, plus one
// block for inodes.
func InodeRegionBlocks(blocks Block) Block {
	return blocks/10 + 1
}

func NewSuperblock(blocks Block, geometry Geometry) Superblock {
	return Superblock{
		Magic:          Magic,
		Blocks:         blocks,
		InodeBlocks:    InodeRegionBlocks(blocks),
		InodesPerBlock: geometry.InodesPerBlock(),
	}
}

func (sb *Superblock) ValidMagic() bool { return sb.Magic == Magic }

// Inodes is the number of inode slots, including the reserved slot 0.
func (sb *Superblock) Inodes() Ino {
	return sb.InodesPerBlock * Ino(sb.InodeBlocks)
}

func (sb *Superblock) FirstDataBlock() Block { return 1 + sb.InodeBlocks }
