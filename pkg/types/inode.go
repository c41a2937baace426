package types

type Ino uint32

const (
	DirectBlocksCount Block = 5
	InodeSize         Byte  = 32
	InoNil            Ino   = 0
	InoFirst          Ino   = 1
)

type Inode struct {
	Ino           Ino
	Valid         bool
	Size          Byte
	DirectBlocks  [DirectBlocksCount]Block
	IndirectBlock Block
}

// Reset clears every field except the inumber.
func (inode *Inode) Reset() {
	*inode = Inode{Ino: inode.Ino}
}
