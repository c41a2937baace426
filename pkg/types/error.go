package types

type ConstError string

func (err ConstError) Error() string { return string(err) }

const (
	AlreadyMountedErr           ConstError = "volume already mounted"
	NotMountedErr               ConstError = "volume not mounted"
	BadMagicErr                 ConstError = "bad magic number"
	NoFreeInodeErr              ConstError = "no free inode"
	InvalidInumberErr           ConstError = "inumber out of range"
	InvalidInodeErr             ConstError = "inode not valid"
	IndirectCapacityExceededErr ConstError = "indirect capacity exceeded"
	OutOfBlocksErr              ConstError = "out of free blocks"
	CorruptErr                  ConstError = "corrupt metadata"
	DiskTooSmallErr             ConstError = "disk too small"
	NegativeOffsetErr           ConstError = "negative offset"
	InvalidBlockSizeErr         ConstError = "invalid block size"
)
