package disk

import (
	"fmt"

	. "github.com/weberc2/simplefs/pkg/types"
)

const (
	OutOfRangeErr ConstError = "block out of range"
	BufferSizeErr ConstError = "buffer size does not match block size"
	ImageSizeErr  ConstError = "image size does not match disk geometry"
)

// Disk is a fixed-size array of fixed-size blocks. Reads and writes always
// transfer exactly one whole block.
type Disk interface {
	ReadBlock(b Block, p []byte) error
	WriteBlock(b Block, p []byte) error
	Blocks() Block
	BlockSize() Byte
}

func GeometryOf(d Disk) Geometry {
	return Geometry{BlockSize: d.BlockSize()}
}

func check(d Disk, b Block, p []byte) error {
	if b >= d.Blocks() {
		return fmt.Errorf(
			"block `%d` of `%d`: %w",
			b,
			d.Blocks(),
			OutOfRangeErr,
		)
	}
	if Byte(len(p)) != d.BlockSize() {
		return fmt.Errorf(
			"buffer of `%d` bytes for block size `%d`: %w",
			len(p),
			d.BlockSize(),
			BufferSizeErr,
		)
	}
	return nil
}
