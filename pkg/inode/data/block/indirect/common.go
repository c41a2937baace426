package indirect

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/disk"
	. "github.com/weberc2/simplefs/pkg/types"
)

// Index is a slot within an indirect block.
type Index uint32

func offset(d disk.Disk, index Index) Byte {
	start := Byte(index) * BlockPointerSize
	if start+BlockPointerSize > d.BlockSize() {
		panic(fmt.Sprintf(
			"indirect index `%d` exceeds block size `%d`",
			index,
			d.BlockSize(),
		))
	}
	return start
}
