package indirect

import (
	"fmt"

	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/encode"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Writer struct {
	disk disk.Disk
}

func NewWriter(d disk.Disk) Writer {
	return Writer{d}
}

func (w Writer) WriteIndirect(
	indirect Block,
	index Index,
	target Block,
) error {
	buf := make([]byte, w.disk.BlockSize())
	if err := w.disk.ReadBlock(indirect, buf); err != nil {
		return fmt.Errorf(
			"writing target block `%d` to indirect block `%d` at index "+
				"`%d`: %w",
			target,
			indirect,
			index,
			err,
		)
	}
	start := offset(w.disk, index)
	encode.EncodeBlock(
		target,
		(*[BlockPointerSize]byte)(buf[start:start+BlockPointerSize]),
	)
	if err := w.disk.WriteBlock(indirect, buf); err != nil {
		return fmt.Errorf(
			"writing target block `%d` to indirect block `%d` at index "+
				"`%d`: %w",
			target,
			indirect,
			index,
			err,
		)
	}
	return nil
}

// Clear nils every pointer in a freshly allocated indirect block; a block
// returned by the allocator may still hold a previous file's data.
func (w Writer) Clear(indirect Block) error {
	if err := w.disk.WriteBlock(
		indirect,
		make([]byte, w.disk.BlockSize()),
	); err != nil {
		return fmt.Errorf("clearing indirect block `%d`: %w", indirect, err)
	}
	return nil
}
