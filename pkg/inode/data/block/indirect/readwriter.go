package indirect

import (
	"github.com/weberc2/simplefs/pkg/disk"
	. "github.com/weberc2/simplefs/pkg/types"
)

type ReadWriter struct {
	disk disk.Disk
}

func NewReadWriter(d disk.Disk) ReadWriter {
	return ReadWriter{d}
}

func (rw ReadWriter) ReadIndirect(
	indirect Block,
	index Index,
) (Block, error) {
	return rw.Reader().ReadIndirect(indirect, index)
}

func (rw ReadWriter) ReadAll(indirect Block) ([]Block, error) {
	return rw.Reader().ReadAll(indirect)
}

func (rw ReadWriter) WriteIndirect(
	indirect Block,
	index Index,
	target Block,
) error {
	return rw.Writer().WriteIndirect(indirect, index, target)
}

func (rw ReadWriter) Clear(indirect Block) error {
	return rw.Writer().Clear(indirect)
}

func (rw ReadWriter) Reader() Reader {
	return Reader{rw.disk}
}

func (rw ReadWriter) Writer() Writer {
	return Writer{rw.disk}
}
