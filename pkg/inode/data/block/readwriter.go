package block

import (
	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/inode/data/block/physical"
	. "github.com/weberc2/simplefs/pkg/types"
)

type ReadWriter struct {
	physicalReadWriter physical.ReadWriter
	disk               disk.Disk
}

func NewReadWriter(
	readWriter physical.ReadWriter,
	d disk.Disk,
) ReadWriter {
	return ReadWriter{readWriter, d}
}

func (rw *ReadWriter) Reader() Reader {
	return NewReader(rw.physicalReadWriter.Reader(), rw.disk)
}

func (rw *ReadWriter) Writer() Writer {
	return NewWriter(rw.physicalReadWriter, rw.disk)
}

func (rw *ReadWriter) Read(
	inode *Inode,
	block Block,
	offset Byte,
	buf []byte,
) (Byte, error) {
	r := rw.Reader()
	return r.Read(inode, block, offset, buf)
}

func (rw *ReadWriter) Write(
	inode *Inode,
	block Block,
	offset Byte,
	buf []byte,
) (Byte, error) {
	w := rw.Writer()
	return w.Write(inode, block, offset, buf)
}
