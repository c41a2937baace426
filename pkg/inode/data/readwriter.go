package data

import (
	"github.com/weberc2/simplefs/pkg/inode/data/block"
	. "github.com/weberc2/simplefs/pkg/types"
)

type ReadWriter struct {
	geometry        Geometry
	blockReadWriter block.ReadWriter
	inodeStore      InodeStore
}

func NewReadWriter(
	geometry Geometry,
	blocks block.ReadWriter,
	inodeStore InodeStore,
) ReadWriter {
	return ReadWriter{geometry, blocks, inodeStore}
}

func (rw *ReadWriter) Reader() Reader {
	return NewReader(rw.geometry, rw.blockReadWriter.Reader())
}

func (rw *ReadWriter) Writer() Writer {
	return NewWriter(
		rw.geometry,
		rw.blockReadWriter.Writer(),
		rw.inodeStore,
	)
}

func (rw *ReadWriter) Read(inode *Inode, offset Byte, b []byte) (Byte, error) {
	r := rw.Reader()
	return r.Read(inode, offset, b)
}

func (rw *ReadWriter) Write(
	inode *Inode,
	offset Byte,
	b []byte,
) (Byte, error) {
	w := rw.Writer()
	return w.Write(inode, offset, b)
}
