package disk

import (
	. "github.com/weberc2/simplefs/pkg/types"
)

// Memory is a disk backed by a byte slice.
type Memory struct {
	data      []byte
	blockSize Byte
}

func NewMemory(blocks Block, blockSize Byte) *Memory {
	return &Memory{
		data:      make([]byte, Byte(blocks)*blockSize),
		blockSize: blockSize,
	}
}

func (m *Memory) ReadBlock(b Block, p []byte) error {
	if err := check(m, b, p); err != nil {
		return err
	}
	start := Byte(b) * m.blockSize
	copy(p, m.data[start:start+m.blockSize])
	return nil
}

func (m *Memory) WriteBlock(b Block, p []byte) error {
	if err := check(m, b, p); err != nil {
		return err
	}
	start := Byte(b) * m.blockSize
	copy(m.data[start:start+m.blockSize], p)
	return nil
}

func (m *Memory) Blocks() Block { return Block(Byte(len(m.data)) / m.blockSize) }

func (m *Memory) BlockSize() Byte { return m.blockSize }

// Bytes exposes the raw contents, e.g. for snapshotting.
func (m *Memory) Bytes() []byte { return m.data }
