package disk

import (
	. "github.com/weberc2/simplefs/pkg/types"
)

// Counting counts the block reads and writes that reach the wrapped disk.
type Counting struct {
	Disk
	reads  uint64
	writes uint64
}

func NewCounting(d Disk) *Counting { return &Counting{Disk: d} }

func (c *Counting) ReadBlock(b Block, p []byte) error {
	c.reads++
	return c.Disk.ReadBlock(b, p)
}

func (c *Counting) WriteBlock(b Block, p []byte) error {
	c.writes++
	return c.Disk.WriteBlock(b, p)
}

func (c *Counting) Reads() uint64 { return c.reads }

func (c *Counting) Writes() uint64 { return c.writes }
