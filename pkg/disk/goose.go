package disk

import (
	"fmt"

	gdisk "github.com/tchajed/goose/machine/disk"
	. "github.com/weberc2/simplefs/pkg/types"
)

// Goose adapts a goose machine disk, which has a fixed 4 KiB block size.
type Goose struct {
	disk gdisk.Disk
}

func NewGoose(d gdisk.Disk) *Goose { return &Goose{disk: d} }

func NewGooseMemory(blocks Block) *Goose {
	return NewGoose(gdisk.NewMemDisk(uint64(blocks)))
}

func OpenGooseFile(path string, blocks Block) (*Goose, error) {
	file, err := gdisk.NewFileDisk(path, uint64(blocks))
	if err != nil {
		return nil, fmt.Errorf("opening goose disk `%s`: %w", path, err)
	}
	return NewGoose(file), nil
}

// The goose disk panics on out-of-range addresses, so range checks happen
// before every call.
func (g *Goose) ReadBlock(b Block, p []byte) error {
	if err := check(g, b, p); err != nil {
		return err
	}
	copy(p, g.disk.Read(uint64(b)))
	return nil
}

func (g *Goose) WriteBlock(b Block, p []byte) error {
	if err := check(g, b, p); err != nil {
		return err
	}
	g.disk.Write(uint64(b), p)
	return nil
}

func (g *Goose) Blocks() Block { return Block(g.disk.Size()) }

func (g *Goose) BlockSize() Byte { return Byte(gdisk.BlockSize) }

func (g *Goose) Close() error {
	g.disk.Close()
	return nil
}
