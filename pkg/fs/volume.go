package fs

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/weberc2/simplefs/pkg/alloc"
	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/inode/data"
	"github.com/weberc2/simplefs/pkg/inode/data/block"
	"github.com/weberc2/simplefs/pkg/inode/data/block/indirect"
	"github.com/weberc2/simplefs/pkg/inode/data/block/physical"
	"github.com/weberc2/simplefs/pkg/inode/store"
	"github.com/weberc2/simplefs/pkg/math"
	. "github.com/weberc2/simplefs/pkg/types"
)

// Volume is a mounted file system. Files are addressed by inumber. Every
// method fails with NotMountedErr once the volume has been unmounted.
type Volume struct {
	fs         *FileSystem
	id         uuid.UUID
	superblock Superblock
	geometry   Geometry
	allocator  alloc.BlockAllocator
	indirects  indirect.ReadWriter
	inodes     store.InodeTable
	physical   physical.ReadWriter
	data       data.ReadWriter
	logger     logrus.FieldLogger
}

func newVolume(fs *FileSystem, superblock Superblock) *Volume {
	var (
		id         = uuid.New()
		geometry   = disk.GeometryOf(fs.disk)
		allocator  = alloc.NewBlockAllocator(superblock.Blocks)
		indirects  = indirect.NewReadWriter(fs.disk)
		inodes     = store.NewInodeTable(fs.disk, superblock)
		physicalRW = physical.NewReadWriter(
			geometry,
			allocator,
			indirects,
			inodes,
		)
	)
	return &Volume{
		fs:         fs,
		id:         id,
		superblock: superblock,
		geometry:   geometry,
		allocator:  allocator,
		indirects:  indirects,
		inodes:     inodes,
		physical:   physicalRW,
		data: data.NewReadWriter(
			geometry,
			block.NewReadWriter(physicalRW, fs.disk),
			inodes,
		),
		logger: fs.logger.WithField("mount", id.String()),
	}
}

// scan marks the superblock, the inode table and every block referenced by
// a valid inode as occupied.
func (v *Volume) scan() error {
	for b := Block(0); b < v.superblock.FirstDataBlock(); b++ {
		v.allocator.Reserve(b)
	}

	if err := v.inodes.Each(func(inode *Inode) error {
		for _, b := range inode.DirectBlocks {
			if err := v.reserve(inode, b); err != nil {
				return err
			}
		}
		if inode.IndirectBlock == BlockNil {
			return nil
		}
		if err := v.reserve(inode, inode.IndirectBlock); err != nil {
			return err
		}
		pointers, err := v.indirects.ReadAll(inode.IndirectBlock)
		if err != nil {
			return fmt.Errorf("scanning inode `%d`: %w", inode.Ino, err)
		}
		for _, b := range pointers {
			if err := v.reserve(inode, b); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("building free block map: %w", err)
	}
	return nil
}

func (v *Volume) reserve(inode *Inode, b Block) error {
	if b == BlockNil {
		return nil
	}
	if b < v.superblock.FirstDataBlock() || b >= v.superblock.Blocks {
		return fmt.Errorf(
			"inode `%d` references block `%d` outside of the data region "+
				"[`%d`, `%d`): %w",
			inode.Ino,
			b,
			v.superblock.FirstDataBlock(),
			v.superblock.Blocks,
			CorruptErr,
		)
	}
	v.allocator.Reserve(b)
	return nil
}

func (v *Volume) check() error {
	if v == nil || v.fs.volume != v {
		return NotMountedErr
	}
	return nil
}

func (v *Volume) ID() uuid.UUID { return v.id }

func (v *Volume) Superblock() Superblock { return v.superblock }

func (v *Volume) FreeBlocks() Block { return v.allocator.Available() }

// Unmount is shorthand for unmounting the owning FileSystem.
func (v *Volume) Unmount() error {
	if err := v.check(); err != nil {
		return fmt.Errorf("unmounting volume: %w", err)
	}
	return v.fs.Unmount()
}

// Create allocates an empty file and returns its inumber.
func (v *Volume) Create() (Ino, error) {
	if err := v.check(); err != nil {
		return InoNil, fmt.Errorf("creating inode: %w", err)
	}
	ino, err := v.inodes.Create()
	if err != nil {
		return InoNil, err
	}
	v.logger.WithField("ino", ino).Debug("created inode")
	return ino, nil
}

// Delete frees the file's blocks and invalidates its inode.
func (v *Volume) Delete(ino Ino) error {
	if err := v.check(); err != nil {
		return fmt.Errorf("deleting inode `%d`: %w", ino, err)
	}
	if err := v.inodes.Delete(ino, &v.physical); err != nil {
		return err
	}
	v.logger.WithField("ino", ino).Debug("deleted inode")
	return nil
}

// Size returns the file's logical size, or -1 if the inode is not in use.
func (v *Volume) Size(ino Ino) (Byte, error) {
	if err := v.check(); err != nil {
		return -1, fmt.Errorf("getting size of inode `%d`: %w", ino, err)
	}
	return v.inodes.Size(ino)
}

// Read copies up to `len(p)` bytes of the file starting at `offset` into
// `p` and returns the number of bytes copied, which is 0 at end of file.
func (v *Volume) Read(ino Ino, p []byte, offset Byte) (Byte, error) {
	if err := v.check(); err != nil {
		return 0, fmt.Errorf("reading inode `%d`: %w", ino, err)
	}
	var inode Inode
	if err := v.inodes.GetValid(ino, &inode); err != nil {
		return 0, fmt.Errorf("reading inode `%d`: %w", ino, err)
	}
	return v.data.Read(&inode, offset, p)
}

// Write copies `p` into the file starting at `offset`. If the disk fills up
// part way through, the bytes written so far are kept and counted and no
// error is returned.
func (v *Volume) Write(ino Ino, p []byte, offset Byte) (Byte, error) {
	if err := v.check(); err != nil {
		return 0, fmt.Errorf("writing inode `%d`: %w", ino, err)
	}
	var inode Inode
	if err := v.inodes.GetValid(ino, &inode); err != nil {
		return 0, fmt.Errorf("writing inode `%d`: %w", ino, err)
	}
	n, err := v.data.Write(&inode, offset, p)
	if err != nil {
		return n, err
	}
	// writes past the max file size are clipped, not short
	wanted := math.Min(Byte(len(p)), v.geometry.MaxFileSize()-offset)
	if n < wanted {
		v.logger.WithFields(logrus.Fields{
			"ino":       ino,
			"offset":    offset,
			"requested": len(p),
			"written":   n,
		}).Warn("short write")
	}
	return n, nil
}
