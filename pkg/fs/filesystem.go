package fs

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/encode"
	. "github.com/weberc2/simplefs/pkg/types"
)

// FileSystem owns a disk and tracks whether a volume is mounted on it. At
// most one Volume is mounted per FileSystem at a time.
type FileSystem struct {
	disk   disk.Disk
	logger logrus.FieldLogger
	volume *Volume
}

type Option func(*FileSystem)

func WithLogger(logger logrus.FieldLogger) Option {
	return func(fs *FileSystem) { fs.logger = logger }
}

func New(d disk.Disk, options ...Option) *FileSystem {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	fs := FileSystem{disk: d, logger: logger}
	for _, option := range options {
		option(&fs)
	}
	return &fs
}

func (fs *FileSystem) Disk() disk.Disk { return fs.disk }

// Volume returns the mounted volume, if any.
func (fs *FileSystem) Volume() (*Volume, bool) {
	return fs.volume, fs.volume != nil
}

// Format writes an empty file system to the disk, destroying whatever was
// there. It refuses to run while a volume is mounted.
func (fs *FileSystem) Format() error {
	if fs.volume != nil {
		return fmt.Errorf("formatting disk: %w", AlreadyMountedErr)
	}

	geometry := disk.GeometryOf(fs.disk)
	if err := geometry.Validate(); err != nil {
		return fmt.Errorf("formatting disk: %w", err)
	}

	blocks := fs.disk.Blocks()
	superblock := NewSuperblock(blocks, geometry)
	if blocks <= superblock.FirstDataBlock() {
		return fmt.Errorf(
			"formatting disk of `%d` blocks (`%d` needed for metadata and "+
				"one data block): %w",
			blocks,
			superblock.FirstDataBlock()+1,
			DiskTooSmallErr,
		)
	}

	zero := make([]byte, geometry.BlockSize)
	for b := Block(1); b < blocks; b++ {
		if err := fs.disk.WriteBlock(b, zero); err != nil {
			return fmt.Errorf("formatting disk: clearing block `%d`: %w", b, err)
		}
	}

	if err := writeSuperblock(fs.disk, &superblock); err != nil {
		return fmt.Errorf("formatting disk: %w", err)
	}

	fs.logger.WithFields(logrus.Fields{
		"blocks":       superblock.Blocks,
		"inode_blocks": superblock.InodeBlocks,
		"block_size":   geometry.BlockSize,
	}).Info("formatted disk")
	return nil
}

// Mount validates the superblock, rebuilds the free block map from the
// inode table and returns the mounted volume.
func (fs *FileSystem) Mount() (*Volume, error) {
	if fs.volume != nil {
		return nil, fmt.Errorf("mounting disk: %w", AlreadyMountedErr)
	}

	superblock, err := readSuperblock(fs.disk)
	if err != nil {
		return nil, fmt.Errorf("mounting disk: %w", err)
	}
	if !superblock.ValidMagic() {
		return nil, fmt.Errorf(
			"mounting disk: magic `%#x`: %w",
			superblock.Magic,
			BadMagicErr,
		)
	}
	if err := checkSuperblock(fs.disk, &superblock); err != nil {
		return nil, fmt.Errorf("mounting disk: %w", err)
	}

	volume := newVolume(fs, superblock)
	if err := volume.scan(); err != nil {
		return nil, fmt.Errorf("mounting disk: %w", err)
	}
	fs.volume = volume

	volume.logger.WithFields(logrus.Fields{
		"blocks":       superblock.Blocks,
		"inode_blocks": superblock.InodeBlocks,
		"free_blocks":  volume.FreeBlocks(),
	}).Info("mounted volume")
	return volume, nil
}

// Unmount detaches the mounted volume; its handle stops working.
func (fs *FileSystem) Unmount() error {
	if fs.volume == nil {
		return fmt.Errorf("unmounting disk: %w", NotMountedErr)
	}
	fs.volume.logger.Info("unmounted volume")
	fs.volume = nil
	return nil
}

func readSuperblock(d disk.Disk) (Superblock, error) {
	var superblock Superblock
	buf := make([]byte, d.BlockSize())
	if err := d.ReadBlock(0, buf); err != nil {
		return superblock, fmt.Errorf("reading superblock: %w", err)
	}
	if Byte(len(buf)) < encode.SuperblockSize {
		return superblock, fmt.Errorf(
			"reading superblock: block size `%d`: %w",
			len(buf),
			InvalidBlockSizeErr,
		)
	}
	encode.DecodeSuperblock(
		&superblock,
		(*[encode.SuperblockSize]byte)(buf[:encode.SuperblockSize]),
	)
	return superblock, nil
}

func writeSuperblock(d disk.Disk, superblock *Superblock) error {
	buf := make([]byte, d.BlockSize())
	encode.EncodeSuperblock(
		superblock,
		(*[encode.SuperblockSize]byte)(buf[:encode.SuperblockSize]),
	)
	if err := d.WriteBlock(0, buf); err != nil {
		return fmt.Errorf("writing superblock: %w", err)
	}
	return nil
}

// checkSuperblock rejects superblocks that disagree with the disk they were
// read from; the inode table and allocator trust these fields.
func checkSuperblock(d disk.Disk, superblock *Superblock) error {
	geometry := disk.GeometryOf(d)
	if err := geometry.Validate(); err != nil {
		return err
	}
	if superblock.Blocks != d.Blocks() {
		return fmt.Errorf(
			"superblock records `%d` blocks but disk has `%d`: %w",
			superblock.Blocks,
			d.Blocks(),
			CorruptErr,
		)
	}
	if superblock.InodesPerBlock != geometry.InodesPerBlock() {
		return fmt.Errorf(
			"superblock records `%d` inodes per block but block size `%d` "+
				"holds `%d`: %w",
			superblock.InodesPerBlock,
			geometry.BlockSize,
			geometry.InodesPerBlock(),
			CorruptErr,
		)
	}
	if superblock.InodeBlocks < 1 ||
		superblock.FirstDataBlock() > superblock.Blocks {
		return fmt.Errorf(
			"superblock records `%d` inode blocks on a `%d` block disk: %w",
			superblock.InodeBlocks,
			superblock.Blocks,
			CorruptErr,
		)
	}
	return nil
}
