package disk

import (
	"fmt"
	"io"
	"os"

	"github.com/go-git/go-billy/v5"
	. "github.com/weberc2/simplefs/pkg/types"
)

// Image is a disk stored in a regular file. A new or empty file is sized to
// exactly `blocks * blockSize` bytes; an existing file of any other size is
// rejected and left untouched.
type Image struct {
	file      billy.File
	blocks    Block
	blockSize Byte
}

func OpenImage(
	filesystem billy.Filesystem,
	name string,
	blocks Block,
	blockSize Byte,
) (*Image, error) {
	if blockSize < 1 {
		return nil, fmt.Errorf(
			"opening disk image `%s`: block size `%d`: %w",
			name,
			blockSize,
			InvalidBlockSizeErr,
		)
	}

	file, err := filesystem.OpenFile(name, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening disk image `%s`: %w", name, err)
	}

	size := int64(blocks) * int64(blockSize)
	info, err := filesystem.Stat(name)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("opening disk image `%s`: %w", name, err)
	}
	switch info.Size() {
	case size:
	case 0:
		if err := file.Truncate(size); err != nil {
			file.Close()
			return nil, fmt.Errorf(
				"opening disk image `%s`: resizing to `%d` bytes: %w",
				name,
				size,
				err,
			)
		}
	default:
		file.Close()
		return nil, fmt.Errorf(
			"opening disk image `%s` of `%d` bytes as `%d` blocks of `%d` "+
				"bytes: %w",
			name,
			info.Size(),
			blocks,
			blockSize,
			ImageSizeErr,
		)
	}

	return &Image{file: file, blocks: blocks, blockSize: blockSize}, nil
}

func (image *Image) ReadBlock(b Block, p []byte) error {
	if err := check(image, b, p); err != nil {
		return err
	}
	offset := int64(b) * int64(image.blockSize)
	if _, err := image.file.ReadAt(p, offset); err != nil {
		return fmt.Errorf(
			"reading block `%d` from image `%s`: %w",
			b,
			image.file.Name(),
			err,
		)
	}
	return nil
}

func (image *Image) WriteBlock(b Block, p []byte) error {
	if err := check(image, b, p); err != nil {
		return err
	}
	if err := image.writeAt(p, int64(b)*int64(image.blockSize)); err != nil {
		return fmt.Errorf(
			"writing block `%d` to image `%s`: %w",
			b,
			image.file.Name(),
			err,
		)
	}
	return nil
}

func (image *Image) writeAt(p []byte, offset int64) error {
	if w, ok := image.file.(io.WriterAt); ok {
		_, err := w.WriteAt(p, offset)
		return err
	}
	if _, err := image.file.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	_, err := image.file.Write(p)
	return err
}

func (image *Image) Blocks() Block { return image.blocks }

func (image *Image) BlockSize() Byte { return image.blockSize }

func (image *Image) Name() string { return image.file.Name() }

func (image *Image) Close() error {
	if err := image.file.Close(); err != nil {
		return fmt.Errorf("closing image `%s`: %w", image.file.Name(), err)
	}
	return nil
}
