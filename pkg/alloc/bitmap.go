package alloc

import (
	"fmt"
	"math/bits"

	"github.com/weberc2/simplefs/pkg/math"
)

const bitsPerByte = 8

// Bitmap tracks `size` handles, one bit each. A set bit is occupied.
type Bitmap struct {
	bytes []byte
	size  uint64
}

func New(size uint64) Bitmap {
	return Bitmap{
		bytes: make([]byte, math.DivRoundUp(size, bitsPerByte)),
		size:  size,
	}
}

// Alloc claims the lowest free handle.
func (bm Bitmap) Alloc() (uint64, bool) {
	i, bit, ok := bytesFirstZero(bm.bytes)
	if !ok {
		return 0, false
	}
	handle := uint64(i*bitsPerByte) + uint64(bit)
	if handle >= bm.size {
		return 0, false
	}
	bm.bytes[i] = byteSetHigh(bm.bytes[i], bit)
	return handle, true
}

func (bm Bitmap) Free(handle uint64) {
	b := bm.byteFor(handle)
	*b = byteSetLow(*b, uint8(handle%bitsPerByte))
}

func (bm Bitmap) Reserve(handle uint64) {
	b := bm.byteFor(handle)
	*b = byteSetHigh(*b, uint8(handle%bitsPerByte))
}

func (bm Bitmap) Reserved(handle uint64) bool {
	return !byteIsZero(*bm.byteFor(handle), uint8(handle%bitsPerByte))
}

// Available counts the free handles.
func (bm Bitmap) Available() uint64 {
	var used int
	for _, byt := range bm.bytes {
		used += bits.OnesCount8(byt)
	}
	return bm.size - uint64(used)
}

func (bm Bitmap) Len() uint64 { return bm.size }

func (bm Bitmap) Bytes() []byte { return bm.bytes }

func (bm Bitmap) byteFor(handle uint64) *byte {
	if handle >= bm.size {
		panic(fmt.Sprintf(
			"handle `%d` out of range for bitmap of size `%d`",
			handle,
			bm.size,
		))
	}
	return &bm.bytes[handle/bitsPerByte]
}

func bytesFirstZero(bytes []byte) (int, uint8, bool) {
	for i, byt := range bytes {
		if bit := byteFirstZero(byt); bit != 0xff {
			return i, bit, true
		}
	}
	return 0, 0, false
}

func byteIsZero(byt byte, bit uint8) bool {
	return byt&(0b1000_0000>>bit) == 0
}

func byteSetHigh(byt byte, bit uint8) byte {
	return byt | (0b1000_0000 >> bit)
}

func byteSetLow(byt byte, bit uint8) byte {
	return byt & ^(0b1000_0000 >> bit)
}

func byteFirstZero(byt byte) uint8 {
	for bit := uint8(0); bit < 8; bit++ {
		if byteIsZero(byt, bit) {
			return bit
		}
	}
	return 0xFF
}
