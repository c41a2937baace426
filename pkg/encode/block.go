package encode

import (
	"encoding/binary"

	. "github.com/weberc2/simplefs/pkg/types"
)

func EncodeBlock(b Block, p *[BlockPointerSize]byte) {
	binary.LittleEndian.PutUint32((*p)[:], uint32(b))
}

func DecodeBlock(p *[BlockPointerSize]byte) Block {
	return Block(binary.LittleEndian.Uint32((*p)[:]))
}

// DecodeBlocks decodes a block's worth of pointers (an indirect block) into
// `out`, which must hold `len(p)/BlockPointerSize` entries.
func DecodeBlocks(p []byte, out []Block) {
	for i := range out {
		start := Byte(i) * BlockPointerSize
		out[i] = DecodeBlock(
			(*[BlockPointerSize]byte)(p[start : start+BlockPointerSize]),
		)
	}
}
