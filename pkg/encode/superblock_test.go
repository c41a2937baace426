package encode

import (
	"bytes"
	"encoding/json"
	"testing"

	. "github.com/weberc2/simplefs/pkg/types"
)

func TestSuperblockEncodeDecode(t *testing.T) {
	wanted := NewSuperblock(100, Geometry{BlockSize: 1024})
	buf := [SuperblockSize]byte{}
	EncodeSuperblock(&wanted, &buf)
	var found Superblock
	DecodeSuperblock(&found, &buf)
	if wanted != found {
		wantedData, err := json.Marshal(&wanted)
		if err != nil {
			t.Fatalf("marshaling `wanted` Superblock: %v", err)
		}
		foundData, err := json.Marshal(&found)
		if err != nil {
			t.Fatalf("marshaling `found` Superblock: %v", err)
		}
		t.Fatalf(
			"DecodeSuperblock(): wanted `%s`; found `%s`",
			wantedData,
			foundData,
		)
	}
}

func TestSuperblockLayout(t *testing.T) {
	sb := NewSuperblock(100, Geometry{BlockSize: 4096})
	buf := [SuperblockSize]byte{}
	EncodeSuperblock(&sb, &buf)

	wanted := []byte{
		0x10, 0x34, 0xf0, 0xf0, // magic
		100, 0, 0, 0, // blocks
		11, 0, 0, 0, // inode blocks
		128, 0, 0, 0, // inodes per block
	}
	if !bytes.Equal(buf[:], wanted) {
		t.Fatalf("EncodeSuperblock(): wanted `%x`; found `%x`", wanted, buf)
	}
}
