package indirect

import (
	"testing"

	"github.com/weberc2/simplefs/pkg/disk"
	. "github.com/weberc2/simplefs/pkg/types"
)

func TestReadWriteIndirect(t *testing.T) {
	d := disk.NewMemory(4, 64)
	rw := NewReadWriter(d)

	if err := rw.WriteIndirect(2, 0, 3); err != nil {
		t.Fatalf("WriteIndirect(): unexpected err: %v", err)
	}
	if err := rw.WriteIndirect(2, 15, 1); err != nil {
		t.Fatalf("WriteIndirect(): unexpected err: %v", err)
	}

	for _, testCase := range []struct {
		index  Index
		wanted Block
	}{
		{index: 0, wanted: 3},
		{index: 1, wanted: BlockNil},
		{index: 15, wanted: 1},
	} {
		found, err := rw.ReadIndirect(2, testCase.index)
		if err != nil {
			t.Fatalf("ReadIndirect(): unexpected err: %v", err)
		}
		if found != testCase.wanted {
			t.Fatalf(
				"ReadIndirect(2, %d): wanted `%d`; found `%d`",
				testCase.index,
				testCase.wanted,
				found,
			)
		}
	}

	all, err := rw.ReadAll(2)
	if err != nil {
		t.Fatalf("ReadAll(): unexpected err: %v", err)
	}
	if len(all) != 16 || all[0] != 3 || all[15] != 1 {
		t.Fatalf("ReadAll(): wanted 16 pointers `[3 ... 1]`; found `%v`", all)
	}

	if err := rw.Clear(2); err != nil {
		t.Fatalf("Clear(): unexpected err: %v", err)
	}
	if found, _ := rw.ReadIndirect(2, 15); found != BlockNil {
		t.Fatalf("ReadIndirect() after Clear(): wanted `0`; found `%d`", found)
	}
}
