package physical

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/weberc2/simplefs/pkg/alloc"
	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/inode/data/block/indirect"
	"github.com/weberc2/simplefs/pkg/inode/store"
	. "github.com/weberc2/simplefs/pkg/types"
)

// 64 blocks of 64 bytes: 16 pointers per indirect block, blocks 1-7 hold
// inodes and block 8 is the first data block.
const (
	testBlocks    Block = 64
	testBlockSize Byte  = 64
	firstData     Block = 8
)

func TestReadAlloc(t *testing.T) {
	for _, tc := range []testCase{{
		name:        "direct-exists",
		inputInode:  Inode{DirectBlocks: [...]Block{0, 20, 0, 0, 0}},
		wantedInode: Inode{DirectBlocks: [...]Block{0, 20, 0, 0, 0}},
		inputBlock:  1,
		wantedBlock: 20,
	}, {
		name:        "direct-nil",
		wantedInode: Inode{DirectBlocks: [...]Block{firstData, 0, 0, 0, 0}},
		inputBlock:  0,
		wantedBlock: firstData,
	}, {
		name:        "singly-indirect-exists-physical-exists",
		inputInode:  Inode{IndirectBlock: 10},
		wantedInode: Inode{IndirectBlock: 10},
		inputBlock:  DirectBlocksCount + 5,
		wantedBlock: 11,
		given:       []ind{{outer: 10, index: 5, inner: 11}},
	}, {
		name:        "singly-indirect-exists-physical-nil",
		inputInode:  Inode{IndirectBlock: 10},
		wantedInode: Inode{IndirectBlock: 10},
		inputBlock:  DirectBlocksCount + 5,
		wantedBlock: firstData,
		wanted:      []ind{{outer: 10, index: 5, inner: firstData}},
	}, {
		name:        "singly-indirect-nil",
		wantedInode: Inode{IndirectBlock: firstData},
		inputBlock:  DirectBlocksCount + 5,
		wantedBlock: firstData + 1,
		wanted: []ind{
			{outer: firstData, index: 5, inner: firstData + 1},
			// stale contents of the new indirect block are cleared
			{outer: firstData, index: 0, inner: BlockNil},
		},
		hook: func(s *state) error {
			return s.disk.WriteBlock(
				firstData,
				bytes.Repeat([]byte{0xff}, int(testBlockSize)),
			)
		},
	}, {
		name:        "out-of-range",
		inputBlock:  DirectBlocksCount + 16,
		wantedBlock: BlockNil,
		wantedError: IndirectCapacityExceededErr,
	}, {
		name:        "out-of-blocks",
		inputBlock:  0,
		wantedBlock: BlockNil,
		wantedError: OutOfBlocksErr,
		hook: func(s *state) error {
			for b := firstData; b < testBlocks; b++ {
				s.allocator.Reserve(b)
			}
			return nil
		},
	}} {
		t.Run(tc.name, func(t *testing.T) {
			s := newState(t)
			tc.inputInode.Ino = 1
			tc.wantedInode.Ino = 1
			reserveAll(s.allocator, &tc.inputInode)
			for _, given := range tc.given {
				if err := s.indirects.WriteIndirect(
					given.outer,
					given.index,
					given.inner,
				); err != nil {
					t.Fatalf("preparing indirect `%v`: %v", given, err)
				}
				s.allocator.Reserve(given.inner)
			}
			if tc.hook != nil {
				if err := tc.hook(&s); err != nil {
					t.Fatalf("running hook: %v", err)
				}
			}

			before := tc.inputInode
			actual, err := s.readWriter.ReadAlloc(&tc.inputInode, tc.inputBlock)
			if !errors.Is(err, tc.wantedError) {
				t.Fatalf("wanted error `%v`; found `%v`", tc.wantedError, err)
			}
			if actual != tc.wantedBlock {
				t.Fatalf(
					"wanted block `%d`; found `%d`",
					tc.wantedBlock,
					actual,
				)
			}
			if tc.wantedError != nil {
				return
			}

			var stored Inode
			if err := s.inodeStore.Get(1, &stored); err != nil {
				t.Fatalf("Get(): unexpected err: %v", err)
			}
			if tc.inputInode != tc.wantedInode {
				t.Fatalf(
					"wanted inode `%+v`; found `%+v`",
					tc.wantedInode,
					tc.inputInode,
				)
			}
			// an inode whose pointers changed must have been persisted
			if tc.wantedInode != before && stored != tc.wantedInode {
				t.Fatalf(
					"wanted stored inode `%+v`; found `%+v`",
					tc.wantedInode,
					stored,
				)
			}
			if err := s.checkIndirects(tc.wanted); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestRead(t *testing.T) {
	s := newState(t)
	inode := Inode{
		Ino:           1,
		DirectBlocks:  [...]Block{9, 0, 0, 0, 0},
		IndirectBlock: 10,
	}
	if err := s.indirects.Clear(10); err != nil {
		t.Fatalf("Clear(): unexpected err: %v", err)
	}
	if err := s.indirects.WriteIndirect(10, 2, 12); err != nil {
		t.Fatalf("WriteIndirect(): unexpected err: %v", err)
	}

	reader := s.readWriter.Reader()
	for _, testCase := range []struct {
		block  Block
		wanted Block
	}{
		{block: 0, wanted: 9},
		{block: 1, wanted: BlockNil},
		{block: DirectBlocksCount + 2, wanted: 12},
		{block: DirectBlocksCount + 3, wanted: BlockNil},
	} {
		found, err := reader.Read(&inode, testCase.block)
		if err != nil {
			t.Fatalf("Read(%d): unexpected err: %v", testCase.block, err)
		}
		if found != testCase.wanted {
			t.Fatalf(
				"Read(%d): wanted `%d`; found `%d`",
				testCase.block,
				testCase.wanted,
				found,
			)
		}
	}

	// no indirect block at all
	inode.IndirectBlock = BlockNil
	if found, err := reader.Read(&inode, DirectBlocksCount); err != nil ||
		found != BlockNil {
		t.Fatalf("Read(): wanted `0`; found `%d` (err: %v)", found, err)
	}
}

func TestRelease(t *testing.T) {
	s := newState(t)
	inode := Inode{
		Ino:           1,
		Valid:         true,
		DirectBlocks:  [...]Block{firstData, firstData + 1, 0, 0, 0},
		IndirectBlock: firstData + 2,
	}
	reserveAll(s.allocator, &inode)
	if err := s.indirects.Clear(inode.IndirectBlock); err != nil {
		t.Fatalf("Clear(): unexpected err: %v", err)
	}
	for i, b := range []Block{firstData + 3, BlockNil, firstData + 4} {
		if err := s.indirects.WriteIndirect(
			inode.IndirectBlock,
			indirect.Index(i),
			b,
		); err != nil {
			t.Fatalf("WriteIndirect(): unexpected err: %v", err)
		}
		if b != BlockNil {
			s.allocator.Reserve(b)
		}
	}

	available := s.allocator.Available()
	if err := s.readWriter.Release(&inode); err != nil {
		t.Fatalf("Release(): unexpected err: %v", err)
	}
	if found := s.allocator.Available(); found != available+5 {
		t.Fatalf("Available(): wanted `%d`; found `%d`", available+5, found)
	}
	for b := firstData; b < firstData+5; b++ {
		if s.allocator.Reserved(b) {
			t.Fatalf("Reserved(%d): wanted free; found reserved", b)
		}
	}
}

func TestReleaseUnreadableIndirect(t *testing.T) {
	s := newState(t)
	inode := Inode{
		Ino:           1,
		Valid:         true,
		DirectBlocks:  [...]Block{firstData, firstData + 1, 0, 0, 0},
		IndirectBlock: testBlocks + 10,
	}
	s.allocator.Reserve(firstData)
	s.allocator.Reserve(firstData + 1)

	if err := s.readWriter.Release(&inode); !errors.Is(err, disk.OutOfRangeErr) {
		t.Fatalf("wanted error `%v`; found `%v`", disk.OutOfRangeErr, err)
	}
	for _, b := range []Block{firstData, firstData + 1} {
		if !s.allocator.Reserved(b) {
			t.Fatalf("Reserved(%d): wanted reserved; found free", b)
		}
	}
}

type testCase struct {
	name        string
	inputInode  Inode
	wantedInode Inode
	inputBlock  Block
	wantedBlock Block
	wantedError error
	given       []ind
	wanted      []ind
	hook        func(*state) error
}

type ind struct {
	outer Block
	index indirect.Index
	inner Block
}

type state struct {
	disk       disk.Disk
	allocator  alloc.BlockAllocator
	inodeStore InodeStore
	indirects  indirect.ReadWriter
	readWriter ReadWriter
}

func newState(t *testing.T) state {
	t.Helper()
	var s state
	s.disk = disk.NewMemory(testBlocks, testBlockSize)
	geometry := disk.GeometryOf(s.disk)
	superblock := NewSuperblock(testBlocks, geometry)
	if superblock.FirstDataBlock() != firstData {
		t.Fatalf(
			"wanted first data block `%d`; found `%d`",
			firstData,
			superblock.FirstDataBlock(),
		)
	}
	s.allocator = alloc.NewBlockAllocator(testBlocks)
	for b := Block(0); b < firstData; b++ {
		s.allocator.Reserve(b)
	}
	s.indirects = indirect.NewReadWriter(s.disk)
	s.inodeStore = store.NewInodeTable(s.disk, superblock)
	s.readWriter = NewReadWriter(
		geometry,
		s.allocator,
		s.indirects,
		s.inodeStore,
	)
	return s
}

func (s *state) checkIndirects(indirects []ind) error {
	for _, indirect := range indirects {
		actual, err := s.indirects.ReadIndirect(indirect.outer, indirect.index)
		if err != nil {
			return fmt.Errorf("ReadIndirect(): unexpected err: %v", err)
		}
		if actual != indirect.inner {
			return fmt.Errorf(
				"ReadIndirect(%d, %d): wanted `%d`; found `%d`",
				indirect.outer,
				indirect.index,
				indirect.inner,
				actual,
			)
		}
	}
	return nil
}

func reserveAll(a alloc.BlockAllocator, i *Inode) {
	for _, b := range i.DirectBlocks {
		if b != BlockNil {
			a.Reserve(b)
		}
	}
	if i.IndirectBlock != BlockNil {
		a.Reserve(i.IndirectBlock)
	}
}
