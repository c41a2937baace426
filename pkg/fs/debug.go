package fs

import (
	"fmt"
	"io"
	"strings"

	"github.com/weberc2/simplefs/pkg/inode/data/block/indirect"
	"github.com/weberc2/simplefs/pkg/inode/store"
	. "github.com/weberc2/simplefs/pkg/types"
)

type Report struct {
	Superblock Superblock    `json:"superblock"`
	MagicValid bool          `json:"magicValid"`
	Inodes     []InodeReport `json:"inodes"`
}

type InodeReport struct {
	Ino            Ino     `json:"ino"`
	Size           Byte    `json:"size"`
	DirectBlocks   []Block `json:"directBlocks"`
	IndirectBlock  Block   `json:"indirectBlock,omitempty"`
	IndirectBlocks []Block `json:"indirectBlocks,omitempty"`
}

// Debug reads the superblock and every valid inode straight from the disk.
// It works whether or not a volume is mounted. A disk with a bad magic
// number yields a report with MagicValid unset and no inodes.
func (fs *FileSystem) Debug() (*Report, error) {
	superblock, err := readSuperblock(fs.disk)
	if err != nil {
		return nil, fmt.Errorf("debugging disk: %w", err)
	}
	report := Report{
		Superblock: superblock,
		MagicValid: superblock.ValidMagic(),
		Inodes:     []InodeReport{},
	}
	if !report.MagicValid {
		return &report, nil
	}
	if err := checkSuperblock(fs.disk, &superblock); err != nil {
		return nil, fmt.Errorf("debugging disk: %w", err)
	}

	indirects := indirect.NewReader(fs.disk)
	if err := store.NewInodeTable(fs.disk, superblock).Each(
		func(inode *Inode) error {
			inodeReport := InodeReport{
				Ino:           inode.Ino,
				Size:          inode.Size,
				DirectBlocks:  nonNil(inode.DirectBlocks[:]),
				IndirectBlock: inode.IndirectBlock,
			}
			if inode.IndirectBlock != BlockNil {
				pointers, err := indirects.ReadAll(inode.IndirectBlock)
				if err != nil {
					return fmt.Errorf("inode `%d`: %w", inode.Ino, err)
				}
				inodeReport.IndirectBlocks = nonNil(pointers)
			}
			report.Inodes = append(report.Inodes, inodeReport)
			return nil
		},
	); err != nil {
		return nil, fmt.Errorf("debugging disk: %w", err)
	}
	return &report, nil
}

func nonNil(blocks []Block) []Block {
	out := []Block{}
	for _, b := range blocks {
		if b != BlockNil {
			out = append(out, b)
		}
	}
	return out
}

// WriteTo renders the report in the classic text layout.
func (report *Report) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder
	validity := "valid"
	if !report.MagicValid {
		validity = "invalid"
	}
	fmt.Fprintf(&sb, "superblock:\n")
	fmt.Fprintf(&sb, "    magic number is %s\n", validity)
	fmt.Fprintf(&sb, "    %d blocks\n", report.Superblock.Blocks)
	fmt.Fprintf(&sb, "    %d inode blocks\n", report.Superblock.InodeBlocks)
	fmt.Fprintf(&sb, "    %d inodes per block\n", report.Superblock.InodesPerBlock)

	for _, inode := range report.Inodes {
		fmt.Fprintf(&sb, "inode %d:\n", inode.Ino)
		fmt.Fprintf(&sb, "    size %d bytes\n", inode.Size)
		fmt.Fprintf(&sb, "    direct blocks:%s\n", joinBlocks(inode.DirectBlocks))
		if inode.IndirectBlock != BlockNil {
			fmt.Fprintf(&sb, "    indirect block: %d\n", inode.IndirectBlock)
			fmt.Fprintf(
				&sb,
				"    indirect data blocks:%s\n",
				joinBlocks(inode.IndirectBlocks),
			)
		}
	}

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func joinBlocks(blocks []Block) string {
	var sb strings.Builder
	for _, b := range blocks {
		fmt.Fprintf(&sb, " %d", b)
	}
	return sb.String()
}
