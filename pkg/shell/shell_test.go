package shell

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weberc2/simplefs/pkg/disk"
	"github.com/weberc2/simplefs/pkg/fs"
	. "github.com/weberc2/simplefs/pkg/types"
)

type fixture struct {
	session *Session
	out     *bytes.Buffer
}

func newFixture(blocks int) *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	var out bytes.Buffer
	return &fixture{
		session: NewSession(
			fs.New(disk.NewMemory(Block(blocks), 1024)),
			memfs.New(),
			&out,
			logger,
		),
		out: &out,
	}
}

func (f *fixture) exec(t *testing.T, line string) string {
	t.Helper()
	f.out.Reset()
	require.True(t, f.session.Exec(strings.Fields(line)))
	return f.out.String()
}

func TestSession(t *testing.T) {
	f := newFixture(200)
	assert.Equal(t, "mount failed!\n", f.exec(t, "mount"))
	assert.Equal(t, "disk formatted.\n", f.exec(t, "format"))
	assert.Equal(t, "disk mounted.\n", f.exec(t, "mount"))
	assert.Equal(t, "format failed!\n", f.exec(t, "format"))
	assert.Equal(t, "created inode 1\n", f.exec(t, "create"))
	assert.Equal(t, "inode 1 has size 0\n", f.exec(t, "getsize 1"))

	data := bytes.Repeat([]byte("0123456789"), 5000)
	require.NoError(t, util.WriteFile(f.session.Host, "in.txt", data, 0644))
	assert.Equal(t, "50000 bytes copied\n", f.exec(t, "copyin in.txt 1"))
	assert.Equal(t, "inode 1 has size 50000\n", f.exec(t, "getsize 1"))

	assert.Equal(t, "50000 bytes copied\n", f.exec(t, "copyout 1 out.txt"))
	copied, err := util.ReadFile(f.session.Host, "out.txt")
	require.NoError(t, err)
	assert.Equal(t, data, copied)

	assert.Equal(t, string(data), f.exec(t, "cat 1"))

	assert.Equal(t, "inode 1 deleted.\n", f.exec(t, "delete 1"))
	assert.Equal(t, "getsize failed!\n", f.exec(t, "getsize 1"))
	assert.Equal(t, "delete failed!\n", f.exec(t, "delete 1"))
	assert.Equal(t, "delete failed!\n", f.exec(t, "delete one"))
	assert.Equal(t, "copyin failed!\n", f.exec(t, "copyin missing.txt 1"))

	assert.Equal(t, "disk unmounted.\n", f.exec(t, "unmount"))
	assert.Equal(t, "create failed!\n", f.exec(t, "create"))
}

func TestSessionUsage(t *testing.T) {
	f := newFixture(20)
	assert.Equal(t, "usage: delete <inode>\n", f.exec(t, "delete"))
	assert.Equal(t, "usage: copyin <file> <inode>\n", f.exec(t, "copyin a"))
	assert.Equal(
		t,
		"unknown command: frobnicate\ntype 'help' for a list of commands.\n",
		f.exec(t, "frobnicate"),
	)
	assert.Contains(t, f.exec(t, "help"), "copyout <inode> <file>")
	assert.Equal(t, "", f.exec(t, ""))
	assert.False(t, f.session.Exec([]string{"quit"}))
	assert.False(t, f.session.Exec([]string{"exit"}))
}

func TestSessionDebug(t *testing.T) {
	f := newFixture(20)
	f.exec(t, "format")
	assert.Equal(
		t,
		"superblock:\n"+
			"    magic number is valid\n"+
			"    20 blocks\n"+
			"    3 inode blocks\n"+
			"    32 inodes per block\n",
		f.exec(t, "debug"),
	)
}

func TestCopyInDiskFull(t *testing.T) {
	// 20 blocks: superblock and 3 inode blocks leave 16 data blocks, one of
	// which becomes the indirect block.
	f := newFixture(20)
	f.exec(t, "format")
	f.exec(t, "mount")
	f.exec(t, "create")

	data := bytes.Repeat([]byte{0xab}, 64*1024)
	require.NoError(t, util.WriteFile(f.session.Host, "big", data, 0644))
	assert.Equal(t, "15360 bytes copied\n", f.exec(t, "copyin big 1"))
	assert.Equal(t, "inode 1 has size 15360\n", f.exec(t, "getsize 1"))
}

func TestRun(t *testing.T) {
	f := newFixture(20)
	err := f.session.Run(strings.NewReader("format\nmount\ncreate\nquit\ngetsize 1\n"))
	require.NoError(t, err)
	assert.Equal(
		t,
		Prompt+"disk formatted.\n"+
			Prompt+"disk mounted.\n"+
			Prompt+"created inode 1\n"+
			Prompt,
		f.out.String(),
	)
}

func TestRunEOF(t *testing.T) {
	f := newFixture(20)
	require.NoError(t, f.session.Run(strings.NewReader("format\n")))
	assert.Equal(t, Prompt+"disk formatted.\n"+Prompt+"\n", f.out.String())
}
