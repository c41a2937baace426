// Package shell implements the interactive simplefs command shell.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/sirupsen/logrus"
	"github.com/weberc2/simplefs/pkg/fs"
	. "github.com/weberc2/simplefs/pkg/types"
)

const (
	Prompt    = "simplefs> "
	ChunkSize = 16 * 1024
)

// Session runs shell commands against one file system. Files named by
// `copyin` and `copyout` are resolved in Host.
type Session struct {
	FS     *fs.Synchronized
	Host   billy.Filesystem
	Out    io.Writer
	Logger logrus.FieldLogger
}

func NewSession(
	filesystem *fs.FileSystem,
	host billy.Filesystem,
	out io.Writer,
	logger logrus.FieldLogger,
) *Session {
	return &Session{
		FS:     fs.NewSynchronized(filesystem),
		Host:   host,
		Out:    out,
		Logger: logger,
	}
}

type command struct {
	usage string
	args  int
	run   func(s *Session, args []string)
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"format":  {"format", 0, (*Session).format},
		"mount":   {"mount", 0, (*Session).mount},
		"unmount": {"unmount", 0, (*Session).unmount},
		"debug":   {"debug", 0, (*Session).debug},
		"create":  {"create", 0, (*Session).create},
		"delete":  {"delete <inode>", 1, (*Session).delete},
		"getsize": {"getsize <inode>", 1, (*Session).getsize},
		"cat":     {"cat <inode>", 1, (*Session).cat},
		"copyin":  {"copyin <file> <inode>", 2, (*Session).copyin},
		"copyout": {"copyout <inode> <file>", 2, (*Session).copyout},
		"help":    {"help", 0, (*Session).help},
	}
}

// Exec runs one command. It returns false when the command asks the shell
// to exit.
func (s *Session) Exec(args []string) bool {
	if len(args) < 1 {
		return true
	}
	if args[0] == "quit" || args[0] == "exit" {
		return false
	}
	cmd, found := commands[args[0]]
	if !found {
		s.printf("unknown command: %s\n", args[0])
		s.printf("type 'help' for a list of commands.\n")
		return true
	}
	if len(args)-1 != cmd.args {
		s.printf("usage: %s\n", cmd.usage)
		return true
	}
	cmd.run(s, args[1:])
	return true
}

// Run reads commands from `r` until end of input or `quit`.
func (s *Session) Run(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for {
		s.printf("%s", Prompt)
		if !scanner.Scan() {
			break
		}
		if !s.Exec(strings.Fields(scanner.Text())) {
			return nil
		}
	}
	s.printf("\n")
	return scanner.Err()
}

func (s *Session) printf(format string, v ...interface{}) {
	fmt.Fprintf(s.Out, format, v...)
}

func (s *Session) fail(command string, err error) {
	s.Logger.WithError(err).WithField("command", command).Debug("command failed")
	s.printf("%s failed!\n", command)
}

func (s *Session) format(args []string) {
	if err := s.FS.Format(); err != nil {
		s.fail("format", err)
		return
	}
	s.printf("disk formatted.\n")
}

func (s *Session) mount(args []string) {
	if err := s.FS.Mount(); err != nil {
		s.fail("mount", err)
		return
	}
	s.printf("disk mounted.\n")
}

func (s *Session) unmount(args []string) {
	if err := s.FS.Unmount(); err != nil {
		s.fail("unmount", err)
		return
	}
	s.printf("disk unmounted.\n")
}

func (s *Session) debug(args []string) {
	report, err := s.FS.Debug()
	if err != nil {
		s.fail("debug", err)
		return
	}
	report.WriteTo(s.Out)
}

func (s *Session) create(args []string) {
	ino, err := s.FS.Create()
	if err != nil {
		s.fail("create", err)
		return
	}
	s.printf("created inode %d\n", ino)
}

func (s *Session) delete(args []string) {
	ino, err := parseIno(args[0])
	if err != nil {
		s.fail("delete", err)
		return
	}
	if err := s.FS.Delete(ino); err != nil {
		s.fail("delete", err)
		return
	}
	s.printf("inode %d deleted.\n", ino)
}

func (s *Session) getsize(args []string) {
	ino, err := parseIno(args[0])
	if err != nil {
		s.fail("getsize", err)
		return
	}
	size, err := s.FS.Size(ino)
	if err != nil {
		s.fail("getsize", err)
		return
	}
	if size < 0 {
		s.fail("getsize", fmt.Errorf("inode `%d`: %w", ino, InvalidInodeErr))
		return
	}
	s.printf("inode %d has size %d\n", ino, size)
}

func (s *Session) cat(args []string) {
	ino, err := parseIno(args[0])
	if err != nil {
		s.fail("cat", err)
		return
	}
	if _, err := CopyOut(s.FS, ino, s.Out); err != nil {
		s.fail("cat", err)
	}
}

func (s *Session) copyin(args []string) {
	ino, err := parseIno(args[1])
	if err != nil {
		s.fail("copyin", err)
		return
	}
	file, err := s.Host.Open(args[0])
	if err != nil {
		s.fail("copyin", err)
		return
	}
	defer file.Close()

	n, err := CopyIn(s.FS, ino, file)
	if err != nil {
		s.fail("copyin", err)
		return
	}
	s.printf("%d bytes copied\n", n)
}

func (s *Session) copyout(args []string) {
	ino, err := parseIno(args[0])
	if err != nil {
		s.fail("copyout", err)
		return
	}
	file, err := s.Host.OpenFile(
		args[1],
		os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
		0644,
	)
	if err != nil {
		s.fail("copyout", err)
		return
	}
	n, err := CopyOut(s.FS, ino, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.fail("copyout", err)
		return
	}
	s.printf("%d bytes copied\n", n)
}

func (s *Session) help(args []string) {
	s.printf("commands:\n")
	for _, name := range []string{
		"format",
		"mount",
		"unmount",
		"debug",
		"create",
		"delete",
		"getsize",
		"cat",
		"copyin",
		"copyout",
		"help",
	} {
		s.printf("    %s\n", commands[name].usage)
	}
	s.printf("    quit\n")
	s.printf("    exit\n")
}

func parseIno(s string) (Ino, error) {
	ino, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return InoNil, fmt.Errorf("parsing inode number `%s`: %w", s, err)
	}
	return Ino(ino), nil
}
