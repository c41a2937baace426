package fs

import (
	"fmt"
	"sync"

	. "github.com/weberc2/simplefs/pkg/types"
)

// Synchronized serializes every operation on a FileSystem and its mounted
// volume behind one mutex, for hosts that call in from many goroutines.
type Synchronized struct {
	mutex sync.Mutex
	fs    *FileSystem
}

func NewSynchronized(fs *FileSystem) *Synchronized {
	return &Synchronized{fs: fs}
}

func (s *Synchronized) Format() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.fs.Format()
}

func (s *Synchronized) Mount() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, err := s.fs.Mount()
	return err
}

func (s *Synchronized) Unmount() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.fs.Unmount()
}

func (s *Synchronized) Debug() (*Report, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.fs.Debug()
}

func (s *Synchronized) Create() (Ino, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	volume, err := s.volume()
	if err != nil {
		return InoNil, fmt.Errorf("creating inode: %w", err)
	}
	return volume.Create()
}

func (s *Synchronized) Delete(ino Ino) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	volume, err := s.volume()
	if err != nil {
		return fmt.Errorf("deleting inode `%d`: %w", ino, err)
	}
	return volume.Delete(ino)
}

func (s *Synchronized) Size(ino Ino) (Byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	volume, err := s.volume()
	if err != nil {
		return -1, fmt.Errorf("getting size of inode `%d`: %w", ino, err)
	}
	return volume.Size(ino)
}

func (s *Synchronized) Read(ino Ino, p []byte, offset Byte) (Byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	volume, err := s.volume()
	if err != nil {
		return 0, fmt.Errorf("reading inode `%d`: %w", ino, err)
	}
	return volume.Read(ino, p, offset)
}

func (s *Synchronized) Write(ino Ino, p []byte, offset Byte) (Byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	volume, err := s.volume()
	if err != nil {
		return 0, fmt.Errorf("writing inode `%d`: %w", ino, err)
	}
	return volume.Write(ino, p, offset)
}

func (s *Synchronized) volume() (*Volume, error) {
	volume, ok := s.fs.Volume()
	if !ok {
		return nil, NotMountedErr
	}
	return volume, nil
}
