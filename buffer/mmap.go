//go:build unix

package buffer

import (
	"os"
	"path/filepath"

	"go.uber.org/multierr"
	"golang.org/x/sys/unix"

	structbuf "github.com/wippyai/structbuf"
	"github.com/wippyai/structbuf/errors"
)

// Mapping is a Buffer over a shared memory mapping of a file.
type Mapping struct {
	file     *os.File
	path     string
	data     []byte
	writable bool
}

// Map maps size bytes of the file at path with MAP_SHARED, so writes reach the
// file and every other mapping of it. A writable mapping creates the file if
// needed and grows it to size. A size of 0 maps the whole existing file.
func Map(path string, size int, writable bool) (*Mapping, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR | os.O_CREATE
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "open "+path)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, multierr.Append(
			errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "stat "+path),
			f.Close())
	}

	if size == 0 {
		size = int(info.Size())
	}
	if size <= 0 {
		return nil, multierr.Append(
			errors.InvalidInput(errors.PhaseLoad, "cannot map an empty region of "+path),
			f.Close())
	}
	if info.Size() < int64(size) {
		if !writable {
			return nil, multierr.Append(
				errors.New(errors.PhaseLoad, errors.KindInsufficientBuf).
					Path(path).
					Detail("file has %d bytes, %d requested", info.Size(), size).
					Build(),
				f.Close())
		}
		if err := f.Truncate(int64(size)); err != nil {
			return nil, multierr.Append(
				errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "grow "+path),
				f.Close())
		}
	}

	prot := unix.PROT_READ
	if writable {
		prot |= unix.PROT_WRITE
	}
	data, err := unix.Mmap(int(f.Fd()), 0, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, multierr.Append(
			errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "mmap "+path),
			f.Close())
	}

	return &Mapping{file: f, path: path, data: data, writable: writable}, nil
}

// shmDir is where POSIX shared-memory objects live on Linux.
var shmDir = "/dev/shm"

// OpenShared opens or creates the named shared-memory segment with at least
// size bytes and maps it writable.
func OpenShared(name string, size int) (*Mapping, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, errors.InvalidInput(errors.PhaseLoad, "invalid shared memory name "+name)
	}
	return Map(filepath.Join(shmDir, name), size, true)
}

// UnlinkShared removes the named shared-memory segment. Existing mappings stay
// valid until closed.
func UnlinkShared(name string) error {
	return os.Remove(filepath.Join(shmDir, name))
}

func (m *Mapping) Len() int { return len(m.data) }

func (m *Mapping) Bytes(offset, length int) ([]byte, error) {
	if m.data == nil {
		return nil, errors.InvalidInput(errors.PhaseDecode, "mapping of "+m.path+" is closed")
	}
	if err := checkRange(offset, length, len(m.data)); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length : offset+length], nil
}

func (m *Mapping) Writable() bool { return m.writable }

func (m *Mapping) Path() string { return m.path }

// Sync flushes dirty pages of a writable mapping to the file.
func (m *Mapping) Sync() error {
	if m.data == nil || !m.writable {
		return nil
	}
	return unix.Msync(m.data, unix.MS_SYNC)
}

// Close unmaps the region and closes the file. Views handed out earlier must
// not be used afterwards.
func (m *Mapping) Close() error {
	if m.data == nil {
		return nil
	}
	err := unix.Munmap(m.data)
	m.data = nil
	return multierr.Append(err, m.file.Close())
}

var (
	_ structbuf.Buffer = (*Mapping)(nil)
	_ structbuf.Closer = (*Mapping)(nil)
)
