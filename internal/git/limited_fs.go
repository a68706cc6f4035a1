package git

import (
	"fmt"
	"os"
	"sync"

	billy "github.com/go-git/go-billy/v5"
)

// LimitedFs wraps a billy.Filesystem and enforces limits on the number
// of files created and the total bytes written through it. Clones of
// hostile or runaway repositories hit the cap instead of exhausting
// process memory.
type LimitedFs struct {
	billy.Filesystem

	// MaxFiles is the maximum number of files that may be created.
	MaxFiles int64

	// TotalFileSize is the maximum total bytes written through the filesystem.
	TotalFileSize int64

	mu           sync.Mutex
	fileCount    int64
	bytesWritten int64
}

// ErrFsLimitReached is returned when a filesystem limit is exceeded.
var ErrFsLimitReached = fmt.Errorf("filesystem limit reached")

func (f *LimitedFs) addFile() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fileCount++
	if f.fileCount > f.MaxFiles {
		return fmt.Errorf("%w: more than %d files", ErrFsLimitReached, f.MaxFiles)
	}
	return nil
}

func (f *LimitedFs) addBytes(n int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bytesWritten += int64(n)
	if f.bytesWritten > f.TotalFileSize {
		return fmt.Errorf("%w: more than %d bytes written", ErrFsLimitReached, f.TotalFileSize)
	}
	return nil
}

// Create creates a new file, counting it against MaxFiles.
func (f *LimitedFs) Create(filename string) (billy.File, error) {
	if err := f.addFile(); err != nil {
		return nil, err
	}
	file, err := f.Filesystem.Create(filename)
	if err != nil {
		return nil, err
	}
	return &limitedFile{File: file, fs: f}, nil
}

// OpenFile opens a file, counting creations against MaxFiles.
func (f *LimitedFs) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&os.O_CREATE != 0 {
		if err := f.addFile(); err != nil {
			return nil, err
		}
	}
	file, err := f.Filesystem.OpenFile(filename, flag, perm)
	if err != nil {
		return nil, err
	}
	return &limitedFile{File: file, fs: f}, nil
}

// TempFile creates a temporary file, counting it against MaxFiles.
func (f *LimitedFs) TempFile(dir, prefix string) (billy.File, error) {
	if err := f.addFile(); err != nil {
		return nil, err
	}
	file, err := f.Filesystem.TempFile(dir, prefix)
	if err != nil {
		return nil, err
	}
	return &limitedFile{File: file, fs: f}, nil
}

// limitedFile counts written bytes against the owning filesystem's budget.
type limitedFile struct {
	billy.File
	fs *LimitedFs
}

func (f *limitedFile) Write(p []byte) (int, error) {
	if err := f.fs.addBytes(len(p)); err != nil {
		return 0, err
	}
	return f.File.Write(p)
}
