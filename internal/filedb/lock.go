package filedb

import (
	"os"
	"path/filepath"
	"syscall"
)

// Lock is an exclusive advisory flock on a lock file such as
// `.entangled/filedb.lock`. Acquiring it twice from the same process
// without releasing blocks, matching flock's semantics. Nothing in this
// module acquires it: txn.Transaction and the cmd/entangled commands load,
// commit and save the FileDB without holding this lock, so concurrent
// runs in one project are not serialized.
type Lock struct {
	f *os.File
}

// Acquire blocks until it holds an exclusive lock on path, creating parent
// directories and the lock file itself if necessary.
func Acquire(path string) (*Lock, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, err
	}
	return &Lock{f: f}, nil
}

// Release unlocks and closes the lock file.
func (l *Lock) Release() error {
	defer l.f.Close()
	return syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN)
}
