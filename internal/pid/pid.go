// Package pid guards against running two streaming services with the same
// PID file.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/biofeedback/internal/errors"
)

// DefaultName is the PID file name used by the serve command.
const DefaultName = "biofeedback.pid"

// Path returns the PID file path for name in the system temp directory.
func Path(name string) string {
	return filepath.Join(os.TempDir(), name)
}

// Write records the current process ID at path. It fails with
// ErrAlreadyRunning when path names a live process. Stale files are
// overwritten.
func Write(path string) error {
	errFactory := errors.New()

	if bytes, err := os.ReadFile(path); err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
		if err == nil && pid != os.Getpid() && alive(pid) {
			return errFactory.WithData(errors.ErrAlreadyRunning, pid)
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove deletes the PID file. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func alive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
