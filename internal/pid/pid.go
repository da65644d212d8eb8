// Package pid keeps two monitors from writing into the same output
// directory at the same time.
package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/shellymon/internal/errors"
)

const (
	pidFile = "shellymon.pid"
)

// Path returns the PID file location for an output directory.
func Path(dir string) string {
	return filepath.Join(dir, pidFile)
}

// Write writes the current process ID to the PID file in dir. A PID file
// left by a process that is no longer running is replaced.
func Write(dir string) error {
	errFactory := errors.New()
	path := Path(dir)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	if bytes, err := os.ReadFile(path); err == nil {
		pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
		if err == nil && pid != os.Getpid() && isRunning(pid) {
			return errFactory.WithData(errors.ErrAlreadyRunning, pid)
		}
	} else if !os.IsNotExist(err) {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600)
	if err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file from dir.
func Remove(dir string) error {
	path := Path(dir)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errors.New().Wrap(errors.ErrInternal, err)
	}

	return nil
}

func isRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
