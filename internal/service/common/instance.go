//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another process runs the same executable.
var ErrAlreadyRunning = errors.New("another instance is already running")

// EnsureSingleInstance fails when another process with this executable's name is alive.
func EnsureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	return ensureSingleInstance(filepath.Base(executable), os.Getpid(), ps.Processes)
}

// ensureSingleInstance scans the process table returned by list, skipping selfPID.
func ensureSingleInstance(name string, selfPID int, list func() ([]ps.Process, error)) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == selfPID {
			continue
		}

		if process.Executable() == name {
			return fmt.Errorf("%w: %s (pid %d)", ErrAlreadyRunning, name, process.Pid())
		}
	}

	return nil
}
