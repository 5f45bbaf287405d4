//go:build unix

package spawn

import (
	"os"
	"syscall"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

// exitStatusFromState normalizes a reaped Unix wait status: signal
// termination becomes an abnormal status carrying the signal number,
// anything else the reported exit code.
func exitStatusFromState(state *os.ProcessState) (ExitStatus, error) {
	waitStatus, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return ExitStatus{}, errors.NewInternalError("unexpected wait status type", nil)
	}
	if waitStatus.Signaled() {
		return TerminatedAbnormally(int(waitStatus.Signal())), nil
	}
	return Exited(waitStatus.ExitStatus()), nil
}
