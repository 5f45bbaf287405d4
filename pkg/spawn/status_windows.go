//go:build windows

package spawn

import (
	"os"
	"syscall"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

// Exit codes in the NTSTATUS failure severity range mean the process
// was torn down by the system (unhandled exception, forced
// termination) rather than returning a code of its own.
const ntstatusSeverityError = 0xC0000000

func exitStatusFromState(state *os.ProcessState) (ExitStatus, error) {
	waitStatus, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return ExitStatus{}, errors.NewInternalError("unexpected wait status type", nil)
	}
	code := waitStatus.ExitCode
	if code >= ntstatusSeverityError {
		return TerminatedAbnormally(int(code)), nil
	}
	return Exited(int(code)), nil
}
