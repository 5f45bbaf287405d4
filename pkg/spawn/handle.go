package spawn

import (
	"context"
	goerrors "errors"
	"os/exec"
	"sync"

	"github.com/core-tools/hsu-spawn/pkg/errors"
	"github.com/core-tools/hsu-spawn/pkg/logging"
)

// Handle identifies one spawned child process. A handle is created
// exactly once per spawn and must be waited on exactly once: a handle
// discarded without waiting leaks the child's exit status (a zombie
// entry on POSIX, a kernel handle on Windows), and a second wait fails
// with an invalid handle error. Callers never branch on the platform;
// the platform-specific process identity stays inside.
type Handle struct {
	pid    int
	cmd    *exec.Cmd
	logger logging.Logger

	mu      sync.Mutex
	claimed bool
	reaped  bool
	done    chan waitOutcome
}

type waitOutcome struct {
	status ExitStatus
	err    error
}

// PID returns the OS process identifier, for logging and diagnostics.
func (h *Handle) PID() int {
	return h.pid
}

// Wait suspends the caller until the child exits and returns its
// normalized exit status. Waits on distinct handles do not interfere;
// a second wait on the same handle, concurrent or after the status has
// been delivered, fails with an invalid handle error.
//
// Cancelling the context abandons only this caller's interest: the
// child keeps running and its status stays unreaped until a later Wait
// collects it. Dealing with the unreaped process in that case is the
// caller's responsibility.
func (h *Handle) Wait(ctx context.Context) (ExitStatus, error) {
	if ctx == nil {
		return ExitStatus{}, errors.NewValidationError("context cannot be nil", nil).WithContext("pid", h.pid)
	}

	h.mu.Lock()
	if h.reaped {
		h.mu.Unlock()
		return ExitStatus{}, errors.NewInvalidHandleError("process already waited on", nil).WithContext("pid", h.pid)
	}
	if h.claimed {
		h.mu.Unlock()
		return ExitStatus{}, errors.NewInvalidHandleError("concurrent wait on the same process handle", nil).WithContext("pid", h.pid)
	}
	h.claimed = true
	if h.done == nil {
		h.done = make(chan waitOutcome, 1)
		go h.reap()
	}
	done := h.done
	h.mu.Unlock()

	h.logger.Debugf("Waiting for process, PID: %d", h.pid)

	select {
	case outcome := <-done:
		h.mu.Lock()
		h.claimed = false
		h.reaped = true
		h.mu.Unlock()
		if outcome.err == nil {
			h.logger.Infof("Process terminated, PID: %d, status: %s", h.pid, outcome.status)
		}
		return outcome.status, outcome.err
	case <-ctx.Done():
		h.mu.Lock()
		h.claimed = false
		h.mu.Unlock()
		h.logger.Warnf("Wait abandoned, PID: %d, process left unreaped", h.pid)
		return ExitStatus{}, errors.NewInterruptedError("wait abandoned", ctx.Err()).WithContext("pid", h.pid)
	}
}

// reap runs once per handle. The OS wait retries interrupted waits
// internally; only a non-retryable failure surfaces as an error.
func (h *Handle) reap() {
	err := h.cmd.Wait()
	status, waitErr := exitStatusFromWait(h.cmd, err)
	h.done <- waitOutcome{status: status, err: waitErr}
}

func exitStatusFromWait(cmd *exec.Cmd, err error) (ExitStatus, error) {
	if err == nil {
		return exitStatusFromState(cmd.ProcessState)
	}
	var exitErr *exec.ExitError
	if goerrors.As(err, &exitErr) {
		return exitStatusFromState(exitErr.ProcessState)
	}
	return ExitStatus{}, errors.NewInterruptedError("wait failed", err).WithContext("pid", cmd.Process.Pid)
}
