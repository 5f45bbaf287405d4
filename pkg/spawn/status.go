package spawn

import (
	"fmt"
)

// ExitStatus is the normalized termination result of a spawned child:
// either an ordinary numeric exit, or abnormal termination by a signal
// (POSIX) or an unhandled-exception/forced-termination code (Windows).
// Produced only by waiting; immutable once produced.
type ExitStatus struct {
	code     int
	abnormal bool
}

// Exited builds the status of a child that exited normally with the
// given code.
func Exited(code int) ExitStatus {
	return ExitStatus{code: code}
}

// TerminatedAbnormally builds the status of a child killed by a signal
// or terminated with an exception/forced-termination code.
func TerminatedAbnormally(reason int) ExitStatus {
	return ExitStatus{code: reason, abnormal: true}
}

// IsExited reports whether the child exited normally.
func (s ExitStatus) IsExited() bool {
	return !s.abnormal
}

// IsAbnormal reports whether the child was terminated abnormally.
func (s ExitStatus) IsAbnormal() bool {
	return s.abnormal
}

// ExitCode returns the numeric exit code. Meaningful only when
// IsExited reports true.
func (s ExitStatus) ExitCode() int {
	if s.abnormal {
		return 0
	}
	return s.code
}

// Reason returns the signal number or platform termination code.
// Meaningful only when IsAbnormal reports true.
func (s ExitStatus) Reason() int {
	if !s.abnormal {
		return 0
	}
	return s.code
}

func (s ExitStatus) String() string {
	if s.abnormal {
		return fmt.Sprintf("terminated abnormally, reason: %d", s.code)
	}
	return fmt.Sprintf("exited, code: %d", s.code)
}
