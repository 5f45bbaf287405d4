//go:build windows

package spawn

import (
	goerrors "errors"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

const platformSupported = true

func platformMarshaler() Marshaler {
	// CreateProcess takes one escaped command-line string.
	return QuotedMarshaler{}
}

// setupProcessAttributes configures Windows-specific process
// attributes. The escaped command line produced by QuotedMarshaler is
// passed verbatim so the child's own argument parser reproduces the
// original list. Additional handles travel in the process attribute
// list (PROC_THREAD_ATTRIBUTE_HANDLE_LIST), which scopes inheritance
// to exactly this child; marking the handles inheritable happens in
// startProcess.
func setupProcessAttributes(cmd *exec.Cmd, cmdline string, plan *inheritancePlan) {
	handles := make([]syscall.Handle, 0, len(plan.additional))
	for _, file := range plan.additional {
		handles = append(handles, syscall.Handle(file.Fd()))
	}
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:                    cmdline,
		AdditionalInheritedHandles: handles,
	}
}

// inheritLock confines process creation to one spawn at a time.
// CreateProcess requires every handle in the attribute list to already
// carry HANDLE_FLAG_INHERIT, and that flag is per-handle state visible
// to every concurrent spawn in this process; the attribute list keeps
// the flagged handles out of unrelated children, but the flag itself
// still has to be set and cleared under exclusion so a restore never
// races another spawn's marking of the same handle.
var inheritLock sync.Mutex

// startProcess creates the child. os.File handles are non-inheritable
// by default, so each listed handle is marked with HANDLE_FLAG_INHERIT
// for the duration of the start call and restored afterwards.
func startProcess(cmd *exec.Cmd, plan *inheritancePlan) error {
	inheritLock.Lock()
	defer inheritLock.Unlock()

	if len(plan.additional) == 0 {
		return cmd.Start()
	}

	var restore []windows.Handle

	defer func() {
		for _, handle := range restore {
			_ = windows.SetHandleInformation(handle, windows.HANDLE_FLAG_INHERIT, 0)
		}
	}()

	for _, file := range plan.additional {
		handle := windows.Handle(file.Fd())
		var flags uint32
		if err := windows.GetHandleInformation(handle, &flags); err != nil {
			return errors.NewInvalidHandleError("failed to read handle flags", err).WithContext("handle", file.Fd())
		}
		if flags&windows.HANDLE_FLAG_INHERIT != 0 {
			continue
		}
		if err := windows.SetHandleInformation(handle, windows.HANDLE_FLAG_INHERIT, windows.HANDLE_FLAG_INHERIT); err != nil {
			return errors.NewInvalidHandleError("failed to mark handle inheritable", err).WithContext("handle", file.Fd())
		}
		restore = append(restore, handle)
	}

	return cmd.Start()
}

const (
	errorNotEnoughMemory   = syscall.Errno(8)    // ERROR_NOT_ENOUGH_MEMORY
	errorNoSystemResources = syscall.Errno(1450) // ERROR_NO_SYSTEM_RESOURCES
	errorCommitmentLimit   = syscall.Errno(1455) // ERROR_COMMITMENT_LIMIT
)

func isResourceExhaustion(err error) bool {
	return goerrors.Is(err, errorNotEnoughMemory) ||
		goerrors.Is(err, errorNoSystemResources) ||
		goerrors.Is(err, errorCommitmentLimit)
}
