//go:build unix

package spawn

import (
	goerrors "errors"
	"os/exec"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

const platformSupported = true

func platformMarshaler() Marshaler {
	// POSIX process creation takes a discrete argument vector.
	return VectorMarshaler{}
}

// setupProcessAttributes configures Unix-specific process attributes.
// Signal state needs no explicit reset here: exec restores caught
// signal dispositions to their defaults and the runtime gives the
// child its initial signal mask, so a spawned test process behaves as
// if freshly started even when the spawner customized its own signal
// handling.
func setupProcessAttributes(cmd *exec.Cmd, cmdline string, plan *inheritancePlan) {
	// The marshaled vector is already carried by cmd.Args; cmdline is a
	// Windows-only concern.
	cmd.SysProcAttr = &syscall.SysProcAttr{}
}

// inheritLock confines process creation to one spawn at a time.
// Clearing FD_CLOEXEC and creating the child are separate system calls
// on Unix, so any concurrent fork, with or without additional
// descriptors of its own, could capture a descriptor meant only for a
// different child; every start call therefore holds the lock, not just
// the ones that mutate flags.
var inheritLock sync.Mutex

// startProcess creates the child. Standard streams are expressed
// through the start call itself (the duplicate onto the canonical
// position and the inheritability of the duplicate are one step there,
// so no flag race exists for them). Additional descriptors are
// inherited at their existing numbers by clearing FD_CLOEXEC for the
// duration of the start call and restoring it afterwards, under
// inheritLock.
//
// Descriptor hygiene: every descriptor the runtime opens carries
// O_CLOEXEC, so descriptors not listed in the request do not survive
// into the child. Descriptors opened behind the runtime's back (cgo,
// third-party C libraries) are not covered; for a cooperating re-exec
// child the watermark published by hygieneEnviron closes the
// remainder.
func startProcess(cmd *exec.Cmd, plan *inheritancePlan) error {
	inheritLock.Lock()
	defer inheritLock.Unlock()

	if len(plan.additional) == 0 {
		return cmd.Start()
	}

	type savedFlags struct {
		fd    int
		flags int
	}
	var restore []savedFlags

	defer func() {
		for _, saved := range restore {
			_, _ = unix.FcntlInt(uintptr(saved.fd), unix.F_SETFD, saved.flags)
		}
	}()

	for _, file := range plan.additional {
		fd := int(file.Fd())
		flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
		if err != nil {
			return errors.NewInvalidHandleError("failed to read descriptor flags", err).WithContext("fd", fd)
		}
		if flags&unix.FD_CLOEXEC == 0 {
			continue
		}
		if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags&^unix.FD_CLOEXEC); err != nil {
			return errors.NewInvalidHandleError("failed to clear close-on-exec flag", err).WithContext("fd", fd)
		}
		restore = append(restore, savedFlags{fd: fd, flags: flags})
	}

	return cmd.Start()
}

func isResourceExhaustion(err error) bool {
	return goerrors.Is(err, syscall.EAGAIN) ||
		goerrors.Is(err, syscall.ENOMEM) ||
		goerrors.Is(err, syscall.EMFILE) ||
		goerrors.Is(err, syscall.ENFILE)
}
