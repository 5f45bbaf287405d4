//go:build unix

package spawn

import (
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

// Watermark-based descriptor hygiene for cooperating children.
//
// Descriptors the runtime opens carry close-on-exec and never reach
// the child, but descriptors opened behind the runtime's back (cgo,
// third-party C libraries) may not. There is no portable
// close-everything-above primitive the spawner could apply from
// outside, so for children that are a re-exec of this same trusted
// program the spawner publishes a watermark in the environment and the
// child finishes the cleanup itself right after startup. The fallback
// requires the child's cooperation, which is why it is gated on
// Request.TrustedReExec and unsafe for arbitrary executables.

const (
	closeFromEnv = "HSU_SPAWN_CLOSEFROM"
	keepFDsEnv   = "HSU_SPAWN_KEEP_FDS"
)

// Descriptors 0-2 are the standard streams and always survive.
const hygieneWatermark = 3

func hygieneEnviron(plan *inheritancePlan) []string {
	keep := make([]string, 0, len(plan.additional))
	for _, file := range plan.additional {
		keep = append(keep, strconv.Itoa(int(file.Fd())))
	}
	return []string{
		closeFromEnv + "=" + strconv.Itoa(hygieneWatermark),
		keepFDsEnv + "=" + strings.Join(keep, ","),
	}
}

// CloseUnlistedDescriptors closes every descriptor at or above the
// watermark the spawning parent published in the environment, except
// the ones listed for inheritance. A cooperating re-exec'd child calls
// it first thing in main, before opening anything of its own. Without
// a watermark in the environment it does nothing.
func CloseUnlistedDescriptors() error {
	value := os.Getenv(closeFromEnv)
	if value == "" {
		return nil
	}
	from, err := strconv.Atoi(value)
	if err != nil || from < hygieneWatermark {
		return errors.NewValidationError("invalid descriptor watermark: "+value, err)
	}

	keep := make(map[int]bool)
	for _, entry := range strings.Split(os.Getenv(keepFDsEnv), ",") {
		if entry == "" {
			continue
		}
		fd, err := strconv.Atoi(entry)
		if err != nil || fd < 0 {
			return errors.NewValidationError("invalid inherited descriptor list entry: "+entry, err)
		}
		keep[fd] = true
	}

	fds, err := openDescriptors()
	if err != nil {
		return err
	}
	for _, fd := range fds {
		if fd < from || keep[fd] {
			continue
		}
		// EBADF here just means the enumeration raced a close.
		_ = unix.Close(fd)
	}
	return nil
}

// openDescriptors enumerates this process's open descriptors, via the
// fd directory when the system has one, otherwise by walking the soft
// descriptor limit.
func openDescriptors() ([]int, error) {
	for _, dir := range []string{"/proc/self/fd", "/dev/fd"} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		fds := make([]int, 0, len(entries))
		for _, entry := range entries {
			fd, err := strconv.Atoi(entry.Name())
			if err != nil {
				continue
			}
			fds = append(fds, fd)
		}
		return fds, nil
	}

	var limit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &limit); err != nil {
		return nil, errors.NewIOError("failed to read descriptor limit", err)
	}
	count := int(limit.Cur)
	if count > 65536 {
		count = 65536
	}
	fds := make([]int, 0, count)
	for fd := 0; fd < count; fd++ {
		fds = append(fds, fd)
	}
	return fds, nil
}
