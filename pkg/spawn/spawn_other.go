//go:build !unix && !windows

package spawn

import (
	"os"
	"os/exec"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

// This platform offers no process-creation capability usable by this
// package. Supported reports false and Spawn fails with an unsupported
// error before attempting anything, so callers can treat the absence
// as a configuration-level outcome.

const platformSupported = false

func platformMarshaler() Marshaler {
	return VectorMarshaler{}
}

func setupProcessAttributes(cmd *exec.Cmd, cmdline string, plan *inheritancePlan) {
}

func startProcess(cmd *exec.Cmd, plan *inheritancePlan) error {
	return errors.NewUnsupportedError("process creation is not available on this platform", nil)
}

func isResourceExhaustion(err error) bool {
	return false
}

func exitStatusFromState(state *os.ProcessState) (ExitStatus, error) {
	return ExitStatus{}, errors.NewUnsupportedError("process status is not available on this platform", nil)
}

func hygieneEnviron(plan *inheritancePlan) []string {
	return nil
}

// CloseUnlistedDescriptors is a no-op here; no process can have been
// spawned with a hygiene watermark on this platform.
func CloseUnlistedDescriptors() error {
	return nil
}
