// Package spawn creates isolated, single-shot child processes with
// precise control over inherited I/O handles and environment, and
// reaps them into one normalized exit status. It exists to run test
// bodies that are expected to terminate their process abnormally:
// such bodies cannot run inside the test-runner process, so they are
// launched as a separate process and observed from outside.
package spawn

import (
	"context"
	goerrors "errors"
	"os"
	"os/exec"

	"github.com/core-tools/hsu-spawn/pkg/errors"
	"github.com/core-tools/hsu-spawn/pkg/logging"
)

// Launcher spawns child processes described by Requests.
type Launcher struct {
	marshal Marshaler
	logger  logging.Logger
}

// NewLauncher creates a launcher using the platform's argument
// marshaling strategy. A nil logger discards diagnostics.
func NewLauncher(logger logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Launcher{
		marshal: platformMarshaler(),
		logger:  logger,
	}
}

// Supported reports whether this platform can create child processes
// at all. Callers check it once up front and treat a false result as a
// configuration-level outcome ("exit tests unsupported here") instead
// of a mid-run failure.
func Supported() bool {
	return platformSupported
}

// Spawn creates the requested child process and returns its handle.
// It is synchronous and all-or-nothing: either exactly one live child
// exists and its handle is returned, or an error is returned and no
// process is left behind. The handle must later be waited on exactly
// once.
func (l *Launcher) Spawn(ctx context.Context, request Request) (*Handle, error) {
	if ctx == nil {
		return nil, errors.NewValidationError("context cannot be nil", nil)
	}
	if !platformSupported {
		return nil, errors.NewUnsupportedError("process creation is not available on this platform", nil)
	}

	if err := ValidateRequest(request); err != nil {
		l.logger.Errorf("Spawn request validation failed, executable path: '%s', error: %v", request.ExecutablePath, err)
		return nil, err
	}

	plan, err := buildInheritancePlan(request)
	if err != nil {
		l.logger.Errorf("Handle inheritance planning failed, executable path: '%s', error: %v", request.ExecutablePath, err)
		return nil, err
	}

	workDir, err := resolveWorkingDirectory(request)
	if err != nil {
		return nil, err
	}

	env := buildEnviron(request.Environment)
	if request.TrustedReExec {
		env = append(env, hygieneEnviron(plan)...)
	}

	argv, cmdline := l.marshal.Marshal(request.ExecutablePath, request.Args)

	cmd := exec.Command(request.ExecutablePath)
	if len(argv) > 0 {
		cmd.Args = argv
	}
	cmd.Dir = workDir
	cmd.Env = env

	// An absent stream stays unset; the start call connects it to the
	// null device opened in the matching mode.
	if plan.stdin != nil {
		cmd.Stdin = plan.stdin
	}
	if plan.stdout != nil {
		cmd.Stdout = plan.stdout
	}
	if plan.stderr != nil {
		cmd.Stderr = plan.stderr
	}

	setupProcessAttributes(cmd, cmdline, plan)

	l.logger.Debugf("Spawning process, executable path: '%s', args: %v, working directory: '%s', environment entries: %d, additional handles: %d",
		request.ExecutablePath, request.Args, workDir, len(env), len(plan.additional))

	if err := startProcess(cmd, plan); err != nil {
		l.logger.Errorf("Failed to spawn process, executable path: '%s', error: %v", request.ExecutablePath, err)
		return nil, classifySpawnError(err, request)
	}

	l.logger.Infof("Successfully spawned process, executable path: '%s', PID: %d", request.ExecutablePath, cmd.Process.Pid)

	return &Handle{
		pid:    cmd.Process.Pid,
		cmd:    cmd,
		logger: l.logger,
	}, nil
}

func classifySpawnError(err error, request Request) error {
	switch {
	case goerrors.Is(err, exec.ErrNotFound) || goerrors.Is(err, os.ErrNotExist):
		return errors.NewNotFoundError("executable not found", err).WithContext("executable_path", request.ExecutablePath)
	case goerrors.Is(err, os.ErrPermission):
		return errors.NewPermissionError("executable cannot be executed", err).WithContext("executable_path", request.ExecutablePath)
	case isResourceExhaustion(err):
		return errors.NewResourceLimitError("process creation hit an OS resource limit", err).WithContext("executable_path", request.ExecutablePath)
	}
	return errors.NewInternalError("failed to start the process", err).WithContext("executable_path", request.ExecutablePath)
}
