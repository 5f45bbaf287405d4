package spawn

import (
	"path/filepath"
	"sort"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

// Request describes a single child process to spawn.
type Request struct {
	ExecutablePath string `yaml:"executable_path"`

	// Args is the argument list passed to the child, executable path
	// excluded.
	Args []string `yaml:"args,omitempty"`

	// Environment is the complete environment the child observes. The
	// spawner never merges its own ambient environment into it: an empty
	// map spawns a child with an empty environment.
	Environment map[string]string `yaml:"environment,omitempty"`

	// WorkingDirectory is the child's working directory. When empty the
	// directory of the executable is used. The spawner always passes an
	// explicit directory to the OS so the child never pins whatever
	// directory the spawning process happened to inherit.
	WorkingDirectory string `yaml:"working_directory,omitempty"`

	// Stdin, Stdout and Stderr, when supplied, are observed by the child
	// at the canonical stream positions. An absent stream is connected
	// to the null device opened in the matching mode.
	Stdin  *IOHandle `yaml:"-"`
	Stdout *IOHandle `yaml:"-"`
	Stderr *IOHandle `yaml:"-"`

	// AdditionalHandles are inherited by the child at their existing
	// descriptor/handle values, without remapping onto standard
	// positions. How the child discovers them is a convention between
	// the caller and the child, not something this package defines.
	AdditionalHandles []IOHandle `yaml:"-"`

	// TrustedReExec declares that the child is a re-exec of this same
	// program and cooperates in descriptor hygiene: on platforms without
	// a kernel-side close-everything-unlisted primitive the spawner
	// publishes a descriptor watermark in the child's environment and
	// the child calls CloseUnlistedDescriptors right after startup.
	// Never set this when spawning arbitrary third-party executables.
	TrustedReExec bool `yaml:"trusted_re_exec,omitempty"`
}

// buildEnviron renders the request environment in the form the process
// creation call expects. The returned slice is always non-nil, even
// when empty, so the start call does not substitute the parent's
// ambient environment for a missing one.
func buildEnviron(environment map[string]string) []string {
	env := make([]string, 0, len(environment))
	for key, value := range environment {
		env = append(env, key+"="+value)
	}
	sort.Strings(env)
	return env
}

func resolveWorkingDirectory(request Request) (string, error) {
	if request.WorkingDirectory != "" {
		return request.WorkingDirectory, nil
	}
	absPath, err := filepath.Abs(request.ExecutablePath)
	if err != nil {
		return "", errors.NewIOError("failed to get absolute path", err).WithContext("executable_path", request.ExecutablePath)
	}
	return filepath.Dir(absPath), nil
}
