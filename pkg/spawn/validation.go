package spawn

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

// ValidateRequest validates the shape of a spawn request. Whether the
// executable can actually be located and executed is reported by Spawn
// itself, with the matching error type.
func ValidateRequest(request Request) error {
	if request.ExecutablePath == "" {
		return errors.NewValidationError("executable path is required", nil)
	}

	if request.WorkingDirectory != "" {
		if !filepath.IsAbs(request.WorkingDirectory) {
			return errors.NewValidationError("working directory must be absolute path", nil)
		}

		if info, err := os.Stat(request.WorkingDirectory); err != nil {
			return errors.NewValidationError("working directory not accessible: "+request.WorkingDirectory, err)
		} else if !info.IsDir() {
			return errors.NewValidationError("working directory is not a directory: "+request.WorkingDirectory, nil)
		}
	}

	for key, value := range request.Environment {
		if key == "" {
			return errors.NewValidationError("environment variable name cannot be empty", nil)
		}
		if strings.ContainsAny(key, "=\x00") {
			return errors.NewValidationError("invalid environment variable name: "+key, nil)
		}
		if strings.Contains(value, "\x00") {
			return errors.NewValidationError("environment variable value contains NUL: "+key, nil)
		}
	}

	return nil
}
