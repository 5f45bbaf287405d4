package spawn

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/core-tools/hsu-spawn/pkg/errors"
)

func TestValidateRequest(t *testing.T) {
	workDir := t.TempDir()

	plainFile := filepath.Join(workDir, "plain-file")
	require.NoError(t, os.WriteFile(plainFile, []byte("not a directory"), 0o644))

	tests := []struct {
		name      string
		request   Request
		shouldErr bool
	}{
		{
			name: "valid_minimal",
			request: Request{
				ExecutablePath: "/usr/bin/helper",
			},
			shouldErr: false,
		},
		{
			name: "valid_with_working_directory",
			request: Request{
				ExecutablePath:   "/usr/bin/helper",
				WorkingDirectory: workDir,
			},
			shouldErr: false,
		},
		{
			name: "valid_with_environment",
			request: Request{
				ExecutablePath: "/usr/bin/helper",
				Environment:    map[string]string{"MODE": "exit", "CODE": "1"},
			},
			shouldErr: false,
		},
		{
			name:      "missing_executable_path",
			request:   Request{},
			shouldErr: true,
		},
		{
			name: "relative_working_directory",
			request: Request{
				ExecutablePath:   "/usr/bin/helper",
				WorkingDirectory: "relative/dir",
			},
			shouldErr: true,
		},
		{
			name: "nonexistent_working_directory",
			request: Request{
				ExecutablePath:   "/usr/bin/helper",
				WorkingDirectory: filepath.Join(workDir, "missing"),
			},
			shouldErr: true,
		},
		{
			name: "working_directory_is_file",
			request: Request{
				ExecutablePath:   "/usr/bin/helper",
				WorkingDirectory: plainFile,
			},
			shouldErr: true,
		},
		{
			name: "empty_environment_name",
			request: Request{
				ExecutablePath: "/usr/bin/helper",
				Environment:    map[string]string{"": "value"},
			},
			shouldErr: true,
		},
		{
			name: "environment_name_with_equals",
			request: Request{
				ExecutablePath: "/usr/bin/helper",
				Environment:    map[string]string{"KEY=EXTRA": "value"},
			},
			shouldErr: true,
		},
		{
			name: "environment_value_with_nul",
			request: Request{
				ExecutablePath: "/usr/bin/helper",
				Environment:    map[string]string{"KEY": "val\x00ue"},
			},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.request)

			if tt.shouldErr {
				assert.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBuildEnviron(t *testing.T) {
	env := buildEnviron(map[string]string{"B": "2", "A": "1", "EMPTY": ""})
	assert.Equal(t, []string{"A=1", "B=2", "EMPTY="}, env)

	// Non-nil even when empty: a nil environment would make the start
	// call substitute the parent's ambient environment.
	env = buildEnviron(nil)
	assert.NotNil(t, env)
	assert.Empty(t, env)
}
