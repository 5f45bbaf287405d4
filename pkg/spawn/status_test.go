package spawn

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitStatusAccessors(t *testing.T) {
	exited := Exited(42)
	assert.True(t, exited.IsExited())
	assert.False(t, exited.IsAbnormal())
	assert.Equal(t, 42, exited.ExitCode())
	assert.Equal(t, 0, exited.Reason())
	assert.Equal(t, "exited, code: 42", exited.String())

	killed := TerminatedAbnormally(9)
	assert.False(t, killed.IsExited())
	assert.True(t, killed.IsAbnormal())
	assert.Equal(t, 0, killed.ExitCode())
	assert.Equal(t, 9, killed.Reason())
	assert.Equal(t, "terminated abnormally, reason: 9", killed.String())
}
