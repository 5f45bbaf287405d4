//go:build windows

package spawn

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"golang.org/x/sys/windows"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	platformHelpers["handle-rw"] = helperHandleReadWrite
}

// helperHandleReadWrite operates on an inherited handle by value.
// Handle values survive inheritance unchanged, so the parent can pass
// the value through the environment.
func helperHandleReadWrite() {
	raw, err := strconv.ParseUint(os.Getenv(helperFDEnv), 10, 64)
	if err != nil {
		os.Exit(125)
	}
	file := os.NewFile(uintptr(raw), "inherited")
	if file == nil {
		os.Exit(123)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		os.Exit(122)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		os.Exit(121)
	}
	if _, err := file.Write([]byte("|pong:" + string(data))); err != nil {
		os.Exit(120)
	}
	os.Exit(0)
}

func TestSpawnAdditionalHandleReadWrite(t *testing.T) {
	launcher := NewLauncher(nil)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "shared")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	require.NoError(t, err)
	defer file.Close()

	_, err = file.Write([]byte("ping"))
	require.NoError(t, err)

	request := helperRequest(t, "handle-rw", map[string]string{
		helperFDEnv: strconv.FormatUint(uint64(file.Fd()), 10),
	})
	request.AdditionalHandles = []IOHandle{NewIOHandle(file)}

	handle, err := launcher.Spawn(ctx, request)
	require.NoError(t, err)

	status, err := handle.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, status.ExitCode(), "status: %s", status)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ping|pong:ping", string(content))
}

func TestSpawnRestoresHandleInheritFlag(t *testing.T) {
	launcher := NewLauncher(nil)
	ctx := context.Background()

	file, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer file.Close()

	var flags uint32
	require.NoError(t, windows.GetHandleInformation(windows.Handle(file.Fd()), &flags))
	require.Zero(t, flags&windows.HANDLE_FLAG_INHERIT, "handle unexpectedly inheritable before spawn")

	request := helperRequest(t, "exit", map[string]string{helperExitCodeEnv: "0"})
	request.AdditionalHandles = []IOHandle{NewIOHandle(file)}

	handle, err := launcher.Spawn(ctx, request)
	require.NoError(t, err)

	// The inherit flag was only held for the duration of the start
	// call; by the time Spawn returns it is back off.
	require.NoError(t, windows.GetHandleInformation(windows.Handle(file.Fd()), &flags))
	assert.Zero(t, flags&windows.HANDLE_FLAG_INHERIT)

	status, err := handle.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.ExitCode(), "status: %s", status)
}
