package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/core-tools/hsu-spawn/pkg/logging"
	"github.com/core-tools/hsu-spawn/pkg/spawn"
)

type flagOptions struct {
	Executable string   `long:"exe" description:"path to the executable to spawn"`
	Args       []string `long:"arg" description:"argument passed to the executable (repeatable)"`
	Env        []string `long:"env" description:"environment entry KEY=VALUE (repeatable); the child observes exactly these"`
	WorkDir    string   `long:"workdir" description:"working directory for the child"`
	ConfigFile string   `long:"config" description:"path to a yaml file describing the spawn request"`
	LogLevel   string   `long:"log-level" default:"info" description:"log level: debug, info, warn or error"`
}

func main() {
	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	if !spawn.Supported() {
		fmt.Println("Process spawning is not supported on this platform")
		os.Exit(2)
	}

	logger, err := logging.NewZapLogger("spawncli: ", logging.ZapConfig{Level: opts.LogLevel})
	if err != nil {
		fmt.Printf("Logger setup failed: %v\n", err)
		os.Exit(1)
	}

	request, err := buildRequest(opts)
	if err != nil {
		fmt.Printf("Invalid spawn request: %v\n", err)
		os.Exit(1)
	}

	// Pass our own console through to the child.
	stdin := spawn.NewIOHandle(os.Stdin)
	stdout := spawn.NewIOHandle(os.Stdout)
	stderr := spawn.NewIOHandle(os.Stderr)
	request.Stdin = &stdin
	request.Stdout = &stdout
	request.Stderr = &stderr

	launcher := spawn.NewLauncher(logger)

	handle, err := launcher.Spawn(context.Background(), request)
	if err != nil {
		logger.Errorf("Spawn failed: %v", err)
		os.Exit(1)
	}

	status, err := handle.Wait(context.Background())
	if err != nil {
		logger.Errorf("Wait failed: %v", err)
		os.Exit(1)
	}

	fmt.Printf("Process %d: %s\n", handle.PID(), status)

	if status.IsExited() {
		os.Exit(status.ExitCode())
	}
	os.Exit(1)
}

func buildRequest(opts flagOptions) (spawn.Request, error) {
	var request spawn.Request

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return request, err
		}
		if err := yaml.Unmarshal(data, &request); err != nil {
			return request, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if opts.Executable != "" {
		request.ExecutablePath = opts.Executable
	}
	if len(opts.Args) > 0 {
		request.Args = opts.Args
	}
	if opts.WorkDir != "" {
		request.WorkingDirectory = opts.WorkDir
	}
	for _, entry := range opts.Env {
		key, value, found := strings.Cut(entry, "=")
		if !found {
			return request, fmt.Errorf("invalid environment entry: %s", entry)
		}
		if request.Environment == nil {
			request.Environment = make(map[string]string)
		}
		request.Environment[key] = value
	}

	if request.ExecutablePath == "" {
		return request, fmt.Errorf("executable path is required (--exe or config file)")
	}
	return request, nil
}
