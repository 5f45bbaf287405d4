package main

import (
	"fmt"
	"io"
	"os"
	"time"

	flags "github.com/jessevdk/go-flags"

	"github.com/core-tools/hsu-spawn/pkg/spawn"
)

type flagOptions struct {
	ExitCode    int  `long:"exit-code" description:"exit with this code after all other actions"`
	RaiseSignal int  `long:"raise-signal" description:"raise this signal number instead of exiting (POSIX only)"`
	EchoStdin   bool `long:"echo-stdin" description:"copy standard input to standard output"`
	ListFDs     bool `long:"list-fds" description:"print open descriptors to standard output (POSIX only)"`
	WriteFD     int  `long:"write-fd" description:"write a marker to this inherited descriptor"`
	SleepMS     int  `long:"sleep-ms" description:"sleep this many milliseconds before terminating"`
}

func main() {
	// When spawned as a cooperating re-exec child, finish descriptor
	// hygiene before opening anything of our own.
	if err := spawn.CloseUnlistedDescriptors(); err != nil {
		fmt.Fprintf(os.Stderr, "descriptor hygiene failed: %v\n", err)
		os.Exit(125)
	}

	var opts flagOptions
	var argv []string = os.Args[1:]
	var parser = flags.NewParser(&opts, flags.HelpFlag)
	var err error
	_, err = parser.ParseArgs(argv)
	if err != nil {
		fmt.Printf("Command line flags parsing failed: %v\n", err)
		os.Exit(1)
	}

	if opts.EchoStdin {
		if _, err := io.Copy(os.Stdout, os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "echo failed: %v\n", err)
			os.Exit(124)
		}
	}

	if opts.ListFDs {
		if err := listDescriptors(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "descriptor listing failed: %v\n", err)
			os.Exit(123)
		}
	}

	if opts.WriteFD > 0 {
		file := os.NewFile(uintptr(opts.WriteFD), "inherited")
		if file == nil {
			fmt.Fprintf(os.Stderr, "descriptor %d is not open\n", opts.WriteFD)
			os.Exit(122)
		}
		if _, err := file.Write([]byte("pong")); err != nil {
			fmt.Fprintf(os.Stderr, "write to descriptor %d failed: %v\n", opts.WriteFD, err)
			os.Exit(121)
		}
	}

	if opts.SleepMS > 0 {
		time.Sleep(time.Duration(opts.SleepMS) * time.Millisecond)
	}

	if opts.RaiseSignal > 0 {
		raiseSignal(opts.RaiseSignal)
		// A terminating signal never returns; anything else is a usage
		// error for this helper.
		os.Exit(120)
	}

	os.Exit(opts.ExitCode)
}
