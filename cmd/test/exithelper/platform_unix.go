//go:build unix

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

func raiseSignal(sig int) {
	if err := syscall.Kill(os.Getpid(), syscall.Signal(sig)); err != nil {
		fmt.Fprintf(os.Stderr, "raising signal %d failed: %v\n", sig, err)
		os.Exit(119)
	}
	// Delivery can lag the kill call slightly.
	time.Sleep(5 * time.Second)
}

func listDescriptors(w io.Writer) error {
	for _, dir := range []string{"/proc/self/fd", "/dev/fd"} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		fds := make([]string, 0, len(entries))
		for _, entry := range entries {
			if _, err := strconv.Atoi(entry.Name()); err != nil {
				continue
			}
			fds = append(fds, entry.Name())
		}
		_, err = fmt.Fprintln(w, strings.Join(fds, ","))
		return err
	}
	return fmt.Errorf("no descriptor directory available")
}
