//go:build !unix

package main

import (
	"fmt"
	"io"
	"os"
)

func raiseSignal(sig int) {
	fmt.Fprintf(os.Stderr, "raising signals is not supported on this platform\n")
	os.Exit(119)
}

func listDescriptors(w io.Writer) error {
	return fmt.Errorf("descriptor enumeration is not supported on this platform")
}
