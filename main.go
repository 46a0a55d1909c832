// Package main provides the linkprobe CLI entrypoint.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lukemcguire/linkprobe/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil && !errors.Is(err, cmd.ErrInvalidLinks) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
