package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/corpeningc/sitetool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if !errors.As(err, new(*cmd.ExitStatus)) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cmd.ExitCode(err))
	}
}
