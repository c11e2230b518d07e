package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	root := newRootCmd()

	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit)),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
