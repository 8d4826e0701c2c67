package main

import (
	"os"

	"github.com/grokify/releaseconductor/cmd/releaseconductor/cmd"
	"github.com/grokify/releaseconductor/internal/actions"
)

func main() {
	if err := cmd.Execute(); err != nil {
		actions.NewWriterFromEnv(os.Stdout).Fail(err)
		os.Exit(1)
	}
}
