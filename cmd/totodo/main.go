// Package main is the entry point for the totodo CLI.
package main

import (
	"fmt"
	"os"

	"github.com/totodo-app/totodo/internal/app"
	"github.com/totodo-app/totodo/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	container, err := app.New()
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	root := cli.NewRootCommand(container, version)
	return root.Execute()
}
