// Package main provides the entry point for the ontology-matcher CLI tool.
package main

import (
	"context"
	"os"

	"github.com/open-prophetdb/ontology-matcher/cmd/ontology-matcher/app"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	application, err := app.New(version, commit, date)
	if err != nil {
		app.ExitOnError(err)
	}
	defer application.Close()

	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		app.ExitOnError(err)
	}
}
