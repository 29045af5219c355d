// Package main provides the CLI entrypoint for transmute.
//
// transmute applies YAML transformation specifications to record files:
//   - map: one output record per input record
//   - aggregate: one output record per group of input records
//   - check: validate a specification without reading records
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"transmuter/cmd/transmute/commands"
)

// Version is set via ldflags during build.
var Version = "dev"

func main() {
	if err := commands.Execute(context.Background(), Version); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
