// Package main is the single-binary entrypoint for the guild daemon.
package main

import "github.com/digital-guild/guild/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
