package main

import "modelreviews/internal/cli"

// Set by ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
