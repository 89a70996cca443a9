// cmd/dokimi/main.go
package main

import (
	cmd "github.com/mwiater/dokimi/internal/cli"
)

// Build-time variables, injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the dokimi CLI application by delegating to the
// cobra root command defined in the dokimi package. It does not
// take any arguments and does not return a value.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
