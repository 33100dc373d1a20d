// Package main is the entry point for the reeler application.
package main

import (
	"github.com/reeler-cli/reeler/cmd"
	"github.com/reeler-cli/reeler/config"
	"github.com/reeler-cli/reeler/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
