package main

import (
	"github.com/robotalks/maestro.go/pkg/cli/sh"
	"github.com/robotalks/maestro.go/pkg/maestro"

	_ "github.com/robotalks/maestro.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	maestro.SetupFlags()
}

func main() {
	sh.Main()
}
