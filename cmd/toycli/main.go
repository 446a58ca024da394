package main

import (
	"github.com/robotalks/toyctl/pkg/cli/sh"

	_ "github.com/robotalks/toyctl/pkg/cli/cmds/servos"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
