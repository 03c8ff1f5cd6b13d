package main

import (
	"github.com/agentland/agentland-go/cmd"
)

var version = "dev"

func main() {
	cmd.SetVersionInfo(version)
	cmd.Execute()
}
