package main

import (
	"log"

	"tableflip.dev/taskq/pkg/commands"
)

func main() {
	cmd := commands.New()
	cmd.SilenceErrors = true
	if err := cmd.Execute(); err != nil {
		log.Fatalf("error during command execution: %v", err)
	}
}
