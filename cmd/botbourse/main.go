package main

import (
	"os"

	"github.com/adilezz/botbourse/cmd/botbourse/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
