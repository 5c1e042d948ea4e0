package main

import (
	"os"

	"github.com/moneytrail/moneytrail/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
