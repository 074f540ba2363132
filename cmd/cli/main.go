package main

import (
	"fmt"
	"os"

	"github.com/applytrack/applytrack/cmd/cli/commands"
	"github.com/applytrack/applytrack/internal/config"
)

func main() {
	// A .env next to the binary may carry the server address and owner id
	if err := config.LoadDotEnv(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := commands.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
