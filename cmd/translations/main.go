package main

import (
	"os"

	"github.com/goliatone/go-translations/cmd/translations/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
