package main

import (
	"os"

	"eventist/internal/cli"
)

func main() {
	os.Exit(cli.MainWithArgs(os.Args[1:]))
}
