// # cmd/astral/main.go
package main

import (
	"astral/internal/ui/cli"
	"os"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
