package main

import (
	"os"

	"github.com/sdejongh/filekeeper/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
