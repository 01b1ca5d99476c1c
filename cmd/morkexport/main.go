package main

import (
	"os"

	"mork-export/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
