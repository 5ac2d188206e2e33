package main

import (
	"github.com/vizidox/plato-client-go/internal/cli"
)

func main() {
	cli.Execute()
}
