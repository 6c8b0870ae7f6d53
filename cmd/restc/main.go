package main

import (
	"os"

	"github.com/restclient-go/restclient/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
