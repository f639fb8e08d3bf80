package main

import (
	"fmt"
	"os"

	"github.com/soyeahso/azent/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "azent:", err)
		os.Exit(1)
	}
}
