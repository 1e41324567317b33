package main

import (
	"fmt"
	"os"
)

const (
	version = "0.1.0-dev"
	appName = "screend"
)

func main() {
	if err := runCLI(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
		os.Exit(1)
	}
}
