// Package main provides the landing-dashboard CLI application.
//
// Landing Dashboard polls the landing page responses feed, counts responses
// per day and keeps a terminal view, an HTML chart page and a small JSON API
// up to date.
package main

import (
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
