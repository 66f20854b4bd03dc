// Package main provides the navtree CLI.
package main

import "github.com/mesh-intelligence/navtree/internal/cli"

func main() {
	cli.Execute()
}
