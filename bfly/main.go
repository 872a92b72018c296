// Package main is the entry point of the bfly command.
package main

import "github.com/sarchlab/butterfly/bfly/cmd"

func main() {
	cmd.Execute()
}
