// Command blockgen runs block generator simulations.
package main

import (
	"github.com/tebeka/atexit"

	"github.com/sarchlab/blockgen/cmd/blockgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
