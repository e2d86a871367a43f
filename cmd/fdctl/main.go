// Fdctl reads and writes device factory data through the board
// configuration tool.
//
// It exposes stable identifiers such as "serial", "base-mac" or "ssid" and
// translates them into board tool invocations, so scripts never depend on
// the tool's own key names.
//
// Usage:
//
//	fdctl get serial
//	fdctl set ssid myNetwork
//	fdctl list
//
// See 'fdctl --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/muurk/factorydata/internal/factorydata"
	"github.com/muurk/factorydata/internal/logging"
)

func main() {
	root := newRootCmd(newApp())
	err := root.Execute()
	logging.Sync()
	if err != nil {
		if _, ok := err.(*silentError); !ok {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(factorydata.ExitCode(err))
	}
}
