// Command vedactl talks to a VEDA API server or straight to a remote generation backend.
package main

import (
	"os"

	"github.com/amankumarsingh77/veda-gateway/cmd/vedactl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
