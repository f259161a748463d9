// multistage - live multi-stage progress output for terminals and CI logs

package main

import (
	"os"

	"github.com/ariel-frischer/multistage/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
