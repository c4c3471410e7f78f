// Command symcore runs symcore tool calls from the command line.
//
// Usage:
//
//	echo '{"tool":"expand","params":{...}}' | symcore call
//	symcore tools -o yaml
//	symcore render expr.json --latex
package main

import (
	"os"

	"github.com/njchilds90/symcore/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
