// Command docmunch indexes repository documentation into section
// catalogues and serves them over the CLI or MCP.
package main

import (
	"github.com/custodia-labs/docmunch-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
