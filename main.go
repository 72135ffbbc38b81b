// go-shard is a local ledger of the Shard governance token.
package main

import (
	"fmt"
	"os"

	"github.com/spacemeshos/go-shard/cmd"
)

var (
	version string
	commit  string
	branch  string
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Branch = branch
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
