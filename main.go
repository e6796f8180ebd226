package main

import (
	"os"

	"github.com/treekey/treepages/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
