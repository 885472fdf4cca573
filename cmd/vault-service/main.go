package main

import (
	"os"

	"github.com/memvault/memory-vault/vaultservice"
)

func main() {
	if err := vaultservice.Run(); err != nil {
		os.Exit(1)
	}
}
