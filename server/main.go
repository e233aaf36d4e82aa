package main

import (
	"os"

	"costumeshop/server/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
