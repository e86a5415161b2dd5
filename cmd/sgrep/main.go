package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		// Fatal resolution errors surface here and nowhere else; every
		// layer below returns errors instead of exiting.
		printError(err.Error())
		os.Exit(1)
	}
}
