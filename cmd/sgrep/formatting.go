package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"

	"github.com/arthur-debert/sgrep/pkg/resolver"
)

func stylingEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printError(msg string) {
	if stylingEnabled() {
		pterm.Error.WithWriter(os.Stderr).Println(msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}

func printInfo(msg string) {
	if stylingEnabled() {
		pterm.Info.Println(msg)
		return
	}
	fmt.Println(msg)
}

// printSummary lists each resolved config id with its parse outcome.
func printSummary(configs resolver.ConfigSet) {
	ids := make([]string, 0, len(configs))
	for id := range configs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		if configs[id] == nil {
			printError(fmt.Sprintf("%s: invalid", id))
			continue
		}
		printInfo(fmt.Sprintf("%s: ok", id))
	}
}
