// The main package for the bbref executable.
package main

import (
	"github.com/JakeFAU/bbref-scraper/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
