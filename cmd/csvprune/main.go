// csvprune strips the per-cylinder EGT and CHT columns from engine-monitor CSV.
package main

import (
	"os"

	"github.com/hupe1980/csvprune/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
