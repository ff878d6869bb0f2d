// Command rotord is the rolling-horizon EV rotation optimiser driver:
// it loads one fleet snapshot from a data directory, runs
// branch-and-price over successive planning horizons, and writes the
// resulting schedule plus statistics back out as CSV.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rotord",
		Short: "EV fleet rotation branch-and-price optimiser",
	}
	root.AddCommand(runCmd())
	return root
}
