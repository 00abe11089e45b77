// Command cstob dumps Campbell Scientific datalogger files to JSON or
// reports basic schema information, for spot-checking files outside of
// Go code.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "cstob",
		Short: "A Campbell Scientific datalogger file decoder",
		Long:  "cstob decodes TOB2/TOB3 binary and TOA5 ASCII datalogger files (TOB1 is recognised but not decoded).",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("cstob 0.1.0")
		},
	}
}
