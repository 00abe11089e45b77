package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afoxland/cstob/batch"
)

func newBatchCmd() *cobra.Command {
	var maxConcurrency int

	cmd := &cobra.Command{
		Use:   "batch <file> [file...]",
		Short: "Decode several independent files concurrently and report row counts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(args, maxConcurrency)
		},
	}
	cmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "cap the number of files decoded at once (0 = unbounded)")

	return cmd
}

func runBatch(paths []string, maxConcurrency int) error {
	results := batch.DecodeWholeAll(context.Background(), paths, maxConcurrency)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%s: error: %v\n", r.Path, r.Err)
			failed++

			continue
		}
		fmt.Printf("%s: %d rows\n", r.Path, r.Table.Rows())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed to decode", failed, len(paths))
	}

	return nil
}
