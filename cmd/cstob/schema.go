package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/afoxland/cstob"
	"github.com/afoxland/cstob/format"
)

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file>",
		Short: "Print a file's header metadata without decoding any frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchema(args[0])
		},
	}
}

func printSchema(path string) error {
	rc, err := cstob.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	r, err := cstob.NewReader(rc)
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}

	md := r.Metadata
	fmt.Printf("format:       %s\n", md.Fmt)
	fmt.Printf("station:      %s\n", md.Station)
	fmt.Printf("model:        %s\n", md.Model)
	fmt.Printf("table:        %s\n", md.Table)
	fmt.Printf("interval:     %s\n", md.Interval)
	fmt.Printf("frame_size:   %d\n", md.FrameSize)
	fmt.Printf("table_size:   %d\n", md.TableSize)
	fmt.Printf("fields:       %d\n", len(md.FieldNames))
	for i, name := range md.FieldNames {
		dtype := ""
		if i < len(md.Dtypes) {
			dtype = md.Dtypes[i]
		}
		fmt.Printf("  %-20s %s\n", name, dtype)
	}
	fmt.Printf("fingerprint:  %#x\n", md.Fingerprint())

	if md.Fmt != format.TOA5 {
		fmt.Printf("row_stride:   %d\n", r.Derived.RowStride)
		fmt.Printf("frame_nrows:  %d\n", r.Derived.FrameNRows)
		fmt.Printf("vectorisable: %t\n", r.Derived.Vectorisable)
	}

	return nil
}
