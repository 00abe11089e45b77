package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/afoxland/cstob"
	"github.com/afoxland/cstob/config"
	"github.com/afoxland/cstob/format"
)

func newDumpCmd() *cobra.Command {
	var chunkSize int
	var clockDrift bool

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Decode a file and print its rows as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return dump(args[0], chunkSize, clockDrift)
		},
	}
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "emit rows in chunks of this size instead of the whole file at once")
	cmd.Flags().BoolVar(&clockDrift, "clock-drift", false, "enable reference/reported clock-drift correction")

	return cmd
}

func dump(path string, chunkSize int, clockDrift bool) error {
	rc, err := cstob.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer rc.Close()

	opts := []cstob.Option{config.WithClockDriftPolicy(clockDrift, 1.1)}

	r, err := cstob.NewReader(rc, opts...)
	if err != nil {
		return fmt.Errorf("reading header of %s: %w", path, err)
	}

	if r.Metadata.Fmt == format.TOA5 {
		// NewReader has already buffered past line 1 of rc; reopen the
		// file so toa5.Decode sees every header row from the start.
		rc.Close()
		rc, err = cstob.Open(path)
		if err != nil {
			return fmt.Errorf("reopening %s: %w", path, err)
		}
		defer rc.Close()

		table, err := cstob.DecodeTOA5(rc)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
		fmt.Println(prettyJSON(table))

		return nil
	}

	for table, err := range r.Chunks(chunkSize) {
		if err != nil {
			return fmt.Errorf("decoding %s: %w", path, err)
		}
		fmt.Println(prettyJSON(table))
	}

	for _, w := range r.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	return nil
}

func prettyJSON(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("<unmarshalable: %v>", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, buf, "", "  "); err != nil {
		return string(buf)
	}

	return pretty.String()
}
