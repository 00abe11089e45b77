// Package toa5 reads the textual TOA5 format: a conventional CSV file
// with four header rows (environment, field names, units, process) above
// the data,
// "TIMESTAMP" as its date column, and "-9999"/"NAN" as missing-value
// sentinels. Parsing is delegated entirely to encoding/csv; this package
// adds only the TOA5-specific header skip and sentinel handling named in
// scenario S5.
package toa5

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/afoxland/cstob/errs"
)

// Table is a TOA5 file's data rows. Timestamp holds the parsed
// "TIMESTAMP" column; Columns holds every other column as raw cell
// strings. Float turns a "-9999" or "NAN" cell into math.NaN() rather
// than a parse error.
type Table struct {
	FieldNames []string
	Timestamp  []time.Time
	Columns    map[string][]string
}

const timestampLayout = "2006-01-02 15:04:05"

var missingTokens = map[string]bool{"-9999": true, "NAN": true, "\"NAN\"": true}

// IsMissing reports whether a raw TOA5 cell is one of the format's
// documented missing-value sentinels.
func IsMissing(cell string) bool {
	return missingTokens[strings.TrimSpace(cell)]
}

// Decode reads a TOA5 file from rd: the first header line (environment
// metadata), skips it, reads field names from the second line, skips the
// units and process rows, then reads data rows to end-of-file.
func Decode(rd io.Reader) (Table, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil { // row 1: environment metadata, discarded
		return Table{}, fmt.Errorf("%w: %v", errs.ErrMalformedHeader, err)
	}

	fieldNames, err := cr.Read() // row 2: field names
	if err != nil {
		return Table{}, fmt.Errorf("%w: %v", errs.ErrMalformedHeader, err)
	}

	if _, err := cr.Read(); err != nil { // row 3: units, discarded
		return Table{}, fmt.Errorf("%w: %v", errs.ErrMalformedHeader, err)
	}
	if _, err := cr.Read(); err != nil { // row 4: process labels, discarded
		return Table{}, fmt.Errorf("%w: %v", errs.ErrMalformedHeader, err)
	}

	timestampCol := -1
	for i, name := range fieldNames {
		if name == "TIMESTAMP" {
			timestampCol = i
			break
		}
	}

	table := Table{
		FieldNames: fieldNames,
		Columns:    make(map[string][]string, len(fieldNames)),
	}

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, err
		}

		if timestampCol >= 0 && timestampCol < len(record) {
			ts, err := time.Parse(timestampLayout, record[timestampCol])
			if err == nil {
				table.Timestamp = append(table.Timestamp, ts)
			}
		}

		for i, name := range fieldNames {
			if i == timestampCol || i >= len(record) {
				continue
			}
			table.Columns[name] = append(table.Columns[name], record[i])
		}
	}

	return table, nil
}

// Float parses a TOA5 cell as a float64, returning math.NaN for a missing
// sentinel rather than an error.
func Float(cell string) (float64, error) {
	if IsMissing(cell) {
		return math.NaN(), nil
	}

	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}
