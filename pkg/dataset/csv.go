package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Symbols treated as missing cells in cohort exports, matching what the
// platform's CSV exporter emits for absent values.
var missingSymbols = map[string]struct{}{
	"":     {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
}

// FromCSV reads a cohort export into a Table. The first record is the
// header; every cell is parsed as a float, with unparseable or empty
// cells marked missing rather than rejected.
func FromCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	names := make([]string, len(header))
	for i, name := range header {
		names[i] = strings.TrimSpace(name)
	}

	values := make([][]float64, len(names))
	missing := make([][]bool, len(names))

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		for i := range names {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			if _, ok := missingSymbols[strings.ToLower(cell)]; ok {
				values[i] = append(values[i], 0)
				missing[i] = append(missing[i], true)
				continue
			}
			parsed, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				values[i] = append(values[i], 0)
				missing[i] = append(missing[i], true)
				continue
			}
			values[i] = append(values[i], parsed)
			missing[i] = append(missing[i], false)
		}
	}

	table := NewTable()
	for i, name := range names {
		if err := table.AddColumn(name, values[i], missing[i]); err != nil {
			return nil, err
		}
	}
	return table, nil
}
