// Package workload reads process tables from CSV.
package workload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vinhtrinh326/prrsched/internal/process"
)

// Columns maps accepted header names to the field they fill.
var Columns = map[string]string{
	"pid":      "pid",
	"id":       "pid",
	"arrive":   "arrive",
	"arrival":  "arrive",
	"burst":    "burst",
	"priority": "priority",
}

var required = []string{"pid", "arrive", "burst", "priority"}

// Load parses a CSV workload whose first row names the columns. Every data
// row becomes one process in file order.
func Load(r io.Reader) ([]*process.Process, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []*process.Process{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading CSV header: %v", process.ErrInvalidInput, err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	processes := make([]*process.Process, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading CSV: %v", process.ErrInvalidInput, err)
		}

		var fields [4]int64
		for i, name := range required {
			v, err := strToInt(row[index[name]])
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %q: %v", process.ErrInvalidInput, line, name, err)
			}
			fields[i] = v
		}

		p := process.New(fields[0], fields[1], fields[2], fields[3])
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		processes = append(processes, p)
	}

	return processes, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(required))
	for i, h := range header {
		name, ok := Columns[strings.ToLower(strings.TrimSpace(h))]
		if !ok {
			continue
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", process.ErrInvalidInput, h)
		}
		index[name] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", process.ErrInvalidInput, name)
		}
	}
	return index, nil
}

func strToInt(s string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
}
