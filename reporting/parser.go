package reporting

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseReport converts delimited report content into one mapping per data
// row, keyed by the header row's field names. All values remain text. Short
// rows are padded with empty strings; extra fields beyond the header are
// dropped.
func ParseReport(content string) ([]map[string]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse report header: %w", err)
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse report row %d: %w", len(rows)+1, err)
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
