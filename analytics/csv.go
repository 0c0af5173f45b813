package analytics

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"google.golang.org/api/youtubeanalytics/v2"
)

// ToCSV renders a metrics response as CSV, prepending the video id as the
// first column of the header and of every row.
func ToCSV(resp *youtubeanalytics.QueryResponse, videoID string) (string, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := make([]string, 0, len(resp.ColumnHeaders)+1)
	header = append(header, "video_id")
	for _, col := range resp.ColumnHeaders {
		header = append(header, col.Name)
	}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}

	for _, row := range resp.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, videoID)
		for _, value := range row {
			record = append(record, formatValue(value))
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatValue renders a JSON-decoded cell as text. Numbers print without a
// trailing fraction when they are whole.
func formatValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
