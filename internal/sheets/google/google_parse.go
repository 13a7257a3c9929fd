package google

import (
	"fmt"
	"strconv"
	"strings"
)

// toRecords converts a values matrix (as returned by Sheets API) into
// string records of exactly width cells. The API drops trailing empty cells,
// so short rows are padded; blank rows are skipped.
func toRecords(values [][]interface{}, width int) [][]string {
	out := make([][]string, 0, len(values))
	for _, row := range values {
		rec := make([]string, 0, max(width, len(row)))
		blank := true
		for _, v := range row {
			s := cellString(v)
			if strings.TrimSpace(s) != "" {
				blank = false
			}
			rec = append(rec, s)
		}
		if blank {
			continue
		}
		for len(rec) < width {
			rec = append(rec, "")
		}
		out = append(out, rec)
	}
	return out
}

// cellString renders one unformatted cell. Numbers come back from the API
// as float64 and are written out in plain positional notation.
func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func toValues(records [][]string) [][]interface{} {
	out := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		out[i] = row
	}
	return out
}

// columnName returns the A1 column letter for a 1-based column index.
func columnName(n int) string {
	if n < 1 {
		return "A"
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
