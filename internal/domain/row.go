package domain

import (
	"encoding/json"
	"iter"
	"strconv"
)

// Row is one line of a flattened table.
type Row []any

// Strings renders every cell with FormatValue.
func (r Row) Strings() []string {
	out := make([]string, len(r))
	for i, v := range r {
		out[i] = FormatValue(v)
	}
	return out
}

// FormatValue renders a decoded scalar the way a table cell shows it.
// Null renders as an empty string.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case *Node:
		b, err := t.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	default:
		b, err := json.Marshal(rawValue(v))
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// CollectRows drains a row sequence. On failure it returns the rows
// produced before the error together with the error.
func CollectRows(seq iter.Seq2[Row, error]) ([]Row, error) {
	var rows []Row
	for row, err := range seq {
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
