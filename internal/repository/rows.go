package repository

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
)

// Row is one result row. It marshals to a JSON object whose keys keep
// the select-list order.
type Row struct {
	Columns []string
	Values  []any
}

// MarshalJSON implements json.Marshaler.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var value any
		if i < len(r.Values) {
			value = r.Values[i]
		}
		val, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col, err)
		}
		buf.Write(val)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// collectRows drains rows into a non-nil slice, decoding every value
// with the driver's default Go type.
func collectRows(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, fd := range fields {
		columns[i] = fd.Name
	}

	result := make([]Row, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		result = append(result, Row{Columns: columns, Values: values})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
