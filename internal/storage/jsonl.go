// Package storage handles tabular rows in JSONL and SQLite formats.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// MaxJSONLLineCapacity is the maximum buffer size for reading JSONL lines (1MB per line).
const MaxJSONLLineCapacity = 1024 * 1024

// Cell can unmarshal from any JSON scalar into its text form.
// Numbers keep their literal spelling so that a year of 2020 reads as "2020".
type Cell string

func (c *Cell) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)

	// Handle null
	if string(trimmed) == "null" {
		*c = ""
		return nil
	}

	// Try string first
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		*c = Cell(s)
		return nil
	}

	// Try number
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		*c = Cell(n.String())
		return nil
	}

	// Try bool
	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*c = Cell(strconv.FormatBool(b))
		return nil
	}

	// Arrays and objects are kept as raw JSON text
	if json.Valid(trimmed) {
		*c = Cell(trimmed)
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into Cell", string(data))
}

func (c Cell) String() string {
	return string(c)
}

// ReadJSONL reads one JSON object per line and returns a header plus rows.
//
// The header lists keys in first-seen order across all lines. Keys missing
// from a line produce empty cells.
func ReadJSONL(r io.Reader) ([]string, [][]string, error) {
	scanner := bufio.NewScanner(r)

	// Increase buffer size for long lines
	buf := make([]byte, MaxJSONLLineCapacity)
	scanner.Buffer(buf, MaxJSONLLineCapacity)

	var header []string
	index := make(map[string]int)
	var objects []map[string]string

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue // Skip empty lines
		}

		keys, values, err := decodeObject(line)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		obj := make(map[string]string, len(keys))
		for i, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(header)
				header = append(header, k)
			}
			obj[k] = values[i]
		}
		objects = append(objects, obj)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading JSONL: %w", err)
	}

	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(header))
		for k, v := range obj {
			row[index[k]] = v
		}
		rows[i] = row
	}

	return header, rows, nil
}

// decodeObject decodes a JSON object, keeping key order.
func decodeObject(line []byte) ([]string, []string, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected JSON object")
	}

	var keys, values []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}

		var cell Cell
		if err := dec.Decode(&cell); err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, cell.String())
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	return keys, values, nil
}

// WriteJSONL writes each row as a JSON object keyed by header, one per line.
// Keys are written in header order.
func WriteJSONL(w io.Writer, header []string, rows [][]string) error {
	bw := bufio.NewWriter(w)

	for i, row := range rows {
		var buf bytes.Buffer
		buf.WriteByte('{')
		for j, name := range header {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return fmt.Errorf("encoding key %q: %w", name, err)
			}
			var value string
			if j < len(row) {
				value = row[j]
			}
			val, err := json.Marshal(value)
			if err != nil {
				return fmt.Errorf("encoding row %d: %w", i, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteString("}\n")

		if _, err := bw.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}

	return bw.Flush()
}
