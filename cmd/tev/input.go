package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tobsdb/traceeval/hist"
	"github.com/tobsdb/traceeval/pkg"
	"github.com/tobsdb/traceeval/schema"
	"github.com/tobsdb/traceeval/types"
)

// load inserts one record per JSON object line of r. Objects map field
// names to values; numbers must fit the field's width, and signed fields
// take the signed range of that width.
func load(table *hist.Table, r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	line_idx, n := 0, 0

	for scanner.Scan() {
		line_idx++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}

		row := map[string]json.RawMessage{}
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return n, fmt.Errorf("line %d: %w", line_idx, err)
		}

		keys, err := buildRecord(table.KeySchema(), row)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line_idx, err)
		}
		vals, err := buildRecord(table.ValSchema(), row)
		if err != nil {
			return n, fmt.Errorf("line %d: %w", line_idx, err)
		}

		if err := table.Insert(keys, vals); err != nil {
			return n, fmt.Errorf("line %d: %w", line_idx, err)
		}
		n++
	}
	pkg.InfoLog("inserted", n, "records into", table.Len(), "entries")
	return n, scanner.Err()
}

func buildRecord(s *schema.Schema, row map[string]json.RawMessage) (types.Record, error) {
	record := make(types.Record, s.Len())
	for i := range record {
		field := s.Field(i)
		raw, ok := row[field.Name]
		if !ok {
			return nil, fmt.Errorf("%w: missing field %s", types.ERR_INVALID_DATA, field.Name)
		}
		v, err := parseValue(field, raw)
		if err != nil {
			return nil, err
		}
		record[i] = v
	}
	return record, nil
}

func parseValue(field *types.Field, raw json.RawMessage) (types.Value, error) {
	if field.Type == types.FieldTypeString {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %s", types.ERR_INVALID_DATA, field.Name, err)
		}
		return types.String(s), nil
	}

	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return nil, fmt.Errorf("%w: %s: %s", types.ERR_INVALID_DATA, field.Name, err)
	}

	bit_size := field.Type.BitSize()
	if bit_size == 0 {
		return nil, fmt.Errorf("%w: unsupported field type %q", types.ERR_INVALID_DATA, field.Type)
	}

	var n uint64
	var err error
	if field.IsSigned() {
		var s int64
		s, err = strconv.ParseInt(num.String(), 10, bit_size)
		n = uint64(s)
	} else {
		n, err = strconv.ParseUint(num.String(), 10, bit_size)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", types.ERR_INVALID_DATA, field.Name, err)
	}

	v, ok := types.NumberOf(field.Type, n)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported field type %q", types.ERR_INVALID_DATA, field.Type)
	}
	return v, nil
}
