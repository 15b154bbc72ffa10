package schema

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/tobsdb/traceeval/internal/parser"
	"github.com/tobsdb/traceeval/internal/props"
	"github.com/tobsdb/traceeval/types"
)

// ParseSchema reads the key and value field lists from schema text:
//
//	$KEYS {
//	    comm String
//	}
//	$VALUES {
//	    delta Number64 stats(true)
//	}
//
// The $VALUES block may be omitted.
func ParseSchema(schema_data string) (keys, vals []types.Field, err error) {
	scanner := bufio.NewScanner(strings.NewReader(schema_data))
	line_idx := 0

	seen := map[parser.BlockKind]bool{}
	var current *[]types.Field
	var current_block parser.BlockKind

	for scanner.Scan() {
		line_idx++
		line := strings.TrimSpace(scanner.Text())

		// Ignore empty lines & comments
		if len(line) == 0 || strings.HasPrefix(line, "//") {
			continue
		}

		state, data, err := parser.LineParser(line)
		if err != nil {
			return nil, nil, ParseLineError(line_idx, err.Error())
		}

		switch state {
		case parser.ParserStateBlockStart:
			if current != nil {
				return nil, nil, ParseLineError(line_idx, fmt.Sprintf("Block %s is not closed", current_block))
			}
			if seen[data.Block] {
				return nil, nil, ParseLineError(line_idx, fmt.Sprintf("Duplicate block %s", data.Block))
			}
			seen[data.Block] = true
			current_block = data.Block
			if data.Block == parser.BlockKeys {
				current = &keys
			} else {
				current = &vals
			}
		case parser.ParserStateBlockEnd:
			if current == nil {
				return nil, nil, ParseLineError(line_idx, "Unexpected }")
			}
			current = nil
		case parser.ParserStateNewField:
			if current == nil {
				return nil, nil, ParseLineError(line_idx, fmt.Sprintf("Field %s declared outside a block", data.Name))
			}
			for _, f := range *current {
				if f.Name == data.Name {
					return nil, nil, ParseLineError(line_idx, fmt.Sprintf("Duplicate field %s", data.Name))
				}
			}

			new_field := types.Field{Type: data.Builtin_type, Name: data.Name}
			if err := props.ApplyProps(&new_field, data.Properties); err != nil {
				return nil, nil, ParseLineError(line_idx, err.Error())
			}
			if err := CheckFieldRules(&new_field); err != nil {
				return nil, nil, ParseLineError(line_idx, err.Error())
			}
			*current = append(*current, new_field)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}

	if current != nil {
		return nil, nil, fmt.Errorf("Block %s is not closed", current_block)
	}
	if len(keys) == 0 {
		return nil, nil, fmt.Errorf("%w: no keys declared", types.ERR_INVALID_SCHEMA)
	}

	return keys, vals, nil
}

func ParseLineError(line int, reason string) error {
	return fmt.Errorf("Error parsing line %d: %s", line, reason)
}
