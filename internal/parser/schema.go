package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/tobsdb/traceeval/internal/props"
	"github.com/tobsdb/traceeval/pkg"
	"github.com/tobsdb/traceeval/types"
)

type LineParserState int

const (
	ParserStateBlockStart LineParserState = iota
	ParserStateBlockEnd
	ParserStateNewField
	ParserStateIdle
)

type BlockKind string

const (
	BlockKeys   BlockKind = "KEYS"
	BlockValues BlockKind = "VALUES"
)

type ParserData struct {
	Name         string
	Block        BlockKind
	Builtin_type types.FieldType
	Properties   map[props.FieldProp]string
}

const block_prefix = "$"

var (
	nameRegexp = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	propRegexp = regexp.MustCompile(`(?m)(\w+)\(([^)]*)\)`)
)

// LineParser parses one trimmed, non-empty schema line:
//
//	$KEYS {
//	    comm String
//	    pid Number32 signed(true)
//	}
func LineParser(line string) (LineParserState, *ParserData, error) {
	if strings.HasPrefix(line, block_prefix) {
		return parseBlockStart(line[len(block_prefix):])
	} else if line == "}" {
		return ParserStateBlockEnd, nil, nil
	}

	splits := strings.Split(strings.ReplaceAll(line, "\t", " "), " ")
	splits = pkg.Filter(splits, func(s string) bool { return len(s) > 0 })
	if len(splits) == 0 {
		return ParserStateIdle, nil, errors.New("Invalid line")
	}
	if !nameRegexp.MatchString(splits[0]) {
		return ParserStateIdle, nil, errors.New("Field name contains invalid characters")
	}
	if len(splits) < 2 {
		return ParserStateIdle, nil, fmt.Errorf("Field %s does not have a type", splits[0])
	}

	builtin_type := types.FieldType(splits[1])
	if err := validateFieldType(builtin_type); err != nil {
		return ParserStateIdle, nil, err
	}

	field_props, err := parseRawFieldProps(strings.Join(splits[2:], " "))
	if err != nil {
		return ParserStateIdle, nil, err
	}

	return ParserStateNewField, &ParserData{
		Name:         splits[0],
		Builtin_type: builtin_type,
		Properties:   field_props,
	}, nil
}

func parseBlockStart(line string) (LineParserState, *ParserData, error) {
	name_end := strings.Index(line, " ")
	if name_end <= 0 {
		return ParserStateIdle, nil, errors.New("Invalid line")
	}
	if strings.TrimSpace(line[name_end:]) != "{" {
		return ParserStateIdle, nil, errors.New("Block name cannot include space")
	}

	block := BlockKind(line[:name_end])
	if block != BlockKeys && block != BlockValues {
		return ParserStateIdle, nil, fmt.Errorf("Invalid block: %s", block)
	}
	return ParserStateBlockStart, &ParserData{Block: block}, nil
}

func parseRawFieldProps(raw string) (map[props.FieldProp]string, error) {
	field_props := make(map[props.FieldProp]string)

	for _, match := range propRegexp.FindAllStringSubmatch(raw, -1) {
		prop, value := props.FieldProp(match[1]), strings.TrimSpace(match[2])
		if !prop.IsValid() {
			return nil, fmt.Errorf("Invalid field prop: %s", prop)
		}
		if len(value) == 0 {
			return nil, fmt.Errorf("No value for prop: %s", prop)
		}
		field_props[prop] = value
	}

	return field_props, nil
}

func validateFieldType(builtin_type types.FieldType) error {
	if !builtin_type.IsValid() {
		return fmt.Errorf("Invalid field type: %s", builtin_type)
	}
	if builtin_type == types.FieldTypeDynamic {
		return errors.New("Dynamic fields must be declared in code")
	}
	return nil
}
