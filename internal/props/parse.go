package props

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tobsdb/traceeval/types"
)

func ParseBoolPropSafe(prop FieldProp, value string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("Invalid syntax: %s(%s)", prop, value)
	}
	return b, nil
}

func ParseIdPropSafe(value string) (int, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("id(%s) is not a valid prop; %s", value, err.Error())
	} else if id < 0 {
		return 0, fmt.Errorf("id(%s) is not a valid prop; id must be >= 0", value)
	}
	return int(id), nil
}

// ApplyProps sets the flags and id carried by raw props on field.
func ApplyProps(field *types.Field, raw map[FieldProp]string) error {
	for prop, value := range raw {
		switch prop {
		case FieldPropStats, FieldPropSigned:
			on, err := ParseBoolPropSafe(prop, value)
			if err != nil {
				return err
			}
			flag := types.FlagStats
			if prop == FieldPropSigned {
				flag = types.FlagSigned
			}
			if on {
				field.Flags |= flag
			} else {
				field.Flags &^= flag
			}
		case FieldPropId:
			id, err := ParseIdPropSafe(value)
			if err != nil {
				return err
			}
			field.ID = id
		default:
			return fmt.Errorf("Invalid field prop: %s", prop)
		}
	}
	return nil
}
