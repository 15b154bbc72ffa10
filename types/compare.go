package types

import (
	"fmt"
	"strconv"
	"strings"
)

func invalidFieldTypeError(input any, field *Field) error {
	return fmt.Errorf("%w: invalid field type for %s: %T", ERR_INVALID_DATA, field, input)
}

// ValidateValue checks that v can be stored in field.
func ValidateValue(field *Field, v Value) error {
	if !field.Type.IsValid() {
		return fmt.Errorf("%w: unsupported field type %q", ERR_INVALID_DATA, field.Type)
	}
	if v == nil {
		return fmt.Errorf("%w: missing value for %s", ERR_INVALID_DATA, field)
	}
	if v.FieldType() != field.Type {
		return invalidFieldTypeError(v, field)
	}
	if d, ok := v.(*Dynamic); ok && d == nil {
		return fmt.Errorf("%w: missing value for %s", ERR_INVALID_DATA, field)
	}
	return nil
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Compare orders a and b as values of field. Numbers compare by unsigned
// magnitude, strings byte-wise, dynamic values through field.Cmp.
func Compare(field *Field, a, b Value) (int, error) {
	if err := ValidateValue(field, a); err != nil {
		return 0, err
	}
	if err := ValidateValue(field, b); err != nil {
		return 0, err
	}

	switch field.Type {
	case FieldTypeString:
		return strings.Compare(string(a.(String)), string(b.(String))), nil
	case FieldTypeDynamic:
		if field.Cmp == nil {
			return 0, fmt.Errorf("%w: no comparator for %s", ERR_CALLBACK, field)
		}
		res, err := field.Cmp(a.(*Dynamic), b.(*Dynamic), field)
		if err != nil {
			return 0, fmt.Errorf("%w: comparing %s: %w", ERR_CALLBACK, field, err)
		}
		return sign(res), nil
	default:
		x, _ := Uint64(a)
		y, _ := Uint64(b)
		return cmpUint(x, y), nil
	}
}

func sign(i int) int {
	switch {
	case i < 0:
		return -1
	case i > 0:
		return 1
	}
	return 0
}

// Equal is Compare reduced to equality.
func Equal(field *Field, a, b Value) (bool, error) {
	res, err := Compare(field, a, b)
	return res == 0, err
}

// Release frees a value owned by a table. Only dynamic values need work.
func Release(field *Field, v Value) error {
	d, ok := v.(*Dynamic)
	if !ok || d == nil || field.Type != FieldTypeDynamic || field.Release == nil {
		return nil
	}
	if err := field.Release(d, field); err != nil {
		return fmt.Errorf("%w: releasing %s: %w", ERR_CALLBACK, field, err)
	}
	return nil
}

// Clone copies v so that a table can own it.
func Clone(field *Field, v Value) (Value, error) {
	switch v := v.(type) {
	case String:
		return String(strings.Clone(string(v))), nil
	case *Dynamic:
		if field.Clone == nil {
			return v, nil
		}
		c, err := field.Clone(v, field)
		if err != nil {
			return nil, fmt.Errorf("%w: cloning %s: %w", ERR_ALLOCATION, field, err)
		}
		if c == nil {
			return nil, fmt.Errorf("%w: clone of %s returned nothing", ERR_ALLOCATION, field)
		}
		return c, nil
	}
	return v, nil
}

// Format renders v for display. FlagSigned reinterprets the bits at the
// field's width.
func Format(field *Field, v Value) string {
	switch v := v.(type) {
	case nil:
		return "<nil>"
	case String:
		return string(v)
	case *Dynamic:
		if v == nil {
			return "<nil>"
		}
		return fmt.Sprintf("<dynamic %d bytes>", v.Size)
	}

	n, _ := Uint64(v)
	if !field.IsSigned() {
		return strconv.FormatUint(n, 10)
	}
	var s int64
	switch v.(type) {
	case Number8:
		s = int64(int8(n))
	case Number16:
		s = int64(int16(n))
	case Number32:
		s = int64(int32(n))
	default:
		s = int64(n)
	}
	return strconv.FormatInt(s, 10)
}
