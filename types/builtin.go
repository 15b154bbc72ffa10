package types

import "slices"

var VALID_BUILTIN_TYPES = []FieldType{
	FieldTypeString, FieldTypeNumber, FieldTypeNumber64,
	FieldTypeNumber32, FieldTypeNumber16, FieldTypeNumber8, FieldTypeDynamic,
}

type FieldType string

const (
	// FieldTypeNone is the absent tag. It is never valid in a schema.
	FieldTypeNone     FieldType = ""
	FieldTypeString   FieldType = "String"
	FieldTypeNumber   FieldType = "Number"
	FieldTypeNumber64 FieldType = "Number64"
	FieldTypeNumber32 FieldType = "Number32"
	FieldTypeNumber16 FieldType = "Number16"
	FieldTypeNumber8  FieldType = "Number8"
	FieldTypeDynamic  FieldType = "Dynamic"
)

func (t FieldType) IsValid() bool {
	return slices.Contains(VALID_BUILTIN_TYPES, t)
}

func (t FieldType) IsNumeric() bool {
	switch t {
	case FieldTypeNumber, FieldTypeNumber64, FieldTypeNumber32,
		FieldTypeNumber16, FieldTypeNumber8:
		return true
	}
	return false
}

// BitSize is the width of a numeric type, or 0.
func (t FieldType) BitSize() int {
	switch t {
	case FieldTypeNumber, FieldTypeNumber64:
		return 64
	case FieldTypeNumber32:
		return 32
	case FieldTypeNumber16:
		return 16
	case FieldTypeNumber8:
		return 8
	}
	return 0
}

type FieldFlag uint

const (
	// FlagSigned is a display hint; comparisons stay unsigned.
	FlagSigned FieldFlag = 1 << iota
	// FlagStats keeps running statistics for a numeric value field.
	FlagStats
)

func (f FieldFlag) Has(flag FieldFlag) bool { return f&flag == flag }
