package props

import "slices"

type FieldProp string

var VALID_BUILTIN_PROPS = []FieldProp{
	FieldPropStats, FieldPropSigned, FieldPropId,
}

const (
	FieldPropStats  FieldProp = "stats"  // stats(true/false)
	FieldPropSigned FieldProp = "signed" // signed(true/false)
	FieldPropId     FieldProp = "id"     // id(n)
)

func (p FieldProp) IsValid() bool {
	return slices.Contains(VALID_BUILTIN_PROPS, p)
}
