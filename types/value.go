package types

// Value is one typed datum of a Record. The concrete Go type must match
// the FieldType of the field it is paired with. Only the types below
// implement it.
type Value interface {
	FieldType() FieldType
	isValue()
}

type (
	String   string
	Number   uint64
	Number64 uint64
	Number32 uint32
	Number16 uint16
	Number8  uint8
)

// Dynamic is an opaque payload. The engine never looks inside Data; the
// field's callbacks do.
type Dynamic struct {
	Size int
	Data any
}

func (String) FieldType() FieldType   { return FieldTypeString }
func (Number) FieldType() FieldType   { return FieldTypeNumber }
func (Number64) FieldType() FieldType { return FieldTypeNumber64 }
func (Number32) FieldType() FieldType { return FieldTypeNumber32 }
func (Number16) FieldType() FieldType { return FieldTypeNumber16 }
func (Number8) FieldType() FieldType  { return FieldTypeNumber8 }
func (*Dynamic) FieldType() FieldType { return FieldTypeDynamic }

func (String) isValue()   {}
func (Number) isValue()   {}
func (Number64) isValue() {}
func (Number32) isValue() {}
func (Number16) isValue() {}
func (Number8) isValue()  {}
func (*Dynamic) isValue() {}

// Record is a tuple of values positionally paired with a schema.
type Record []Value

// Uint64 widens any numeric value to its unsigned magnitude.
func Uint64(v Value) (uint64, bool) {
	switch v := v.(type) {
	case Number:
		return uint64(v), true
	case Number64:
		return uint64(v), true
	case Number32:
		return uint64(v), true
	case Number16:
		return uint64(v), true
	case Number8:
		return uint64(v), true
	}
	return 0, false
}

// NumberOf builds the numeric value of type t holding n, truncated to the
// width of t.
func NumberOf(t FieldType, n uint64) (Value, bool) {
	switch t {
	case FieldTypeNumber:
		return Number(n), true
	case FieldTypeNumber64:
		return Number64(n), true
	case FieldTypeNumber32:
		return Number32(n), true
	case FieldTypeNumber16:
		return Number16(n), true
	case FieldTypeNumber8:
		return Number8(n), true
	}
	return nil, false
}
