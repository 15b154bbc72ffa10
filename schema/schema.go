package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tobsdb/traceeval/types"
)

// HITS names the hit-count pseudo-field wherever a sort field is accepted.
// Declared names may not contain NUL, so FindIndex never resolves it.
const HITS = "\x00hits"

// Schema is an ordered, immutable list of field descriptors. It owns its
// own copy of every descriptor.
type Schema struct {
	fields []types.Field
}

// New builds a schema that may be empty (value schemas).
func New(fields []types.Field) (*Schema, error) {
	s := &Schema{fields: make([]types.Field, 0, len(fields))}
	for i := range fields {
		field := fields[i]
		if err := CheckFieldRules(&field); err != nil {
			return nil, fmt.Errorf("%w: field %d: %s", types.ERR_INVALID_SCHEMA, i, err.Error())
		}
		field.Name = strings.Clone(field.Name)
		s.fields = append(s.fields, field)
	}
	return s, nil
}

// NewKeys builds a key schema, which must hold at least one field.
func NewKeys(fields []types.Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: key schema cannot be empty", types.ERR_INVALID_SCHEMA)
	}
	return New(fields)
}

func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.fields)
}

// Field returns the descriptor at i. It is owned by the schema and must
// not be modified.
func (s *Schema) Field(i int) *types.Field { return &s.fields[i] }

// Fields returns a copy of every descriptor.
func (s *Schema) Fields() []types.Field {
	if s == nil {
		return nil
	}
	return append([]types.Field(nil), s.fields...)
}

// FindIndex returns the position of the first field called name.
func (s *Schema) FindIndex(name string) (int, bool) {
	if s == nil || len(name) == 0 || name == HITS {
		return -1, false
	}
	for i := range s.fields {
		if s.fields[i].Name == name {
			return i, true
		}
	}
	return -1, false
}

// Equal compares two schemas field by field. Callbacks compare by
// identity.
func Equal(a, b *Schema) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !fieldEqual(a.Field(i), b.Field(i)) {
			return false
		}
	}
	return true
}

func fieldEqual(a, b *types.Field) bool {
	return a.Type == b.Type &&
		a.Name == b.Name &&
		a.Flags == b.Flags &&
		a.ID == b.ID &&
		sameFunc(a.Cmp, b.Cmp) &&
		sameFunc(a.Release, b.Release) &&
		sameFunc(a.Clone, b.Clone)
}

func sameFunc(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.IsNil() || vb.IsNil() {
		return va.IsNil() == vb.IsNil()
	}
	return va.Pointer() == vb.Pointer()
}
