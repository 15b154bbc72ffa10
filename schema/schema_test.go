package schema_test

import (
	"errors"
	"testing"

	. "github.com/tobsdb/traceeval/schema"
	"github.com/tobsdb/traceeval/types"
	"gotest.tools/assert"
)

func dynCmp(a, b *types.Dynamic, _ *types.Field) (int, error) { return 0, nil }
func dynRelease(*types.Dynamic, *types.Field) error        { return nil }
func otherRelease(*types.Dynamic, *types.Field) error      { return nil }

func testFields() []types.Field {
	return []types.Field{
		{Type: types.FieldTypeString, Name: "comm"},
		{Type: types.FieldTypeNumber32, Name: "pid", Flags: types.FlagSigned},
		{Type: types.FieldTypeNumber64, Name: "pid"},
	}
}

func TestNewKeys(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := NewKeys(nil)
		assert.Assert(t, errors.Is(err, types.ERR_INVALID_SCHEMA))
		_, err = NewKeys([]types.Field{})
		assert.ErrorContains(t, err, "key schema cannot be empty")
	})

	t.Run("none type", func(t *testing.T) {
		_, err := NewKeys([]types.Field{{Name: "none"}})
		assert.ErrorContains(t, err, "field(none) has invalid type")
	})

	t.Run("empty values allowed", func(t *testing.T) {
		s, err := New(nil)
		assert.NilError(t, err)
		assert.Equal(t, s.Len(), 0)
	})
}

func TestSchemaIsACopy(t *testing.T) {
	fields := testFields()
	s, err := NewKeys(fields)
	assert.NilError(t, err)

	fields[0].Name = "changed"
	fields[1].Type = types.FieldTypeNumber8
	assert.Equal(t, s.Field(0).Name, "comm")
	assert.Equal(t, s.Field(1).Type, types.FieldTypeNumber32)

	copied := s.Fields()
	copied[0].Name = "changed"
	assert.Equal(t, s.Field(0).Name, "comm")
}

func TestFindIndex(t *testing.T) {
	s, err := NewKeys(testFields())
	assert.NilError(t, err)

	// repeated lookups are stable; duplicates resolve to the first match
	for i := 0; i < 3; i++ {
		idx, ok := s.FindIndex("pid")
		assert.Assert(t, ok)
		assert.Equal(t, idx, 1)
	}

	_, ok := s.FindIndex("missing")
	assert.Assert(t, !ok)
	_, ok = s.FindIndex(HITS)
	assert.Assert(t, !ok)
	_, ok = s.FindIndex("")
	assert.Assert(t, !ok)
}

func TestEqual(t *testing.T) {
	a, _ := NewKeys(testFields())
	b, _ := NewKeys(testFields())
	assert.Assert(t, Equal(a, b))

	diff := testFields()
	diff[2].Name = "tid"
	c, _ := NewKeys(diff)
	assert.Assert(t, !Equal(a, c))

	shorter, _ := NewKeys(testFields()[:2])
	assert.Assert(t, !Equal(a, shorter))

	flags := testFields()
	flags[0].Flags = types.FlagStats
	d, _ := NewKeys(flags)
	assert.Assert(t, !Equal(a, d))

	empty1, _ := New(nil)
	empty2, _ := New([]types.Field{})
	assert.Assert(t, Equal(empty1, empty2))

	t.Run("callback identity", func(t *testing.T) {
		dyn := []types.Field{{Type: types.FieldTypeDynamic, Name: "blob", Cmp: dynCmp, Release: dynRelease}}
		x, err := NewKeys(dyn)
		assert.NilError(t, err)
		y, _ := NewKeys(dyn)
		assert.Assert(t, Equal(x, y))

		dyn[0].Release = otherRelease
		z, _ := NewKeys(dyn)
		assert.Assert(t, !Equal(x, z))
	})
}

func TestCheckFieldRules(t *testing.T) {
	t.Run("dynamic without cmp", func(t *testing.T) {
		err := CheckFieldRules(&types.Field{Type: types.FieldTypeDynamic, Name: "blob", Release: dynRelease})
		assert.ErrorContains(t, err, "field(blob Dynamic) must have a cmp callback")
	})

	t.Run("dynamic without release", func(t *testing.T) {
		err := CheckFieldRules(&types.Field{Type: types.FieldTypeDynamic, Name: "blob", Cmp: dynCmp})
		assert.ErrorContains(t, err, "field(blob Dynamic) must have a release callback")
	})

	t.Run("callbacks on a number", func(t *testing.T) {
		err := CheckFieldRules(&types.Field{Type: types.FieldTypeNumber, Name: "n", Cmp: dynCmp})
		assert.ErrorContains(t, err, "field(n Number) cannot have dynamic callbacks")
	})

	t.Run("nul in name", func(t *testing.T) {
		err := CheckFieldRules(&types.Field{Type: types.FieldTypeNumber, Name: HITS})
		assert.ErrorContains(t, err, "name cannot contain NUL")
	})

	t.Run("stats on a string is allowed", func(t *testing.T) {
		err := CheckFieldRules(&types.Field{Type: types.FieldTypeString, Name: "s", Flags: types.FlagStats})
		assert.NilError(t, err)
	})
}
