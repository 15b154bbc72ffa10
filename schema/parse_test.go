package schema_test

import (
	"testing"

	. "github.com/tobsdb/traceeval/schema"
	"github.com/tobsdb/traceeval/types"
	"gotest.tools/assert"
)

func TestParseSchema(t *testing.T) {
	keys, vals, err := ParseSchema(`
// per task wakeup latency
$KEYS {
    comm String
    pid Number32 signed(true)
}

$VALUES {
	delta Number64 stats(true)
	cpu Number8 id(1)
}
        `)
	assert.NilError(t, err)
	assert.DeepEqual(t, keys, []types.Field{
		{Type: types.FieldTypeString, Name: "comm"},
		{Type: types.FieldTypeNumber32, Name: "pid", Flags: types.FlagSigned},
	})
	assert.DeepEqual(t, vals, []types.Field{
		{Type: types.FieldTypeNumber64, Name: "delta", Flags: types.FlagStats},
		{Type: types.FieldTypeNumber8, Name: "cpu", ID: 1},
	})
}

func TestParseSchemaKeysOnly(t *testing.T) {
	keys, vals, err := ParseSchema("$KEYS {\n a Number\n }")
	assert.NilError(t, err)
	assert.Equal(t, len(keys), 1)
	assert.Equal(t, len(vals), 0)
}

func TestParseSchemaNoKeys(t *testing.T) {
	_, _, err := ParseSchema("$VALUES {\n a Number\n }")
	assert.ErrorContains(t, err, "no keys declared")

	_, _, err = ParseSchema("$KEYS {\n}")
	assert.ErrorContains(t, err, "no keys declared")
}

func TestDuplicateBlock(t *testing.T) {
	_, _, err := ParseSchema(`
$KEYS {
    a Number
}

$KEYS {
    b Number
}
        `)
	assert.ErrorContains(t, err, "Error parsing line 6: Duplicate block KEYS")
}

func TestDuplicateField(t *testing.T) {
	_, _, err := ParseSchema(`
$KEYS {
    a Number
    a String
}
        `)
	assert.ErrorContains(t, err, "Duplicate field a")
}

func TestSameNameInKeysAndValues(t *testing.T) {
	_, _, err := ParseSchema(`
$KEYS {
    a Number
}
$VALUES {
    a Number stats(true)
}
        `)
	assert.NilError(t, err)
}

func TestUnclosedBlock(t *testing.T) {
	_, _, err := ParseSchema("$KEYS {\n a Number\n")
	assert.ErrorContains(t, err, "Block KEYS is not closed")

	_, _, err = ParseSchema("$KEYS {\n a Number\n$VALUES {\n}")
	assert.ErrorContains(t, err, "Error parsing line 3: Block KEYS is not closed")
}

func TestFieldOutsideBlock(t *testing.T) {
	_, _, err := ParseSchema("a Number")
	assert.ErrorContains(t, err, "Field a declared outside a block")

	_, _, err = ParseSchema("}")
	assert.ErrorContains(t, err, "Unexpected }")
}

func TestBadProp(t *testing.T) {
	_, _, err := ParseSchema("$KEYS {\n a Number stats(maybe)\n}")
	assert.ErrorContains(t, err, "Error parsing line 2: Invalid syntax: stats(maybe)")
}
