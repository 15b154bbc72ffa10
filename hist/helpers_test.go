package hist_test

import (
	"errors"
	"testing"

	. "github.com/tobsdb/traceeval/hist"
	"github.com/tobsdb/traceeval/pkg"
	"github.com/tobsdb/traceeval/types"
	"gotest.tools/assert"
)

var quiet = &Options{Logger: pkg.NopLogger()}

func nameDurTable(t *testing.T) *Table {
	table, err := New(
		[]types.Field{{Type: types.FieldTypeString, Name: "name"}},
		[]types.Field{{Type: types.FieldTypeNumber, Name: "dur", Flags: types.FlagStats}},
		quiet,
	)
	assert.NilError(t, err)
	return table
}

func insert(t *testing.T, table *Table, name string, dur uint64) {
	err := table.Insert(types.Record{types.String(name)}, types.Record{types.Number(dur)})
	assert.NilError(t, err)
}

// collect drains it and returns the first key of every entry.
func collect(t *testing.T, it *Iterator) []types.Value {
	var res []types.Value
	for {
		keys, ok, err := it.Next()
		assert.NilError(t, err)
		if !ok {
			return res
		}
		res = append(res, keys[0])
		it.ReleaseKeys(keys)
	}
}

var errBadPayload = errors.New("bad payload")

// blobs counts the payloads handed to its callbacks.
type blobs struct {
	released int
	cloned   int
	failCmp  bool
	// releases per payload
	per map[*types.Dynamic]int
}

func (b *blobs) cmp(x, y *types.Dynamic, _ *types.Field) (int, error) {
	xi, ok1 := x.Data.(int)
	yi, ok2 := y.Data.(int)
	if b.failCmp || !ok1 || !ok2 {
		return 0, errBadPayload
	}
	return xi - yi, nil
}

func (b *blobs) release(d *types.Dynamic, _ *types.Field) error {
	if b.per == nil {
		b.per = map[*types.Dynamic]int{}
	}
	b.released++
	b.per[d]++
	return nil
}

func (b *blobs) clone(d *types.Dynamic, _ *types.Field) (*types.Dynamic, error) {
	b.cloned++
	c := *d
	return &c, nil
}

func (b *blobs) field(name string) types.Field {
	return types.Field{Type: types.FieldTypeDynamic, Name: name, Cmp: b.cmp, Release: b.release}
}

func blob(n int) *types.Dynamic { return &types.Dynamic{Size: 8, Data: n} }
