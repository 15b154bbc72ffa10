package latency_test

import (
	"errors"
	"testing"

	"github.com/tobsdb/traceeval/hist"
	. "github.com/tobsdb/traceeval/latency"
	"github.com/tobsdb/traceeval/pkg"
	"github.com/tobsdb/traceeval/types"
	"gotest.tools/assert"
)

func newTracker(t *testing.T) *Tracker {
	tr, err := New([]types.Field{
		{Type: types.FieldTypeString, Name: "comm"},
		{Type: types.FieldTypeNumber32, Name: "pid"},
	}, &hist.Options{Logger: pkg.NopLogger()})
	assert.NilError(t, err)
	return tr
}

func task(comm string, pid uint32) types.Record {
	return types.Record{types.String(comm), types.Number32(pid)}
}

func stop(t *testing.T, tr *Tracker, keys types.Record, ts uint64) {
	stopped, err := tr.Stop(keys, ts)
	assert.NilError(t, err)
	assert.Assert(t, stopped)
}

func TestTracker(t *testing.T) {
	t.Run("start stop", func(t *testing.T) {
		tr := newTracker(t)
		defer tr.Release()

		assert.NilError(t, tr.Start(task("ls", 1), 100))
		stop(t, tr, task("ls", 1), 130)
		assert.NilError(t, tr.Start(task("ls", 1), 200))
		stop(t, tr, task("ls", 1), 210)

		stat, err := tr.Stat(task("ls", 1))
		assert.NilError(t, err)
		assert.Equal(t, stat.Count, uint64(2))
		assert.Equal(t, stat.Min, uint64(10))
		assert.Equal(t, stat.Max, uint64(30))
		assert.Equal(t, stat.Total, uint64(40))
		assert.Equal(t, stat.Avg, uint64(20))
	})

	t.Run("stop without start", func(t *testing.T) {
		tr := newTracker(t)
		defer tr.Release()

		stopped, err := tr.Stop(task("ls", 1), 10)
		assert.NilError(t, err)
		assert.Assert(t, !stopped)
		assert.Equal(t, tr.Table().Len(), 0)

		assert.NilError(t, tr.Start(task("ls", 1), 5))
		stop(t, tr, task("ls", 1), 10)
		stopped, err = tr.Stop(task("ls", 1), 20)
		assert.NilError(t, err)
		assert.Assert(t, !stopped)

		stat, err := tr.Stat(task("ls", 1))
		assert.NilError(t, err)
		assert.Equal(t, stat.Count, uint64(1))
	})

	t.Run("continue keeps open interval", func(t *testing.T) {
		tr := newTracker(t)
		defer tr.Release()

		assert.NilError(t, tr.Continue(task("sh", 2), 100))
		assert.NilError(t, tr.Continue(task("sh", 2), 150))
		stop(t, tr, task("sh", 2), 160)

		stat, err := tr.Stat(task("sh", 2))
		assert.NilError(t, err)
		assert.Equal(t, stat.Total, uint64(60))
	})

	t.Run("start replaces open interval", func(t *testing.T) {
		tr := newTracker(t)
		defer tr.Release()

		assert.NilError(t, tr.Start(task("sh", 2), 100))
		assert.NilError(t, tr.Start(task("sh", 2), 150))
		stop(t, tr, task("sh", 2), 160)

		stat, err := tr.Stat(task("sh", 2))
		assert.NilError(t, err)
		assert.Equal(t, stat.Total, uint64(10))
	})

	t.Run("stop before start", func(t *testing.T) {
		tr := newTracker(t)
		defer tr.Release()

		assert.NilError(t, tr.Start(task("ls", 1), 100))
		stopped, err := tr.Stop(task("ls", 1), 50)
		assert.Assert(t, !stopped)
		assert.Assert(t, errors.Is(err, types.ERR_INVALID_DATA))
	})

	t.Run("table", func(t *testing.T) {
		tr := newTracker(t)
		defer tr.Release()

		assert.NilError(t, tr.Start(task("ls", 1), 1))
		assert.NilError(t, tr.Start(task("sh", 2), 1))
		stop(t, tr, task("sh", 2), 4)
		assert.Equal(t, tr.Table().Len(), 1)

		_, err := tr.Stat(task("ls", 1))
		assert.Assert(t, errors.Is(err, types.ERR_NOT_FOUND))
	})

	t.Run("slowest by total and max", func(t *testing.T) {
		tr := newTracker(t)
		defer tr.Release()

		intervals := []struct {
			comm       string
			start, end uint64
		}{
			{"ls", 10, 15}, {"sh", 10, 40}, {"ls", 50, 80}, {"cat", 5, 6},
			{"ls", 100, 101}, {"cat", 7, 9},
		}
		for _, iv := range intervals {
			assert.NilError(t, tr.Start(task(iv.comm, 1), iv.start))
			stop(t, tr, task(iv.comm, 1), iv.end)
		}

		order := func(kind hist.StatKind) []types.Value {
			it, err := tr.Table().Iterator()
			assert.NilError(t, err)
			defer it.Close()
			assert.NilError(t, it.SetSort(hist.StatField(DELTA, kind), 0, false))

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

		// totals: ls 36, sh 30, cat 3
		assert.DeepEqual(t, order(hist.StatTotal),
			[]types.Value{types.String("ls"), types.String("sh"), types.String("cat")})
		// max: ls 30, sh 30, cat 2; ties keep first completion order
		assert.DeepEqual(t, order(hist.StatMax),
			[]types.Value{types.String("ls"), types.String("sh"), types.String("cat")})
		assert.DeepEqual(t, order(hist.StatCount),
			[]types.Value{types.String("ls"), types.String("cat"), types.String("sh")})
	})

	t.Run("dynamic keys need clone", func(t *testing.T) {
		cmp := func(a, b *types.Dynamic, _ *types.Field) (int, error) { return 0, nil }
		release := func(*types.Dynamic, *types.Field) error { return nil }

		_, err := New([]types.Field{{Type: types.FieldTypeDynamic, Name: "task", Cmp: cmp, Release: release}}, nil)
		assert.Assert(t, errors.Is(err, types.ERR_INVALID_SCHEMA))
		assert.ErrorContains(t, err, "clone callback")
	})

	t.Run("empty keys", func(t *testing.T) {
		_, err := New(nil, nil)
		assert.Assert(t, errors.Is(err, types.ERR_INVALID_SCHEMA))
	})

	t.Run("released", func(t *testing.T) {
		tr := newTracker(t)
		tr.Release()
		tr.Release()

		err := tr.Start(task("ls", 1), 1)
		assert.Assert(t, errors.Is(err, types.ERR_RELEASED))
	})
}
