// Package latency measures start/stop intervals per key on top of hist
// tables.
package latency

import (
	"fmt"

	"github.com/tobsdb/traceeval/hist"
	"github.com/tobsdb/traceeval/types"
)

const (
	START = "start"
	DELTA = "delta"
)

// Tracker pairs Start and Stop events sharing a key and folds the elapsed
// time into the running stats of DELTA. A zero timestamp means no
// interval is open.
type Tracker struct {
	starts *hist.Table
	deltas *hist.Table
}

// New creates a tracker keyed by keys. Dynamic key fields need a clone
// callback, since every key is stored in two tables.
func New(keys []types.Field, opts *hist.Options) (*Tracker, error) {
	for i := range keys {
		if keys[i].Type == types.FieldTypeDynamic && keys[i].Clone == nil {
			return nil, fmt.Errorf("%w: field(%s) must have a clone callback", types.ERR_INVALID_SCHEMA, &keys[i])
		}
	}

	starts, err := hist.New(keys, []types.Field{
		{Type: types.FieldTypeNumber64, Name: START},
	}, opts)
	if err != nil {
		return nil, err
	}

	deltas, err := hist.New(keys, []types.Field{
		{Type: types.FieldTypeNumber64, Name: DELTA, Flags: types.FlagStats},
	}, opts)
	if err != nil {
		starts.Release()
		return nil, err
	}

	return &Tracker{starts: starts, deltas: deltas}, nil
}

// open returns the start of the interval open for keys, or 0.
func (tr *Tracker) open(keys types.Record) (uint64, error) {
	var start uint64
	_, err := tr.starts.QueryFunc(keys, func(r *hist.Result) error {
		start, _ = types.Uint64(r.Values()[0])
		return nil
	})
	return start, err
}

// Start opens an interval for keys at ts, replacing any open one.
func (tr *Tracker) Start(keys types.Record, ts uint64) error {
	return tr.starts.Insert(keys, types.Record{types.Number64(ts)})
}

// Continue is Start that keeps an interval which is already open.
func (tr *Tracker) Continue(keys types.Record, ts uint64) error {
	start, err := tr.open(keys)
	if err != nil || start != 0 {
		return err
	}
	return tr.Start(keys, ts)
}

// Stop closes the interval open for keys and records its length. It
// reports false, and records nothing, when no interval is open: a stop
// seen before its start is normal at the edges of a trace.
func (tr *Tracker) Stop(keys types.Record, ts uint64) (bool, error) {
	start, err := tr.open(keys)
	if err != nil || start == 0 {
		return false, err
	}
	if ts < start {
		return false, fmt.Errorf("%w: stop %d before start %d", types.ERR_INVALID_DATA, ts, start)
	}

	if err := tr.deltas.Insert(keys, types.Record{types.Number64(ts - start)}); err != nil {
		return false, err
	}
	return true, tr.starts.Insert(keys, types.Record{types.Number64(0)})
}

// Stat returns the statistics of the intervals recorded for keys.
func (tr *Tracker) Stat(keys types.Record) (hist.Stat, error) {
	return tr.deltas.Stat(keys, DELTA)
}

// Table exposes the table of recorded intervals, with one entry per key
// that has completed at least one interval. Sort it by aggregate with
// hist.StatField(DELTA, ...).
func (tr *Tracker) Table() *hist.Table { return tr.deltas }

func (tr *Tracker) Release() {
	if tr == nil {
		return
	}
	tr.starts.Release()
	tr.deltas.Release()
}
