package hist

import (
	"github.com/tobsdb/traceeval/types"
)

// Result is a borrowed view of an entry returned by Query. The data is
// owned by the table; call Release when done with it.
type Result struct {
	table    *Table
	entry    *Entry
	released bool
}

func (r *Result) Keys() types.Record   { return r.entry.keys }
func (r *Result) Values() types.Record { return r.entry.vals }
func (r *Result) Hits() uint64         { return r.entry.hits }
func (r *Result) Private() any         { return r.entry.private }

// Release drops the view. It is safe to call more than once.
func (r *Result) Release() {
	if r == nil || r.released {
		return
	}
	r.released = true
	r.table.held--
}

// Query returns the entry matching keys.
//
// Note: returns a nil result when no entry matches (does not return an
// error). Always make sure to account for this case.
func (t *Table) Query(keys types.Record) (*Result, error) {
	if err := t.checkAlive(); err != nil {
		return nil, err
	}
	if err := validateRecord(t.keys, keys, "keys"); err != nil {
		return nil, err
	}

	entry, err := t.find(keys)
	if err != nil || entry == nil {
		return nil, err
	}
	t.held++
	return &Result{table: t, entry: entry}, nil
}

// ReleaseResults releases a result returned by Query.
func (t *Table) ReleaseResults(r *Result) { r.Release() }

// QueryFunc runs f with the result for keys and releases it afterwards. f
// is not called when no entry matches.
func (t *Table) QueryFunc(keys types.Record, f func(r *Result) error) (bool, error) {
	r, err := t.Query(keys)
	if err != nil || r == nil {
		return false, err
	}
	defer r.Release()
	return true, f(r)
}

// SetPrivate attaches caller data to the entry for keys. The entry is
// created, with zero hits, if it does not exist yet. Dynamic keys are
// taken as by Insert. The table never releases private data.
func (t *Table) SetPrivate(keys types.Record, data any) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if err := validateRecord(t.keys, keys, "keys"); err != nil {
		return err
	}

	entry, err := t.find(keys)
	if err != nil {
		return err
	}
	if entry == nil {
		if entry, err = t.createEntry(keys); err != nil {
			return err
		}
	} else {
		err = t.releaseTakenKeys(entry, keys)
	}
	entry.private = data
	return err
}

// GetPrivate returns the data attached by SetPrivate, or nil.
func (t *Table) GetPrivate(keys types.Record) (any, error) {
	var data any
	_, err := t.QueryFunc(keys, func(r *Result) error {
		data = r.Private()
		return nil
	})
	return data, err
}
