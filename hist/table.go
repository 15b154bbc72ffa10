package hist

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tobsdb/traceeval/pkg"
	"github.com/tobsdb/traceeval/schema"
	"github.com/tobsdb/traceeval/types"
)

// HITS names the hit-count pseudo-field for Iterator.SetSort.
const HITS = schema.HITS

type Options struct {
	// Logger receives diagnostics such as callback failures during
	// teardown. Nil uses pkg.DefaultLogger; pkg.NopLogger silences it.
	Logger *pkg.Logger
}

// Table is an in-memory aggregation table keyed by a composite key. It does
// no locking of its own; see SyncTable.
type Table struct {
	// uuid.Nil once released
	id uuid.UUID

	keys *schema.Schema
	vals *schema.Schema

	// insertion order
	entries []*Entry
	// canonical key encoding -> candidate entries
	index map[string][]*Entry

	log *pkg.Logger
	// results and iterator keys handed out and not yet released
	held int
}

// New creates a table. keys must hold at least one field; vals may be
// empty. The table keeps its own copy of both lists.
func New(keys, vals []types.Field, opts *Options) (*Table, error) {
	key_schema, err := schema.NewKeys(keys)
	if err != nil {
		return nil, err
	}
	val_schema, err := schema.New(vals)
	if err != nil {
		return nil, err
	}

	t := &Table{
		id:    uuid.New(),
		keys:  key_schema,
		vals:  val_schema,
		index: make(map[string][]*Entry),
		log:   pkg.DefaultLogger(),
	}
	if opts != nil && opts.Logger != nil {
		t.log = opts.Logger
	}
	t.log.DebugLog("created table", t.id, "with", key_schema.Len(), "keys and", val_schema.Len(), "values")
	return t, nil
}

// NewFromSchema creates a table from schema text, see schema.ParseSchema.
func NewFromSchema(schema_data string, opts *Options) (*Table, error) {
	keys, vals, err := schema.ParseSchema(schema_data)
	if err != nil {
		return nil, err
	}
	return New(keys, vals, opts)
}

// Release frees every entry, handing dynamic data to the field's release
// callback. Failures are logged and do not stop the teardown. Releasing a
// nil or already released table does nothing.
func (t *Table) Release() {
	if t == nil || t.id == uuid.Nil {
		return
	}
	if t.held > 0 {
		t.log.WarnLog("releasing table", t.id, "with", t.held, "handles still held")
	}

	for _, e := range t.entries {
		t.releaseRecord(t.keys, e.keys)
		t.releaseRecord(t.vals, e.vals)
		e.keys, e.vals, e.stats, e.private = nil, nil, nil, nil
	}

	t.log.DebugLog("released table", t.id, "with", len(t.entries), "entries")
	t.entries = nil
	t.index = nil
	t.id = uuid.Nil
}

// Id identifies the table instance. It is uuid.Nil after Release.
func (t *Table) Id() uuid.UUID {
	if t == nil {
		return uuid.Nil
	}
	return t.id
}

func (t *Table) checkAlive() error {
	if t == nil || t.id == uuid.Nil {
		return types.ERR_RELEASED
	}
	return nil
}

func (t *Table) Len() int {
	if t.checkAlive() != nil {
		return 0
	}
	return len(t.entries)
}

func (t *Table) KeySchema() *schema.Schema { return t.keys }
func (t *Table) ValSchema() *schema.Schema { return t.vals }

// FindKey returns the index of the first key field called field. HITS is
// never a key.
func (t *Table) FindKey(field string) (int, bool) {
	if t.checkAlive() != nil {
		return -1, false
	}
	return t.keys.FindIndex(field)
}

// FindVal returns the index of the first value field called field.
func (t *Table) FindVal(field string) (int, bool) {
	if t.checkAlive() != nil {
		return -1, false
	}
	return t.vals.FindIndex(field)
}

// releaseRecord releases every slot of r, logging and collecting failures.
func (t *Table) releaseRecord(s *schema.Schema, r types.Record) error {
	var errs []error
	for i, v := range r {
		if v == nil {
			continue
		}
		if err := types.Release(s.Field(i), v); err != nil {
			t.log.ErrorLog("table", t.id, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Compare reports whether a and b have equal schemas and hold the same
// entries, in the same order, with equal keys, values and hits.
func Compare(a, b *Table) (bool, error) {
	if err := a.checkAlive(); err != nil {
		return false, fmt.Errorf("%w: first table", err)
	}
	if err := b.checkAlive(); err != nil {
		return false, fmt.Errorf("%w: second table", err)
	}

	if !schema.Equal(a.keys, b.keys) || !schema.Equal(a.vals, b.vals) {
		return false, nil
	}
	if len(a.entries) != len(b.entries) {
		return false, nil
	}

	for i, ea := range a.entries {
		eb := b.entries[i]
		if ea.hits != eb.hits {
			return false, nil
		}
		for _, rec := range []struct {
			s    *schema.Schema
			x, y types.Record
		}{{a.keys, ea.keys, eb.keys}, {a.vals, ea.vals, eb.vals}} {
			res, err := compareRecord(rec.s, rec.x, rec.y)
			if err != nil || res != 0 {
				return false, err
			}
		}
	}
	return true, nil
}
