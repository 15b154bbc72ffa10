package hist

import (
	"errors"
	"fmt"

	"github.com/tobsdb/traceeval/schema"
	"github.com/tobsdb/traceeval/types"
)

func validateRecord(s *schema.Schema, r types.Record, what string) error {
	if len(r) != s.Len() {
		return fmt.Errorf("%w: got %d %s, expected %d", types.ERR_ARITY, len(r), what, s.Len())
	}
	for i, v := range r {
		if err := types.ValidateValue(s.Field(i), v); err != nil {
			return err
		}
	}
	return nil
}

// cloneRecord copies r so the table can own it. On failure everything
// already copied is released again.
func (t *Table) cloneRecord(s *schema.Schema, r types.Record) (types.Record, error) {
	res := make(types.Record, len(r))
	for i, v := range r {
		c, err := types.Clone(s.Field(i), v)
		if err != nil {
			t.releaseCloned(s, r, res[:i])
			return nil, err
		}
		res[i] = c
	}
	return res, nil
}

// releaseCloned releases the copies in cloned that are not the caller's
// own data.
func (t *Table) releaseCloned(s *schema.Schema, orig, cloned types.Record) {
	for i, v := range cloned {
		if d, ok := v.(*types.Dynamic); ok && d == orig[i] {
			continue
		}
		if err := types.Release(s.Field(i), v); err != nil {
			t.log.ErrorLog("table", t.id, "unwinding insert:", err)
		}
	}
}

func (t *Table) validate(keys, vals types.Record) error {
	if err := t.checkAlive(); err != nil {
		return err
	}
	if err := validateRecord(t.keys, keys, "keys"); err != nil {
		return err
	}
	return validateRecord(t.vals, vals, "values")
}

// createEntry adds an empty entry owning a copy of keys.
func (t *Table) createEntry(keys types.Record) (*Entry, error) {
	owned, err := t.cloneRecord(t.keys, keys)
	if err != nil {
		return nil, err
	}
	entry := &Entry{
		keys:  owned,
		vals:  make(types.Record, t.vals.Len()),
		stats: make([]RunningStat, t.vals.Len()),
	}
	t.addEntry(entry)
	return entry, nil
}

// Insert folds vals into the entry for keys, creating the entry on first
// use. Every value field keeps the latest sample; numeric stats fields
// also feed the entry's running statistics.
//
// Dynamic payloads of fields without a clone callback are taken by the
// table on every successful insert, keys included: a key equal to a stored
// one is released right away.
func (t *Table) Insert(keys, vals types.Record) error {
	if err := t.validate(keys, vals); err != nil {
		return err
	}

	entry, err := t.find(keys)
	if err != nil {
		return err
	}

	owned, err := t.cloneRecord(t.vals, vals)
	if err != nil {
		return err
	}

	var errs []error
	if entry == nil {
		if entry, err = t.createEntry(keys); err != nil {
			t.releaseCloned(t.vals, vals, owned)
			return err
		}
	} else {
		errs = append(errs, t.releaseTakenKeys(entry, keys))
	}

	entry.hits++
	errs = append(errs, t.updateValues(entry, owned))
	return errors.Join(errs...)
}

// releaseTakenKeys releases the dynamic key payloads the table took from
// the caller when keys matched an existing entry. Payloads of fields with
// a clone callback stay with the caller.
func (t *Table) releaseTakenKeys(entry *Entry, keys types.Record) error {
	var errs []error
	for i, v := range keys {
		field := t.keys.Field(i)
		if field.Type != types.FieldTypeDynamic || field.Clone != nil || v == entry.keys[i] {
			continue
		}
		if err := types.Release(field, v); err != nil {
			t.log.ErrorLog("table", t.id, "releasing duplicate key:", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Table) updateValues(entry *Entry, owned types.Record) error {
	var errs []error
	for i, v := range owned {
		field := t.vals.Field(i)
		old := entry.vals[i]
		entry.vals[i] = v

		if field.IsStats() {
			sample, _ := types.Uint64(v)
			entry.stats[i].Add(sample)
		}

		if old == nil || old == v {
			continue
		}
		if err := types.Release(field, old); err != nil {
			t.log.ErrorLog("table", t.id, "replacing value:", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
