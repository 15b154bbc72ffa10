package hist

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	sorted "github.com/tobshub/go-sortedmap"

	"github.com/tobsdb/traceeval/types"
)

type sortKind int

const (
	sortKey sortKind = iota
	sortVal
	sortHits
	sortStat
)

// StatKind selects one running statistic of a stats field.
type StatKind string

const (
	StatCount StatKind = "count"
	StatMin   StatKind = "min"
	StatMax   StatKind = "max"
	StatTotal StatKind = "total"
	StatAvg   StatKind = "avg"
)

var VALID_STAT_KINDS = []StatKind{StatCount, StatMin, StatMax, StatTotal, StatAvg}

func (k StatKind) IsValid() bool {
	return slices.Contains(VALID_STAT_KINDS, k)
}

// StatField names a running statistic of a stats value field for
// Iterator.SetSort. Like HITS it never matches a declared name.
func StatField(field string, kind StatKind) string {
	return "\x00" + string(kind) + "\x00" + field
}

type sortLevel struct {
	name      string
	kind      sortKind
	index     int
	stat      StatKind
	ascending bool
}

// Iterator walks a point-in-time snapshot of a table's entries in the
// order configured with SetSort. Entries are shared with the table, so
// later inserts into an entry the cursor has not reached yet are visible;
// entries created after the snapshot are not.
type Iterator struct {
	table    *Table
	table_id uuid.UUID

	// insertion order at the time of the snapshot
	snapshot []*Entry
	ordered  []*Entry
	levels   []sortLevel

	sorted bool
	next   int
	closed bool
}

// Iterator opens an iterator over the current entries.
func (t *Table) Iterator() (*Iterator, error) {
	if err := t.checkAlive(); err != nil {
		return nil, err
	}
	snapshot := append([]*Entry(nil), t.entries...)
	return &Iterator{table: t, table_id: t.id, snapshot: snapshot}, nil
}

func (it *Iterator) check() error {
	if it == nil || it.closed {
		return fmt.Errorf("%w: iterator", types.ERR_RELEASED)
	}
	if it.table.id != it.table_id {
		return fmt.Errorf("%w: table", types.ERR_RELEASED)
	}
	return nil
}

func (it *Iterator) resolve(field string) (sortLevel, error) {
	if field == HITS {
		return sortLevel{name: field, kind: sortHits}, nil
	}
	if rest, ok := strings.CutPrefix(field, "\x00"); ok {
		return it.resolveStat(rest)
	}
	if idx, ok := it.table.keys.FindIndex(field); ok {
		return sortLevel{name: field, kind: sortKey, index: idx}, nil
	}
	if idx, ok := it.table.vals.FindIndex(field); ok {
		return sortLevel{name: field, kind: sortVal, index: idx}, nil
	}
	return sortLevel{}, fmt.Errorf("%w: no field %q", types.ERR_NOT_FOUND, field)
}

func (it *Iterator) resolveStat(field string) (sortLevel, error) {
	kind, name, ok := strings.Cut(field, "\x00")
	if !ok || !StatKind(kind).IsValid() {
		return sortLevel{}, fmt.Errorf("%w: no statistic %q", types.ERR_NOT_FOUND, kind)
	}
	idx, ok := it.table.vals.FindIndex(name)
	if !ok {
		return sortLevel{}, fmt.Errorf("%w: no value field %q", types.ERR_NOT_FOUND, name)
	}
	if f := it.table.vals.Field(idx); !f.IsStats() {
		return sortLevel{}, fmt.Errorf("%w: %s", types.ERR_NOT_STATS, f)
	}
	return sortLevel{name: name + "." + kind, kind: sortStat, index: idx, stat: StatKind(kind)}, nil
}

// SetSort sorts by field at the given level. field is a key name, a value
// name, HITS or a StatField. Level 0 is the primary order; each level breaks the ties
// of the one before. A level may be redefined, but not skipped. Changing
// the order rewinds the iterator.
func (it *Iterator) SetSort(field string, level int, ascending bool) error {
	if err := it.check(); err != nil {
		return err
	}
	if level < 0 || level > len(it.levels) {
		return fmt.Errorf("%w: level %d, expected at most %d", types.ERR_INVALID_LEVEL, level, len(it.levels))
	}

	l, err := it.resolve(field)
	if err != nil {
		return err
	}
	l.ascending = ascending

	if level == len(it.levels) {
		it.levels = append(it.levels, l)
	} else {
		it.levels[level] = l
	}
	it.sorted = false
	it.next = 0
	return nil
}

func (it *Iterator) compareEntries(a, b *Entry) (int, error) {
	for _, l := range it.levels {
		var res int
		var err error
		switch l.kind {
		case sortKey:
			res, err = compareSlot(it.table.keys.Field(l.index), a.keys[l.index], b.keys[l.index])
		case sortVal:
			res, err = compareSlot(it.table.vals.Field(l.index), a.vals[l.index], b.vals[l.index])
		case sortHits:
			res = cmpUint64(a.hits, b.hits)
		case sortStat:
			res = cmpUint64(a.stats[l.index].value(l.stat), b.stats[l.index].value(l.stat))
		}
		if err != nil {
			return 0, fmt.Errorf("sorting by %s: %w", l.name, err)
		}
		if !l.ascending {
			res = -res
		}
		if res != 0 {
			return res, nil
		}
	}
	return 0, nil
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

type sortItem struct {
	idx   int
	entry *Entry
}

// sort orders the snapshot by the configured levels. The snapshot index
// is the last tie-break, which keeps the sort stable.
func (it *Iterator) sort() error {
	var cmp_err error
	less := func(a, b sortItem) bool {
		if cmp_err == nil {
			res, err := it.compareEntries(a.entry, b.entry)
			if err != nil {
				cmp_err = err
			} else if res != 0 {
				return res < 0
			}
		}
		return a.idx < b.idx
	}

	m := sorted.New[int, sortItem](len(it.snapshot), less)
	for i, e := range it.snapshot {
		m.Insert(i, sortItem{i, e})
	}
	if cmp_err != nil {
		return cmp_err
	}

	ordered := make([]*Entry, 0, len(it.snapshot))
	if len(it.snapshot) > 0 {
		iterCh, err := m.IterCh()
		if err != nil {
			return err
		}
		for rec := range iterCh.Records() {
			ordered = append(ordered, rec.Val.entry)
		}
	}

	it.table.log.DebugLog("sorted", len(ordered), "entries of table", it.table_id, "on", len(it.levels), "levels")
	it.ordered = ordered
	it.sorted = true
	it.next = 0
	return nil
}

// Next returns the keys of the next entry, or false once every entry has
// been returned. The keys are owned by the table; hand them back with
// ReleaseKeys.
func (it *Iterator) Next() (types.Record, bool, error) {
	if err := it.check(); err != nil {
		return nil, false, err
	}
	if !it.sorted {
		if err := it.sort(); err != nil {
			return nil, false, err
		}
	}

	for it.next < len(it.ordered) {
		e := it.ordered[it.next]
		it.next++
		// entries of a released table have no keys left
		if e.keys == nil {
			continue
		}
		it.table.held++
		return e.keys, true, nil
	}
	return nil, false, nil
}

// ReleaseKeys hands back keys returned by Next.
func (it *Iterator) ReleaseKeys(keys types.Record) {
	if it == nil || keys == nil || it.table.held == 0 {
		return
	}
	it.table.held--
}

// Close drops the snapshot. The iterator cannot be used afterwards.
func (it *Iterator) Close() {
	if it == nil || it.closed {
		return
	}
	it.closed = true
	it.snapshot, it.ordered, it.levels = nil, nil, nil
}
