package hist

import (
	"fmt"

	"github.com/tobsdb/traceeval/types"
)

// Stat returns the running statistics of value field for the entry
// matching keys. The field must be numeric and flagged with FlagStats.
func (t *Table) Stat(keys types.Record, field string) (Stat, error) {
	if err := t.checkAlive(); err != nil {
		return Stat{}, err
	}

	idx, ok := t.vals.FindIndex(field)
	if !ok {
		return Stat{}, fmt.Errorf("%w: no value field %q", types.ERR_NOT_FOUND, field)
	}
	f := t.vals.Field(idx)
	if !f.Flags.Has(types.FlagStats) {
		return Stat{}, fmt.Errorf("%w: %s", types.ERR_NOT_STATS, f)
	}
	if !f.Type.IsNumeric() {
		return Stat{}, fmt.Errorf("%w: %s is not numeric", types.ERR_NOT_STATS, f)
	}

	if err := validateRecord(t.keys, keys, "keys"); err != nil {
		return Stat{}, err
	}
	entry, err := t.find(keys)
	if err != nil {
		return Stat{}, err
	}
	if entry == nil {
		return Stat{}, fmt.Errorf("%w: no entry for keys", types.ERR_NOT_FOUND)
	}
	return entry.stats[idx].Stat(), nil
}
