package hist

import (
	"encoding/binary"

	"github.com/tobsdb/traceeval/schema"
	"github.com/tobsdb/traceeval/types"
)

// indexKey encodes the non-dynamic fields of a validated key record. Dynamic
// fields only contribute a placeholder, so every bucket hit must still be
// checked with compareRecord.
func indexKey(keys types.Record) string {
	buf := make([]byte, 0, 16*len(keys))
	for _, v := range keys {
		switch v := v.(type) {
		case types.String:
			buf = binary.AppendUvarint(buf, uint64(len(v)))
			buf = append(buf, v...)
		case *types.Dynamic:
			buf = append(buf, 0)
		default:
			n, _ := types.Uint64(v)
			buf = binary.BigEndian.AppendUint64(buf, n)
		}
	}
	return string(buf)
}

// compareSlot is types.Compare that also orders empty slots (values of
// entries created by SetPrivate) before everything else.
func compareSlot(field *types.Field, a, b types.Value) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}
	return types.Compare(field, a, b)
}

func compareRecord(s *schema.Schema, a, b types.Record) (int, error) {
	if len(a) != len(b) {
		return len(a) - len(b), nil
	}
	for i := range a {
		res, err := compareSlot(s.Field(i), a[i], b[i])
		if err != nil || res != 0 {
			return res, err
		}
	}
	return 0, nil
}

// find returns the entry whose keys equal keys, or nil.
func (t *Table) find(keys types.Record) (*Entry, error) {
	for _, e := range t.index[indexKey(keys)] {
		res, err := compareRecord(t.keys, e.keys, keys)
		if err != nil {
			return nil, err
		}
		if res == 0 {
			return e, nil
		}
	}
	return nil, nil
}

func (t *Table) addEntry(e *Entry) {
	t.entries = append(t.entries, e)
	key := indexKey(e.keys)
	t.index[key] = append(t.index[key], e)
}
