package hist

import (
	"sync"

	"github.com/tobsdb/traceeval/pkg"
	"github.com/tobsdb/traceeval/types"
)

// SyncTable serializes every operation on a Table behind one lock.
type SyncTable struct {
	locker sync.RWMutex
	table  *Table
}

func NewSyncTable(t *Table) *SyncTable {
	return &SyncTable{table: t}
}

func (s *SyncTable) GetLocker() *sync.RWMutex { return &s.locker }

func (s *SyncTable) Insert(keys, vals types.Record) error {
	return pkg.LockWrapErr(s, func() error { return s.table.Insert(keys, vals) })
}

// QueryFunc runs f under the lock with the result for keys.
func (s *SyncTable) QueryFunc(keys types.Record, f func(r *Result) error) (found bool, err error) {
	pkg.LockWrap(s, func() { found, err = s.table.QueryFunc(keys, f) })
	return
}

func (s *SyncTable) Stat(keys types.Record, field string) (stat Stat, err error) {
	pkg.RLockWrap(s, func() { stat, err = s.table.Stat(keys, field) })
	return
}

func (s *SyncTable) Len() (n int) {
	pkg.RLockWrap(s, func() { n = s.table.Len() })
	return
}

// Iterate runs f under the lock with a fresh iterator, closing it
// afterwards.
func (s *SyncTable) Iterate(f func(it *Iterator) error) error {
	return pkg.LockWrapErr(s, func() error {
		it, err := s.table.Iterator()
		if err != nil {
			return err
		}
		defer it.Close()
		return f(it)
	})
}

func (s *SyncTable) Release() {
	pkg.LockWrap(s, s.table.Release)
}
