package pkg

import "sync"

type HasLocker interface{ GetLocker() *sync.RWMutex }

func LockWrap(i HasLocker, f func()) {
	i.GetLocker().Lock()
	defer i.GetLocker().Unlock()
	f()
}

func RLockWrap(i HasLocker, f func()) {
	i.GetLocker().RLock()
	defer i.GetLocker().RUnlock()
	f()
}

// LockWrapErr is LockWrap for callbacks that fail.
func LockWrapErr(i HasLocker, f func() error) (err error) {
	LockWrap(i, func() { err = f() })
	return
}

func RLockWrapErr(i HasLocker, f func() error) (err error) {
	RLockWrap(i, func() { err = f() })
	return
}
