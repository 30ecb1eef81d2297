package psl

import "sync/atomic"

// AtomicList publishes List snapshots to lock-free readers. Storing a
// rebuilt List is the only mutation; in-flight resolutions keep using
// whichever snapshot they loaded, so no reader ever observes a
// partially built trie.
type AtomicList struct {
	ptr atomic.Pointer[List]
}

// Load returns the current snapshot, or nil before the first Store.
func (a *AtomicList) Load() *List {
	return a.ptr.Load()
}

// Store swaps in a new snapshot.
func (a *AtomicList) Store(l *List) {
	a.ptr.Store(l)
}
