// Package kv holds the small synchronous key-value contract used for
// medication persistence, plus its in-process, LevelDB and Redis backends.
package kv

// Store is a synchronous key-value backend. Get reports a missing key with
// ok=false and a nil error.
type Store interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
}

type namespaced struct {
	store  Store
	prefix string
}

// Namespace returns a Store that prefixes every key with prefix.
func Namespace(store Store, prefix string) Store {
	return &namespaced{store: store, prefix: prefix}
}

func (ns *namespaced) Get(key string) ([]byte, bool, error) {
	return ns.store.Get(ns.prefix + key)
}

func (ns *namespaced) Put(key string, value []byte) error {
	return ns.store.Put(ns.prefix+key, value)
}

func (ns *namespaced) Delete(key string) error {
	return ns.store.Delete(ns.prefix + key)
}
