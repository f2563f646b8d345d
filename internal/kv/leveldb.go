package kv

import (
	"errors"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
)

type LevelDB struct {
	db *leveldb.DB
}

// NewLevelDB opens (or creates) a LevelDB database directory at path.
func NewLevelDB(path string) (*LevelDB, error) {
	database, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return NewLevelDBFromDB(database), nil
}

// NewLevelDBFromDB wraps an already opened database, such as one backed by
// leveldb's in-memory storage.
func NewLevelDBFromDB(database *leveldb.DB) *LevelDB {
	return &LevelDB{db: database}
}

func (store *LevelDB) Get(key string) ([]byte, bool, error) {
	value, err := store.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("leveldb get %s: %w", key, err)
	}
	return value, true, nil
}

func (store *LevelDB) Put(key string, value []byte) error {
	if err := store.db.Put([]byte(key), value, nil); err != nil {
		return fmt.Errorf("leveldb put %s: %w", key, err)
	}
	return nil
}

func (store *LevelDB) Delete(key string) error {
	if err := store.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("leveldb delete %s: %w", key, err)
	}
	return nil
}

func (store *LevelDB) Close() error {
	return store.db.Close()
}
