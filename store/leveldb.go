package store

import (
	"context"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"xmr_viewscan/moneroutil"
	"xmr_viewscan/transaction"
)

// blobPrefix namespaces raw transaction blobs keyed by hash.
var blobPrefix = []byte("tx-")

// LevelDB stores raw transaction blobs keyed by their hash. Blobs are
// decoded and their hash verified on every fetch.
type LevelDB struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

// OpenLevelDB opens or creates the database at path.
func OpenLevelDB(path string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb %s: %w", path, err)
	}
	return newLevelDB(db), nil
}

// OpenMemLevelDB opens a LevelDB backed by memory.
func OpenMemLevelDB() (*LevelDB, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return newLevelDB(db), nil
}

func newLevelDB(db *leveldb.DB) *LevelDB {
	return &LevelDB{
		db:    db,
		batch: new(leveldb.Batch),
	}
}

func blobKey(hash moneroutil.Hash) []byte {
	return append(append([]byte{}, blobPrefix...), hash[:]...)
}

// Put queues a blob for the next Write. The blob is parsed to obtain its
// hash. Blobs already in the database are skipped and added is false.
func (l *LevelDB) Put(blob []byte) (hash moneroutil.Hash, added bool, err error) {
	tx, err := transaction.Parse(blob)
	if err != nil {
		return moneroutil.NullHash, false, err
	}
	stored, err := l.Has(tx.Hash)
	if err != nil || stored {
		return tx.Hash, false, err
	}
	l.batch.Put(blobKey(tx.Hash), blob)
	return tx.Hash, true, nil
}

// Write commits the queued blobs.
func (l *LevelDB) Write() error {
	err := l.db.Write(l.batch, nil)
	l.batch.Reset()
	return err
}

// Has reports whether a blob with this hash has been written.
func (l *LevelDB) Has(hash moneroutil.Hash) (bool, error) {
	return l.db.Has(blobKey(hash), nil)
}

// Count returns the number of stored blobs.
func (l *LevelDB) Count() int {
	iter := l.db.NewIterator(ldb_util.BytesPrefix(blobPrefix), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n
}

func (l *LevelDB) Fetch(ctx context.Context, hash moneroutil.Hash) (*transaction.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	blob, err := l.db.Get(blobKey(hash), nil)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, hash)
	}
	if err != nil {
		return nil, err
	}
	log.Tracef("leveldb hit %v (%d bytes)", hash, len(blob))
	return decodeBlob(hash, blob)
}

func (l *LevelDB) Close() error {
	return l.db.Close()
}
