// SPDX-License-Identifier: ISC

package archive

import (
	"encoding/binary"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
	"github.com/av1ctor/icrc7-launchpad/fault"
)

// one-byte prefixes for the key namespaces inside a single database
const (
	prefixBlock = byte('B') // 'B' + 8-byte big endian tid -> packed block
	prefixState = byte('S') // 'S' + state key               -> state value
)

// state keys under prefixState
var (
	stateVersion = []byte{prefixState, 'v'} // database layout version
	stateFirst   = []byte{prefixState, 'f'} // first owned tid
	stateCount   = []byte{prefixState, 'n'} // count of owned blocks
	stateLatest  = []byte{prefixState, 'l'} // chain head at last append
)

// currentVersion - database layout version
const currentVersion = 1

// LevelDB - an archive instance backed by a local leveldb database
type LevelDB struct {
	sync.Mutex

	ident    string
	database *leveldb.DB
	closed   bool
}

// OpenLevelDB - open or create an archive database
//
// ident is recorded by the archive index and must be stable across
// restarts, normally the database directory name
func OpenLevelDB(ident string, directory string) (*LevelDB, error) {

	db, err := leveldb.OpenFile(directory, nil)
	if ldberrors.IsCorrupted(err) {
		db, err = leveldb.RecoverFile(directory, nil)
	}
	if nil != err {
		return nil, err
	}

	// verify or stamp the layout version
	versionValue, err := db.Get(stateVersion, nil)
	if leveldb.ErrNotFound == err {
		err = db.Put(stateVersion, []byte{currentVersion}, nil)
		if nil != err {
			db.Close()
			return nil, err
		}
	} else if nil != err {
		db.Close()
		return nil, err
	} else if 1 != len(versionValue) || currentVersion != versionValue[0] {
		db.Close()
		return nil, fault.ErrChecksumMismatch
	}

	return &LevelDB{
		ident:    ident,
		database: db,
	}, nil
}

// Close - flush and close the database
func (a *LevelDB) Close() error {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true
	return a.database.Close()
}

// Ident - stable identifier of this instance
func (a *LevelDB) Ident() string {
	return a.ident
}

// blockKey - key for one block record
func blockKey(tid uint64) []byte {
	key := make([]byte, 9)
	key[0] = prefixBlock
	binary.BigEndian.PutUint64(key[1:], tid)
	return key
}

// Append - store a contiguous block chunk atomically
func (a *LevelDB) Append(blocks []blockrecord.Block, latest blockdigest.Digest) (TransactionRange, error) {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return TransactionRange{}, fault.ErrArchiveStoreClosed
	}

	owned, err := a.ownedLocked()
	if nil != err {
		return TransactionRange{}, err
	}

	if 0 == len(blocks) {
		return owned, nil
	}

	first := blocks[0].Tx.Tid
	if 0 != owned.Length && first != owned.End() {
		return TransactionRange{}, fault.ErrTransactionRangeNotLive
	}

	batch := new(leveldb.Batch)
	for i, block := range blocks {
		tid := block.Tx.Tid
		if tid != first+uint64(i) {
			return TransactionRange{}, fault.ErrTransactionRangeNotLive
		}
		packed, err := block.Pack()
		if nil != err {
			return TransactionRange{}, err
		}
		batch.Put(blockKey(tid), packed)
	}

	if 0 == owned.Length {
		owned.Start = first
	}
	owned.Length += uint64(len(blocks))

	numeric := make([]byte, 8)
	binary.BigEndian.PutUint64(numeric, owned.Start)
	batch.Put(stateFirst, append([]byte{}, numeric...))
	binary.BigEndian.PutUint64(numeric, owned.Length)
	batch.Put(stateCount, append([]byte{}, numeric...))
	batch.Put(stateLatest, latest[:])

	err = a.database.Write(batch, nil)
	if nil != err {
		return TransactionRange{}, err
	}

	return owned, nil
}

// Range - read stored blocks starting at tid start, at most count
func (a *LevelDB) Range(start uint64, count int) ([]blockrecord.Block, error) {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return nil, fault.ErrArchiveStoreClosed
	}

	owned, err := a.ownedLocked()
	if nil != err {
		return nil, err
	}
	if 0 == owned.Length || start >= owned.End() || count <= 0 {
		return nil, nil
	}
	if start < owned.Start {
		return nil, fault.ErrTransactionRangeNotLive
	}

	blocks := make([]blockrecord.Block, 0, count)
	iterator := a.database.NewIterator(&util.Range{
		Start: blockKey(start),
		Limit: blockKey(owned.End()),
	}, nil)
	defer iterator.Release()

	for iterator.Next() {
		if len(blocks) >= count {
			break
		}
		packed := blockrecord.Packed(append([]byte{}, iterator.Value()...))
		block, err := packed.Unpack()
		if nil != err {
			return nil, err
		}
		blocks = append(blocks, *block)
	}
	if err := iterator.Error(); nil != err {
		return nil, err
	}

	return blocks, nil
}

// Owned - the tid range held by this instance
func (a *LevelDB) Owned() (TransactionRange, error) {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return TransactionRange{}, fault.ErrArchiveStoreClosed
	}
	return a.ownedLocked()
}

// Size - number of stored blocks
func (a *LevelDB) Size() (uint64, error) {
	owned, err := a.Owned()
	if nil != err {
		return 0, err
	}
	return owned.Length, nil
}

// LatestHash - chain head recorded at the last append
func (a *LevelDB) LatestHash() (blockdigest.Digest, error) {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return blockdigest.Empty, fault.ErrArchiveStoreClosed
	}

	value, err := a.database.Get(stateLatest, nil)
	if leveldb.ErrNotFound == err {
		return blockdigest.Empty, nil
	} else if nil != err {
		return blockdigest.Empty, err
	}
	var latest blockdigest.Digest
	err = blockdigest.DigestFromBytes(&latest, value)
	if nil != err {
		return blockdigest.Empty, err
	}
	return latest, nil
}

// ownedLocked - read the owned range, caller holds the lock
func (a *LevelDB) ownedLocked() (TransactionRange, error) {

	countValue, err := a.database.Get(stateCount, nil)
	if leveldb.ErrNotFound == err {
		return TransactionRange{}, nil
	} else if nil != err {
		return TransactionRange{}, err
	}
	firstValue, err := a.database.Get(stateFirst, nil)
	if nil != err {
		return TransactionRange{}, err
	}
	if 8 != len(countValue) || 8 != len(firstValue) {
		return TransactionRange{}, fault.ErrChecksumMismatch
	}

	return TransactionRange{
		Start:  binary.BigEndian.Uint64(firstValue),
		Length: binary.BigEndian.Uint64(countValue),
	}, nil
}
