// SPDX-License-Identifier: ISC

// archival trigger
//
// watches the live transaction log and moves a contiguous prefix of
// old blocks into archive storage once configured thresholds are
// crossed.  A failed export never blocks the live ledger: appends
// continue and the export is retried on the next trigger check.
package archiver

import (
	"sync"

	"github.com/bitmark-inc/logger"

	"github.com/av1ctor/icrc7-launchpad/archive"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/txlog"
)

// State - trigger state machine states
type State int

// possible states
const (
	Idle      State = iota // below thresholds
	Archiving              // export in progress or pending retry
	Settling               // export acked, live prefix being trimmed
)

var stateNames = map[State]string{
	Idle:      "Idle",
	Archiving: "Archiving",
	Settling:  "Settling",
}

// String - describe the state
func (state State) String() string {
	if name, ok := stateNames[state]; ok {
		return name
	}
	return "*unknown*"
}

// Options - archival thresholds
type Options struct {
	MaxActiveRecords            uint64 // live length that triggers an export
	MaxRecordsToArchive         uint64 // maximum blocks per export chunk
	MaxRecordsInArchiveInstance uint64 // capacity of one archive instance
	SettleToRecords             uint64 // live blocks retained after a trim
}

// DefaultOptions - thresholds matching the original deployment
func DefaultOptions() Options {
	return Options{
		MaxActiveRecords:            2000,
		MaxRecordsToArchive:         10000,
		MaxRecordsInArchiveInstance: 10_000_000,
		SettleToRecords:             1000,
	}
}

// IndexEntry - one archive instance and the tid range it owns
type IndexEntry struct {
	Ident string                   `json:"ident"`
	Range archive.TransactionRange `json:"range"`
}

// Factory - creates or reopens the archive instance with the given
// sequence number; idents must be stable across restarts
type Factory func(sequence int) (archive.Store, error)

// Archiver - the trigger state machine plus the archive index
type Archiver struct {
	sync.Mutex

	log      *logger.L
	options  Options
	factory  Factory
	state    State
	sequence int
	current  archive.Store
	stores   map[string]archive.Store
	index    []IndexEntry
}

// New - create an idle archiver with an empty index
func New(options Options, factory Factory, log *logger.L) *Archiver {
	return &Archiver{
		log:     log,
		options: options,
		factory: factory,
		state:   Idle,
		stores:  make(map[string]archive.Store),
	}
}

// State - current trigger state
func (a *Archiver) State() State {
	a.Lock()
	defer a.Unlock()
	return a.state
}

// Index - copy of the archive index, oldest range first
func (a *Archiver) Index() []IndexEntry {
	a.Lock()
	defer a.Unlock()
	return append([]IndexEntry{}, a.index...)
}

// ArchivedCount - total blocks held across all archive instances
func (a *Archiver) ArchivedCount() uint64 {
	a.Lock()
	defer a.Unlock()

	n := uint64(0)
	for _, entry := range a.index {
		n += entry.Range.Length
	}
	return n
}

// Check - run one trigger pass against the live log
//
// transitions Idle to Archiving when the live length exceeds the
// active threshold or a full chunk is pending, performs the export,
// then trims the live prefix down to the settle target.  A failed
// export leaves the state at Archiving and is retried on the next
// call.
func (a *Archiver) Check(log *txlog.Log) error {
	a.Lock()
	defer a.Unlock()

	if Idle == a.state {
		live := log.Size()
		if live <= a.options.MaxActiveRecords && live < a.options.MaxRecordsToArchive {
			return nil
		}
		a.log.Infof("archival triggered: %d live blocks", live)
		a.state = Archiving
	}

	if Archiving == a.state {
		if err := a.export(log); nil != err {
			a.log.Warnf("export failed, will retry: %s", err)
			return err
		}
		a.state = Settling
	}

	// Settling: drop the exported prefix from live storage
	archived := uint64(0)
	for _, entry := range a.index {
		archived += entry.Range.Length
	}
	if err := log.DropPrefix(archived); nil != err {
		return err
	}
	a.state = Idle
	a.log.Infof("settled: %d live blocks retained, %d archived", log.Size(), archived)

	return nil
}

// export - move one chunk to the current archive instance, caller
// holds the lock
func (a *Archiver) export(log *txlog.Log) error {

	live := log.Size()
	if live <= a.options.SettleToRecords {
		return nil
	}
	count := live - a.options.SettleToRecords
	if count > a.options.MaxRecordsToArchive {
		count = a.options.MaxRecordsToArchive
	}

	store, capacity, err := a.currentStore()
	if nil != err {
		return err
	}
	if count > capacity {
		count = capacity
	}

	blocks := log.Prefix(count)
	if 0 == len(blocks) {
		return nil
	}

	owned, err := store.Append(blocks, blocks[len(blocks)-1].Digest())
	if nil != err {
		return err
	}

	a.updateIndex(store.Ident(), owned)
	a.log.Infof("exported blocks [%d..%d) to %s", owned.Start, owned.End(), store.Ident())
	return nil
}

// currentStore - the archive instance with spare capacity, rolling
// over to a fresh one when the current instance is full
func (a *Archiver) currentStore() (archive.Store, uint64, error) {

	if nil != a.current {
		size, err := a.current.Size()
		if nil != err {
			return nil, 0, err
		}
		if size < a.options.MaxRecordsInArchiveInstance {
			return a.current, a.options.MaxRecordsInArchiveInstance - size, nil
		}
	}

	store, err := a.factory(a.sequence)
	if nil != err {
		return nil, 0, err
	}
	a.sequence += 1
	a.current = store
	a.stores[store.Ident()] = store
	a.log.Infof("opened archive instance %s", store.Ident())
	return store, a.options.MaxRecordsInArchiveInstance, nil
}

// updateIndex - record the total range now owned by an instance
func (a *Archiver) updateIndex(ident string, owned archive.TransactionRange) {
	for i, entry := range a.index {
		if entry.Ident == ident {
			a.index[i].Range = owned
			return
		}
	}
	a.index = append(a.index, IndexEntry{Ident: ident, Range: owned})
}

// Range - read archived blocks starting at tid start, at most count,
// crossing instance boundaries as needed
func (a *Archiver) Range(start uint64, count int) ([]blockrecord.Block, error) {
	a.Lock()
	defer a.Unlock()

	blocks := make([]blockrecord.Block, 0, count)
	for _, entry := range a.index {
		if len(blocks) >= count {
			break
		}
		at := start + uint64(len(blocks))
		if !entry.Range.Contains(at) {
			continue
		}
		store, ok := a.stores[entry.Ident]
		if !ok {
			return nil, fault.ErrTransactionRangeNotLive
		}
		chunk, err := store.Range(at, count-len(blocks))
		if nil != err {
			return nil, err
		}
		blocks = append(blocks, chunk...)
	}
	if 0 == len(blocks) {
		return nil, fault.ErrTransactionRangeNotLive
	}
	return blocks, nil
}
