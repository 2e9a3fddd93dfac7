// SPDX-License-Identifier: ISC

package archiver_test

import (
	"fmt"
	"os"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/archive"
	"github.com/av1ctor/icrc7-launchpad/archiver"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
	"github.com/av1ctor/icrc7-launchpad/txlog"
)

const (
	testingDirName = "testing"
	logCategory    = "archiver"
)

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)

	logging := logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	_ = logger.Initialise(logging)

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

// memoryFactory - hands out in-process stores and remembers them so
// tests can inspect or break individual instances
type memoryFactory struct {
	stores []*archive.Memory
}

func (f *memoryFactory) create(sequence int) (archive.Store, error) {
	for sequence >= len(f.stores) {
		f.stores = append(f.stores, archive.NewMemory(fmt.Sprintf("archive-%d", len(f.stores))))
	}
	return f.stores[sequence], nil
}

func appendMints(log *txlog.Log, count int) {
	owner := account.New([]byte{0x01})
	for i := 0; i < count; i += 1 {
		log.Append(transactionrecord.Transaction{
			Op:      transactionrecord.MintTag,
			Ts:      uint64(1000 + i),
			To:      owner,
			TokenID: uint256.NewInt(uint64(i)),
		})
	}
}

func testOptions() archiver.Options {
	return archiver.Options{
		MaxActiveRecords:            10,
		MaxRecordsToArchive:         100,
		MaxRecordsInArchiveInstance: 1000,
		SettleToRecords:             3,
	}
}

func TestIdleBelowThreshold(t *testing.T) {
	factory := &memoryFactory{}
	a := archiver.New(testOptions(), factory.create, logger.New(logCategory))
	log := txlog.NewLog()

	appendMints(log, 10)
	require.NoError(t, a.Check(log))
	assert.Equal(t, archiver.Idle, a.State())
	assert.Equal(t, uint64(10), log.Size())
	assert.Empty(t, factory.stores)
}

func TestExportAndSettle(t *testing.T) {
	factory := &memoryFactory{}
	a := archiver.New(testOptions(), factory.create, logger.New(logCategory))
	log := txlog.NewLog()

	appendMints(log, 11)
	liveHead := log.LatestHash()
	require.NoError(t, a.Check(log))

	assert.Equal(t, archiver.Idle, a.State())
	assert.Equal(t, uint64(3), log.Size())
	assert.Equal(t, uint64(8), log.FirstTid())
	assert.Equal(t, uint64(11), log.NextTid())

	index := a.Index()
	require.Len(t, index, 1)
	assert.Equal(t, archive.TransactionRange{Start: 0, Length: 8}, index[0].Range)
	assert.Equal(t, uint64(8), a.ArchivedCount())
	assert.Equal(t, liveHead, factory.stores[0].LatestHash())

	// new appends stay contiguous with the archived prefix
	appendMints(log, 1)
	assert.Equal(t, uint64(12), log.NextTid())
}

func TestArchiveChainCrossesBoundary(t *testing.T) {
	factory := &memoryFactory{}
	a := archiver.New(testOptions(), factory.create, logger.New(logCategory))
	log := txlog.NewLog()

	appendMints(log, 11)
	require.NoError(t, a.Check(log))

	archived, err := a.Range(7, 1)
	require.NoError(t, err)
	require.Len(t, archived, 1)

	live, err := log.Range(8, 1)
	require.NoError(t, err)
	require.Len(t, live, 1)

	// phash of the first live block is the content hash of the last
	// archived block
	assert.Equal(t, archived[0].Digest(), live[0].PHash)
}

func TestExportFailureRetries(t *testing.T) {
	factory := &memoryFactory{}
	a := archiver.New(testOptions(), factory.create, logger.New(logCategory))
	log := txlog.NewLog()

	// break the store before the first export
	_, err := factory.create(0)
	require.NoError(t, err)
	factory.stores[0].Fail = fault.ErrArchiveStoreClosed

	appendMints(log, 11)
	err = a.Check(log)
	assert.Equal(t, fault.ErrArchiveStoreClosed, err)
	assert.Equal(t, archiver.Archiving, a.State())
	assert.Equal(t, uint64(11), log.Size())

	// appends continue while the export is pending
	appendMints(log, 2)
	assert.Equal(t, uint64(13), log.Size())

	// store recovers, next check succeeds
	factory.stores[0].Fail = nil
	require.NoError(t, a.Check(log))
	assert.Equal(t, archiver.Idle, a.State())
	assert.Equal(t, uint64(3), log.Size())
	assert.Equal(t, uint64(10), a.ArchivedCount())
}

func TestChunkCap(t *testing.T) {
	options := testOptions()
	options.MaxRecordsToArchive = 5
	factory := &memoryFactory{}
	a := archiver.New(options, factory.create, logger.New(logCategory))
	log := txlog.NewLog()

	appendMints(log, 20)
	require.NoError(t, a.Check(log))

	// only one chunk per pass
	assert.Equal(t, uint64(5), a.ArchivedCount())
	assert.Equal(t, uint64(15), log.Size())

	// the next pass picks up where the first left off
	require.NoError(t, a.Check(log))
	assert.Equal(t, uint64(10), a.ArchivedCount())
}

func TestInstanceRollover(t *testing.T) {
	options := testOptions()
	options.MaxRecordsInArchiveInstance = 6
	factory := &memoryFactory{}
	a := archiver.New(options, factory.create, logger.New(logCategory))
	log := txlog.NewLog()

	appendMints(log, 11)
	require.NoError(t, a.Check(log)) // fills instance 0 with 6, 5 live

	appendMints(log, 6)
	require.NoError(t, a.Check(log)) // rolls to instance 1

	index := a.Index()
	require.Len(t, index, 2)
	assert.Equal(t, "archive-0", index[0].Ident)
	assert.Equal(t, archive.TransactionRange{Start: 0, Length: 6}, index[0].Range)
	assert.Equal(t, "archive-1", index[1].Ident)
	assert.Equal(t, uint64(6), index[1].Range.Start)

	// a range query spanning both instances
	blocks, err := a.Range(4, 4)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	for i, block := range blocks {
		assert.Equal(t, uint64(4+i), block.Tx.Tid)
	}
}

func TestExportRestore(t *testing.T) {
	factory := &memoryFactory{}
	a := archiver.New(testOptions(), factory.create, logger.New(logCategory))
	log := txlog.NewLog()

	appendMints(log, 11)
	require.NoError(t, a.Check(log))

	state := a.Export()
	restored, err := archiver.FromState(state, testOptions(), factory.create, logger.New(logCategory))
	require.NoError(t, err)

	assert.Equal(t, a.State(), restored.State())
	assert.Equal(t, a.Index(), restored.Index())

	blocks, err := restored.Range(0, 8)
	require.NoError(t, err)
	assert.Len(t, blocks, 8)
}
