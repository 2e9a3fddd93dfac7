// SPDX-License-Identifier: ISC

// transaction log
//
// append-only sequence of hash-linked blocks addressed by tid.  The
// live log holds a contiguous suffix of the logical sequence; archival
// moves a prefix out while tids stay contiguous across the live and
// archived parts.  The log is owned exclusively by the ledger engine
// and relies on its single-writer discipline.
package txlog

import (
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
)

// Log - the live part of the transaction log
type Log struct {
	first  uint64 // tid of blocks[0]
	blocks []blockrecord.Block
	latest blockdigest.Digest // content hash of the newest block
}

// NewLog - create an empty log; the first block links to the zero hash
func NewLog() *Log {
	return &Log{}
}

// NextTid - the tid that the next append will assign
func (log *Log) NextTid() uint64 {
	return log.first + uint64(len(log.blocks))
}

// FirstTid - the tid of the oldest live block
func (log *Log) FirstTid() uint64 {
	return log.first
}

// Size - number of live blocks
func (log *Log) Size() uint64 {
	return uint64(len(log.blocks))
}

// LatestHash - content hash of the most recent block
//
// zero only before the very first append; it survives trims so the
// chain stays verifiable across the archive boundary
func (log *Log) LatestHash() blockdigest.Digest {
	return log.latest
}

// Append - assign the next tid, link, hash and store one transaction
//
// infallible given valid prior state; storage exhaustion surfaces as a
// runtime panic, not a business error
func (log *Log) Append(tx transactionrecord.Transaction) uint64 {
	tid := log.NextTid()
	tx.Tid = tid

	block := blockrecord.New(log.latest, tx)
	log.blocks = append(log.blocks, block)
	log.latest = block.Digest()
	return tid
}

// Range - live blocks starting at tid start, at most count
//
// archived ranges are not reachable here; callers holding an archived
// start tid must consult the archive index instead
func (log *Log) Range(start uint64, count int) ([]blockrecord.Block, error) {
	if start < log.first {
		return nil, fault.ErrTransactionRangeNotLive
	}
	offset := start - log.first
	if offset >= uint64(len(log.blocks)) {
		return []blockrecord.Block{}, nil
	}

	end := uint64(len(log.blocks))
	if count >= 0 && offset+uint64(count) < end {
		end = offset + uint64(count)
	}

	result := make([]blockrecord.Block, end-offset)
	copy(result, log.blocks[offset:end])
	return result, nil
}

// Prefix - the oldest count live blocks, for export
func (log *Log) Prefix(count uint64) []blockrecord.Block {
	if count > uint64(len(log.blocks)) {
		count = uint64(len(log.blocks))
	}
	result := make([]blockrecord.Block, count)
	copy(result, log.blocks[:count])
	return result
}

// DropPrefix - physically drop live blocks below newFirst
//
// only an exported prefix may be dropped; the logical sequence is
// unchanged
func (log *Log) DropPrefix(newFirst uint64) error {
	if newFirst < log.first {
		return fault.ErrTransactionRangeNotLive
	}
	if newFirst > log.NextTid() {
		return fault.ErrTransactionRangeNotLive
	}
	n := newFirst - log.first
	remaining := make([]blockrecord.Block, len(log.blocks)-int(n))
	copy(remaining, log.blocks[n:])
	log.blocks = remaining
	log.first = newFirst
	return nil
}

// Truncate - roll the log back to an earlier append point
//
// used only by the atomic batch undo: nextTid and latest must be the
// values captured before the batch started
func (log *Log) Truncate(nextTid uint64, latest blockdigest.Digest) {
	if nextTid < log.first || nextTid > log.NextTid() {
		return
	}
	log.blocks = log.blocks[:nextTid-log.first]
	log.latest = latest
}
