// SPDX-License-Identifier: ISC

// archive storage
//
// the collaborator that receives exported prefixes of the transaction
// log and answers historical range queries the live log can no longer
// serve.  The ledger engine must tolerate a store being unreachable
// indefinitely: blocks stay live and log growth is the only cost.
package archive

import (
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
)

// TransactionRange - a contiguous tid range
type TransactionRange struct {
	Start  uint64 `json:"start"`
	Length uint64 `json:"length"`
}

// End - one past the last tid of the range
func (r TransactionRange) End() uint64 {
	return r.Start + r.Length
}

// Contains - check a tid falls inside the range
func (r TransactionRange) Contains(tid uint64) bool {
	return tid >= r.Start && tid < r.End()
}

// Store - contract of one archive instance
//
// Append must be atomic: either the whole chunk is owned afterwards or
// none of it is; the returned range is the store's total holding
type Store interface {
	// Ident - stable identifier recorded in the archive index
	Ident() string

	// Append - take ownership of a block chunk and the chain head
	// accompanying it; blocks must be contiguous with prior content
	Append(blocks []blockrecord.Block, latest blockdigest.Digest) (TransactionRange, error)

	// Range - stored blocks starting at tid start, at most count
	Range(start uint64, count int) ([]blockrecord.Block, error)

	// Owned - the tid range this store holds
	Owned() (TransactionRange, error)

	// Size - number of stored blocks
	Size() (uint64, error)
}
