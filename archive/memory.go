// SPDX-License-Identifier: ISC

package archive

import (
	"sync"

	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
	"github.com/av1ctor/icrc7-launchpad/fault"
)

// Memory - an in-process archive instance
//
// used by tests and by deployments that keep archived blocks in the
// same process as the ledger
type Memory struct {
	sync.Mutex

	ident  string
	start  uint64
	blocks []blockrecord.Block
	latest blockdigest.Digest

	// Fail - when set Append refuses the chunk, for exercising the
	// export retry path
	Fail error
}

// NewMemory - create an empty in-process archive instance
func NewMemory(ident string) *Memory {
	return &Memory{
		ident: ident,
	}
}

// Ident - stable identifier of this instance
func (a *Memory) Ident() string {
	return a.ident
}

// Append - take ownership of a block chunk
func (a *Memory) Append(blocks []blockrecord.Block, latest blockdigest.Digest) (TransactionRange, error) {
	a.Lock()
	defer a.Unlock()

	if nil != a.Fail {
		return TransactionRange{}, a.Fail
	}

	if 0 == len(blocks) {
		return a.ownedLocked(), nil
	}

	first := blocks[0].Tx.Tid
	if 0 == len(a.blocks) {
		a.start = first
	} else if first != a.start+uint64(len(a.blocks)) {
		return TransactionRange{}, fault.ErrTransactionRangeNotLive
	}
	for i, block := range blocks {
		if block.Tx.Tid != first+uint64(i) {
			return TransactionRange{}, fault.ErrTransactionRangeNotLive
		}
	}

	a.blocks = append(a.blocks, blocks...)
	a.latest = latest
	return a.ownedLocked(), nil
}

// Range - stored blocks starting at tid start, at most count
func (a *Memory) Range(start uint64, count int) ([]blockrecord.Block, error) {
	a.Lock()
	defer a.Unlock()

	owned := a.ownedLocked()
	if 0 == owned.Length || start >= owned.End() || count <= 0 {
		return nil, nil
	}
	if start < owned.Start {
		return nil, fault.ErrTransactionRangeNotLive
	}

	offset := int(start - owned.Start)
	end := offset + count
	if end > len(a.blocks) {
		end = len(a.blocks)
	}
	return append([]blockrecord.Block{}, a.blocks[offset:end]...), nil
}

// Owned - the tid range held by this instance
func (a *Memory) Owned() (TransactionRange, error) {
	a.Lock()
	defer a.Unlock()
	return a.ownedLocked(), nil
}

// Size - number of stored blocks
func (a *Memory) Size() (uint64, error) {
	a.Lock()
	defer a.Unlock()
	return uint64(len(a.blocks)), nil
}

// LatestHash - chain head recorded at the last append
func (a *Memory) LatestHash() blockdigest.Digest {
	a.Lock()
	defer a.Unlock()
	return a.latest
}

func (a *Memory) ownedLocked() TransactionRange {
	return TransactionRange{
		Start:  a.start,
		Length: uint64(len(a.blocks)),
	}
}
