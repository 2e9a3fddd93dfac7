// SPDX-License-Identifier: ISC

package ledger

import (
	"bytes"

	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
)

// findDuplicate - scan the live log for a replay of an identical
// recent request
//
// a request is a duplicate when operation, memo, from, to, spender,
// token id and created-at all match a block whose timestamp is still
// inside the deduplication window.  Requests without a created-at are
// never deduplicated.  Returns the original tid.
func (l *Ledger) findDuplicate(
	op transactionrecord.OpTag,
	from *account.Account,
	to *account.Account,
	spender *account.Account,
	tokenID *uint256.Int,
	memo []byte,
	createdAt uint64,
	now uint64,
) (uint64, bool) {

	if 0 == createdAt {
		return 0, false
	}

	// a committed block's created-at may lead its append timestamp
	// by up to the permitted drift, so the scan horizon must reach
	// one drift below the oldest still acceptable created-at
	horizon := uint64(0)
	if span := l.options.TxWindow + 2*l.options.PermittedDrift; now > span {
		horizon = now - span
	}

	blocks, err := l.chain.Range(l.chain.FirstTid(), int(l.chain.Size()))
	if nil != err {
		return 0, false
	}

	for i := len(blocks) - 1; i >= 0; i -= 1 {
		tx := &blocks[i].Tx
		if tx.Ts < horizon {
			break
		}
		if op != tx.Op || createdAt != tx.CreatedAt {
			continue
		}
		if !bytes.Equal(memo, tx.Memo) {
			continue
		}
		if !accountsEqual(from, tx.From) || !accountsEqual(to, tx.To) || !accountsEqual(spender, tx.Spender) {
			continue
		}
		if nil == tokenID || nil == tx.TokenID {
			if tokenID != tx.TokenID {
				continue
			}
		} else if !tokenID.Eq(tx.TokenID) {
			continue
		}
		return tx.Tid, true
	}
	return 0, false
}
