// SPDX-License-Identifier: ISC

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
)

// TransferArg - one item of a transfer batch; the caller is the owner
type TransferArg struct {
	To        *account.Account
	TokenID   *uint256.Int
	Memo      []byte
	CreatedAt uint64
}

// TransferFromArg - one item of a delegated transfer batch; the
// caller is the spender
type TransferFromArg struct {
	From      *account.Account
	To        *account.Account
	TokenID   *uint256.Int
	Memo      []byte
	CreatedAt uint64
}

// Transfer - owner initiated ownership changes
//
// every approval of a transferred token is cleared: an ownership
// change invalidates prior delegations
func (l *Ledger) Transfer(caller *account.Account, now uint64, args []TransferArg) ([]*ItemResult, error) {
	return l.update(len(args), func(i int, j *journal) *ItemResult {
		arg := args[i]
		return l.transferItem(caller, now, transferItemArgs{
			op:        transactionrecord.TransferTag,
			from:      caller,
			to:        arg.To,
			tokenID:   arg.TokenID,
			memo:      arg.Memo,
			createdAt: arg.CreatedAt,
		}, j)
	})
}

// TransferFrom - spender initiated ownership changes
//
// the caller must be the owner or hold an unexpired token-level or
// collection-level approval, checked in that precedence order against
// the caller-supplied clock
func (l *Ledger) TransferFrom(caller *account.Account, now uint64, args []TransferFromArg) ([]*ItemResult, error) {
	return l.update(len(args), func(i int, j *journal) *ItemResult {
		arg := args[i]
		return l.transferItem(caller, now, transferItemArgs{
			op:        transactionrecord.TransferFromTag,
			from:      arg.From,
			to:        arg.To,
			spender:   caller,
			tokenID:   arg.TokenID,
			memo:      arg.Memo,
			createdAt: arg.CreatedAt,
		}, j)
	})
}

type transferItemArgs struct {
	op        transactionrecord.OpTag
	from      *account.Account
	to        *account.Account
	spender   *account.Account
	tokenID   *uint256.Int
	memo      []byte
	createdAt uint64
}

func (l *Ledger) transferItem(caller *account.Account, now uint64, arg transferItemArgs, j *journal) *ItemResult {

	if nil == arg.tokenID {
		return &ItemResult{Err: fault.ErrMissingTokenID}
	}
	id := token.ID(*arg.tokenID)
	record, ok := l.tokens.Get(id)
	if !ok {
		return &ItemResult{Err: fault.ErrTokenNotFound}
	}
	owner := record.Owner

	if nil == arg.from {
		return &ItemResult{Err: fault.ErrInvalidRecipient}
	}
	from := arg.from.Normalised()

	var to *account.Account
	if nil != arg.to {
		to = arg.to.Normalised()
	}
	var spender *account.Account
	if nil != arg.spender {
		spender = arg.spender.Normalised()
	}

	// the window and duplicate checks precede authorisation: a replay
	// of a committed transfer reports the original tid even though the
	// ownership it already changed would now fail the owner check
	if err := l.checkWindow(now, arg.createdAt); nil != err {
		return &ItemResult{Err: err}
	}
	if original, ok := l.findDuplicate(arg.op, from, to, spender, arg.tokenID, arg.memo, arg.createdAt, now); ok {
		return &ItemResult{Tid: original, Duplicate: true}
	}

	switch arg.op {
	case transactionrecord.TransferTag:
		if !accountsEqual(owner, caller) {
			return &ItemResult{Err: fault.ErrNotOwner}
		}
	case transactionrecord.TransferFromTag:
		if !accountsEqual(owner, from) {
			return &ItemResult{Err: fault.ErrNotOwner}
		}
		if !l.approvals.IsAuthorized(id, owner, caller, now) {
			return &ItemResult{Err: l.authorisationError(id, owner, caller, now)}
		}
	}

	if err := checkRecipient(to); nil != err {
		return &ItemResult{Err: err}
	}
	if to.Equal(from) {
		return &ItemResult{Err: fault.ErrInvalidRecipient}
	}
	if err := l.checkMemo(arg.memo); nil != err {
		return &ItemResult{Err: err}
	}

	// commit: the token's approvals die with the ownership change
	cleared := l.approvals.ClearToken(id)
	if err := l.tokens.SetOwner(id, to); nil != err {
		return &ItemResult{Err: err}
	}

	j.add(func() {
		_ = l.tokens.SetOwner(id, owner)
		for _, a := range cleared {
			l.approvals.PutToken(id, a)
		}
	})

	tid := l.chain.Append(transactionrecord.Transaction{
		Op:        arg.op,
		Ts:        now,
		From:      owner,
		To:        to,
		Spender:   spender,
		TokenID:   arg.tokenID,
		Memo:      arg.memo,
		CreatedAt: arg.createdAt,
	})
	return &ItemResult{Tid: tid}
}
