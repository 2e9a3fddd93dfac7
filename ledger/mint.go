// SPDX-License-Identifier: ISC

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/approval"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// MintArg - one item of a mint batch
type MintArg struct {
	To        *account.Account
	TokenID   *uint256.Int
	Metadata  value.Map
	Memo      []byte
	CreatedAt uint64
}

// BurnArg - one item of a burn batch
type BurnArg struct {
	TokenID   *uint256.Int
	Memo      []byte
	CreatedAt uint64
}

// Mint - create new tokens
//
// only the minting authority may mint; a token id repeated inside the
// batch yields a nil result slot for the later occurrence
func (l *Ledger) Mint(caller *account.Account, now uint64, args []MintArg) ([]*ItemResult, error) {
	seen := make(map[token.ID]struct{}, len(args))
	return l.update(len(args), func(i int, j *journal) *ItemResult {
		arg := args[i]

		if nil != arg.TokenID {
			id := token.ID(*arg.TokenID)
			if _, ok := seen[id]; ok {
				return nil // duplicate id inside this batch
			}
			seen[id] = struct{}{}
		}

		return l.mintItem(caller, now, arg, j)
	})
}

func (l *Ledger) mintItem(caller *account.Account, now uint64, arg MintArg, j *journal) *ItemResult {

	authority := l.options.MintingAuthority
	if nil == authority || !accountsEqual(authority, caller) {
		return &ItemResult{Err: fault.ErrNotMintingAuthority}
	}
	if nil == arg.TokenID {
		return &ItemResult{Err: fault.ErrMissingTokenID}
	}
	if err := checkRecipient(arg.To); nil != err {
		return &ItemResult{Err: err}
	}
	if err := l.checkMemo(arg.Memo); nil != err {
		return &ItemResult{Err: err}
	}
	if supplyCap := l.options.SupplyCap; nil != supplyCap && supplyCap.CmpUint64(l.supply.Uint64()) <= 0 {
		return &ItemResult{Err: fault.ErrSupplyCapExceeded}
	}

	id := token.ID(*arg.TokenID)
	to := arg.To.Normalised()
	if err := l.tokens.Insert(id, to, arg.Metadata); nil != err {
		return &ItemResult{Err: err}
	}
	l.supply.Increment()

	j.add(func() {
		_, _ = l.tokens.Remove(id)
		l.tokens.Unretire(id)
		l.supply.Decrement()
	})

	tid := l.chain.Append(transactionrecord.Transaction{
		Op:        transactionrecord.MintTag,
		Ts:        now,
		To:        to,
		TokenID:   arg.TokenID,
		Memo:      arg.Memo,
		CreatedAt: arg.CreatedAt,
		Metadata:  arg.Metadata,
	})
	return &ItemResult{Tid: tid}
}

// MintWithApproval - mint and immediately approve the minting
// authority as a spender of the new token
//
// the approval's spender subaccount is derived from the recipient
// principal so the authority holds one slot per recipient
func (l *Ledger) MintWithApproval(caller *account.Account, now uint64, args []MintArg) ([]*ItemResult, error) {
	seen := make(map[token.ID]struct{}, len(args))
	return l.update(len(args), func(i int, j *journal) *ItemResult {
		arg := args[i]

		if nil != arg.TokenID {
			id := token.ID(*arg.TokenID)
			if _, ok := seen[id]; ok {
				return nil
			}
			seen[id] = struct{}{}
		}

		r := l.mintItem(caller, now, arg, j)
		if nil == r || nil != r.Err {
			return r
		}

		id := token.ID(*arg.TokenID)
		spender := account.WithSubaccount(
			l.options.MintingAuthority.Owner,
			account.PrincipalSubaccount(arg.To.Owner),
		)
		grant := approval.Approval{
			Spender:   spender,
			CreatedAt: now,
		}
		replaced, err := l.approvals.ApproveToken(id, grant, now)
		if nil != err {
			return &ItemResult{Err: err}
		}
		j.add(func() {
			if nil != replaced {
				l.approvals.PutToken(id, *replaced)
			} else {
				l.approvals.RevokeToken(id, spender)
			}
		})

		l.chain.Append(transactionrecord.Transaction{
			Op:      transactionrecord.ApproveTag,
			Ts:      now,
			From:    arg.To.Normalised(),
			Spender: spender,
			TokenID: arg.TokenID,
		})
		return r
	})
}

// Burn - retire tokens
//
// the caller must be the owner or hold a live approval; the burned id
// is never minted again
func (l *Ledger) Burn(caller *account.Account, now uint64, args []BurnArg) ([]*ItemResult, error) {
	return l.update(len(args), func(i int, j *journal) *ItemResult {
		arg := args[i]

		if nil == arg.TokenID {
			return &ItemResult{Err: fault.ErrMissingTokenID}
		}
		id := token.ID(*arg.TokenID)
		record, ok := l.tokens.Get(id)
		if !ok {
			return &ItemResult{Err: fault.ErrTokenNotFound}
		}
		if !l.approvals.IsAuthorized(id, record.Owner, caller, now) {
			return &ItemResult{Err: l.authorisationError(id, record.Owner, caller, now)}
		}
		if err := l.checkMemo(arg.Memo); nil != err {
			return &ItemResult{Err: err}
		}

		owner := record.Owner
		metadata := record.Metadata
		cleared := l.approvals.ClearToken(id)
		if _, err := l.tokens.Remove(id); nil != err {
			return &ItemResult{Err: err}
		}
		l.supply.Decrement()

		j.add(func() {
			l.tokens.Unretire(id)
			_ = l.tokens.Insert(id, owner, metadata)
			for _, a := range cleared {
				l.approvals.PutToken(id, a)
			}
			l.supply.Increment()
		})

		tid := l.chain.Append(transactionrecord.Transaction{
			Op:        transactionrecord.BurnTag,
			Ts:        now,
			From:      owner,
			To:        l.options.burnAccount(),
			TokenID:   arg.TokenID,
			Memo:      arg.Memo,
			CreatedAt: arg.CreatedAt,
		})
		return &ItemResult{Tid: tid}
	})
}
