// SPDX-License-Identifier: ISC

package ledger

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/approval"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
)

// ApproveArg - one item of a token approval batch
type ApproveArg struct {
	TokenID   *uint256.Int
	Spender   *account.Account
	ExpiresAt uint64
	CreatedAt uint64
	Memo      []byte
}

// ApproveCollectionArg - one item of a collection approval batch
type ApproveCollectionArg struct {
	Spender   *account.Account
	ExpiresAt uint64
	CreatedAt uint64
	Memo      []byte
}

// RevokeArg - one item of a token revocation batch
//
// a nil Spender revokes every approval of the token
type RevokeArg struct {
	TokenID   *uint256.Int
	Spender   *account.Account
	Memo      []byte
	CreatedAt uint64
}

// RevokeCollectionArg - one item of a collection revocation batch
type RevokeCollectionArg struct {
	Spender   *account.Account
	Memo      []byte
	CreatedAt uint64
}

// Approve - grant token level transfer rights
//
// re-approving the same (token, spender) pair replaces the old grant
func (l *Ledger) Approve(caller *account.Account, now uint64, args []ApproveArg) ([]*ItemResult, error) {
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
		if !accountsEqual(record.Owner, caller) {
			return &ItemResult{Err: fault.ErrNotOwner}
		}
		if err := l.checkGrant(now, arg.Spender, arg.ExpiresAt, arg.Memo); nil != err {
			return &ItemResult{Err: err}
		}

		spender := arg.Spender.Normalised()
		grant := approval.Approval{
			Spender:   spender,
			ExpiresAt: arg.ExpiresAt,
			CreatedAt: arg.CreatedAt,
			Memo:      arg.Memo,
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

		tid := l.chain.Append(transactionrecord.Transaction{
			Op:        transactionrecord.ApproveTag,
			Ts:        now,
			From:      record.Owner,
			Spender:   spender,
			TokenID:   arg.TokenID,
			Memo:      arg.Memo,
			CreatedAt: arg.CreatedAt,
			ExpiresAt: arg.ExpiresAt,
		})
		return &ItemResult{Tid: tid}
	})
}

// ApproveCollection - grant transfer rights over every token the
// caller owns now or later
func (l *Ledger) ApproveCollection(caller *account.Account, now uint64, args []ApproveCollectionArg) ([]*ItemResult, error) {
	return l.update(len(args), func(i int, j *journal) *ItemResult {
		arg := args[i]

		if l.options.CollectionApprovalRequiresToken && 0 == l.tokens.BalanceOf(caller) {
			return &ItemResult{Err: fault.ErrNotAuthorised}
		}
		if err := l.checkGrant(now, arg.Spender, arg.ExpiresAt, arg.Memo); nil != err {
			return &ItemResult{Err: err}
		}

		owner := caller.Normalised()
		spender := arg.Spender.Normalised()
		grant := approval.Approval{
			Spender:   spender,
			ExpiresAt: arg.ExpiresAt,
			CreatedAt: arg.CreatedAt,
			Memo:      arg.Memo,
		}
		replaced, err := l.approvals.ApproveCollection(owner, grant, now)
		if nil != err {
			return &ItemResult{Err: err}
		}
		j.add(func() {
			if nil != replaced {
				l.approvals.PutCollection(owner, *replaced)
			} else {
				l.approvals.RevokeCollection(owner, spender)
			}
		})

		tid := l.chain.Append(transactionrecord.Transaction{
			Op:        transactionrecord.ApproveCollectionTag,
			Ts:        now,
			From:      owner,
			Spender:   spender,
			Memo:      arg.Memo,
			CreatedAt: arg.CreatedAt,
			ExpiresAt: arg.ExpiresAt,
		})
		return &ItemResult{Tid: tid}
	})
}

// Revoke - remove token level approvals
//
// revoking an absent approval on an existing token is a successful
// no-op and appends nothing
func (l *Ledger) Revoke(caller *account.Account, now uint64, args []RevokeArg) ([]*ItemResult, error) {
	revoked := uint64(0)
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
		if !accountsEqual(record.Owner, caller) {
			return &ItemResult{Err: fault.ErrNotOwner}
		}
		if err := l.checkMemo(arg.Memo); nil != err {
			return &ItemResult{Err: err}
		}

		var spender *account.Account
		if nil != arg.Spender {
			spender = arg.Spender.Normalised()
		}
		if revoked+l.countRevocable(id, spender) > l.options.MaxRevokeApprovals {
			return &ItemResult{Err: fault.ErrTooManyApprovals}
		}

		removed := l.approvals.RevokeToken(id, spender)
		if 0 == len(removed) {
			return &ItemResult{Noop: true}
		}
		revoked += uint64(len(removed))

		j.add(func() {
			for _, a := range removed {
				l.approvals.PutToken(id, a)
			}
		})

		tid := l.chain.Append(transactionrecord.Transaction{
			Op:        transactionrecord.RevokeTag,
			Ts:        now,
			From:      record.Owner,
			Spender:   spender,
			TokenID:   arg.TokenID,
			Memo:      arg.Memo,
			CreatedAt: arg.CreatedAt,
		})
		return &ItemResult{Tid: tid}
	})
}

// RevokeCollection - remove collection level approvals of the caller
func (l *Ledger) RevokeCollection(caller *account.Account, now uint64, args []RevokeCollectionArg) ([]*ItemResult, error) {
	revoked := uint64(0)
	return l.update(len(args), func(i int, j *journal) *ItemResult {
		arg := args[i]

		if err := l.checkMemo(arg.Memo); nil != err {
			return &ItemResult{Err: err}
		}

		owner := caller.Normalised()
		var spender *account.Account
		if nil != arg.Spender {
			spender = arg.Spender.Normalised()
		}
		if revoked+l.countCollectionRevocable(owner, spender) > l.options.MaxRevokeApprovals {
			return &ItemResult{Err: fault.ErrTooManyApprovals}
		}

		removed := l.approvals.RevokeCollection(owner, spender)
		if 0 == len(removed) {
			return &ItemResult{Noop: true}
		}
		revoked += uint64(len(removed))

		j.add(func() {
			for _, a := range removed {
				l.approvals.PutCollection(owner, a)
			}
		})

		tid := l.chain.Append(transactionrecord.Transaction{
			Op:        transactionrecord.RevokeCollectionTag,
			Ts:        now,
			From:      owner,
			Spender:   spender,
			Memo:      arg.Memo,
			CreatedAt: arg.CreatedAt,
		})
		return &ItemResult{Tid: tid}
	})
}

// checkGrant - shared validation for the approve operations
func (l *Ledger) checkGrant(now uint64, spender *account.Account, expiresAt uint64, memo []byte) error {
	if nil == spender {
		return fault.ErrInvalidRecipient
	}
	if err := spender.IsValid(); nil != err {
		return fault.ErrInvalidRecipient
	}
	if 0 != expiresAt && expiresAt <= now {
		return fault.ErrExpiresInPast
	}
	return l.checkMemo(memo)
}

// countRevocable - how many approvals a token revocation would remove
func (l *Ledger) countRevocable(id token.ID, spender *account.Account) uint64 {
	if nil != spender {
		if _, ok := l.approvals.FindTokenApproval(id, spender); ok {
			return 1
		}
		return 0
	}
	return uint64(len(l.approvals.TokenApprovals(id)))
}

// countCollectionRevocable - how many approvals a collection
// revocation would remove
func (l *Ledger) countCollectionRevocable(owner *account.Account, spender *account.Account) uint64 {
	if nil != spender {
		if _, ok := l.approvals.FindCollectionApproval(owner, spender); ok {
			return 1
		}
		return 0
	}
	return uint64(len(l.approvals.CollectionApprovals(owner)))
}
