// SPDX-License-Identifier: ISC

package approval

import (
	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/token"
)

// IsAuthorized - check transfer rights over one token
//
// checked in precedence order, short-circuiting on the first match:
//  1. the caller is the owner
//  2. the caller holds an unexpired token-level approval
//  3. the caller holds an unexpired collection-level approval for the owner
//
// a token-level approval, when present and unexpired, takes precedence
// over a collection approval for that token; expiry is evaluated
// against the caller-supplied clock
func (store *Store) IsAuthorized(id token.ID, owner *account.Account, caller *account.Account, now uint64) bool {
	if owner.Equal(caller) {
		return true
	}
	if a, ok := store.FindTokenApproval(id, caller); ok && !a.IsExpired(now) {
		return true
	}
	if a, ok := store.FindCollectionApproval(owner, caller); ok && !a.IsExpired(now) {
		return true
	}
	return false
}

// FindTokenApproval - the stored token approval for a spender, if any
func (store *Store) FindTokenApproval(id token.ID, spender *account.Account) (*Approval, bool) {
	a, ok := store.tokens[id][spender.Normalised().AsKey()]
	return a, ok
}

// FindCollectionApproval - the stored collection approval of an owner
// for a spender, if any
func (store *Store) FindCollectionApproval(owner *account.Account, spender *account.Account) (*Approval, bool) {
	a, ok := store.collections[owner.Normalised().AsKey()][spender.Normalised().AsKey()]
	return a, ok
}

// HasLiveApproval - check whether the spender has any unexpired grant
// covering the token, token level checked before collection level
func (store *Store) HasLiveApproval(id token.ID, owner *account.Account, spender *account.Account, now uint64) bool {
	if a, ok := store.FindTokenApproval(id, spender); ok {
		return !a.IsExpired(now)
	}
	if a, ok := store.FindCollectionApproval(owner, spender); ok {
		return !a.IsExpired(now)
	}
	return false
}
