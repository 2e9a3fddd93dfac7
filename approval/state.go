// SPDX-License-Identifier: ISC

package approval

import (
	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/token"
)

// TokenGrants - all approvals of one token in the serialisable form
type TokenGrants struct {
	TokenID   token.ID   `json:"tokenId"`
	Approvals []Approval `json:"approvals"`
}

// CollectionGrants - all collection approvals of one owner
type CollectionGrants struct {
	Owner     *account.Account `json:"owner"`
	Approvals []Approval       `json:"approvals"`
}

// StoreState - the serialisable form of the approval store
type StoreState struct {
	Tokens      []TokenGrants      `json:"tokens,omitempty"`
	Collections []CollectionGrants `json:"collections,omitempty"`
}

// Export - produce the serialisable state in deterministic order
func (store *Store) Export() StoreState {
	state := StoreState{}

	var ids idSorter
	for id := range store.tokens {
		ids = append(ids, id)
	}
	ids.sort()
	for _, id := range ids {
		state.Tokens = append(state.Tokens, TokenGrants{
			TokenID:   id,
			Approvals: copyGrants(store.tokens[id]),
		})
	}

	var keys []account.Key
	for key := range store.collections {
		keys = append(keys, key)
	}
	sortKeys(keys)
	for _, key := range keys {
		owner, err := account.AccountFromKey(key)
		if nil != err {
			continue // unreachable: keys are produced by AsKey
		}
		state.Collections = append(state.Collections, CollectionGrants{
			Owner:     owner,
			Approvals: copyGrants(store.collections[key]),
		})
	}
	return state
}

// FromState - rebuild an approval store from exported state
//
// entries are reinserted raw: limits were enforced when they were
// first stored
func FromState(state StoreState, maxPerTarget uint64, maxTotal uint64, settleTo uint64) *Store {
	store := NewStore(maxPerTarget, maxTotal, settleTo)
	for _, grants := range state.Tokens {
		for _, a := range grants.Approvals {
			store.PutToken(grants.TokenID, a)
		}
	}
	for _, grants := range state.Collections {
		for _, a := range grants.Approvals {
			store.PutCollection(grants.Owner, a)
		}
	}
	return store
}

// PutToken - raw insert bypassing limits, for restore and batch undo
func (store *Store) PutToken(id token.ID, a Approval) {
	set := store.tokens[id]
	if nil == set {
		set = make(grantSet)
		store.tokens[id] = set
	}
	key := a.Spender.Normalised().AsKey()
	if _, ok := set[key]; !ok {
		store.total += 1
	}
	stored := a
	set[key] = &stored
}

// PutCollection - raw insert bypassing limits, for restore and batch undo
func (store *Store) PutCollection(owner *account.Account, a Approval) {
	ownerKey := owner.Normalised().AsKey()
	set := store.collections[ownerKey]
	if nil == set {
		set = make(grantSet)
		store.collections[ownerKey] = set
	}
	key := a.Spender.Normalised().AsKey()
	if _, ok := set[key]; !ok {
		store.total += 1
	}
	stored := a
	set[key] = &stored
}
