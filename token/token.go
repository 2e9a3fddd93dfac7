// SPDX-License-Identifier: ISC

// token store
//
// token-id → token-record mapping with an owner-indexed secondary view
// for balance and enumeration queries.  The owner index and the ordered
// id index are maintained incrementally on every insert, remove and
// ownership change so queries never scan the whole store.  A burned id
// is retired permanently and can never be minted again.
package token

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// ID - token identifier, a u128 carried in a u256 container
type ID = uint256.Int

// Token - one token record
type Token struct {
	ID       ID               `json:"id"`
	Owner    *account.Account `json:"owner"`
	Metadata value.Map        `json:"metadata,omitempty"`
}

// Store - the token store
type Store struct {
	tokens  map[ID]*Token
	order   idList                 // all live ids, ascending
	owners  map[account.Key]idList // per owner ids, ascending
	retired map[ID]struct{}
}

// NewStore - create an empty store
func NewStore() *Store {
	return &Store{
		tokens:  make(map[ID]*Token),
		owners:  make(map[account.Key]idList),
		retired: make(map[ID]struct{}),
	}
}

// Get - fetch one token record
func (store *Store) Get(id ID) (*Token, bool) {
	t, ok := store.tokens[id]
	return t, ok
}

// Has - check a token id is live
func (store *Store) Has(id ID) bool {
	_, ok := store.tokens[id]
	return ok
}

// IsRetired - check a token id was burned
func (store *Store) IsRetired(id ID) bool {
	_, ok := store.retired[id]
	return ok
}

// Count - number of live tokens
func (store *Store) Count() uint64 {
	return uint64(len(store.tokens))
}

// Insert - add a new token record
//
// fails if the id is live or retired; the owner index is updated in the
// same step so both change together or neither does
func (store *Store) Insert(id ID, owner *account.Account, metadata value.Map) error {
	if _, ok := store.tokens[id]; ok {
		return fault.ErrTokenExists
	}
	if _, ok := store.retired[id]; ok {
		return fault.ErrTokenRetired
	}

	normalised := owner.Normalised()
	store.tokens[id] = &Token{
		ID:       id,
		Owner:    normalised,
		Metadata: metadata,
	}
	store.order = store.order.insert(id)

	key := normalised.AsKey()
	store.owners[key] = store.owners[key].insert(id)
	return nil
}

// Remove - delete a token record and retire its id
func (store *Store) Remove(id ID) (*Token, error) {
	t, ok := store.tokens[id]
	if !ok {
		return nil, fault.ErrTokenNotFound
	}

	delete(store.tokens, id)
	store.order = store.order.remove(id)
	store.removeFromOwner(t.Owner, id)
	store.retired[id] = struct{}{}
	return t, nil
}

// Unretire - drop the retired marker for an id
//
// only used by the atomic batch undo path to reverse a burn
func (store *Store) Unretire(id ID) {
	delete(store.retired, id)
}

// SetOwner - reassign ownership of a live token
func (store *Store) SetOwner(id ID, newOwner *account.Account) error {
	t, ok := store.tokens[id]
	if !ok {
		return fault.ErrTokenNotFound
	}

	normalised := newOwner.Normalised()
	store.removeFromOwner(t.Owner, id)
	t.Owner = normalised

	key := normalised.AsKey()
	store.owners[key] = store.owners[key].insert(id)
	return nil
}

func (store *Store) removeFromOwner(owner *account.Account, id ID) {
	key := owner.AsKey()
	remaining := store.owners[key].remove(id)
	if 0 == len(remaining) {
		delete(store.owners, key)
	} else {
		store.owners[key] = remaining
	}
}

// BalanceOf - count of ids owned by an account
func (store *Store) BalanceOf(owner *account.Account) uint64 {
	return uint64(len(store.owners[owner.Normalised().AsKey()]))
}

// OwnerOf - the owner of a live token
func (store *Store) OwnerOf(id ID) (*account.Account, bool) {
	t, ok := store.tokens[id]
	if !ok {
		return nil, false
	}
	return t.Owner, true
}

// Tokens - all live ids in ascending order, paginated
//
// prev is an exclusive lower bound; nil starts from the beginning
func (store *Store) Tokens(prev *ID, take int) []ID {
	return store.order.page(prev, take)
}

// TokensOf - ids owned by an account in ascending order, paginated
func (store *Store) TokensOf(owner *account.Account, prev *ID, take int) []ID {
	return store.owners[owner.Normalised().AsKey()].page(prev, take)
}
