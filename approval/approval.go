// SPDX-License-Identifier: ISC

// approval store
//
// token-level and collection-level transfer approvals with lazy expiry
// and count-based eviction.  Expiry is a pure function of the stored
// timestamp and the caller-supplied clock; the store never reads a
// clock itself and runs no sweeps.
package approval

import (
	"sort"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
)

// Approval - one grant allowing a spender to transfer on the owner's behalf
//
// a zero ExpiresAt means the approval never expires
type Approval struct {
	Spender   *account.Account `json:"spender"`
	ExpiresAt uint64           `json:"expiresAt,omitempty"`
	CreatedAt uint64           `json:"createdAt"`
	Memo      []byte           `json:"memo,omitempty"`
}

// IsExpired - check an approval against a caller-supplied clock
func (a *Approval) IsExpired(now uint64) bool {
	return 0 != a.ExpiresAt && a.ExpiresAt <= now
}

// one approval per spender; replaced on re-approval
type grantSet map[account.Key]*Approval

// Store - all token and collection approvals
type Store struct {
	maxPerTarget uint64
	maxTotal     uint64
	settleTo     uint64
	total        uint64

	tokens      map[token.ID]grantSet
	collections map[account.Key]grantSet
}

// NewStore - create an empty approval store
//
// maxPerTarget and settleTo mirror the archival settle-down policy: an
// over-limit target is first purged of expired entries, then trimmed
// oldest-first down to settleTo
func NewStore(maxPerTarget uint64, maxTotal uint64, settleTo uint64) *Store {
	return &Store{
		maxPerTarget: maxPerTarget,
		maxTotal:     maxTotal,
		settleTo:     settleTo,
		tokens:       make(map[token.ID]grantSet),
		collections:  make(map[account.Key]grantSet),
	}
}

// TotalCount - number of stored approvals of both kinds
func (store *Store) TotalCount() uint64 {
	return store.total
}

// ApproveToken - insert or replace the approval for (token, spender)
//
// returns the replaced approval, if any, so a batch rollback can put it
// back
func (store *Store) ApproveToken(id token.ID, a Approval, now uint64) (*Approval, error) {
	set := store.tokens[id]
	if nil == set {
		set = make(grantSet)
		store.tokens[id] = set
	}
	replaced, err := store.upsert(set, a, now)
	if 0 == len(set) {
		delete(store.tokens, id)
	}
	return replaced, err
}

// ApproveCollection - insert or replace the approval for (owner, spender)
func (store *Store) ApproveCollection(owner *account.Account, a Approval, now uint64) (*Approval, error) {
	key := owner.Normalised().AsKey()
	set := store.collections[key]
	if nil == set {
		set = make(grantSet)
		store.collections[key] = set
	}
	replaced, err := store.upsert(set, a, now)
	if 0 == len(set) {
		delete(store.collections, key)
	}
	return replaced, err
}

func (store *Store) upsert(set grantSet, a Approval, now uint64) (*Approval, error) {
	spenderKey := a.Spender.Normalised().AsKey()

	if existing, ok := set[spenderKey]; ok {
		// replacement never changes the count
		replaced := *existing
		stored := a
		stored.Spender = a.Spender.Normalised()
		set[spenderKey] = &stored
		return &replaced, nil
	}

	if uint64(len(set))+1 > store.maxPerTarget || store.total+1 > store.maxTotal {
		store.evict(set, now)
		if uint64(len(set))+1 > store.maxPerTarget || store.total+1 > store.maxTotal {
			return nil, fault.ErrTooManyApprovals
		}
	}

	stored := a
	stored.Spender = a.Spender.Normalised()
	set[spenderKey] = &stored
	store.total += 1
	return nil, nil
}

// evict - expired entries first, then the oldest by created-at down to
// the settle-to count
func (store *Store) evict(set grantSet, now uint64) {
	for key, a := range set {
		if a.IsExpired(now) {
			delete(set, key)
			store.total -= 1
		}
	}

	if uint64(len(set)) <= store.settleTo {
		return
	}

	ordered := sortedGrants(set)
	for _, item := range ordered {
		if uint64(len(set)) <= store.settleTo {
			break
		}
		delete(set, item.key)
		store.total -= 1
	}
}

type grantItem struct {
	key account.Key
	a   *Approval
}

// oldest first; spender key breaks created-at ties deterministically
func sortedGrants(set grantSet) []grantItem {
	ordered := make([]grantItem, 0, len(set))
	for key, a := range set {
		ordered = append(ordered, grantItem{key: key, a: a})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].a.CreatedAt != ordered[j].a.CreatedAt {
			return ordered[i].a.CreatedAt < ordered[j].a.CreatedAt
		}
		return ordered[i].key < ordered[j].key
	})
	return ordered
}

// RevokeToken - remove one or all approvals for a token
//
// nil spender removes all; returns the removed approvals; removing
// nothing is not an error here, the engine decides idempotence
func (store *Store) RevokeToken(id token.ID, spender *account.Account) []Approval {
	set := store.tokens[id]
	removed := store.revoke(set, spender)
	if 0 == len(set) {
		delete(store.tokens, id)
	}
	return removed
}

// RevokeCollection - remove one or all collection approvals of an owner
func (store *Store) RevokeCollection(owner *account.Account, spender *account.Account) []Approval {
	key := owner.Normalised().AsKey()
	set := store.collections[key]
	removed := store.revoke(set, spender)
	if 0 == len(set) {
		delete(store.collections, key)
	}
	return removed
}

func (store *Store) revoke(set grantSet, spender *account.Account) []Approval {
	if nil == set {
		return nil
	}

	if nil != spender {
		spenderKey := spender.Normalised().AsKey()
		if a, ok := set[spenderKey]; ok {
			delete(set, spenderKey)
			store.total -= 1
			return []Approval{*a}
		}
		return nil
	}

	removed := make([]Approval, 0, len(set))
	for _, item := range sortedGrants(set) {
		removed = append(removed, *item.a)
		delete(set, item.key)
		store.total -= 1
	}
	return removed
}

// ClearToken - drop every approval of a token
//
// called on transfer and burn: an ownership change invalidates all
// prior delegations for that token
func (store *Store) ClearToken(id token.ID) []Approval {
	return store.RevokeToken(id, nil)
}

// TokenApprovals - the approvals of one token, oldest first
func (store *Store) TokenApprovals(id token.ID) []Approval {
	return copyGrants(store.tokens[id])
}

// CollectionApprovals - the collection approvals of one owner, oldest first
func (store *Store) CollectionApprovals(owner *account.Account) []Approval {
	return copyGrants(store.collections[owner.Normalised().AsKey()])
}

func copyGrants(set grantSet) []Approval {
	ordered := sortedGrants(set)
	result := make([]Approval, 0, len(ordered))
	for _, item := range ordered {
		result = append(result, *item.a)
	}
	return result
}
