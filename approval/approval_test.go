// SPDX-License-Identifier: ISC

package approval_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/approval"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
)

var (
	owner    = account.New([]byte{0x01})
	spender  = account.New([]byte{0x02})
	spender2 = account.New([]byte{0x03})
	stranger = account.New([]byte{0x04})
)

func id(n uint64) token.ID {
	return *uint256.NewInt(n)
}

func grant(to *account.Account, createdAt uint64, expiresAt uint64) approval.Approval {
	return approval.Approval{
		Spender:   to,
		CreatedAt: createdAt,
		ExpiresAt: expiresAt,
	}
}

func TestApproveReplace(t *testing.T) {
	store := approval.NewStore(10, 100, 5)

	replaced, err := store.ApproveToken(id(1), grant(spender, 10, 0), 10)
	assert.Nil(t, err)
	assert.Nil(t, replaced, "fresh approval reported a replacement")
	assert.Equal(t, uint64(1), store.TotalCount())

	// at most one approval per (token, spender): replaced, not added
	replaced, err = store.ApproveToken(id(1), grant(spender, 20, 99), 20)
	assert.Nil(t, err)
	assert.NotNil(t, replaced)
	assert.Equal(t, uint64(10), replaced.CreatedAt)
	assert.Equal(t, uint64(1), store.TotalCount())

	list := store.TokenApprovals(id(1))
	assert.Equal(t, 1, len(list))
	assert.Equal(t, uint64(20), list[0].CreatedAt)
}

func TestExpiryIsLazy(t *testing.T) {
	store := approval.NewStore(10, 100, 5)

	_, err := store.ApproveToken(id(1), grant(spender, 1, 50), 1)
	assert.Nil(t, err)

	// the same stored approval flips with the supplied clock
	assert.True(t, store.IsAuthorized(id(1), owner, spender, 49))
	assert.False(t, store.IsAuthorized(id(1), owner, spender, 50))
	assert.False(t, store.IsAuthorized(id(1), owner, spender, 51))
}

func TestAuthorisationPrecedence(t *testing.T) {
	store := approval.NewStore(10, 100, 5)

	// owner always wins
	assert.True(t, store.IsAuthorized(id(1), owner, owner, 0))
	assert.False(t, store.IsAuthorized(id(1), owner, stranger, 0))

	// collection approval covers every token of the owner
	_, err := store.ApproveCollection(owner, grant(spender, 1, 0), 1)
	assert.Nil(t, err)
	assert.True(t, store.IsAuthorized(id(1), owner, spender, 10))
	assert.True(t, store.IsAuthorized(id(2), owner, spender, 10))

	// an expired token approval does not block the live collection one
	// for authorisation, but HasLiveApproval stops at the narrower grant
	_, err = store.ApproveToken(id(1), grant(spender, 2, 5), 2)
	assert.Nil(t, err)
	assert.True(t, store.IsAuthorized(id(1), owner, spender, 10))
	assert.False(t, store.HasLiveApproval(id(1), owner, spender, 10))
}

func TestEviction(t *testing.T) {
	store := approval.NewStore(3, 100, 2)

	// fill to the limit with one expired entry
	_, err := store.ApproveToken(id(1), grant(spender, 1, 50), 1)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(1), grant(spender2, 2, 0), 2)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(1), grant(stranger, 3, 0), 3)
	assert.Nil(t, err)

	// over the limit at now=60: the expired entry goes first
	_, err = store.ApproveToken(id(1), grant(owner, 60, 0), 60)
	assert.Nil(t, err)

	list := store.TokenApprovals(id(1))
	assert.Equal(t, 3, len(list))
	for _, a := range list {
		assert.False(t, a.IsExpired(60), "expired approval survived eviction")
	}
}

func TestEvictionSettlesToCount(t *testing.T) {
	store := approval.NewStore(3, 100, 1)

	// no expired entries: evict oldest by created-at down to settle-to
	_, err := store.ApproveToken(id(1), grant(spender, 1, 0), 1)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(1), grant(spender2, 2, 0), 2)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(1), grant(stranger, 3, 0), 3)
	assert.Nil(t, err)

	_, err = store.ApproveToken(id(1), grant(owner, 4, 0), 4)
	assert.Nil(t, err)

	list := store.TokenApprovals(id(1))
	assert.Equal(t, 2, len(list)) // settled to 1, plus the new entry
	assert.Equal(t, uint64(3), list[0].CreatedAt)
	assert.Equal(t, uint64(4), list[1].CreatedAt)
}

func TestTooManyApprovals(t *testing.T) {
	store := approval.NewStore(1, 100, 0)

	_, err := store.ApproveToken(id(1), grant(spender, 1, 0), 1)
	assert.Nil(t, err)

	// settle-to of zero clears the target entirely, so insertion works
	_, err = store.ApproveToken(id(1), grant(spender2, 2, 0), 2)
	assert.Nil(t, err)

	// a zero per-target limit can never be satisfied
	empty := approval.NewStore(0, 100, 0)
	_, err = empty.ApproveToken(id(1), grant(spender, 1, 0), 1)
	assert.Equal(t, fault.ErrTooManyApprovals, err)
}

func TestLedgerWideLimit(t *testing.T) {
	store := approval.NewStore(10, 2, 10)

	_, err := store.ApproveToken(id(1), grant(spender, 1, 0), 1)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(2), grant(spender, 2, 0), 2)
	assert.Nil(t, err)

	_, err = store.ApproveToken(id(3), grant(spender, 3, 0), 3)
	assert.Equal(t, fault.ErrTooManyApprovals, err)
}

func TestRevoke(t *testing.T) {
	store := approval.NewStore(10, 100, 5)

	_, err := store.ApproveToken(id(1), grant(spender, 1, 0), 1)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(1), grant(spender2, 2, 0), 2)
	assert.Nil(t, err)

	// revoking a non-existent approval removes nothing
	removed := store.RevokeToken(id(1), stranger)
	assert.Equal(t, 0, len(removed))

	removed = store.RevokeToken(id(1), spender)
	assert.Equal(t, 1, len(removed))
	assert.Equal(t, uint64(1), store.TotalCount())

	// nil spender removes the rest
	removed = store.RevokeToken(id(1), nil)
	assert.Equal(t, 1, len(removed))
	assert.Equal(t, uint64(0), store.TotalCount())
}

func TestClearToken(t *testing.T) {
	store := approval.NewStore(10, 100, 5)

	_, err := store.ApproveToken(id(1), grant(spender, 1, 0), 1)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(1), grant(spender2, 2, 0), 2)
	assert.Nil(t, err)
	_, err = store.ApproveCollection(owner, grant(spender, 3, 0), 3)
	assert.Nil(t, err)

	removed := store.ClearToken(id(1))
	assert.Equal(t, 2, len(removed))

	// collection approvals are untouched by a token clear
	assert.Equal(t, 1, len(store.CollectionApprovals(owner)))
}

func TestExportRestore(t *testing.T) {
	store := approval.NewStore(10, 100, 5)

	_, err := store.ApproveToken(id(2), grant(spender, 1, 99), 1)
	assert.Nil(t, err)
	_, err = store.ApproveToken(id(1), grant(spender2, 2, 0), 2)
	assert.Nil(t, err)
	_, err = store.ApproveCollection(owner, grant(spender, 3, 0), 3)
	assert.Nil(t, err)

	state := store.Export()
	assert.Equal(t, 2, len(state.Tokens))
	assert.Equal(t, 1, len(state.Collections))
	// deterministic ordering by token id
	assert.Equal(t, id(1), state.Tokens[0].TokenID)

	restored := approval.FromState(state, 10, 100, 5)
	assert.Equal(t, uint64(3), restored.TotalCount())
	a, ok := restored.FindTokenApproval(id(2), spender)
	assert.True(t, ok)
	assert.Equal(t, uint64(99), a.ExpiresAt)
	assert.True(t, restored.IsAuthorized(id(9), owner, spender, 10))
}
