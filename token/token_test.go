// SPDX-License-Identifier: ISC

package token_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/token"
)

var (
	alice = account.New([]byte{0x0a})
	bob   = account.New([]byte{0x0b})
)

func id(n uint64) token.ID {
	return *uint256.NewInt(n)
}

func TestInsertGetRemove(t *testing.T) {
	store := token.NewStore()

	err := store.Insert(id(1), alice, nil)
	assert.Nil(t, err)

	// duplicate id is rejected
	err = store.Insert(id(1), bob, nil)
	assert.Equal(t, fault.ErrTokenExists, err)

	record, ok := store.Get(id(1))
	assert.True(t, ok)
	assert.True(t, alice.Equal(record.Owner))
	assert.Equal(t, uint64(1), store.Count())

	removed, err := store.Remove(id(1))
	assert.Nil(t, err)
	assert.True(t, alice.Equal(removed.Owner))
	assert.Equal(t, uint64(0), store.Count())

	_, err = store.Remove(id(1))
	assert.Equal(t, fault.ErrTokenNotFound, err)
}

// a burned id is permanently retired, never re-minted
func TestRetiredIdNeverReused(t *testing.T) {
	store := token.NewStore()

	assert.Nil(t, store.Insert(id(7), alice, nil))
	_, err := store.Remove(id(7))
	assert.Nil(t, err)

	assert.True(t, store.IsRetired(id(7)))
	err = store.Insert(id(7), alice, nil)
	assert.Equal(t, fault.ErrTokenRetired, err)

	// undo path only
	store.Unretire(id(7))
	assert.Nil(t, store.Insert(id(7), alice, nil))
}

func TestOwnerIndex(t *testing.T) {
	store := token.NewStore()

	for n := uint64(1); n <= 5; n += 1 {
		assert.Nil(t, store.Insert(id(n), alice, nil))
	}
	assert.Equal(t, uint64(5), store.BalanceOf(alice))
	assert.Equal(t, uint64(0), store.BalanceOf(bob))

	// transfer one token and check both sides of the index
	assert.Nil(t, store.SetOwner(id(3), bob))
	assert.Equal(t, uint64(4), store.BalanceOf(alice))
	assert.Equal(t, uint64(1), store.BalanceOf(bob))

	owner, ok := store.OwnerOf(id(3))
	assert.True(t, ok)
	assert.True(t, bob.Equal(owner))

	ids := store.TokensOf(bob, nil, -1)
	assert.Equal(t, []token.ID{id(3)}, ids)

	ids = store.TokensOf(alice, nil, -1)
	assert.Equal(t, []token.ID{id(1), id(2), id(4), id(5)}, ids)
}

// the default subaccount and a missing subaccount are the same account
func TestOwnerNormalisation(t *testing.T) {
	store := token.NewStore()

	bare := &account.Account{Owner: []byte{0x0a}}
	assert.Nil(t, store.Insert(id(1), bare, nil))

	explicit := account.WithSubaccount([]byte{0x0a}, account.DefaultSubaccount)
	assert.Equal(t, uint64(1), store.BalanceOf(explicit))
}

func TestPagination(t *testing.T) {
	store := token.NewStore()

	for n := uint64(1); n <= 10; n += 1 {
		assert.Nil(t, store.Insert(id(n), alice, nil))
	}

	first := store.Tokens(nil, 4)
	assert.Equal(t, []token.ID{id(1), id(2), id(3), id(4)}, first)

	// cursor is an exclusive lower bound
	cursor := first[len(first)-1]
	second := store.Tokens(&cursor, 4)
	assert.Equal(t, []token.ID{id(5), id(6), id(7), id(8)}, second)

	cursor = second[len(second)-1]
	last := store.Tokens(&cursor, 4)
	assert.Equal(t, []token.ID{id(9), id(10)}, last)

	beyond := last[len(last)-1]
	assert.Equal(t, 0, len(store.Tokens(&beyond, 4)))
}

func TestExportRestore(t *testing.T) {
	store := token.NewStore()
	assert.Nil(t, store.Insert(id(2), alice, nil))
	assert.Nil(t, store.Insert(id(1), bob, nil))
	assert.Nil(t, store.Insert(id(3), alice, nil))
	_, err := store.Remove(id(3))
	assert.Nil(t, err)

	state := store.Export()
	assert.Equal(t, 2, len(state.Tokens))
	// export is ordered by id
	assert.Equal(t, id(1), state.Tokens[0].ID)
	assert.Equal(t, id(2), state.Tokens[1].ID)

	restored, err := token.FromState(state)
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), restored.Count())
	assert.Equal(t, uint64(1), restored.BalanceOf(alice))
	assert.Equal(t, uint64(1), restored.BalanceOf(bob))
	assert.True(t, restored.IsRetired(id(3)))
}
