// SPDX-License-Identifier: ISC

package value_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/value"
)

func TestMapOrdering(t *testing.T) {
	var m value.Map
	m = m.Set("zebra", value.Int(1))
	m = m.Set("alpha", value.Int(2))
	m = m.Set("mid", value.Int(3))

	assert.Equal(t, "alpha", m[0].Key)
	assert.Equal(t, "mid", m[1].Key)
	assert.Equal(t, "zebra", m[2].Key)

	// replacement keeps the ordering and the length
	m = m.Set("mid", value.Int(9))
	assert.Equal(t, 3, len(m))

	v, ok := m.Get("mid")
	assert.True(t, ok)
	assert.Equal(t, int64(9), v.Int)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

// insertion order must not influence the hash
func TestMapHashCanonical(t *testing.T) {
	var one value.Map
	one = one.Set("a", value.Text("x"))
	one = one.Set("b", value.NatFromUint64(7))

	var two value.Map
	two = two.Set("b", value.NatFromUint64(7))
	two = two.Set("a", value.Text("x"))

	assert.Equal(t, value.FromMap(one).Hash(), value.FromMap(two).Hash())
}

func TestHashDiscriminatesKinds(t *testing.T) {
	hashes := []value.Value{
		value.Blob([]byte("10")),
		value.Text("10"),
		value.NatFromUint64(10),
		value.Int(10),
		value.Array(value.Int(10)),
	}

	seen := make(map[string]int)
	for i, v := range hashes {
		h := v.Hash().String()
		if previous, ok := seen[h]; ok {
			t.Fatalf("kind %d and %d hash identically", previous, i)
		}
		seen[h] = i
	}
}

func TestNatHashStability(t *testing.T) {
	big := new(uint256.Int).Lsh(uint256.NewInt(1), 100) // > 64 bits
	first := value.Nat(big).Hash()
	second := value.Nat(new(uint256.Int).Set(big)).Hash()
	assert.Equal(t, first, second)

	assert.NotEqual(t, value.NatFromUint64(0).Hash(), value.NatFromUint64(1).Hash())
}

func TestNegativeIntHash(t *testing.T) {
	assert.NotEqual(t, value.Int(-1).Hash(), value.Int(1).Hash())
	assert.NotEqual(t, value.Int(-64).Hash(), value.Int(-65).Hash())
}

func TestAccountValue(t *testing.T) {
	acct := &account.Account{Owner: []byte{1, 2, 3}}
	v := value.AccountValue(acct)

	assert.Equal(t, value.ArrayKind, v.Kind)
	assert.Equal(t, 2, len(v.Array))
	assert.Equal(t, []byte{1, 2, 3}, v.Array[0].Blob)
	assert.Equal(t, account.SubaccountLength, len(v.Array[1].Blob))

	// accounts that are equal after normalisation encode identically
	explicit := account.WithSubaccount([]byte{1, 2, 3}, account.DefaultSubaccount)
	assert.Equal(t, v.Hash(), value.AccountValue(explicit).Hash())
}
