// SPDX-License-Identifier: ISC

package account_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/fault"
)

func TestNormalisation(t *testing.T) {
	bare := &account.Account{Owner: []byte{1, 2, 3}}
	normalised := bare.Normalised()

	assert.NotNil(t, normalised.Subaccount, "normalised account missing subaccount")
	assert.Equal(t, account.DefaultSubaccount, *normalised.Subaccount, "not the default subaccount")

	// "no subaccount" and "default subaccount" are the same account
	explicit := account.WithSubaccount([]byte{1, 2, 3}, account.DefaultSubaccount)
	assert.True(t, bare.Equal(explicit), "bare and default-subaccount accounts differ")
}

func TestEquality(t *testing.T) {
	a := account.New([]byte{9, 9, 9})
	b := account.New([]byte{9, 9, 9})
	c := account.New([]byte{9, 9, 8})
	d := account.WithSubaccount([]byte{9, 9, 9}, account.Subaccount{1})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))
}

func TestValidation(t *testing.T) {
	err := (&account.Account{}).IsValid()
	assert.Equal(t, fault.ErrInvalidRecipient, err, "zero length owner accepted")

	tooLong := make([]byte, account.MaxPrincipalBytes+1)
	err = (&account.Account{Owner: tooLong}).IsValid()
	assert.Equal(t, fault.ErrInvalidRecipient, err, "oversize principal accepted")

	err = account.New([]byte{1}).IsValid()
	assert.Nil(t, err)
}

func TestBytesRoundTrip(t *testing.T) {
	a := account.WithSubaccount([]byte{0x10, 0x20, 0x30, 0x40}, account.Subaccount{0xff, 0xee})

	restored, err := account.AccountFromBytes(a.Bytes())
	assert.Nil(t, err)
	assert.True(t, a.Equal(restored), "packed bytes round trip mismatch")

	_, err = account.AccountFromBytes([]byte{})
	assert.Equal(t, fault.ErrCannotDecodeAccount, err)

	_, err = account.AccountFromBytes([]byte{3, 1, 2})
	assert.Equal(t, fault.ErrCannotDecodeAccount, err)
}

func TestBase58RoundTrip(t *testing.T) {
	a := account.New([]byte{0xde, 0xad, 0xbe, 0xef})

	encoded := a.String()
	restored, err := account.AccountFromBase58(encoded)
	assert.Nil(t, err)
	assert.True(t, a.Equal(restored), "base58 round trip mismatch")

	// corrupt the checksum
	corrupted := encoded[:len(encoded)-1] + "1"
	if corrupted == encoded {
		corrupted = encoded[:len(encoded)-1] + "2"
	}
	_, err = account.AccountFromBase58(corrupted)
	assert.NotNil(t, err, "corrupted encoding accepted")
}

func TestBurnAccount(t *testing.T) {
	burn := account.BurnAccount([]byte{7})

	sub := *burn.Subaccount
	assert.Equal(t, byte('B'), sub[0])
	assert.Equal(t, byte('T'), sub[14])
	assert.Equal(t, byte(0), sub[15], "burn tag not zero padded")
}

func TestKeyRoundTrip(t *testing.T) {
	a := account.WithSubaccount([]byte{1, 2}, account.Subaccount{3})

	restored, err := account.AccountFromKey(a.AsKey())
	assert.Nil(t, err)
	assert.True(t, a.Equal(restored))
}
