// SPDX-License-Identifier: ISC

// account identifiers
//
// An account is an opaque authenticated principal identifier plus an
// optional 32 byte subaccount discriminator.  A missing subaccount is
// normalised to the all-zero default subaccount at the ledger boundary
// so that "no subaccount" and "default subaccount" name the same
// account for balance purposes.
package account

import (
	"bytes"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"

	"github.com/av1ctor/icrc7-launchpad/fault"
)

// miscellaneous constants
const (
	SubaccountLength  = 32
	MaxPrincipalBytes = 29
	checksumLength    = 4
)

// Subaccount - fixed length account discriminator
type Subaccount [SubaccountLength]byte

// DefaultSubaccount - the canonical subaccount of accounts created
// without an explicit one
var DefaultSubaccount = Subaccount{}

// Account - principal identifier with optional subaccount
type Account struct {
	Owner      []byte      `json:"owner"`
	Subaccount *Subaccount `json:"subaccount,omitempty"`
}

// New - create a normalised account for a principal
func New(principal []byte) *Account {
	sub := DefaultSubaccount
	return &Account{
		Owner:      append([]byte{}, principal...),
		Subaccount: &sub,
	}
}

// WithSubaccount - create an account for a principal and explicit subaccount
func WithSubaccount(principal []byte, subaccount Subaccount) *Account {
	return &Account{
		Owner:      append([]byte{}, principal...),
		Subaccount: &subaccount,
	}
}

// Normalised - return a copy with a missing subaccount replaced by the default
func (account *Account) Normalised() *Account {
	if nil == account {
		return nil
	}
	sub := DefaultSubaccount
	if nil != account.Subaccount {
		sub = *account.Subaccount
	}
	return &Account{
		Owner:      append([]byte{}, account.Owner...),
		Subaccount: &sub,
	}
}

// IsValid - reject malformed accounts (zero length owner not permitted)
func (account *Account) IsValid() error {
	if nil == account || 0 == len(account.Owner) {
		return fault.ErrInvalidRecipient
	}
	if len(account.Owner) > MaxPrincipalBytes {
		return fault.ErrInvalidRecipient
	}
	return nil
}

// Equal - two accounts are equal iff owner and normalised subaccount match
func (account *Account) Equal(other *Account) bool {
	if nil == account || nil == other {
		return account == other
	}
	if !bytes.Equal(account.Owner, other.Owner) {
		return false
	}
	return account.subaccountOrDefault() == other.subaccountOrDefault()
}

func (account *Account) subaccountOrDefault() Subaccount {
	if nil == account.Subaccount {
		return DefaultSubaccount
	}
	return *account.Subaccount
}

// Bytes - packed binary form: one length byte + owner + subaccount
//
// used as index keys, so the packing must be injective
func (account *Account) Bytes() []byte {
	sub := account.subaccountOrDefault()
	buffer := make([]byte, 0, 1+len(account.Owner)+SubaccountLength)
	buffer = append(buffer, byte(len(account.Owner)))
	buffer = append(buffer, account.Owner...)
	buffer = append(buffer, sub[:]...)
	return buffer
}

// Key - map key form of the packed bytes
type Key string

// AsKey - convert an account to its map key
func (account *Account) AsKey() Key {
	return Key(account.Bytes())
}

// AccountFromKey - rebuild an account from its map key
func AccountFromKey(key Key) (*Account, error) {
	return AccountFromBytes([]byte(key))
}

// AccountFromBytes - unpack the binary form
func AccountFromBytes(buffer []byte) (*Account, error) {
	if 0 == len(buffer) {
		return nil, fault.ErrCannotDecodeAccount
	}
	ownerLength := int(buffer[0])
	if 0 == ownerLength || ownerLength > MaxPrincipalBytes {
		return nil, fault.ErrCannotDecodeAccount
	}
	if len(buffer) != 1+ownerLength+SubaccountLength {
		return nil, fault.ErrCannotDecodeAccount
	}
	var sub Subaccount
	copy(sub[:], buffer[1+ownerLength:])
	return &Account{
		Owner:      append([]byte{}, buffer[1:1+ownerLength]...),
		Subaccount: &sub,
	}, nil
}

// String - base58 form of packed bytes with a 4 byte SHA3-256 checksum
func (account Account) String() string {
	packed := account.Bytes()
	checksum := sha3.Sum256(packed)
	packed = append(packed, checksum[:checksumLength]...)
	return base58.Encode(packed)
}

// MarshalText - convert an account to its base58 JSON form
func (account Account) MarshalText() ([]byte, error) {
	return []byte(account.String()), nil
}

// UnmarshalText - convert base58 text back into an account
func (account *Account) UnmarshalText(s []byte) error {
	decoded, err := AccountFromBase58(string(s))
	if nil != err {
		return err
	}
	*account = *decoded
	return nil
}

// AccountFromBase58 - decode and validate the base58 account form
func AccountFromBase58(accountBase58Encoded string) (*Account, error) {
	accountDecoded, err := base58.Decode(accountBase58Encoded)
	if nil != err {
		return nil, fault.ErrCannotDecodeAccount
	}
	if len(accountDecoded) <= checksumLength {
		return nil, fault.ErrCannotDecodeAccount
	}

	checksumStart := len(accountDecoded) - checksumLength
	checksum := sha3.Sum256(accountDecoded[:checksumStart])
	if !bytes.Equal(checksum[:checksumLength], accountDecoded[checksumStart:]) {
		return nil, fault.ErrChecksumMismatch
	}

	return AccountFromBytes(accountDecoded[:checksumStart])
}
