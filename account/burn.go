// SPDX-License-Identifier: ISC

package account

// the burn subaccount is the ASCII tag padded with zero bytes
const burnTag = "BURN SUBACCOUNT"

// BurnSubaccount - the well-known subaccount receiving burned tokens
func BurnSubaccount() Subaccount {
	var sub Subaccount
	copy(sub[:], burnTag)
	return sub
}

// BurnAccount - the ledger's burn account for a ledger principal
func BurnAccount(ledgerPrincipal []byte) *Account {
	return WithSubaccount(ledgerPrincipal, BurnSubaccount())
}

// PrincipalSubaccount - a subaccount derived from a principal
//
// used by the minting authority to hold one approval slot per recipient
func PrincipalSubaccount(principal []byte) Subaccount {
	var sub Subaccount
	copy(sub[:], principal)
	return sub
}
