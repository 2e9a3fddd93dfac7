// SPDX-License-Identifier: ISC

// transaction records
//
// the fixed schema record of one completed ledger operation, plus its
// packed binary form and its generic value form used for block hashing
package transactionrecord

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// OpTag - type code for transactions
type OpTag uint64

// enumerate the possible transaction record types
// this is encoded as a Varint64 at start of "Packed"
const (
	// null marks beginning of list - not used as a record type
	NullTag = OpTag(iota)

	// valid record types
	MintTag              = OpTag(iota) // create a token
	BurnTag              = OpTag(iota) // retire a token
	TransferTag          = OpTag(iota) // owner initiated transfer
	TransferFromTag      = OpTag(iota) // spender initiated transfer
	ApproveTag           = OpTag(iota) // token level approval
	ApproveCollectionTag = OpTag(iota) // collection level approval
	RevokeTag            = OpTag(iota) // token level revocation
	RevokeCollectionTag  = OpTag(iota) // collection level revocation

	// this item must be last
	InvalidTag = OpTag(iota)
)

// block type names as recorded in the "btype" field of a block
var tagNames = map[OpTag]string{
	MintTag:              "7mint",
	BurnTag:              "7burn",
	TransferTag:          "7xfer",
	TransferFromTag:      "37xfer",
	ApproveTag:           "37appr",
	ApproveCollectionTag: "37appr_coll",
	RevokeTag:            "37revoke",
	RevokeCollectionTag:  "37revoke_coll",
}

// String - the name of an operation tag
func (tag OpTag) String() string {
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return "*unknown*"
}

// IsValid - check a tag denotes a real operation
func (tag OpTag) IsValid() bool {
	return tag > NullTag && tag < InvalidTag
}

// Packed - packed records are just a byte slice
type Packed []byte

// Transaction - the unpacked transaction structure
//
// optional fields are nil / zero when absent; a zero timestamp means
// "not supplied" throughout
type Transaction struct {
	Op        OpTag            `json:"op"`
	Tid       uint64           `json:"tid"`
	Ts        uint64           `json:"ts"`
	From      *account.Account `json:"from,omitempty"`
	To        *account.Account `json:"to,omitempty"`
	Spender   *account.Account `json:"spender,omitempty"`
	TokenID   *uint256.Int     `json:"tokenId,omitempty"`
	Memo      []byte           `json:"memo,omitempty"`
	CreatedAt uint64           `json:"createdAt,omitempty"`
	ExpiresAt uint64           `json:"expiresAt,omitempty"`
	Metadata  value.Map        `json:"metadata,omitempty"`
}

// ToValue - the generic value form of the inner "tx" map of a block
func (tx *Transaction) ToValue() value.Value {
	var m value.Map
	m = m.Set("tid", value.NatFromUint64(tx.Tid))
	m = m.Set("ts", value.NatFromUint64(tx.Ts))
	if nil != tx.From {
		m = m.Set("from", value.AccountValue(tx.From))
	}
	if nil != tx.To {
		m = m.Set("to", value.AccountValue(tx.To))
	}
	if nil != tx.Spender {
		m = m.Set("spender", value.AccountValue(tx.Spender))
	}
	if nil != tx.TokenID {
		m = m.Set("token_id", value.Nat(tx.TokenID))
	}
	if 0 != len(tx.Memo) {
		m = m.Set("memo", value.Blob(tx.Memo))
	}
	if 0 != tx.CreatedAt {
		m = m.Set("created_at", value.NatFromUint64(tx.CreatedAt))
	}
	if 0 != tx.ExpiresAt {
		m = m.Set("exp", value.NatFromUint64(tx.ExpiresAt))
	}
	if 0 != len(tx.Metadata) {
		m = m.Set("meta", value.FromMap(tx.Metadata))
	}
	return value.FromMap(m)
}
