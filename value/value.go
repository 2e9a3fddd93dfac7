// SPDX-License-Identifier: ISC

// generic tagged values
//
// the fixed vocabulary of values that transaction blocks are built
// from: blob, text, nat (u128), int, array and ordered map.  Values are
// pure data; the only behaviour is the deterministic content hash used
// for the block chain linkage.
package value

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
)

// Kind - tag of a generic value
type Kind int

// enumerate the possible value kinds
const (
	NullKind = Kind(iota)
	BlobKind
	TextKind
	NatKind
	IntKind
	ArrayKind
	MapKind
)

// Value - one tagged generic value
//
// exactly one of the payload fields corresponding to Kind is set
type Value struct {
	Kind  Kind        `json:"kind"`
	Blob  []byte      `json:"blob,omitempty"`
	Text  string      `json:"text,omitempty"`
	Nat   uint256.Int `json:"nat,omitempty"`
	Int   int64       `json:"int,omitempty"`
	Array []Value     `json:"array,omitempty"`
	Map   Map         `json:"map,omitempty"`
}

// Entry - one key/value pair of an ordered map
type Entry struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// Map - an ordered key→value map, entries sorted by key
type Map []Entry

// Blob - create a blob value
func Blob(buffer []byte) Value {
	return Value{Kind: BlobKind, Blob: append([]byte{}, buffer...)}
}

// Text - create a text value
func Text(s string) Value {
	return Value{Kind: TextKind, Text: s}
}

// Nat - create a nat value from a u128/u256
func Nat(n *uint256.Int) Value {
	return Value{Kind: NatKind, Nat: *n}
}

// NatFromUint64 - create a nat value from a plain uint64
func NatFromUint64(n uint64) Value {
	return Value{Kind: NatKind, Nat: *uint256.NewInt(n)}
}

// Int - create an int value
func Int(n int64) Value {
	return Value{Kind: IntKind, Int: n}
}

// Array - create an array value
func Array(items ...Value) Value {
	return Value{Kind: ArrayKind, Array: items}
}

// FromMap - create a map value
func FromMap(m Map) Value {
	return Value{Kind: MapKind, Map: m}
}

// Set - insert or replace an entry keeping the map ordered by key
func (m Map) Set(key string, v Value) Map {
	n := len(m)
	i := 0
	for i < n && m[i].Key < key {
		i += 1
	}
	if i < n && m[i].Key == key {
		m[i].Value = v
		return m
	}
	m = append(m, Entry{})
	copy(m[i+1:], m[i:])
	m[i] = Entry{Key: key, Value: v}
	return m
}

// Get - fetch an entry by key
func (m Map) Get(key string) (Value, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return Value{}, false
}

// AccountValue - the log entry encoding of an account
//
// an array of owner bytes and subaccount bytes
func AccountValue(acct *account.Account) Value {
	normalised := acct.Normalised()
	sub := *normalised.Subaccount
	return Array(Blob(normalised.Owner), Blob(sub[:]))
}
