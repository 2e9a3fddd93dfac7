// SPDX-License-Identifier: ISC

package transactionrecord

import (
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// presence flags for the optional fields, in packing order
const (
	flagFrom = 1 << iota
	flagTo
	flagSpender
	flagTokenID
	flagMemo
	flagCreatedAt
	flagExpiresAt
	flagMetadata
)

// Pack - pack a transaction to a byte slice
//
// the packed form is the canonical storage and archive representation;
// it is stable across releases so archived blocks re-read identically
func (tx *Transaction) Pack() (Packed, error) {
	if !tx.Op.IsValid() {
		return nil, fault.ErrCannotDecodeRecord
	}

	flags := byte(0)
	if nil != tx.From {
		flags |= flagFrom
	}
	if nil != tx.To {
		flags |= flagTo
	}
	if nil != tx.Spender {
		flags |= flagSpender
	}
	if nil != tx.TokenID {
		flags |= flagTokenID
	}
	if 0 != len(tx.Memo) {
		flags |= flagMemo
	}
	if 0 != tx.CreatedAt {
		flags |= flagCreatedAt
	}
	if 0 != tx.ExpiresAt {
		flags |= flagExpiresAt
	}
	if 0 != len(tx.Metadata) {
		flags |= flagMetadata
	}

	message := toVarint64(uint64(tx.Op))
	message = append(message, toVarint64(tx.Tid)...)
	message = append(message, toVarint64(tx.Ts)...)
	message = append(message, flags)

	if 0 != flags&flagFrom {
		message = appendBytes(message, tx.From.Bytes())
	}
	if 0 != flags&flagTo {
		message = appendBytes(message, tx.To.Bytes())
	}
	if 0 != flags&flagSpender {
		message = appendBytes(message, tx.Spender.Bytes())
	}
	if 0 != flags&flagTokenID {
		id := tx.TokenID.Bytes32()
		message = append(message, id[:]...)
	}
	if 0 != flags&flagMemo {
		message = appendBytes(message, tx.Memo)
	}
	if 0 != flags&flagCreatedAt {
		message = append(message, toVarint64(tx.CreatedAt)...)
	}
	if 0 != flags&flagExpiresAt {
		message = append(message, toVarint64(tx.ExpiresAt)...)
	}
	if 0 != flags&flagMetadata {
		message = packValue(message, value.FromMap(tx.Metadata))
	}
	return message, nil
}

// appendBytes - append a varint length followed by the data
func appendBytes(buffer []byte, data []byte) []byte {
	buffer = append(buffer, toVarint64(uint64(len(data)))...)
	return append(buffer, data...)
}

// packValue - append the packed form of a generic value
func packValue(buffer []byte, v value.Value) []byte {
	buffer = append(buffer, byte(v.Kind))
	switch v.Kind {

	case value.BlobKind:
		buffer = appendBytes(buffer, v.Blob)

	case value.TextKind:
		buffer = appendBytes(buffer, []byte(v.Text))

	case value.NatKind:
		n := v.Nat.Bytes32()
		buffer = append(buffer, n[:]...)

	case value.IntKind:
		// zig-zag so negative values stay small
		buffer = append(buffer, toVarint64(uint64(v.Int)<<1^uint64(v.Int>>63))...)

	case value.ArrayKind:
		buffer = append(buffer, toVarint64(uint64(len(v.Array)))...)
		for _, item := range v.Array {
			buffer = packValue(buffer, item)
		}

	case value.MapKind:
		buffer = append(buffer, toVarint64(uint64(len(v.Map)))...)
		for _, entry := range v.Map {
			buffer = appendBytes(buffer, []byte(entry.Key))
			buffer = packValue(buffer, entry.Value)
		}
	}
	return buffer
}

// Type - returns the record type code of a packed record
func (record Packed) Type() OpTag {
	recordType, n := fromVarint64(record)
	if 0 == n {
		return NullTag
	}
	return OpTag(recordType)
}
