// SPDX-License-Identifier: ISC

package transactionrecord

import (
	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// Unpack - decode a packed transaction
//
// returns the transaction and the number of bytes consumed
func (record Packed) Unpack() (*Transaction, int, error) {
	tag, n := fromVarint64(record)
	if 0 == n || !OpTag(tag).IsValid() {
		return nil, 0, fault.ErrCannotDecodeRecord
	}

	tx := &Transaction{Op: OpTag(tag)}

	tid, c := fromVarint64(record[n:])
	if 0 == c {
		return nil, 0, fault.ErrCannotDecodeRecord
	}
	n += c
	tx.Tid = tid

	ts, c := fromVarint64(record[n:])
	if 0 == c {
		return nil, 0, fault.ErrCannotDecodeRecord
	}
	n += c
	tx.Ts = ts

	if n >= len(record) {
		return nil, 0, fault.ErrCannotDecodeRecord
	}
	flags := record[n]
	n += 1

	var err error
	if 0 != flags&flagFrom {
		tx.From, n, err = unpackAccount(record, n)
		if nil != err {
			return nil, 0, err
		}
	}
	if 0 != flags&flagTo {
		tx.To, n, err = unpackAccount(record, n)
		if nil != err {
			return nil, 0, err
		}
	}
	if 0 != flags&flagSpender {
		tx.Spender, n, err = unpackAccount(record, n)
		if nil != err {
			return nil, 0, err
		}
	}
	if 0 != flags&flagTokenID {
		if n+32 > len(record) {
			return nil, 0, fault.ErrCannotDecodeRecord
		}
		id := new(uint256.Int).SetBytes(record[n : n+32])
		tx.TokenID = id
		n += 32
	}
	if 0 != flags&flagMemo {
		var memo []byte
		memo, n, err = unpackBytes(record, n)
		if nil != err {
			return nil, 0, err
		}
		tx.Memo = memo
	}
	if 0 != flags&flagCreatedAt {
		createdAt, c := fromVarint64(record[n:])
		if 0 == c {
			return nil, 0, fault.ErrCannotDecodeRecord
		}
		n += c
		tx.CreatedAt = createdAt
	}
	if 0 != flags&flagExpiresAt {
		expiresAt, c := fromVarint64(record[n:])
		if 0 == c {
			return nil, 0, fault.ErrCannotDecodeRecord
		}
		n += c
		tx.ExpiresAt = expiresAt
	}
	if 0 != flags&flagMetadata {
		var v value.Value
		v, n, err = unpackValue(record, n)
		if nil != err {
			return nil, 0, err
		}
		if value.MapKind != v.Kind {
			return nil, 0, fault.ErrCannotDecodeRecord
		}
		tx.Metadata = v.Map
	}
	return tx, n, nil
}

func unpackBytes(record []byte, n int) ([]byte, int, error) {
	length, c := fromVarint64(record[n:])
	if 0 == c {
		return nil, 0, fault.ErrCannotDecodeRecord
	}
	n += c
	if n+int(length) > len(record) {
		return nil, 0, fault.ErrCannotDecodeRecord
	}
	data := append([]byte{}, record[n:n+int(length)]...)
	return data, n + int(length), nil
}

func unpackAccount(record []byte, n int) (*account.Account, int, error) {
	data, n, err := unpackBytes(record, n)
	if nil != err {
		return nil, 0, err
	}
	acct, err := account.AccountFromBytes(data)
	if nil != err {
		return nil, 0, err
	}
	return acct, n, nil
}

func unpackValue(record []byte, n int) (value.Value, int, error) {
	if n >= len(record) {
		return value.Value{}, 0, fault.ErrCannotDecodeRecord
	}
	kind := value.Kind(record[n])
	n += 1

	switch kind {

	case value.BlobKind:
		data, n, err := unpackBytes(record, n)
		if nil != err {
			return value.Value{}, 0, err
		}
		return value.Value{Kind: kind, Blob: data}, n, nil

	case value.TextKind:
		data, n, err := unpackBytes(record, n)
		if nil != err {
			return value.Value{}, 0, err
		}
		return value.Text(string(data)), n, nil

	case value.NatKind:
		if n+32 > len(record) {
			return value.Value{}, 0, fault.ErrCannotDecodeRecord
		}
		nat := new(uint256.Int).SetBytes(record[n : n+32])
		return value.Nat(nat), n + 32, nil

	case value.IntKind:
		raw, c := fromVarint64(record[n:])
		if 0 == c {
			return value.Value{}, 0, fault.ErrCannotDecodeRecord
		}
		// undo zig-zag
		return value.Int(int64(raw>>1) ^ -int64(raw&1)), n + c, nil

	case value.ArrayKind:
		count, c := fromVarint64(record[n:])
		if 0 == c {
			return value.Value{}, 0, fault.ErrCannotDecodeRecord
		}
		n += c
		// each element occupies at least one byte, so a corrupt
		// count cannot force a preallocation past the record size
		capacity := count
		if remaining := uint64(len(record) - n); capacity > remaining {
			capacity = remaining
		}
		items := make([]value.Value, 0, capacity)
		for i := uint64(0); i < count; i += 1 {
			item, next, err := unpackValue(record, n)
			if nil != err {
				return value.Value{}, 0, err
			}
			items = append(items, item)
			n = next
		}
		return value.Array(items...), n, nil

	case value.MapKind:
		count, c := fromVarint64(record[n:])
		if 0 == c {
			return value.Value{}, 0, fault.ErrCannotDecodeRecord
		}
		n += c
		var m value.Map
		for i := uint64(0); i < count; i += 1 {
			key, next, err := unpackBytes(record, n)
			if nil != err {
				return value.Value{}, 0, err
			}
			n = next
			item, next, err := unpackValue(record, n)
			if nil != err {
				return value.Value{}, 0, err
			}
			m = m.Set(string(key), item)
			n = next
		}
		return value.FromMap(m), n, nil

	default:
		return value.Value{}, 0, fault.ErrCannotDecodeRecord
	}
}
