// SPDX-License-Identifier: ISC

package transactionrecord_test

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// test the packing of a transfer record
//
// ensures the packed byte layout stays stable: archived blocks depend on it
func TestPackTransfer(t *testing.T) {
	from := account.New([]byte{0x01})
	to := account.New([]byte{0x02})

	r := transactionrecord.Transaction{
		Op:        transactionrecord.TransferTag,
		Tid:       1,
		Ts:        100,
		From:      from,
		To:        to,
		TokenID:   uint256.NewInt(5),
		CreatedAt: 100,
	}

	expected := []byte{
		0x03, // op
		0x01, // tid
		0x64, // ts
		0x2b, // flags: from|to|token id|created at
		0x22, 0x01, 0x01, // from: length, owner length, owner
	}
	expected = append(expected, make([]byte, 32)...) // from: default subaccount
	expected = append(expected, 0x22, 0x01, 0x02)    // to: length, owner length, owner
	expected = append(expected, make([]byte, 32)...) // to: default subaccount
	expected = append(expected, make([]byte, 31)...) // token id high bytes
	expected = append(expected, 0x05, 0x64)          // token id low byte, created at

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	if !bytes.Equal(expected, packed) {
		t.Errorf("pack record: %x  expected: %x", packed, expected)
	}

	if transactionrecord.TransferTag != packed.Type() {
		t.Fatalf("record type: %d  expected: %d", packed.Type(), transactionrecord.TransferTag)
	}

	unpacked, n, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	if len(packed) != n {
		t.Errorf("unpack consumed: %d  expected: %d", n, len(packed))
	}
	if !reflect.DeepEqual(&r, unpacked) {
		t.Fatalf("unpack mismatch: %+v  expected: %+v", unpacked, &r)
	}
}

// mint carries metadata; exercise nested value packing
func TestPackMintWithMetadata(t *testing.T) {
	var meta value.Map
	meta = meta.Set("name", value.Text("token one"))
	meta = meta.Set("edition", value.NatFromUint64(3))
	meta = meta.Set("tags", value.Array(value.Text("a"), value.Text("b")))
	meta = meta.Set("offset", value.Int(-42))
	meta = meta.Set("seal", value.Blob([]byte{0xca, 0xfe}))

	r := transactionrecord.Transaction{
		Op:       transactionrecord.MintTag,
		Tid:      7,
		Ts:       1000,
		To:       account.New([]byte{0x09, 0x08}),
		TokenID:  uint256.NewInt(1),
		Memo:     []byte("first"),
		Metadata: meta,
	}

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	unpacked, n, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	if len(packed) != n {
		t.Errorf("unpack consumed: %d  expected: %d", n, len(packed))
	}
	if !reflect.DeepEqual(&r, unpacked) {
		t.Fatalf("unpack mismatch: %+v  expected: %+v", unpacked, &r)
	}
}

// a token id above 64 bits must survive the round trip
func TestPackWideTokenID(t *testing.T) {
	wide := new(uint256.Int).Lsh(uint256.NewInt(0xdead), 96)

	r := transactionrecord.Transaction{
		Op:      transactionrecord.BurnTag,
		Tid:     2,
		Ts:      5,
		From:    account.New([]byte{0x01}),
		TokenID: wide,
	}

	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}
	unpacked, _, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	if 0 != wide.Cmp(unpacked.TokenID) {
		t.Fatalf("token id: %s  expected: %s", unpacked.TokenID, wide)
	}
}

func TestPackInvalidTag(t *testing.T) {
	r := transactionrecord.Transaction{
		Op: transactionrecord.NullTag,
	}
	_, err := r.Pack()
	if nil == err {
		t.Fatalf("null tag unexpectedly packed")
	}
}

func TestUnpackTruncated(t *testing.T) {
	r := transactionrecord.Transaction{
		Op:      transactionrecord.TransferTag,
		Tid:     1,
		Ts:      1,
		From:    account.New([]byte{0x01}),
		To:      account.New([]byte{0x02}),
		TokenID: uint256.NewInt(1),
	}
	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	for i := 1; i < len(packed); i += 7 {
		_, _, err := packed[:i].Unpack()
		if nil == err {
			t.Errorf("truncated record of %d bytes unexpectedly unpacked", i)
		}
	}
}

// a corrupt array count far beyond the record size must be rejected
// without ballooning the element buffer
func TestUnpackOversizeArrayCount(t *testing.T) {
	var meta value.Map
	meta = meta.Set("tags", value.Array(value.Text("x")))

	r := transactionrecord.Transaction{
		Op:       transactionrecord.MintTag,
		Tid:      1,
		Ts:       1,
		To:       account.New([]byte{0x01}),
		TokenID:  uint256.NewInt(1),
		Metadata: meta,
	}
	packed, err := r.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	// the packed array: kind byte, one-byte count, first element kind
	marker := []byte{byte(value.ArrayKind), 0x01, byte(value.TextKind)}
	i := bytes.Index(packed, marker)
	if i < 0 {
		t.Fatalf("packed record lacks the expected array value")
	}

	// splice in a varint count claiming close to 2^63 elements
	corrupt := append([]byte{}, packed[:i+1]...)
	corrupt = append(corrupt, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f)
	corrupt = append(corrupt, packed[i+2:]...)

	_, _, err = transactionrecord.Packed(corrupt).Unpack()
	if nil == err {
		t.Fatalf("oversize array count unexpectedly unpacked")
	}
}

func TestTagNames(t *testing.T) {
	nameList := []struct {
		tag  transactionrecord.OpTag
		name string
	}{
		{transactionrecord.MintTag, "7mint"},
		{transactionrecord.BurnTag, "7burn"},
		{transactionrecord.TransferTag, "7xfer"},
		{transactionrecord.TransferFromTag, "37xfer"},
		{transactionrecord.ApproveTag, "37appr"},
		{transactionrecord.ApproveCollectionTag, "37appr_coll"},
		{transactionrecord.RevokeTag, "37revoke"},
		{transactionrecord.RevokeCollectionTag, "37revoke_coll"},
		{transactionrecord.NullTag, "*unknown*"},
		{transactionrecord.InvalidTag, "*unknown*"},
	}
	for i, item := range nameList {
		if item.name != item.tag.String() {
			t.Errorf("%d: tag name: %q  expected: %q", i, item.tag.String(), item.name)
		}
	}
}
