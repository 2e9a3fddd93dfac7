// SPDX-License-Identifier: ISC

package blockrecord_test

import (
	"reflect"
	"testing"

	"github.com/holiman/uint256"

	"github.com/av1ctor/icrc7-launchpad/account"
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/blockrecord"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
)

func makeTransaction(tid uint64) transactionrecord.Transaction {
	return transactionrecord.Transaction{
		Op:      transactionrecord.MintTag,
		Tid:     tid,
		Ts:      1000 + tid,
		To:      account.New([]byte{0x01}),
		TokenID: uint256.NewInt(tid),
	}
}

func TestChainLinkage(t *testing.T) {
	genesis := blockrecord.New(blockdigest.Empty, makeTransaction(0))
	if !genesis.PHash.IsEmpty() {
		t.Fatalf("genesis phash is not the zero hash")
	}

	second := blockrecord.New(genesis.Digest(), makeTransaction(1))
	if second.PHash != genesis.Digest() {
		t.Fatalf("phash: %#v  expected: %#v", second.PHash, genesis.Digest())
	}

	// digests must be stable
	if genesis.Digest() != genesis.Digest() {
		t.Fatalf("digest is not deterministic")
	}
	if genesis.Digest() == second.Digest() {
		t.Fatalf("different blocks hash identically")
	}
}

// any field change must change the content hash
func TestDigestCoversContent(t *testing.T) {
	base := blockrecord.New(blockdigest.Empty, makeTransaction(1))

	changedTx := makeTransaction(1)
	changedTx.Ts += 1
	changed := blockrecord.New(blockdigest.Empty, changedTx)
	if base.Digest() == changed.Digest() {
		t.Fatalf("timestamp change did not change the digest")
	}

	changedLink := blockrecord.New(blockdigest.NewDigest([]byte("x")), makeTransaction(1))
	if base.Digest() == changedLink.Digest() {
		t.Fatalf("phash change did not change the digest")
	}
}

func TestBlockPackRoundTrip(t *testing.T) {
	phash := blockdigest.NewDigest([]byte("previous"))
	block := blockrecord.New(phash, makeTransaction(9))

	packed, err := block.Pack()
	if nil != err {
		t.Fatalf("pack error: %s", err)
	}

	restored, err := packed.Unpack()
	if nil != err {
		t.Fatalf("unpack error: %s", err)
	}
	if restored.PHash != block.PHash {
		t.Fatalf("phash mismatch: %#v  expected: %#v", restored.PHash, block.PHash)
	}
	if !reflect.DeepEqual(restored.Tx, block.Tx) {
		t.Fatalf("tx mismatch: %+v  expected: %+v", restored.Tx, block.Tx)
	}

	// the digest of the restored block must match the original
	if restored.Digest() != block.Digest() {
		t.Fatalf("digest mismatch after round trip")
	}

	_, err = packed[:blockdigest.Length].Unpack()
	if nil == err {
		t.Fatalf("truncated block unexpectedly unpacked")
	}
}
