// SPDX-License-Identifier: ISC

// block records
//
// a block wraps one transaction together with the content hash of the
// previous block; the genesis block links to the zero hash
package blockrecord

import (
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
	"github.com/av1ctor/icrc7-launchpad/fault"
	"github.com/av1ctor/icrc7-launchpad/transactionrecord"
	"github.com/av1ctor/icrc7-launchpad/value"
)

// Block - one immutable log entry
type Block struct {
	PHash blockdigest.Digest            `json:"phash"`
	Tx    transactionrecord.Transaction `json:"tx"`
}

// Packed - the packed binary form of a block
type Packed []byte

// New - assemble a block from the previous block's content hash and a
// completed transaction
func New(phash blockdigest.Digest, tx transactionrecord.Transaction) Block {
	return Block{
		PHash: phash,
		Tx:    tx,
	}
}

// ToValue - the generic value form that the content hash is taken over
func (block *Block) ToValue() value.Value {
	var m value.Map
	m = m.Set("phash", value.Blob(block.PHash[:]))
	m = m.Set("btype", value.Text(block.Tx.Op.String()))
	m = m.Set("ts", value.NatFromUint64(block.Tx.Ts))
	m = m.Set("tx", block.Tx.ToValue())
	return value.FromMap(m)
}

// Digest - the content hash of the block
//
// phash of block N+1 must equal Digest of block N
func (block *Block) Digest() blockdigest.Digest {
	v := block.ToValue()
	return v.Hash()
}

// Pack - pack a block to its canonical byte form
func (block *Block) Pack() (Packed, error) {
	packedTx, err := block.Tx.Pack()
	if nil != err {
		return nil, err
	}
	message := make([]byte, 0, blockdigest.Length+len(packedTx))
	message = append(message, block.PHash[:]...)
	return append(message, packedTx...), nil
}

// Unpack - decode a packed block
func (record Packed) Unpack() (*Block, error) {
	if len(record) <= blockdigest.Length {
		return nil, fault.ErrCannotDecodeRecord
	}

	block := &Block{}
	err := blockdigest.DigestFromBytes(&block.PHash, record[:blockdigest.Length])
	if nil != err {
		return nil, err
	}

	tx, n, err := transactionrecord.Packed(record[blockdigest.Length:]).Unpack()
	if nil != err {
		return nil, err
	}
	if blockdigest.Length+n != len(record) {
		return nil, fault.ErrCannotDecodeRecord
	}
	block.Tx = *tx
	return block, nil
}
