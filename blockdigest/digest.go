// SPDX-License-Identifier: ISC

package blockdigest

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/av1ctor/icrc7-launchpad/fault"
)

// Length - number of bytes in the digest
const Length = 32

// Digest - type for a digest
// stored and displayed as big endian hex
// to convert to bytes just use d[:]
type Digest [Length]byte

// Empty - the all-zero digest, phash of the genesis block
var Empty = Digest{}

// NewDigest - create a digest from a byte slice
func NewDigest(record []byte) Digest {
	return sha3.Sum256(record)
}

// IsEmpty - check for the zero digest
func (digest Digest) IsEmpty() bool {
	return digest == Empty
}

// String - convert a binary digest to hex string for use by the fmt package (for %s)
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// GoString - convert a binary digest to hex string for use by the fmt package (for %#v)
func (digest Digest) GoString() string {
	return "<SHA3-256:" + hex.EncodeToString(digest[:]) + ">"
}

// MarshalText - convert digest to hex text
func (digest Digest) MarshalText() ([]byte, error) {
	size := hex.EncodedLen(len(digest))
	buffer := make([]byte, size)
	hex.Encode(buffer, digest[:])
	return buffer, nil
}

// UnmarshalText - convert hex text into a digest
func (digest *Digest) UnmarshalText(s []byte) error {
	if len(s) != hex.EncodedLen(Length) {
		return fault.ErrCannotDecodeDigest
	}
	buffer := make([]byte, hex.DecodedLen(len(s)))
	byteCount, err := hex.Decode(buffer, s)
	if nil != err {
		return err
	}
	for i, v := range buffer[:byteCount] {
		digest[i] = v
	}
	return nil
}

// DigestFromBytes - convert and validate a binary byte slice to a digest
func DigestFromBytes(digest *Digest, buffer []byte) error {
	if Length != len(buffer) {
		return fmt.Errorf("digest length: %d expected: %d", len(buffer), Length)
	}
	copy(digest[:], buffer)
	return nil
}
