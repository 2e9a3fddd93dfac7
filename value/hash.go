// SPDX-License-Identifier: ISC

package value

import (
	"github.com/av1ctor/icrc7-launchpad/blockdigest"
)

// Hash - deterministic content hash of a value
//
// leaves hash their canonical byte form; an array hashes the
// concatenation of its element hashes; a map hashes the concatenation
// of hash(key)+hash(value) pairs in key order.  The representation is
// independent of any particular serialisation format so externally
// archived blocks hash identically.
func (v Value) Hash() blockdigest.Digest {
	switch v.Kind {

	case BlobKind:
		return blockdigest.NewDigest(v.Blob)

	case TextKind:
		return blockdigest.NewDigest([]byte(v.Text))

	case NatKind:
		return blockdigest.NewDigest(leb128(&v.Nat))

	case IntKind:
		return blockdigest.NewDigest(sleb128(v.Int))

	case ArrayKind:
		buffer := make([]byte, 0, blockdigest.Length*len(v.Array))
		for _, item := range v.Array {
			h := item.Hash()
			buffer = append(buffer, h[:]...)
		}
		return blockdigest.NewDigest(buffer)

	case MapKind:
		// map entries are kept in key order so the hash is canonical
		buffer := make([]byte, 0, 2*blockdigest.Length*len(v.Map))
		for _, entry := range v.Map {
			kh := blockdigest.NewDigest([]byte(entry.Key))
			vh := entry.Value.Hash()
			buffer = append(buffer, kh[:]...)
			buffer = append(buffer, vh[:]...)
		}
		return blockdigest.NewDigest(buffer)

	default:
		return blockdigest.NewDigest(nil)
	}
}
