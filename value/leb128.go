// SPDX-License-Identifier: ISC

package value

import (
	"github.com/holiman/uint256"
)

// canonical variable length encodings of the numeric leaves

func leb128(n *uint256.Int) []byte {
	v := new(uint256.Int).Set(n)
	result := make([]byte, 0, 19)
	for {
		b := byte(v.Uint64() & 0x7f)
		v.Rsh(v, 7)
		if v.IsZero() {
			return append(result, b)
		}
		result = append(result, b|0x80)
	}
}

func sleb128(n int64) []byte {
	result := make([]byte, 0, 10)
	for {
		b := byte(n & 0x7f)
		n >>= 7
		if (0 == n && 0 == b&0x40) || (-1 == n && 0 != b&0x40) {
			return append(result, b)
		}
		result = append(result, b|0x80)
	}
}
