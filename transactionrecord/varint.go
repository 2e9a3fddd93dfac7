// SPDX-License-Identifier: ISC

package transactionrecord

// varint64MaximumBytes - maximum possible number of bytes in a Varint64
const varint64MaximumBytes = 9

// toVarint64 - convert a 64 bit unsigned integer to Varint64
//
// seven bits per byte, least significant group first, high bit is the
// extension flag; the ninth byte, when present, carries a full 8 bits
func toVarint64(value uint64) []byte {
	result := make([]byte, 0, varint64MaximumBytes)
	if value < 0x80 {
		return append(result, byte(value))
	}

	for i := 0; i < varint64MaximumBytes && value != 0; i += 1 {
		ext := uint64(0x80)
		if value < 0x80 {
			ext = 0x00
		}
		result = append(result, byte(value|ext))
		value >>= 7
	}
	return result
}

// fromVarint64 - convert an array of up to varint64MaximumBytes to a uint64
//
// also return the number of bytes used as second value
// returns 0, 0 if the buffer is truncated
func fromVarint64(buffer []byte) (uint64, int) {
	result := uint64(0)
	shift := uint(0)
	count := 0

	for count < len(buffer) {
		currByte := uint64(buffer[count])
		count += 1
		if count < varint64MaximumBytes {
			result |= (currByte & 0x7f) << shift
			if 0 == currByte&0x80 {
				return result, count
			}
		} else {
			result |= currByte << shift
			return result, count
		}
		shift += 7
	}
	return 0, 0
}
