/*
 * MinIO Cloud Storage, (C) 2020 MinIO, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package bonjson

// Big-number payload layout, §4.1:
//
//	ULEB128 header H:
//	  bit 0:   sign (0 = positive, 1 = negative)
//	  bits 1-2: exponent byte length Le in {0,1,2,3}
//	  bits 3+:  significand byte length Ls in {0..8}
//	followed by Ls little-endian unsigned significand bytes, then Le
//	little-endian two's-complement exponent bytes.

const (
	minExponent = -(1 << 23)
	maxExponent = 1 << 23
)

// minSignedBytes3 returns the fewest bytes (0..3) needed to hold v as a
// sign-extended two's-complement integer, for the big-number exponent
// field which is capped at Le=3 (24 bits, §9's open question).
func minSignedBytes3(v int32) int {
	if v == 0 {
		return 0
	}
	for n := 1; n <= 3; n++ {
		shift := uint(32 - 8*n)
		if (v<<shift)>>shift == v {
			return n
		}
	}
	return 4 // signals out-of-range to the caller
}

// encodeBigNumberPayload appends the type code and payload for bn to dst.
func encodeBigNumberPayload(dst []byte, bn BigNumber) ([]byte, error) {
	if bn.Sign != 1 && bn.Sign != -1 {
		return nil, newErrorf(StatusInvalidData, len(dst), "big number sign must be +1 or -1, got %d", bn.Sign)
	}
	if bn.Exponent < minExponent || bn.Exponent >= maxExponent {
		return nil, newErrorf(StatusTooBig, len(dst), "big number exponent %d out of range [%d,%d)", bn.Exponent, minExponent, maxExponent)
	}
	if bn.Significand == 0 && bn.Exponent != 0 {
		return nil, newErrorf(StatusInvalidData, len(dst), "big number with zero significand and nonzero exponent would encode an infinity or NaN")
	}

	ls := 0
	if bn.Significand != 0 {
		ls = minUnsignedBytes(bn.Significand)
	}
	le := minSignedBytes3(bn.Exponent)
	if le > 3 {
		return nil, newErrorf(StatusTooBig, len(dst), "big number exponent %d needs more than 3 bytes", bn.Exponent)
	}

	header := uint64(le<<1) | uint64(ls<<3)
	if bn.Sign < 0 {
		header |= 1
	}

	dst = append(dst, codeBigNumber)
	dst = appendULEB128(dst, header)

	if ls > 0 {
		var buf [8]byte
		putUintLE(buf[:], bn.Significand, ls)
		dst = append(dst, buf[:ls]...)
	}
	if le > 0 {
		var buf [4]byte
		putUintLE(buf[:], uint64(uint32(bn.Exponent)), le)
		dst = append(dst, buf[:le]...)
	}
	return dst, nil
}

// decodeBigNumberPayload decodes the payload (everything after the
// codeBigNumber type byte already consumed by the caller) starting at
// buf[start:]. It returns the decoded value and the number of payload
// bytes consumed. On error, the consumed count is 0 and the *Error's
// Offset is always start, per §7's truncation-vs-corruption policy.
func decodeBigNumberPayload(buf []byte, start int) (BigNumber, int, error) {
	header, headerLen, status := readULEB128(buf[start:])
	switch status {
	case ulebIncomplete:
		return BigNumber{}, 0, newError(StatusIncomplete, start)
	case ulebTooBig:
		return BigNumber{}, 0, newErrorf(StatusTooBig, start, "big number header exceeds 63 bits")
	}

	negative := header&1 != 0
	le := int((header >> 1) & 0x3)
	ls := int(header >> 3)

	if ls > 8 {
		return BigNumber{}, 0, newErrorf(StatusTooBig, start, "big number significand length %d exceeds 8 bytes", ls)
	}
	if ls == 0 && le != 0 {
		return BigNumber{}, 0, newErrorf(StatusInvalidData, start, "big number with zero significand length and nonzero exponent length encodes an infinity or NaN")
	}

	pos := start + headerLen
	need := ls + le
	if pos+need > len(buf) {
		return BigNumber{}, 0, newError(StatusIncomplete, start)
	}

	var significand uint64
	if ls > 0 {
		significand = getUintLE(buf[pos:pos+ls], ls)
		pos += ls
	}

	var exponent int32
	if le > 0 {
		exponent = int32(getIntLE(buf[pos:pos+le], le))
		pos += le
	}

	sign := int8(1)
	if negative {
		sign = -1
	}

	return BigNumber{Sign: sign, Significand: significand, Exponent: exponent}, pos - start, nil
}
