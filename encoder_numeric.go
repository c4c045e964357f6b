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

import "math"

// Numeric type-code selection, §4.1: for every numeric event, pick the
// shortest wire encoding that preserves the exact value.

const (
	minInt64AsFloat = -9223372036854775808.0 // math.MinInt64
	maxInt64AsFloat = 9223372036854775808.0  // math.MaxInt64 + 1
)

// appendSignedInt appends the wire encoding of a caller-declared signed
// integer value.
func appendSignedInt(dst []byte, v int64) []byte {
	if v >= smallIntLo && v <= smallIntHi {
		return append(dst, byte(v+smallIntBias))
	}
	if v >= 0 {
		return appendNonNegativeInt(dst, uint64(v))
	}
	n := minSignedBytes(v)
	return appendSizedSigned(dst, v, n)
}

// appendUnsignedInt appends the wire encoding of a caller-declared
// unsigned integer value.
func appendUnsignedInt(dst []byte, v uint64) []byte {
	if v <= smallIntHi {
		return append(dst, byte(v+smallIntBias))
	}
	return appendNonNegativeInt(dst, v)
}

// appendNonNegativeInt picks the shorter of the signed/unsigned sized
// forms for a value known to be >= 0 and outside small-int range (§4.1
// step 3: "the encoder preferably picks ... the shorter of signed/
// unsigned when positive").
func appendNonNegativeInt(dst []byte, v uint64) []byte {
	nu := minUnsignedBytes(v)
	if v <= math.MaxInt64 {
		ns := minSignedBytes(int64(v))
		if ns < nu {
			return appendSizedSigned(dst, int64(v), ns)
		}
	}
	return appendSizedUnsigned(dst, v, nu)
}

func appendSizedUnsigned(dst []byte, v uint64, n int) []byte {
	dst = append(dst, byte(codeUnsignedBase+n-1))
	var buf [8]byte
	putUintLE(buf[:], v, n)
	return append(dst, buf[:n]...)
}

func appendSizedSigned(dst []byte, v int64, n int) []byte {
	dst = append(dst, byte(codeSignedBase+n-1))
	var buf [8]byte
	putUintLE(buf[:], uint64(v), n)
	return append(dst, buf[:n]...)
}

// appendFloatValue implements the full numeric-selection decision tree for
// a float64 event, including the integer-like demotion and the
// float16/float32/float64 cascade. It rejects non-finite values.
func appendFloatValue(dst []byte, v float64) ([]byte, error) {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, newErrorf(StatusInvalidData, len(dst), "cannot encode non-finite float %v", v)
	}

	if v >= minInt64AsFloat && v < maxInt64AsFloat && math.Trunc(v) == v {
		return appendSignedInt(dst, int64(v)), nil
	}

	f32 := float32(v)
	if floatFitsFloat16(f32) && float64(f32) == v {
		dst = append(dst, codeFloat16)
		var buf [2]byte
		putUintLE(buf[:], uint64(float16ToBits(f32)), 2)
		return append(dst, buf[:]...), nil
	}
	if float64(f32) == v {
		dst = append(dst, codeFloat32)
		var buf [4]byte
		putUintLE(buf[:], uint64(math.Float32bits(f32)), 4)
		return append(dst, buf[:]...), nil
	}
	dst = append(dst, codeFloat64)
	var buf [8]byte
	putUintLE(buf[:], math.Float64bits(v), 8)
	return append(dst, buf[:]...), nil
}
