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

// Wire type codes, §3.2 of the format.
const (
	codeSmallIntMin  = 0x00
	codeSmallIntMax  = 0x6A
	smallIntBias     = 106
	codeFloat16      = 0x6B
	codeFloat32      = 0x6C
	codeFloat64      = 0x6D
	codeFalse        = 0x6E
	codeTrue         = 0x6F
	codeUnsignedBase = 0x70 // + (n-1) bytes, n = 1..8
	codeUnsignedMax  = 0x77
	codeSignedBase   = 0x78 // + (n-1) bytes, n = 1..8
	codeSignedMax    = 0x7F
	codeShortStrBase = 0x80 // + len, len = 0..15
	codeShortStrMax  = 0x8F
	codeLongString   = 0x90
	codeBigNumber    = 0x91
	codeArrayBegin   = 0x92
	codeObjectBegin  = 0x93
	codeContainerEnd = 0x94
	codeNull         = 0x95

	longStringTerminator = 0xFF

	smallIntLo = -106
	smallIntHi = 106
)

// DefaultMaxDepth is the compile-time container depth cap from §3.3,
// overridable per Encoder/Decoder via WithMaxDepth.
const DefaultMaxDepth = 200

// Kind identifies the semantic value carried by one decoded event, or one
// event handed to the encoder. It is the BONJSON analog of simdjson's Tag:
// a small byte enum dispatched on in a single switch.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindNull
	KindSignedInt
	KindUnsignedInt
	KindFloat
	KindBigNumber
	KindString
	KindArrayBegin
	KindArrayEnd
	KindObjectBegin
	KindObjectEnd
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	case KindSignedInt:
		return "signed-int"
	case KindUnsignedInt:
		return "unsigned-int"
	case KindFloat:
		return "float"
	case KindBigNumber:
		return "big-number"
	case KindString:
		return "string"
	case KindArrayBegin:
		return "array-begin"
	case KindArrayEnd:
		return "array-end"
	case KindObjectBegin:
		return "object-begin"
	case KindObjectEnd:
		return "object-end"
	default:
		return "(none)"
	}
}

// BigNumber is the tuple (sign, significand, exponent) of §3.1/§4.1. Value
// is Sign * Significand * 2^Exponent, except for the special all-zero case
// which represents signed zero.
type BigNumber struct {
	Sign        int8 // +1 or -1
	Significand uint64
	Exponent    int32 // must fit in [-2^23, 2^23)
}
