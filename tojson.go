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

import (
	"math"
	"math/big"
	"strconv"
)

// ToJSON renders a complete BONJSON document as JSON text, the "language-
// binding convenience layer" the format itself deliberately stays out of
// (§6.1's non-goal). It is built the same way the teacher's Iter.MarshalJSON
// walk is: a single pass over callback events, with a small bracket/comma
// stack instead of a materialized tree.
func ToJSON(doc []byte, dec *Decoder) ([]byte, error) {
	if dec == nil {
		dec = NewDecoder()
	}
	w := &jsonWriter{}
	if _, err := dec.Decode(doc, w); err != nil {
		return nil, err
	}
	return w.dst, nil
}

// jsonFrame mirrors container.go's frame: one per open array/object, so
// nested objects each keep their own name/value alternation and
// first-element state independently.
type jsonFrame struct {
	isObject      bool
	expectingName bool
	wroteAny      bool
}

// jsonWriter implements Callbacks, converting each event directly to its
// JSON text form using a frame stack for comma/colon placement, the same
// shape as the teacher's tape-to-JSON walk uses a stack of container kinds.
type jsonWriter struct {
	dst   []byte
	stack []jsonFrame
}

// isName reports whether the event about to be written will be consumed as
// an object name, matching Encoder.isNameSlot/Decoder's inNameSlot check.
func (w *jsonWriter) isName() bool {
	if len(w.stack) == 0 {
		return false
	}
	top := &w.stack[len(w.stack)-1]
	return top.isObject && top.expectingName
}

// beforeValue writes the separator due before this event and toggles the
// frame's name/value expectation, mirroring Encoder.afterValue.
func (w *jsonWriter) beforeValue(isName bool) {
	if len(w.stack) == 0 {
		return
	}
	top := &w.stack[len(w.stack)-1]
	if isName {
		if top.wroteAny {
			w.dst = append(w.dst, ',')
		}
	} else if top.isObject {
		w.dst = append(w.dst, ':')
	} else if top.wroteAny {
		w.dst = append(w.dst, ',')
	}
	top.wroteAny = true
	if top.isObject {
		top.expectingName = !isName
	}
}

func (w *jsonWriter) OnBool(v bool) error {
	w.beforeValue(false)
	if v {
		w.dst = append(w.dst, 't', 'r', 'u', 'e')
	} else {
		w.dst = append(w.dst, 'f', 'a', 'l', 's', 'e')
	}
	return nil
}

func (w *jsonWriter) OnNull() error {
	w.beforeValue(false)
	w.dst = append(w.dst, 'n', 'u', 'l', 'l')
	return nil
}

func (w *jsonWriter) OnSignedInt(v int64) error {
	w.beforeValue(false)
	w.dst = strconv.AppendInt(w.dst, v, 10)
	return nil
}

func (w *jsonWriter) OnUnsignedInt(v uint64) error {
	w.beforeValue(false)
	w.dst = strconv.AppendUint(w.dst, v, 10)
	return nil
}

func (w *jsonWriter) OnFloat(v float64) error {
	w.beforeValue(false)
	data, err := appendJSONFloat(w.dst, v)
	if err != nil {
		return err
	}
	w.dst = data
	return nil
}

// OnBigNumber renders via math/big, since a big number's exponent range
// (§4.1, up to 2^23) can describe magnitudes no float64 holds exactly.
func (w *jsonWriter) OnBigNumber(v BigNumber) error {
	w.beforeValue(false)
	i := new(big.Int).SetUint64(v.Significand)
	if v.Sign < 0 {
		i.Neg(i)
	}
	f := new(big.Float).SetInt(i)
	f.SetMantExp(f, int(v.Exponent))
	w.dst = f.Append(w.dst, 'g', -1)
	return nil
}

func (w *jsonWriter) OnString(s []byte) error {
	isName := w.isName()
	w.beforeValue(isName)
	w.dst = append(w.dst, '"')
	w.dst = escapeJSONBytes(w.dst, s)
	w.dst = append(w.dst, '"')
	return nil
}

func (w *jsonWriter) OnBeginArray() error {
	w.beforeValue(false)
	w.dst = append(w.dst, '[')
	w.stack = append(w.stack, jsonFrame{isObject: false})
	return nil
}

func (w *jsonWriter) OnBeginObject() error {
	w.beforeValue(false)
	w.dst = append(w.dst, '{')
	w.stack = append(w.stack, jsonFrame{isObject: true, expectingName: true})
	return nil
}

func (w *jsonWriter) OnEndContainer() error {
	top := len(w.stack) - 1
	if w.stack[top].isObject {
		w.dst = append(w.dst, '}')
	} else {
		w.dst = append(w.dst, ']')
	}
	w.stack = w.stack[:top]
	if len(w.stack) > 0 {
		parent := &w.stack[len(w.stack)-1]
		if parent.isObject {
			parent.expectingName = true
		}
	}
	return nil
}

func (w *jsonWriter) OnEndData() error { return nil }

// escapeJSONBytes is the teacher's parsed_json.go escapeBytes, unchanged in
// behavior: escape the JSON-mandatory characters and control bytes, pass
// everything else through.
func escapeJSONBytes(dst, src []byte) []byte {
	for _, c := range src {
		switch c {
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '"':
			dst = append(dst, '\\', '"')
		case '\t':
			dst = append(dst, '\\', 't')
		case '\\':
			dst = append(dst, '\\', '\\')
		default:
			if c <= 0x1f {
				dst = append(dst, '\\', 'u', '0', '0', jsonHexDigits[c>>4], jsonHexDigits[c&0xf])
			} else {
				dst = append(dst, c)
			}
		}
	}
	return dst
}

var jsonHexDigits = [16]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd', 'e', 'f'}

// appendJSONFloat is the teacher's parsed_json.go appendFloat, unchanged:
// ES6-style number-to-string conversion, matching most JSON generators.
func appendJSONFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, newErrorf(StatusInvalidData, len(dst), "cannot render non-finite float %v as JSON", f)
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	dst = strconv.AppendFloat(dst, f, format, -1, 64)
	if format == 'e' {
		n := len(dst)
		if n >= 4 && dst[n-4] == 'e' && dst[n-3] == '-' && dst[n-2] == '0' {
			dst[n-2] = dst[n-1]
			dst = dst[:n-1]
		}
	}
	return dst, nil
}
