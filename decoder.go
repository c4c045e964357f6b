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

// Callbacks receives one call per decoded element, in document order
// (§6.2). Every method returns an error; any non-nil return aborts
// decoding and is propagated (wrapped, per §7) from Decode. String views
// point into the buffer Decode was given, and are only valid for the
// duration of the call unless the Decoder was built WithCopyStrings(true).
type Callbacks interface {
	OnBool(v bool) error
	OnNull() error
	OnSignedInt(v int64) error
	OnUnsignedInt(v uint64) error
	OnFloat(v float64) error
	OnBigNumber(v BigNumber) error
	OnString(s []byte) error
	OnBeginArray() error
	OnBeginObject() error
	OnEndContainer() error
	OnEndData() error
}

// Decoder walks a BONJSON buffer and dispatches typed events to a
// Callbacks implementation (§4.2). It holds no state across calls other
// than configuration and, optionally, a reusable string-copy buffer.
type Decoder struct {
	cfg    config
	strBuf []byte
}

// NewDecoder creates a Decoder. The zero value is not usable; always
// construct through this function so defaults (§6.4's max depth) apply.
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{cfg: newConfig(opts)}
}

// Decode parses the single BONJSON document (one root value) at the start
// of buf in one pass and delivers one callback per element. It returns the
// number of bytes consumed and an error, which is nil only when a complete,
// well-formed document was decoded (including the final OnEndData call).
// Bytes after the end of that document are not read. An empty buf is
// reported as StatusIncomplete.
//
// The offset in any returned *Error is the position at which parsing
// halted: this lets a streaming caller distinguish a truncated buffer
// (grow it and retry from offset 0) from a structurally corrupt one.
func (d *Decoder) Decode(buf []byte, cb Callbacks) (int, error) {
	if len(buf) == 0 {
		return 0, newError(StatusIncomplete, 0)
	}
	stack := newContainerStack(d.cfg.maxDepth)
	cursor := 0

	for cursor < len(buf) {
		if cursor > 0 && stack.depth() == 0 {
			// The root value is complete.
			break
		}
		code := buf[cursor]
		top := stack.top()
		inNameSlot := top != nil && top.isObject && top.expectingName

		if inNameSlot {
			isString := (code >= codeShortStrBase && code <= codeShortStrMax) || code == codeLongString
			if !isString && code != codeContainerEnd {
				return cursor, newError(StatusExpectedObjectName, cursor)
			}
		}

		if code == codeContainerEnd {
			if top == nil {
				return cursor, newError(StatusUnbalancedContainers, cursor)
			}
			if top.isObject && !top.expectingName {
				return cursor, newError(StatusExpectedObjectValue, cursor)
			}
			cursor++
			stack.pop()
			if err := cb.OnEndContainer(); err != nil {
				return cursor, wrapApplicationError(cursor, err)
			}
			if parent := stack.top(); parent != nil && parent.isObject {
				parent.expectingName = true
			}
			continue
		}

		var err error
		cursor, err = d.dispatchValue(buf, cursor, code, inNameSlot, &stack, cb)
		if err != nil {
			return cursor, err
		}
	}

	if stack.depth() > 0 {
		return cursor, newErrorf(StatusUnclosedContainers, cursor, "%d container(s) still open", stack.depth())
	}
	if err := cb.OnEndData(); err != nil {
		return cursor, wrapApplicationError(cursor, err)
	}
	return cursor, nil
}

// dispatchValue decodes and delivers exactly one non-close element
// starting at buf[cursor], returning the cursor position after it.
func (d *Decoder) dispatchValue(buf []byte, cursor int, code byte, isName bool, stack *containerStack, cb Callbacks) (int, error) {
	start := cursor

	switch {
	case code <= codeSmallIntMax:
		v := int64(code) - smallIntBias
		cursor++
		if err := cb.OnSignedInt(v); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code == codeFloat16:
		payload, ok := readPayload(buf, cursor, 2)
		if !ok {
			return start + 1, newError(StatusIncomplete, start+1)
		}
		bits := uint16(getUintLE(payload, 2))
		f := float16FromBits(bits)
		if float32HasAllOnesExponent(math.Float32bits(f)) {
			return start, newErrorf(StatusInvalidData, start, "float16 payload is infinite or NaN")
		}
		cursor += 3
		if err := cb.OnFloat(float64(f)); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code == codeFloat32:
		payload, ok := readPayload(buf, cursor, 4)
		if !ok {
			return start + 1, newError(StatusIncomplete, start+1)
		}
		bits := uint32(getUintLE(payload, 4))
		if float32HasAllOnesExponent(bits) {
			return start, newErrorf(StatusInvalidData, start, "float32 payload is infinite or NaN")
		}
		cursor += 5
		if err := cb.OnFloat(float64(math.Float32frombits(bits))); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code == codeFloat64:
		payload, ok := readPayload(buf, cursor, 8)
		if !ok {
			return start + 1, newError(StatusIncomplete, start+1)
		}
		bits := getUintLE(payload, 8)
		if float64HasAllOnesExponent(bits) {
			return start, newErrorf(StatusInvalidData, start, "float64 payload is infinite or NaN")
		}
		cursor += 9
		if err := cb.OnFloat(math.Float64frombits(bits)); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code == codeFalse || code == codeTrue:
		cursor++
		if err := cb.OnBool(code == codeTrue); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code == codeNull:
		cursor++
		if err := cb.OnNull(); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code >= codeUnsignedBase && code <= codeUnsignedMax:
		n := int(code-codeUnsignedBase) + 1
		payload, ok := readPayload(buf, cursor, n)
		if !ok {
			return start + 1, newError(StatusIncomplete, start+1)
		}
		v := getUintLE(payload, n)
		cursor += 1 + n
		if err := cb.OnUnsignedInt(v); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code >= codeSignedBase && code <= codeSignedMax:
		n := int(code-codeSignedBase) + 1
		payload, ok := readPayload(buf, cursor, n)
		if !ok {
			return start + 1, newError(StatusIncomplete, start+1)
		}
		v := getIntLE(payload, n)
		cursor += 1 + n
		if err := cb.OnSignedInt(v); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code >= codeShortStrBase && code <= codeShortStrMax:
		n := int(code - codeShortStrBase)
		payload, ok := readPayload(buf, cursor, n)
		if !ok {
			return start + 1, newError(StatusIncomplete, start+1)
		}
		cursor += 1 + n
		if err := cb.OnString(d.viewString(payload)); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, isName)
		return cursor, nil

	case code == codeLongString:
		payloadStart := cursor + 1
		term := indexByte(buf[payloadStart:], longStringTerminator)
		if term < 0 {
			return payloadStart, newError(StatusIncomplete, payloadStart)
		}
		s := buf[payloadStart : payloadStart+term]
		cursor = payloadStart + term + 1
		if err := cb.OnString(d.viewString(s)); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, isName)
		return cursor, nil

	case code == codeBigNumber:
		bn, n, err := decodeBigNumberPayload(buf, cursor+1)
		if err != nil {
			// decodeBigNumberPayload always sets *Error.Offset to start
			// (cursor+1, past the type-code byte); keep the returned
			// consumed count in sync with it.
			return cursor + 1, err
		}
		cursor = cursor + 1 + n
		if err := cb.OnBigNumber(bn); err != nil {
			return cursor, wrapApplicationError(cursor, err)
		}
		afterValueEvent(stack, false)
		return cursor, nil

	case code == codeArrayBegin || code == codeObjectBegin:
		if stack.depth() >= stack.maxDepth {
			return start, newErrorf(StatusContainerDepthExceeded, start, "max container depth %d exceeded", stack.maxDepth)
		}
		isObject := code == codeObjectBegin
		afterValueEvent(stack, false)
		cursor++
		var cbErr error
		if isObject {
			cbErr = cb.OnBeginObject()
		} else {
			cbErr = cb.OnBeginArray()
		}
		if cbErr != nil {
			return cursor, wrapApplicationError(cursor, cbErr)
		}
		stack.push(isObject)
		return cursor, nil

	default:
		return start, newErrorf(StatusInvalidData, start, "unrecognized type code 0x%02x", code)
	}
}

// readPayload returns buf[cursor+1 : cursor+1+n] if present, else ok=false.
func readPayload(buf []byte, cursor, n int) ([]byte, bool) {
	start := cursor + 1
	if start+n > len(buf) {
		return nil, false
	}
	return buf[start : start+n], true
}

// indexByte finds the first occurrence of b in buf, or -1.
func indexByte(buf []byte, b byte) int {
	for i, c := range buf {
		if c == b {
			return i
		}
	}
	return -1
}

// viewString returns s, optionally copied into the Decoder's own buffer
// (WithCopyStrings) so it outlives the Decode call that produced it.
func (d *Decoder) viewString(s []byte) []byte {
	if !d.cfg.copyStrings || len(s) == 0 {
		return s
	}
	d.strBuf = append(d.strBuf, s...)
	return d.strBuf[len(d.strBuf)-len(s):]
}

// afterValueEvent toggles the current frame's name/value expectation once
// a value (or name) event has been fully delivered, mirroring Encoder's
// afterValue.
func afterValueEvent(stack *containerStack, isName bool) {
	if top := stack.top(); top != nil && top.isObject {
		top.expectingName = !isName
	}
}
