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

// Sink receives encoded bytes as the Encoder produces them. It may be
// called more than once per value event. A non-nil return aborts the
// encode; the error is wrapped (unmodified, per §6.1) into an *Error with
// Status StatusApplicationError and surfaced from the Encoder call that
// triggered it.
type Sink func(p []byte) error

// Encoder serializes a stream of value events into BONJSON bytes. It
// holds no heap-allocated state beyond its container stack (§5): every
// write goes straight through Sink.
//
// Encoder is not safe for concurrent use. Once any method returns a
// non-nil error, the Encoder is poisoned: every subsequent call (besides
// Terminate) returns that same error without writing anything, per §4.1's
// "on non-OK it must leave the context in a state where no further call
// is accepted except diagnostic description."
type Encoder struct {
	sink     Sink
	stack    containerStack
	chunking bool
	written  int
	err      error
}

// NewEncoder begins a new encode. It corresponds to §4.1's begin(sink,
// userData): an empty container stack, no chunking in progress.
func NewEncoder(sink Sink, opts ...Option) *Encoder {
	cfg := newConfig(opts)
	return &Encoder{sink: sink, stack: newContainerStack(cfg.maxDepth)}
}

// End verifies the container stack is empty and no string chunk is in
// progress, completing the document.
func (e *Encoder) End() error {
	if e.err != nil {
		return e.err
	}
	if e.chunking {
		return e.fail(newError(StatusChunkingString, e.written))
	}
	if e.stack.depth() > 0 {
		return e.fail(newErrorf(StatusUnclosedContainers, e.written, "%d container(s) still open", e.stack.depth()))
	}
	return nil
}

// Terminate force-closes every open container, emitting a container-close
// byte for each, and clears any poisoned state so the Encoder can be
// inspected or discarded cleanly. It does not attempt to produce a valid
// document when called mid-value or mid-chunk; it exists purely so a
// caller unwinding from an error (or abandoning an encode early) can
// still drive the stack back to empty.
func (e *Encoder) Terminate() error {
	for e.stack.depth() > 0 {
		if err := e.emit([]byte{codeContainerEnd}); err != nil {
			return err
		}
		e.stack.pop()
	}
	e.chunking = false
	e.err = nil
	return nil
}

func (e *Encoder) fail(err error) error {
	if e.err == nil {
		e.err = err
	}
	return err
}

func (e *Encoder) emit(p []byte) error {
	if e.sink == nil {
		return e.fail(newError(StatusNullPointer, e.written))
	}
	if err := e.sink(p); err != nil {
		return e.fail(wrapApplicationError(e.written, err))
	}
	e.written += len(p)
	return nil
}

// isNameSlot reports whether the next value event, if accepted, will be
// consumed as an object name rather than a value.
func (e *Encoder) isNameSlot() bool {
	top := e.stack.top()
	return top != nil && top.isObject && top.expectingName
}

// afterValue toggles the current frame's name/value expectation once a
// value event has been fully written. isName is whether the event just
// written occupied a name slot.
func (e *Encoder) afterValue(isName bool) {
	if top := e.stack.top(); top != nil && top.isObject {
		top.expectingName = !isName
	}
}

// precheckValue applies §4.1's structural pre-check to any operation
// that is about to write a value (or object name) event. isString
// indicates whether the event is string-typed, which is the only kind
// legal in a name slot.
func (e *Encoder) precheckValue(isString bool) error {
	if e.err != nil {
		return e.err
	}
	if e.chunking {
		return e.fail(newError(StatusChunkingString, e.written))
	}
	if top := e.stack.top(); top != nil && top.isObject && top.expectingName && !isString {
		return e.fail(newError(StatusExpectedObjectName, e.written))
	}
	return nil
}

// AddBool emits a boolean value event.
func (e *Encoder) AddBool(b bool) error {
	if err := e.precheckValue(false); err != nil {
		return err
	}
	code := byte(codeFalse)
	if b {
		code = codeTrue
	}
	if err := e.emit([]byte{code}); err != nil {
		return err
	}
	e.afterValue(false)
	return nil
}

// AddNull emits a null value event.
func (e *Encoder) AddNull() error {
	if err := e.precheckValue(false); err != nil {
		return err
	}
	if err := e.emit([]byte{codeNull}); err != nil {
		return err
	}
	e.afterValue(false)
	return nil
}

// AddSignedInt emits a signed 64-bit integer, choosing the most compact
// wire form (§4.1 steps 2-3).
func (e *Encoder) AddSignedInt(v int64) error {
	if err := e.precheckValue(false); err != nil {
		return err
	}
	var scratch [9]byte
	if err := e.emit(appendSignedInt(scratch[:0], v)); err != nil {
		return err
	}
	e.afterValue(false)
	return nil
}

// AddUnsignedInt emits an unsigned 64-bit integer, choosing the most
// compact wire form (§4.1 steps 2-3).
func (e *Encoder) AddUnsignedInt(v uint64) error {
	if err := e.precheckValue(false); err != nil {
		return err
	}
	var scratch [9]byte
	if err := e.emit(appendUnsignedInt(scratch[:0], v)); err != nil {
		return err
	}
	e.afterValue(false)
	return nil
}

// AddFloat emits a float64, demoting to an integer type code or a
// narrower float type code whenever that round-trips losslessly (§4.1
// steps 1 and 4). Non-finite values are rejected.
func (e *Encoder) AddFloat(v float64) error {
	if err := e.precheckValue(false); err != nil {
		return err
	}
	var scratch [9]byte
	data, err := appendFloatValue(scratch[:0], v)
	if err != nil {
		return e.fail(err)
	}
	if err := e.emit(data); err != nil {
		return err
	}
	e.afterValue(false)
	return nil
}

// AddBigNumber emits a big-number value (§4.1's payload layout, type code
// 0x91). Big numbers are never demoted to another representation.
func (e *Encoder) AddBigNumber(bn BigNumber) error {
	if err := e.precheckValue(false); err != nil {
		return err
	}
	data, err := encodeBigNumberPayload(nil, bn)
	if err != nil {
		return e.fail(err)
	}
	if err := e.emit(data); err != nil {
		return err
	}
	e.afterValue(false)
	return nil
}

// emitCompleteString writes a full string element (short or long form) in
// a single Sink call.
func (e *Encoder) emitCompleteString(data []byte) error {
	if len(data) <= 15 {
		buf := make([]byte, 0, 1+len(data))
		buf = append(buf, byte(codeShortStrBase+len(data)))
		buf = append(buf, data...)
		return e.emit(buf)
	}
	buf := make([]byte, 0, 2+len(data))
	buf = append(buf, codeLongString)
	buf = append(buf, data...)
	buf = append(buf, longStringTerminator)
	return e.emit(buf)
}

// AddString emits a complete string element (an object name, if the
// current slot expects one, or a value otherwise). data must be non-nil;
// pass an empty, non-nil slice to encode an empty string.
func (e *Encoder) AddString(data []byte) error {
	if e.err != nil {
		return e.err
	}
	if data == nil {
		return e.fail(newError(StatusNullPointer, e.written))
	}
	if err := e.precheckValue(true); err != nil {
		return err
	}
	wasName := e.isNameSlot()
	if err := e.emitCompleteString(data); err != nil {
		return err
	}
	e.afterValue(wasName)
	return nil
}

// ChunkString emits one chunk of a progressive string (§4.1, §3.2's long
// string framing). The element is not complete, and does not advance the
// name/value state, until a call with isLast = true. While a chunk
// sequence is in progress, every other Encoder operation (besides
// Terminate) fails with StatusChunkingString.
func (e *Encoder) ChunkString(data []byte, isLast bool) error {
	if e.err != nil {
		return e.err
	}
	if data == nil {
		return e.fail(newError(StatusNullPointer, e.written))
	}
	if !e.chunking {
		if err := e.precheckValue(true); err != nil {
			return err
		}
		if isLast {
			wasName := e.isNameSlot()
			if err := e.emitCompleteString(data); err != nil {
				return err
			}
			e.afterValue(wasName)
			return nil
		}
		buf := make([]byte, 0, 1+len(data))
		buf = append(buf, codeLongString)
		buf = append(buf, data...)
		if err := e.emit(buf); err != nil {
			return err
		}
		e.chunking = true
		return nil
	}

	if err := e.emit(data); err != nil {
		return err
	}
	if isLast {
		wasName := e.isNameSlot()
		if err := e.emit([]byte{longStringTerminator}); err != nil {
			return err
		}
		e.chunking = false
		e.afterValue(wasName)
	}
	return nil
}

// AddRawDocument splices a pre-encoded BONJSON element verbatim, advancing
// the state machine as if exactly one value (or name) had been written.
// The caller is responsible for data being a single, complete, valid
// BONJSON element; the Encoder only inspects its first byte, to decide
// whether it may occupy an object name slot.
func (e *Encoder) AddRawDocument(data []byte) error {
	if e.err != nil {
		return e.err
	}
	if data == nil {
		return e.fail(newError(StatusNullPointer, e.written))
	}
	if len(data) == 0 {
		return e.fail(newErrorf(StatusInvalidData, e.written, "raw document must contain at least one byte"))
	}
	isString := data[0] >= codeShortStrBase && data[0] <= codeLongString
	if err := e.precheckValue(isString); err != nil {
		return err
	}
	wasName := e.isNameSlot()
	if err := e.emit(data); err != nil {
		return err
	}
	e.afterValue(wasName)
	return nil
}

func (e *Encoder) beginContainer(isObject bool) error {
	if err := e.precheckValue(false); err != nil {
		return err
	}
	if e.stack.depth() >= e.stack.maxDepth {
		return e.fail(newErrorf(StatusContainerDepthExceeded, e.written, "max container depth %d exceeded", e.stack.maxDepth))
	}
	code := byte(codeArrayBegin)
	if isObject {
		code = codeObjectBegin
	}
	if err := e.emit([]byte{code}); err != nil {
		return err
	}
	e.afterValue(false)
	e.stack.push(isObject)
	return nil
}

// BeginObject opens a new object, whose first event must be a string
// name (or an immediate EndContainer for an empty object).
func (e *Encoder) BeginObject() error { return e.beginContainer(true) }

// BeginArray opens a new array.
func (e *Encoder) BeginArray() error { return e.beginContainer(false) }

// EndContainer closes the innermost open array or object.
func (e *Encoder) EndContainer() error {
	if e.err != nil {
		return e.err
	}
	if e.chunking {
		return e.fail(newError(StatusChunkingString, e.written))
	}
	top := e.stack.top()
	if top == nil {
		return e.fail(newError(StatusUnbalancedContainers, e.written))
	}
	if top.isObject && !top.expectingName {
		return e.fail(newError(StatusExpectedObjectValue, e.written))
	}
	if err := e.emit([]byte{codeContainerEnd}); err != nil {
		return err
	}
	e.stack.pop()
	if parent := e.stack.top(); parent != nil && parent.isObject {
		parent.expectingName = true
	}
	return nil
}
