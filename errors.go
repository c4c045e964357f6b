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
	"errors"
	"fmt"
)

// Status classifies why an Encoder or Decoder operation failed, per the
// error taxonomy of §7. It is intentionally coarse: callers that need more
// than "what kind of structural problem was this" should inspect Error.Err.
type Status uint8

const (
	StatusOK Status = iota
	StatusIncomplete
	StatusTooBig
	StatusUnclosedContainers
	StatusContainerDepthExceeded
	StatusUnbalancedContainers
	StatusExpectedObjectName
	StatusExpectedObjectValue
	StatusInvalidData
	StatusChunkingString
	StatusNullPointer
	// StatusApplicationError wraps a status returned by a caller-supplied
	// sink or callback. Per §7, these are opaque to the codec and
	// propagate verbatim via Error.Err.
	StatusApplicationError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusIncomplete:
		return "incomplete"
	case StatusTooBig:
		return "too big"
	case StatusUnclosedContainers:
		return "unclosed containers"
	case StatusContainerDepthExceeded:
		return "container depth exceeded"
	case StatusUnbalancedContainers:
		return "unbalanced containers"
	case StatusExpectedObjectName:
		return "expected object name"
	case StatusExpectedObjectValue:
		return "expected object value"
	case StatusInvalidData:
		return "invalid data"
	case StatusChunkingString:
		return "chunking string"
	case StatusNullPointer:
		return "null pointer"
	case StatusApplicationError:
		return "could not process data"
	default:
		return "unknown status"
	}
}

// Error is the error type returned by every Encoder and Decoder operation
// that fails. Offset is the cursor position (decoder) or byte count
// already written through the sink (encoder) at the point of failure; it
// is always set, per §7's policy that truncation and corruption must be
// distinguishable by the caller.
type Error struct {
	Status Status
	Offset int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("bonjson: %s at offset %d: %v", e.Status, e.Offset, e.Err)
	}
	return fmt.Sprintf("bonjson: %s at offset %d", e.Status, e.Offset)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status Status, offset int) *Error {
	return &Error{Status: status, Offset: offset}
}

func newErrorf(status Status, offset int, format string, args ...interface{}) *Error {
	return &Error{Status: status, Offset: offset, Err: fmt.Errorf(format, args...)}
}

// wrapApplicationError wraps a non-nil error returned by a caller-supplied
// sink or callback, per §7's "could not process data" / ≥100 reserved
// range. The codec never interprets the wrapped error; it propagates
// verbatim through Unwrap.
func wrapApplicationError(offset int, cause error) *Error {
	return &Error{Status: StatusApplicationError, Offset: offset, Err: cause}
}

// StatusOf extracts the Status of err if it (or something it wraps) is a
// *Error, and reports whether one was found.
func StatusOf(err error) (Status, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Status, true
	}
	return StatusOK, false
}
