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
	"bufio"
	"fmt"
	"io"
)

// StreamResult is one decoded document (or terminal error) from
// DecodeStream, mirroring the teacher's Stream{Value, Error}.
type StreamResult struct {
	Consumed int
	Err      error
}

// DecodeStream reads a sequence of back-to-back BONJSON documents from r,
// invoking a fresh Callbacks per document via newCallbacks, and reports one
// StreamResult per document on the returned channel. It adapts the
// teacher's ParseNDStream: where NDJSON delimits records with a newline
// (illegal inside a JSON text value), BONJSON documents are self-delimiting
// by construction (the root value's own length), so no separator scan is
// needed — DecodeStream simply keeps decoding from wherever the previous
// document's Decode call stopped.
//
// The channel is closed after a terminal error is sent. A stream that ends
// cleanly at EOF between documents reports io.EOF as that terminal error,
// exactly as ParseNDStream does.
func DecodeStream(r io.Reader, newCallbacks func() Callbacks, opts ...Option) <-chan StreamResult {
	const chunkSize = 1 << 20
	res := make(chan StreamResult)
	br := bufio.NewReaderSize(r, chunkSize)
	dec := NewDecoder(opts...)

	go func() {
		defer close(res)
		var pending []byte
		for {
			chunk := make([]byte, chunkSize)
			n, readErr := br.Read(chunk)
			pending = append(pending, chunk[:n]...)

			for {
				if len(pending) == 0 {
					break
				}
				consumed, err := dec.Decode(pending, newCallbacks())
				if err != nil {
					status, _ := StatusOf(err)
					if (status == StatusIncomplete || status == StatusUnclosedContainers) && readErr == nil {
						// Need more bytes before this document can be
						// distinguished from a truncated one; read again.
						break
					}
					res <- StreamResult{Consumed: consumed, Err: fmt.Errorf("decoding stream: %w", err)}
					return
				}
				res <- StreamResult{Consumed: consumed}
				pending = pending[consumed:]
			}

			if readErr != nil {
				if readErr == io.EOF && len(pending) == 0 {
					res <- StreamResult{Err: io.EOF}
				} else if readErr == io.EOF {
					res <- StreamResult{Err: fmt.Errorf("decoding stream: %w", newError(StatusIncomplete, 0))}
				} else {
					res <- StreamResult{Err: fmt.Errorf("reading input: %w", readErr)}
				}
				return
			}
		}
	}()

	return res
}
