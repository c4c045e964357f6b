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
	"bytes"
	"io"
	"testing"
)

// smallChunkReader serves src in chunkSize-byte pieces, forcing callers that
// read larger buffers (DecodeStream's bufio.Reader included) through many
// short Read calls instead of one that returns the whole document at once.
type smallChunkReader struct {
	src       []byte
	chunkSize int
}

func (r *smallChunkReader) Read(p []byte) (int, error) {
	if len(r.src) == 0 {
		return 0, io.EOF
	}
	n := r.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.src) {
		n = len(r.src)
	}
	copy(p, r.src[:n])
	r.src = r.src[n:]
	return n, nil
}

func encodeSample(t *testing.T, name string, n int64) []byte {
	t.Helper()
	var out []byte
	e := NewEncoder(collectSink(&out))
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.BeginObject())
	must(e.AddString([]byte("name")))
	must(e.AddString([]byte(name)))
	must(e.AddString([]byte("n")))
	must(e.AddSignedInt(n))
	must(e.EndContainer())
	must(e.End())
	return out
}

func TestDecodeStreamTwoDocumentsBackToBack(t *testing.T) {
	doc1 := encodeSample(t, "first", 1)
	doc2 := encodeSample(t, "second", 2)
	r := bytes.NewReader(append(append([]byte{}, doc1...), doc2...))

	var recorded []*recordingCallbacks
	results := DecodeStream(r, func() Callbacks {
		rc := &recordingCallbacks{}
		recorded = append(recorded, rc)
		return rc
	})

	res1 := <-results
	if res1.Err != nil {
		t.Fatalf("first document: unexpected error %v", res1.Err)
	}
	if res1.Consumed != len(doc1) {
		t.Fatalf("first document: consumed %d, want %d", res1.Consumed, len(doc1))
	}

	res2 := <-results
	if res2.Err != nil {
		t.Fatalf("second document: unexpected error %v", res2.Err)
	}
	if res2.Consumed != len(doc2) {
		t.Fatalf("second document: consumed %d, want %d", res2.Consumed, len(doc2))
	}

	final := <-results
	if final.Err != io.EOF {
		t.Fatalf("final result = %+v, want clean io.EOF", final)
	}

	if len(recorded) != 2 {
		t.Fatalf("got %d callback instances, want 2", len(recorded))
	}
	assertEvents(t, recorded[0].events, []string{
		"objectBegin", "string(name)", "string(first)", "string(n)", "signed(1)", "end", "eof",
	})
	assertEvents(t, recorded[1].events, []string{
		"objectBegin", "string(name)", "string(second)", "string(n)", "signed(2)", "end", "eof",
	})
}

// TestDecodeStreamSmallReadChunks forces DecodeStream's inner loop to hit its
// StatusIncomplete-retry branch repeatedly, by handing it only a few bytes
// per underlying Read call, across a two-document stream.
func TestDecodeStreamSmallReadChunks(t *testing.T) {
	doc1 := encodeSample(t, "alpha", 10)
	doc2 := encodeSample(t, "beta", 20)
	full := append(append([]byte{}, doc1...), doc2...)
	r := &smallChunkReader{src: full, chunkSize: 3}

	var recorded []*recordingCallbacks
	results := DecodeStream(r, func() Callbacks {
		rc := &recordingCallbacks{}
		recorded = append(recorded, rc)
		return rc
	})

	var gotResults []StreamResult
	for res := range results {
		gotResults = append(gotResults, res)
		if res.Err != nil {
			break
		}
	}

	if len(gotResults) != 3 {
		t.Fatalf("got %d results, want 3 (doc, doc, EOF): %+v", len(gotResults), gotResults)
	}
	if gotResults[0].Err != nil || gotResults[0].Consumed != len(doc1) {
		t.Fatalf("first result = %+v, want Consumed=%d Err=nil", gotResults[0], len(doc1))
	}
	if gotResults[1].Err != nil || gotResults[1].Consumed != len(doc2) {
		t.Fatalf("second result = %+v, want Consumed=%d Err=nil", gotResults[1], len(doc2))
	}
	if gotResults[2].Err != io.EOF {
		t.Fatalf("third result = %+v, want clean io.EOF", gotResults[2])
	}

	if len(recorded) != 2 {
		t.Fatalf("got %d callback instances, want 2", len(recorded))
	}
	assertEvents(t, recorded[0].events, []string{
		"objectBegin", "string(name)", "string(alpha)", "string(n)", "signed(10)", "end", "eof",
	})
	assertEvents(t, recorded[1].events, []string{
		"objectBegin", "string(name)", "string(beta)", "string(n)", "signed(20)", "end", "eof",
	})
}

// TestDecodeStreamTruncatedFinalDocument verifies that a stream ending
// mid-document (EOF reached while a document is still incomplete) reports a
// terminal error wrapping StatusIncomplete, distinguishable from the clean
// io.EOF a stream that ends between documents reports.
func TestDecodeStreamTruncatedFinalDocument(t *testing.T) {
	doc1 := encodeSample(t, "whole", 7)
	doc2 := encodeSample(t, "partial", 9)
	truncated := doc2[:len(doc2)-3]
	r := bytes.NewReader(append(append([]byte{}, doc1...), truncated...))

	results := DecodeStream(r, func() Callbacks { return &recordingCallbacks{} })

	res1 := <-results
	if res1.Err != nil {
		t.Fatalf("first document: unexpected error %v", res1.Err)
	}
	if res1.Consumed != len(doc1) {
		t.Fatalf("first document: consumed %d, want %d", res1.Consumed, len(doc1))
	}

	res2 := <-results
	if res2.Err == nil {
		t.Fatal("truncated final document: expected an error, got nil")
	}
	if res2.Err == io.EOF {
		t.Fatal("truncated final document: got clean io.EOF, want an error wrapping StatusIncomplete")
	}
	status, ok := StatusOf(res2.Err)
	if !ok || status != StatusIncomplete {
		t.Fatalf("truncated final document: got (%v, %v), want StatusIncomplete", status, ok)
	}

	if _, more := <-results; more {
		t.Fatal("expected channel to be closed after the terminal error")
	}
}
