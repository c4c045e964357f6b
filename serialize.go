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
	"sync"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
)

// CompressMode selects the block codec CompressDocument uses to wrap an
// already-encoded BONJSON buffer. Unlike the teacher's per-field tape
// compression, a BONJSON document is itself a flat byte buffer, so there is
// a single block rather than separate tag/value/string streams.
type CompressMode uint8

const (
	// CompressNone stores the document unmodified, with only the one mode
	// byte of framing.
	CompressNone CompressMode = iota
	// CompressFast applies S2, klauspost/compress's LZ4-class codec.
	CompressFast
	// CompressBest applies zstd at its fastest level, trading some ratio
	// for single-digit-millisecond encode times on typical documents.
	CompressBest
)

const (
	blockUncompressed byte = 0
	blockS2           byte = 1
	blockZstd         byte = 2
)

var (
	s2Writers = sync.Pool{New: func() interface{} {
		return s2.NewWriter(nil, s2.WriterBetterCompression())
	}}
	s2Readers = sync.Pool{New: func() interface{} {
		return s2.NewReader(nil)
	}}
	zstdEncoders = sync.Pool{New: func() interface{} {
		e, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderCRC(false))
		return e
	}}
	zstdDecoder     *zstd.Decoder
	zstdDecoderOnce sync.Once
)

// CompressDocument wraps a complete, already-encoded BONJSON buffer with one
// mode byte followed by the chosen codec's output. It is meant for callers
// storing or transmitting whole documents, not for the wire format itself,
// which never embeds a compression marker of its own (§3.2 reserves no type
// code for it).
func CompressDocument(doc []byte, mode CompressMode) ([]byte, error) {
	switch mode {
	case CompressNone:
		dst := make([]byte, 0, len(doc)+1)
		dst = append(dst, blockUncompressed)
		return append(dst, doc...), nil
	case CompressFast:
		enc := s2Writers.Get().(*s2.Writer)
		defer func() {
			enc.Reset(nil)
			s2Writers.Put(enc)
		}()
		var buf bytes.Buffer
		buf.WriteByte(blockS2)
		enc.Reset(&buf)
		if _, err := enc.Write(doc); err != nil {
			return nil, wrapApplicationError(0, err)
		}
		if err := enc.Close(); err != nil {
			return nil, wrapApplicationError(0, err)
		}
		return buf.Bytes(), nil
	case CompressBest:
		enc := zstdEncoders.Get().(*zstd.Encoder)
		defer func() {
			enc.Reset(nil)
			zstdEncoders.Put(enc)
		}()
		var buf bytes.Buffer
		buf.WriteByte(blockZstd)
		enc.Reset(&buf)
		if _, err := enc.Write(doc); err != nil {
			return nil, wrapApplicationError(0, err)
		}
		if err := enc.Close(); err != nil {
			return nil, wrapApplicationError(0, err)
		}
		return buf.Bytes(), nil
	default:
		return nil, newErrorf(StatusInvalidData, 0, "unknown compression mode %d", mode)
	}
}

// DecompressDocument reverses CompressDocument, returning the original
// BONJSON buffer ready to hand to Decoder.Decode.
func DecompressDocument(src []byte) ([]byte, error) {
	if len(src) == 0 {
		return nil, newError(StatusIncomplete, 0)
	}
	mode, body := src[0], src[1:]
	switch mode {
	case blockUncompressed:
		return append([]byte(nil), body...), nil
	case blockS2:
		dec := s2Readers.Get().(*s2.Reader)
		defer func() {
			dec.Reset(nil)
			s2Readers.Put(dec)
		}()
		dec.Reset(bytes.NewReader(body))
		out, err := io.ReadAll(dec)
		if err != nil {
			return nil, wrapApplicationError(1, err)
		}
		return out, nil
	case blockZstd:
		zstdDecoderOnce.Do(func() { zstdDecoder, _ = zstd.NewReader(nil) })
		out, err := zstdDecoder.DecodeAll(body, nil)
		if err != nil {
			return nil, wrapApplicationError(1, err)
		}
		return out, nil
	default:
		return nil, newErrorf(StatusInvalidData, 0, "unrecognized compression block type %d", mode)
	}
}
