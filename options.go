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

// Option configures an Encoder or a Decoder. It follows the same
// functional-option shape as the teacher's ParserOption.
type Option func(*config)

// Endian selects which byte order a host's numeric payloads are assembled
// with. §6.4 lists this as a compile-time knob "for systems where
// auto-detection fails". This package never actually branches on host
// byte order — every multi-byte read/write in endian.go assembles bytes
// one at a time regardless of host architecture (§9's design note: "A
// faithful implementation can unconditionally build values from
// little-endian bytes") — so EndianBig/EndianLittle are accepted and
// recorded for API parity with the original knob, but have no effect.
type Endian uint8

const (
	EndianAuto Endian = iota
	EndianLittle
	EndianBig
)

type config struct {
	maxDepth    int
	endian      Endian
	copyStrings bool
}

func newConfig(opts []Option) config {
	c := config{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&c)
	}
	if c.maxDepth <= 0 {
		c.maxDepth = DefaultMaxDepth
	}
	return c
}

// WithMaxDepth overrides the default container-depth cap (§3.3, §6.4).
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithEndian records the endian override of §6.4. See Endian's doc
// comment: this package always assembles wire bytes explicitly, so the
// value is inert.
func WithEndian(e Endian) Option {
	return func(c *config) { c.endian = e }
}

// WithCopyStrings controls whether Decoder copies a string payload into a
// buffer it owns before invoking OnString, rather than handing the
// callback a view straight into the input slice. Mirrors the teacher's
// WithCopyStrings: the default (false) hands out the fastest, most
// allocation-free borrowed view, valid only for the duration of the
// Decode call it was produced by (§5). Enabling it lets the view outlive
// that call, at the cost of a copy per string: copies are appended to a
// buffer the Decoder keeps, which is never truncated, so later Decode
// calls on the same Decoder leave earlier views intact.
func WithCopyStrings(b bool) Option {
	return func(c *config) { c.copyStrings = b }
}
