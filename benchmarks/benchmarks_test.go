/*
 * MinIO Cloud Storage, (C) 2022 MinIO, Inc.
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

// Package bonjson_benchmarks compares decoding a representative payload
// through this module's Decoder against encoding/json, sonic, jsoniter, and
// a scan-only pass with buger/jsonparser, the same comparison set the
// teacher's benchmarks submodule runs against its own tape parser.
package bonjson_benchmarks

import (
	"encoding/json"
	"testing"

	"github.com/buger/jsonparser"
	"github.com/bytedance/sonic"
	jsoniter "github.com/json-iterator/go"

	bonjson "github.com/kstenerud/go-bonjson"
)

// sampleRecord is one element of a representative nested payload: an array
// of small objects mixing integer, string, float, boolean and string-array
// values.
type sampleRecord struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	Active   bool    `json:"active"`
	Tags     []string `json:"tags"`
}

func buildSample(n int) []sampleRecord {
	out := make([]sampleRecord, n)
	for i := range out {
		out[i] = sampleRecord{
			ID:     int64(i),
			Name:   "record",
			Score:  float64(i) * 1.5,
			Active: i%2 == 0,
			Tags:   []string{"a", "b", "c"},
		}
	}
	return out
}

func jsonFixture(b *testing.B) []byte {
	b.Helper()
	data, err := json.Marshal(buildSample(256))
	if err != nil {
		b.Fatal(err)
	}
	return data
}

func bonjsonFixture(b *testing.B) []byte {
	b.Helper()
	var out []byte
	enc := bonjson.NewEncoder(func(p []byte) error {
		out = append(out, p...)
		return nil
	})
	records := buildSample(256)
	must := func(err error) {
		if err != nil {
			b.Fatal(err)
		}
	}
	must(enc.BeginArray())
	for _, r := range records {
		must(enc.BeginObject())
		must(enc.AddString([]byte("id")))
		must(enc.AddSignedInt(r.ID))
		must(enc.AddString([]byte("name")))
		must(enc.AddString([]byte(r.Name)))
		must(enc.AddString([]byte("score")))
		must(enc.AddFloat(r.Score))
		must(enc.AddString([]byte("active")))
		must(enc.AddBool(r.Active))
		must(enc.AddString([]byte("tags")))
		must(enc.BeginArray())
		for _, tag := range r.Tags {
			must(enc.AddString([]byte(tag)))
		}
		must(enc.EndContainer())
		must(enc.EndContainer())
	}
	must(enc.EndContainer())
	must(enc.End())
	return out
}

// discardCallbacks implements bonjson.Callbacks, touching every payload just
// enough to prevent the compiler from eliding the decode.
type discardCallbacks struct{ sink int }

func (d *discardCallbacks) OnBool(bool) error               { d.sink++; return nil }
func (d *discardCallbacks) OnNull() error                     { d.sink++; return nil }
func (d *discardCallbacks) OnSignedInt(int64) error           { d.sink++; return nil }
func (d *discardCallbacks) OnUnsignedInt(uint64) error        { d.sink++; return nil }
func (d *discardCallbacks) OnFloat(float64) error              { d.sink++; return nil }
func (d *discardCallbacks) OnBigNumber(bonjson.BigNumber) error { d.sink++; return nil }
func (d *discardCallbacks) OnString(s []byte) error            { d.sink += len(s); return nil }
func (d *discardCallbacks) OnBeginArray() error                 { d.sink++; return nil }
func (d *discardCallbacks) OnBeginObject() error                { d.sink++; return nil }
func (d *discardCallbacks) OnEndContainer() error                { d.sink++; return nil }
func (d *discardCallbacks) OnEndData() error                     { return nil }

func BenchmarkEncodingJsonDecode(b *testing.B) {
	msg := jsonFixture(b)
	b.SetBytes(int64(len(msg)))
	b.ReportAllocs()
	b.ResetTimer()
	var parsed interface{}
	for i := 0; i < b.N; i++ {
		if err := json.Unmarshal(msg, &parsed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSonicDecode(b *testing.B) {
	msg := jsonFixture(b)
	b.SetBytes(int64(len(msg)))
	b.ReportAllocs()
	b.ResetTimer()
	var parsed interface{}
	for i := 0; i < b.N; i++ {
		if err := sonic.Unmarshal(msg, &parsed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkJsoniterDecode(b *testing.B) {
	msg := jsonFixture(b)
	b.SetBytes(int64(len(msg)))
	b.ReportAllocs()
	b.ResetTimer()
	cfg := jsoniter.ConfigCompatibleWithStandardLibrary
	var parsed interface{}
	for i := 0; i < b.N; i++ {
		if err := cfg.Unmarshal(msg, &parsed); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkJsonparserScan(b *testing.B) {
	msg := jsonFixture(b)
	b.SetBytes(int64(len(msg)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := jsonparser.ArrayEach(msg, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
			if _, err := jsonparser.GetString(value, "name"); err != nil {
				b.Fatal(err)
			}
		})
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBonjsonDecode(b *testing.B) {
	msg := bonjsonFixture(b)
	b.SetBytes(int64(len(msg)))
	b.ReportAllocs()
	b.ResetTimer()
	dec := bonjson.NewDecoder()
	for i := 0; i < b.N; i++ {
		var cb discardCallbacks
		if _, err := dec.Decode(msg, &cb); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBonjsonEncode(b *testing.B) {
	records := buildSample(256)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var out []byte
		enc := bonjson.NewEncoder(func(p []byte) error {
			out = append(out, p...)
			return nil
		})
		enc.BeginArray()
		for _, r := range records {
			enc.BeginObject()
			enc.AddString([]byte("id"))
			enc.AddSignedInt(r.ID)
			enc.AddString([]byte("name"))
			enc.AddString([]byte(r.Name))
			enc.EndContainer()
		}
		enc.EndContainer()
		enc.End()
	}
}
