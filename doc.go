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

// Package bonjson implements BONJSON, a compact binary encoding isomorphic
// to JSON. Every JSON document has exactly one canonical BONJSON byte
// sequence (up to numeric-encoding choice), and every valid BONJSON
// document decodes to exactly one JSON value tree.
//
// The package exposes two independent, single-threaded state machines.
// Neither is allocation-free: the container stack grows its slice as
// containers open, and the Encoder builds each string element in a newly
// allocated buffer before handing it to the Sink.
//
//   - Encoder accepts a sequence of typed value events and writes bytes
//     through a caller-supplied Sink, choosing the most compact wire
//     representation for every numeric value.
//   - Decode walks a byte buffer once and delivers a typed event per
//     element to a caller-supplied Callbacks implementation.
//
// Neither component builds a value tree; that is left to the caller,
// exactly as the simdjson Iter walks a parsed tape without ever
// constructing map[string]interface{} unless asked to.
package bonjson
