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

// Command bonjsonbench is the external collaborator named in §6.5: it
// takes an input byte stream, decodes it through the codec, and re-encodes
// (or discards) it to an output stream, timing the round trip. It is
// deliberately kept out of the core package — argument parsing and file
// I/O are not part of the codec's subject matter.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	bonjson "github.com/kstenerud/go-bonjson"
)

const version = "bonjsonbench 0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "bonjsonbench:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("bonjsonbench", flag.ContinueOnError)
	input := fs.String("in", "", "input BONJSON file (default: stdin)")
	output := fs.String("out", "", "output file for re-encoded BONJSON (default: discard)")
	decodeOnly := fs.Bool("decode-only", false, "decode only; do not re-encode")
	toJSON := fs.Bool("to-json", false, "dump the decoded document as JSON text instead of re-encoding")
	compress := fs.String("compress", "", "wrap -out with a compression block: \"s2\" or \"zstd\" (default: none)")
	showVersion := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *showVersion {
		fmt.Println(version)
		return nil
	}

	in, err := openInput(*input)
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	doc, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if *toJSON {
		return runToJSON(doc, *output)
	}

	start := time.Now()

	var outBytes []byte
	relay := &relayCallbacks{}
	if !*decodeOnly {
		relay.enc = bonjson.NewEncoder(func(p []byte) error {
			outBytes = append(outBytes, p...)
			return nil
		})
	}

	dec := bonjson.NewDecoder()
	consumed, decErr := dec.Decode(doc, relay)
	elapsed := time.Since(start)
	if decErr != nil {
		status, _ := bonjson.StatusOf(decErr)
		return fmt.Errorf("decode failed after %d/%d bytes (status %s): %w", consumed, len(doc), status, decErr)
	}
	if !*decodeOnly {
		if err := relay.enc.End(); err != nil {
			return fmt.Errorf("re-encode failed: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "decoded %d bytes in %s (%.1f MB/s)\n",
		len(doc), elapsed, float64(len(doc))/elapsed.Seconds()/(1<<20))

	if *decodeOnly || *output == "" {
		return nil
	}
	if *compress != "" {
		mode, err := parseCompressMode(*compress)
		if err != nil {
			return err
		}
		wrapped, err := bonjson.CompressDocument(outBytes, mode)
		if err != nil {
			return fmt.Errorf("compressing output: %w", err)
		}
		outBytes = wrapped
	}
	return writeOutput(*output, outBytes)
}

// runToJSON renders doc (a BONJSON buffer) as JSON text via the public
// ToJSON event consumer and writes it to outPath (or stdout if empty).
func runToJSON(doc []byte, outPath string) error {
	text, err := bonjson.ToJSON(doc, bonjson.NewDecoder())
	if err != nil {
		return fmt.Errorf("rendering JSON: %w", err)
	}
	if outPath == "" {
		_, err := os.Stdout.Write(text)
		return err
	}
	return writeOutput(outPath, text)
}

func parseCompressMode(name string) (bonjson.CompressMode, error) {
	switch name {
	case "s2":
		return bonjson.CompressFast, nil
	case "zstd":
		return bonjson.CompressBest, nil
	default:
		return 0, fmt.Errorf("unknown -compress mode %q (want \"s2\" or \"zstd\")", name)
	}
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

func writeOutput(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer f.Close()
	_, err = f.Write(data)
	return err
}

// relayCallbacks forwards every decoded event straight into an Encoder,
// implementing the "decode then re-encode" round trip the tool measures.
// When enc is nil (decode-only mode), it just counts events.
type relayCallbacks struct {
	enc    *bonjson.Encoder
	events int
}

func (r *relayCallbacks) OnBool(v bool) error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.AddBool(v)
}

func (r *relayCallbacks) OnNull() error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.AddNull()
}

func (r *relayCallbacks) OnSignedInt(v int64) error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.AddSignedInt(v)
}

func (r *relayCallbacks) OnUnsignedInt(v uint64) error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.AddUnsignedInt(v)
}

func (r *relayCallbacks) OnFloat(v float64) error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.AddFloat(v)
}

func (r *relayCallbacks) OnBigNumber(v bonjson.BigNumber) error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.AddBigNumber(v)
}

func (r *relayCallbacks) OnString(s []byte) error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.AddString(s)
}

func (r *relayCallbacks) OnBeginArray() error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.BeginArray()
}

func (r *relayCallbacks) OnBeginObject() error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.BeginObject()
}

func (r *relayCallbacks) OnEndContainer() error {
	r.events++
	if r.enc == nil {
		return nil
	}
	return r.enc.EndContainer()
}

func (r *relayCallbacks) OnEndData() error { return nil }
