// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command asn1c compiles one or more ASN.1 modules and encodes or decodes
// a value of a named type against the result.
//
//	asn1c -type PersonnelRecord -codec DER -decode -in record.der.bin schema.asn1
//	asn1c -type PersonnelRecord -codec GSER schema.asn1 < record.json
//
// Encode reads a JER (JSON) rendering of the value from standard input (or
// -in) and writes the wire encoding to standard output (or -out). Decode
// reads the wire encoding and writes JER, or GSER text with -gser; with
// -codec JER or XER the output is still JER, and -codec GSER cannot be
// decoded. asn1c is a
// thin driver atop [asn1tool.dev/asn1/schema]; it is not part of the core
// library and exists only to exercise it from a shell.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"asn1tool.dev/asn1/gser"
	"asn1tool.dev/asn1/jer"
	"asn1tool.dev/asn1/schema"
)

var CmdLog = log.New(os.Stderr, filepath.Base(os.Args[0])+": ", 0)

var (
	typeFlag  = flag.String("type", "", "Name of the ASN.1 `type` to encode or decode. Required.")
	codecFlag = flag.String("codec", "BER", "Wire `codec`: one of BER, DER, CER, OER, PER, UPER, XER, JER, GSER.")

	decodeFlag = flag.Bool("decode", false, "Decode -in (wire format) instead of encoding it (JER).")
	gserFlag   = flag.Bool("gser", false, "Print decode output as GSER value notation instead of JER.")

	inFlag  = flag.String("in", "-", "Input `file`, or - for standard input.")
	outFlag = flag.String("out", "-", "Output `file`, or - for standard output.")

	lintFlag = flag.Bool("lint", false, "Report non-fatal compile diagnostics (import cycle warnings) to stderr.")
)

func main() {
	log.SetFlags(0) // none
	flag.Parse()

	if *typeFlag == "" {
		CmdLog.Fatal("-type is required")
	}
	codec := mustCodec()

	sources := mustSources(flag.Args())
	opts := []schema.Option{schema.WithCodec(codec)}
	if *lintFlag {
		opts = append(opts, schema.WithLintMode(true),
			schema.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	}

	s, err := schema.Compile(sources, opts...)
	if err != nil {
		CmdLog.Fatal(err)
	}

	in := mustReader()
	defer in.Close()
	out := mustWriter()
	defer out.Close()

	if *decodeFlag {
		if err := runDecode(s, codec, in, out); err != nil {
			CmdLog.Fatal(err)
		}
		return
	}
	if err := runEncode(s, in, out); err != nil {
		CmdLog.Fatal(err)
	}
}

// runEncode reads a JER rendering of the value from in, and writes its
// wire encoding under the Schema's configured codec to out.
func runEncode(s *schema.Schema, in io.Reader, out io.Writer) error {
	t, err := s.Type(*typeFlag)
	if err != nil {
		return err
	}
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("asn1c: reading input: %w", err)
	}
	v, _, err := jer.Decode(t, raw)
	if err != nil {
		return fmt.Errorf("asn1c: parsing JER input: %w", err)
	}
	data, err := s.Encode(*typeFlag, v)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

// runDecode reads a wire encoding from in under codec and writes its
// value to out, as GSER text (-gser), or JER otherwise.
func runDecode(s *schema.Schema, codec schema.Codec, in io.Reader, out io.Writer) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("asn1c: reading input: %w", err)
	}
	v, err := s.Decode(*typeFlag, raw)
	if err != nil {
		return err
	}

	if *gserFlag || codec == schema.GSER {
		t, err := s.Type(*typeFlag)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, gser.Format(t, v))
		return err
	}

	t, err := s.Type(*typeFlag)
	if err != nil {
		return err
	}
	data, err := jer.Encode(t, v)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func mustCodec() schema.Codec {
	switch strings.ToUpper(*codecFlag) {
	case "BER":
		return schema.BER
	case "DER":
		return schema.DER
	case "CER":
		return schema.CER
	case "OER":
		return schema.OER
	case "PER":
		return schema.PER
	case "UPER":
		return schema.UPER
	case "XER":
		return schema.XER
	case "JER":
		return schema.JER
	case "GSER":
		return schema.GSER
	}
	CmdLog.Fatalf("unknown codec %q", *codecFlag)
	panic("unreachable")
}

func mustSources(paths []string) []schema.Source {
	if len(paths) == 0 {
		CmdLog.Fatal("no ASN.1 module files given")
	}
	sources := make([]schema.Source, len(paths))
	for i, p := range paths {
		text, err := os.ReadFile(p)
		if err != nil {
			CmdLog.Fatal(err)
		}
		sources[i] = schema.Source{Name: p, Text: string(text)}
	}
	return sources
}

func mustReader() io.ReadCloser {
	if *inFlag == "-" {
		return io.NopCloser(os.Stdin)
	}
	f, err := os.Open(*inFlag)
	if err != nil {
		CmdLog.Fatal(err)
	}
	return f
}

func mustWriter() io.WriteCloser {
	if *outFlag == "-" {
		return nopWriteCloser{os.Stdout}
	}
	f, err := os.Create(*outFlag)
	if err != nil {
		CmdLog.Fatal(err)
	}
	return f
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
