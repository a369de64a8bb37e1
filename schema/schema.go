// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema ties the compiler pipeline ([asn1tool.dev/asn1/syntax],
// [asn1tool.dev/asn1/module], [asn1tool.dev/asn1/resolve]) together with
// the wire codecs ([asn1tool.dev/asn1/ber], [asn1tool.dev/asn1/uper],
// [asn1tool.dev/asn1/oer]) behind a single Compile/Schema facade.
//
// This package, not the root [asn1tool.dev/asn1] package, hosts Compile:
// [asn1tool.dev/asn1/model] imports the root package for [asn1.Tag] and
// [asn1.BitString], so the root package importing model (or anything that
// imports model) back would be a Go import cycle. schema depends on
// everything; nothing depends on schema.
//
//	s, err := schema.Compile([]schema.Source{{Name: "my.asn1", Text: src}}, schema.WithCodec(schema.DER))
//	if err != nil {
//		// handle *syntax.Error / *resolve.Error
//	}
//	data, err := s.Encode("MyType", v)
//	v2, err := s.Decode("MyType", data)
package schema

import (
	"fmt"
	"log/slog"
	"sort"

	"asn1tool.dev/asn1/ber"
	"asn1tool.dev/asn1/gser"
	"asn1tool.dev/asn1/jer"
	"asn1tool.dev/asn1/model"
	"asn1tool.dev/asn1/oer"
	"asn1tool.dev/asn1/uper"
	"asn1tool.dev/asn1/xer"
	"asn1tool.dev/asn1/module"
	"asn1tool.dev/asn1/resolve"
	"asn1tool.dev/asn1/syntax"
)

// Source labels one blob of ASN.1 module source for diagnostics. It
// mirrors [syntax.Source]; kept as a distinct type so callers never need
// to import asn1/syntax just to call Compile.
type Source struct {
	Name string
	Text string
}

// Codec selects the wire format a Schema encodes and decodes.
type Codec int

const (
	// BER is the default codec: permissive Basic Encoding Rules.
	BER Codec = iota
	DER
	CER
	OER
	PER
	UPER
	XER
	JER
	GSER
)

func (c Codec) String() string {
	switch c {
	case BER:
		return "BER"
	case DER:
		return "DER"
	case CER:
		return "CER"
	case OER:
		return "OER"
	case PER:
		return "PER"
	case UPER:
		return "UPER"
	case XER:
		return "XER"
	case JER:
		return "JER"
	case GSER:
		return "GSER"
	default:
		return "Codec(?)"
	}
}

// Option configures a Compile call.
type Option func(*config)

type config struct {
	codec        Codec
	numericEnums bool
	logger       *slog.Logger
	lintMode     bool
}

// WithCodec selects the wire format Schema.Encode/Decode use. The default
// is BER.
func WithCodec(c Codec) Option {
	return func(cfg *config) { cfg.codec = c }
}

// WithNumericEnums records, in the Schema's configuration, whether
// ENUMERATED values with no named-number match are to be reported by their
// bare integer. No codec reads this setting: Encode and Decode behave the
// same whichever value is given.
func WithNumericEnums(b bool) Option {
	return func(cfg *config) { cfg.numericEnums = b }
}

// WithLogger attaches a logger the compiler uses to surface non-fatal
// diagnostics (import cycle warnings, at Warn level) during Compile. If
// omitted, Compile is silent.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithLintMode records a lint flag in the Schema's configuration. Compile
// does not read it: no warnings beyond the import cycle warnings that
// WithLogger receives are produced (no unused-import or EXPORTS checks).
func WithLintMode(b bool) Option {
	return func(cfg *config) { cfg.lintMode = b }
}

// Schema is the frozen, immutable output of a successful Compile: a type
// model plus the resolved value assignments, ready to encode and decode
// against one wire format. A Schema is safe for concurrent use by
// multiple goroutines; every Encode/Decode call allocates its own codec
// state.
type Schema struct {
	cfg    config
	result *resolve.Result
}

// Compile lexes, parses, and resolves every module in sources into a
// Schema. It accumulates every diagnosable error across every source
// instead of stopping at the first (spec "batch, not single-shot").
func Compile(sources []Source, opts ...Option) (*Schema, error) {
	cfg := config{codec: BER}
	for _, o := range opts {
		o(&cfg)
	}

	synSources := make([]syntax.Source, len(sources))
	for i, s := range sources {
		synSources[i] = syntax.Source{Name: s.Name, Text: s.Text}
	}

	modules, errs := syntax.Parse(synSources)
	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}

	table, errs := module.NewTable(modules)
	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	if cfg.logger != nil {
		for _, w := range table.ImportCycleWarnings() {
			cfg.logger.Warn("import cycle", "detail", w)
		}
	}

	result, errs := resolve.Resolve(table)
	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}

	return &Schema{cfg: cfg, result: result}, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%d errors: %v", len(errs), msgs)
}

// lookup resolves typeName (optionally "Module.Name"-qualified, otherwise
// matched against every compiled module) to its model.Type.
func (s *Schema) lookup(typeName string) (*model.Type, error) {
	if t, ok := s.result.Types[typeName]; ok {
		return t, nil
	}
	var found *model.Type
	suffix := "." + typeName
	for k, t := range s.result.Types {
		if len(k) > len(suffix) && k[len(k)-len(suffix):] == suffix {
			if found != nil {
				return nil, fmt.Errorf("schema: %q is ambiguous across modules", typeName)
			}
			found = t
		}
	}
	if found == nil {
		return nil, fmt.Errorf("schema: type %q not found", typeName)
	}
	return found, nil
}

// Type exposes the resolved model.Type for typeName, for callers that
// need to drive [asn1tool.dev/asn1/jer], [asn1tool.dev/asn1/xer] or
// [asn1tool.dev/asn1/gser] directly rather than through the codec
// selected by WithCodec (Decode rejects GSER, which can only be
// produced).
func (s *Schema) Type(typeName string) (*model.Type, error) {
	return s.lookup(typeName)
}

// TypeNames lists every type name this Schema resolved, "Module.Name"-
// qualified.
func (s *Schema) TypeNames() []string {
	names := make([]string, 0, len(s.result.Types))
	for k := range s.result.Types {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Encode renders v as typeName under the Schema's configured codec.
func (s *Schema) Encode(typeName string, v *model.Value) ([]byte, error) {
	t, err := s.lookup(typeName)
	if err != nil {
		return nil, err
	}
	switch s.cfg.codec {
	case BER, DER, CER:
		return ber.Encode(t, v, berRules(s.cfg.codec))
	case OER:
		return oer.Encode(t, v)
	case PER:
		return uper.Encode(t, v, true)
	case UPER:
		return uper.Encode(t, v, false)
	case XER:
		return xer.Encode(t, v)
	case JER:
		return jer.Encode(t, v)
	case GSER:
		return []byte(gser.Format(t, v)), nil
	default:
		return nil, fmt.Errorf("schema: codec %s not yet implemented", s.cfg.codec)
	}
}

// Decode parses data as typeName under the Schema's configured codec. It
// is an error for data to contain trailing bytes after one complete
// encoding.
func (s *Schema) Decode(typeName string, data []byte) (*model.Value, error) {
	v, n, err := s.DecodeWithLength(typeName, data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, &model.CodecError{Kind: model.TrailingData, Offset: int64(n)}
	}
	return v, nil
}

// DecodeWithLength parses the single typeName value at the start of data
// and reports how many bytes it consumed, permitting trailing bytes
// (e.g. subsequent values in a stream). A DEFAULT member absent from the
// encoding is filled in with its default value.
func (s *Schema) DecodeWithLength(typeName string, data []byte) (v *model.Value, n int, err error) {
	t, err := s.lookup(typeName)
	if err != nil {
		return nil, 0, err
	}
	defer func() {
		if err == nil {
			v = refreshValue(t, v)
		}
	}()
	switch s.cfg.codec {
	case BER, DER, CER:
		return ber.Decode(t, data, berRules(s.cfg.codec))
	case OER:
		return oer.Decode(t, data)
	case PER:
		return uper.Decode(t, data, true)
	case UPER:
		return uper.Decode(t, data, false)
	case XER:
		return xer.Decode(t, data)
	case JER:
		return jer.Decode(t, data)
	case GSER:
		return nil, 0, fmt.Errorf("schema: GSER is a one-way developer-facing textual form and cannot be decoded")
	default:
		return nil, 0, fmt.Errorf("schema: codec %s not yet implemented", s.cfg.codec)
	}
}

// Refresh fills in any OPTIONAL/DEFAULT member missing from v with its
// DEFAULT value (or leaves it absent if merely OPTIONAL), recursively,
// for round-trip comparisons in tests: a decoded value and its freshly
// constructed equivalent compare equal once both have been refreshed.
func (s *Schema) Refresh(typeName string, v *model.Value) (*model.Value, error) {
	t, err := s.lookup(typeName)
	if err != nil {
		return nil, err
	}
	return refreshValue(t, v), nil
}

func refreshValue(t *model.Type, v *model.Value) *model.Value {
	if v == nil {
		return nil
	}
	switch t.Kind {
	case model.KindSequence, model.KindSet:
		out := *v
		out.Sequence = append([]model.Field(nil), v.Sequence...)
		for i, m := range t.Members {
			found := false
			for j := range out.Sequence {
				if out.Sequence[j].Name == m.Name {
					out.Sequence[j].Value = refreshValue(t.MemberType(i), out.Sequence[j].Value)
					found = true
					break
				}
			}
			if !found && m.Default != nil {
				out.Sequence = append(out.Sequence, model.Field{Name: m.Name, Value: m.Default})
			}
		}
		return &out
	case model.KindTagged:
		if t.Explicit {
			return refreshValue(t.Wrapped(), v)
		}
	case model.KindSequenceOf, model.KindSetOf:
		out := *v
		out.List = make([]*model.Value, len(v.List))
		for i, e := range v.List {
			out.List[i] = refreshValue(t.Elem(), e)
		}
		return &out
	case model.KindChoice:
		if _, _, ok := t.Member(v.Selector); ok {
			_, idx, _ := t.Member(v.Selector)
			out := *v
			out.Choice = refreshValue(t.MemberType(idx), v.Choice)
			return &out
		}
	}
	return v
}

func berRules(c Codec) ber.Rules {
	switch c {
	case DER:
		return ber.DER
	case CER:
		return ber.CER
	default:
		return ber.Basic
	}
}
