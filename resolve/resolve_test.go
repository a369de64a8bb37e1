package resolve_test

import (
	"testing"

	"asn1tool.dev/asn1"
	"asn1tool.dev/asn1/model"
	"asn1tool.dev/asn1/module"
	"asn1tool.dev/asn1/resolve"
	"asn1tool.dev/asn1/syntax"
)

func compile(t *testing.T, sources ...string) *resolve.Result {
	t.Helper()
	var srcs []syntax.Source
	for i, s := range sources {
		srcs = append(srcs, syntax.Source{Name: string(rune('A' + i)), Text: s})
	}
	mods, errs := syntax.Parse(srcs)
	if len(errs) > 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}
	tbl, errs := module.NewTable(mods)
	if len(errs) > 0 {
		t.Fatalf("NewTable() errors = %v", errs)
	}
	res, errs := resolve.Resolve(tbl)
	if len(errs) > 0 {
		t.Fatalf("Resolve() errors = %v", errs)
	}
	return res
}

func TestResolveSimpleAssignments(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyInt ::= INTEGER
MyBool ::= BOOLEAN
END`
	res := compile(t, src)
	intT, ok := res.Types["Test.MyInt"]
	if !ok || intT.Kind != model.KindInteger {
		t.Fatalf("Test.MyInt = %+v, %v", intT, ok)
	}
	boolT, ok := res.Types["Test.MyBool"]
	if !ok || boolT.Kind != model.KindBoolean {
		t.Fatalf("Test.MyBool = %+v, %v", boolT, ok)
	}
}

func TestResolveSequenceWithOptionalAndDefault(t *testing.T) {
	src := `Test DEFINITIONS AUTOMATIC TAGS ::= BEGIN
MySeq ::= SEQUENCE {
    a INTEGER,
    b BOOLEAN OPTIONAL,
    c INTEGER DEFAULT 5
}
END`
	res := compile(t, src)
	seq, ok := res.Types["Test.MySeq"]
	if !ok || seq.Kind != model.KindSequence {
		t.Fatalf("Test.MySeq = %+v, %v", seq, ok)
	}
	if len(seq.Members) != 3 {
		t.Fatalf("Test.MySeq Members = %+v, want 3", seq.Members)
	}
	if seq.Members[0].Optional || seq.Members[0].Default != nil {
		t.Errorf("member a should be required")
	}
	if !seq.Members[1].Optional {
		t.Errorf("member b should be OPTIONAL")
	}
	if seq.Members[2].Default == nil || seq.Members[2].Default.Int.Int64() != 5 {
		t.Errorf("member c DEFAULT = %+v, want 5", seq.Members[2].Default)
	}
}

func TestResolveChoice(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyChoice ::= CHOICE {
    a [0] INTEGER,
    b [1] BOOLEAN
}
END`
	res := compile(t, src)
	ch, ok := res.Types["Test.MyChoice"]
	if !ok || ch.Kind != model.KindChoice {
		t.Fatalf("Test.MyChoice = %+v, %v", ch, ok)
	}
	if len(ch.Members) != 2 {
		t.Fatalf("Test.MyChoice Members = %+v, want 2", ch.Members)
	}
}

func TestResolveExplicitTaggingDefault(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyTagged ::= [5] INTEGER
END`
	res := compile(t, src)
	tagged, ok := res.Types["Test.MyTagged"]
	if !ok {
		t.Fatalf("Test.MyTagged not found")
	}
	if tagged.Kind != model.KindTagged || !tagged.Explicit {
		t.Fatalf("Test.MyTagged = %+v, want EXPLICIT KindTagged", tagged)
	}
}

func TestResolveImplicitTaggingFoldsIntoInnerType(t *testing.T) {
	src := `Test DEFINITIONS IMPLICIT TAGS ::= BEGIN
MyTagged ::= [5] INTEGER
END`
	res := compile(t, src)
	tagged, ok := res.Types["Test.MyTagged"]
	if !ok {
		t.Fatalf("Test.MyTagged not found")
	}
	if tagged.Kind != model.KindInteger {
		t.Fatalf("Test.MyTagged Kind = %v, want KindInteger (implicit tagging folds into the wrapped type)", tagged.Kind)
	}
}

func TestResolveSequenceOf(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyList ::= SEQUENCE OF INTEGER
END`
	res := compile(t, src)
	list, ok := res.Types["Test.MyList"]
	if !ok || list.Kind != model.KindSequenceOf {
		t.Fatalf("Test.MyList = %+v, %v", list, ok)
	}
	if list.Elem().Kind != model.KindInteger {
		t.Errorf("Test.MyList element Kind = %v, want KindInteger", list.Elem().Kind)
	}
}

func TestResolveEnumerated(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyEnum ::= ENUMERATED { red, green, blue(5) }
END`
	res := compile(t, src)
	e, ok := res.Types["Test.MyEnum"]
	if !ok || e.Kind != model.KindEnumerated {
		t.Fatalf("Test.MyEnum = %+v, %v", e, ok)
	}
	want := []model.NamedNumber{{Name: "red", Value: 0}, {Name: "green", Value: 1}, {Name: "blue", Value: 5}}
	if len(e.NamedNumbers) != len(want) {
		t.Fatalf("Test.MyEnum NamedNumbers = %+v", e.NamedNumbers)
	}
	for i, nn := range want {
		if e.NamedNumbers[i] != nn {
			t.Errorf("Test.MyEnum NamedNumbers[%d] = %+v, want %+v", i, e.NamedNumbers[i], nn)
		}
	}
}

func TestResolveValueRangeConstraint(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyBoundedInt ::= INTEGER (0..100)
END`
	res := compile(t, src)
	bounded, ok := res.Types["Test.MyBoundedInt"]
	if !ok || bounded.Constraint == nil {
		t.Fatalf("Test.MyBoundedInt = %+v, %v", bounded, ok)
	}
	lo, hi, ok := bounded.Constraint.Bounds()
	if !ok || lo.Int64() != 0 || hi.Int64() != 100 {
		t.Fatalf("Test.MyBoundedInt Bounds() = %v, %v, %v", lo, hi, ok)
	}
}

func TestResolveCrossModuleImport(t *testing.T) {
	a := `ModuleA DEFINITIONS ::= BEGIN
Imported ::= INTEGER
END`
	b := `ModuleB DEFINITIONS ::= BEGIN
IMPORTS Imported FROM ModuleA;
Local ::= Imported
END`
	res := compile(t, a, b)
	local, ok := res.Types["ModuleB.Local"]
	if !ok || local.Kind != model.KindInteger {
		t.Fatalf("ModuleB.Local = %+v, %v", local, ok)
	}
}

func TestResolveUnknownReferenceReportsError(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyType ::= DoesNotExist
END`
	srcs := []syntax.Source{{Name: "a", Text: src}}
	mods, errs := syntax.Parse(srcs)
	if len(errs) > 0 {
		t.Fatalf("Parse() errors = %v", errs)
	}
	tbl, errs := module.NewTable(mods)
	if len(errs) > 0 {
		t.Fatalf("NewTable() errors = %v", errs)
	}
	_, errs = resolve.Resolve(tbl)
	if len(errs) == 0 {
		t.Fatalf("Resolve() with an unknown reference returned no errors")
	}
}

func TestResolveAutomaticTagsAssignsSequentialContextTags(t *testing.T) {
	src := `Test DEFINITIONS AUTOMATIC TAGS ::= BEGIN
MySeq ::= SEQUENCE {
    a INTEGER,
    b BOOLEAN,
    c UTF8String
}
END`
	res := compile(t, src)
	seq, ok := res.Types["Test.MySeq"]
	if !ok || seq.Kind != model.KindSequence {
		t.Fatalf("Test.MySeq = %+v, %v", seq, ok)
	}
	for i, m := range seq.Members {
		want := asn1.ClassContextSpecific | asn1.Tag(i)
		if m.Tag != want {
			t.Errorf("member %d Tag = %v, want %v", i, m.Tag, want)
		}
	}
}

func TestResolveExplicitTagsModuleLeavesMemberTagsAlone(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MySeq ::= SEQUENCE {
    a INTEGER,
    b BOOLEAN
}
END`
	res := compile(t, src)
	seq, ok := res.Types["Test.MySeq"]
	if !ok {
		t.Fatalf("Test.MySeq not found")
	}
	for i, m := range seq.Members {
		if m.Tag == asn1.ClassContextSpecific|asn1.Tag(i) && i > 0 {
			// context tags only appear here if the source asked for them explicitly,
			// which it didn't; a false positive would mean automatic tagging leaked
			// into a DEFINITIONS module without AUTOMATIC TAGS.
			t.Errorf("member %d unexpectedly carries an automatic-looking tag %v", i, m.Tag)
		}
	}
}

func TestResolveParameterizedTypeInstantiation(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
Wrapper{Elem} ::= SEQUENCE {
    val Elem
}
MyWrapped ::= Wrapper{INTEGER}
MyWrappedBool ::= Wrapper{BOOLEAN}
END`
	res := compile(t, src)
	wrapped, ok := res.Types["Test.MyWrapped"]
	if !ok || wrapped.Kind != model.KindSequence {
		t.Fatalf("Test.MyWrapped = %+v, %v", wrapped, ok)
	}
	if wrapped.MemberType(0).Kind != model.KindInteger {
		t.Errorf("Test.MyWrapped.val Kind = %v, want KindInteger", wrapped.MemberType(0).Kind)
	}
	wrappedBool, ok := res.Types["Test.MyWrappedBool"]
	if !ok || wrappedBool.MemberType(0).Kind != model.KindBoolean {
		t.Fatalf("Test.MyWrappedBool.val Kind = %+v, want KindBoolean", wrappedBool)
	}
}

func TestResolveSizeConstraint(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyStr ::= OCTET STRING (SIZE(4))
END`
	res := compile(t, src)
	typ, ok := res.Types["Test.MyStr"]
	if !ok || typ.Constraint == nil {
		t.Fatalf("Test.MyStr = %+v, %v", typ, ok)
	}
	if !typ.Hints.FixedLength || typ.Hints.ByteLength != 4 {
		t.Fatalf("Test.MyStr Hints = %+v, want FixedLength ByteLength=4", typ.Hints)
	}
}

func TestResolvePermittedAlphabetConstraint(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MyStr ::= IA5String (FROM ("A".."D"))
END`
	res := compile(t, src)
	typ, ok := res.Types["Test.MyStr"]
	if !ok || typ.Constraint == nil {
		t.Fatalf("Test.MyStr = %+v, %v", typ, ok)
	}
	if typ.Hints.AlphabetWidth == 0 {
		t.Fatalf("Test.MyStr Hints.AlphabetWidth = 0, want a nonzero permitted-alphabet bit width")
	}
}

func TestResolveWithComponentsConstraint(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
MySeq ::= SEQUENCE {
    a INTEGER,
    b BOOLEAN OPTIONAL
} (WITH COMPONENTS { a (0..10), b ABSENT })
END`
	res := compile(t, src)
	typ, ok := res.Types["Test.MySeq"]
	if !ok || typ.Constraint == nil || typ.Constraint.Kind != model.ConstraintWithComponents {
		t.Fatalf("Test.MySeq.Constraint = %+v, %v", typ.Constraint, ok)
	}
	if len(typ.Constraint.Components) != 2 {
		t.Fatalf("Test.MySeq.Constraint.Components = %+v, want 2", typ.Constraint.Components)
	}
	if typ.Constraint.Components[1].Name != "b" || typ.Constraint.Components[1].Presence != model.PresenceAbsent {
		t.Errorf("component b = %+v, want ABSENT", typ.Constraint.Components[1])
	}
}

func TestResolveValueAssignmentWithIdentifierReference(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
baseValue INTEGER ::= 10
derivedValue INTEGER ::= baseValue
END`
	res := compile(t, src)
	v, ok := res.Values["Test.derivedValue"]
	if !ok || v.Int == nil || v.Int.Int64() != 10 {
		t.Fatalf("Test.derivedValue = %+v, %v, want Int(10)", v, ok)
	}
}

func TestResolveOIDValueWithNamedAndNumericArcs(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
myOID OBJECT IDENTIFIER ::= { iso(1) member-body(2) 840 }
END`
	res := compile(t, src)
	v, ok := res.Values["Test.myOID"]
	if !ok || v.Kind != model.KindObjectIdentifier {
		t.Fatalf("Test.myOID = %+v, %v", v, ok)
	}
	want := []uint{1, 2, 840}
	if len(v.OIDArcs) != len(want) {
		t.Fatalf("Test.myOID OIDArcs = %v, want %v", v.OIDArcs, want)
	}
	for i, a := range want {
		if v.OIDArcs[i] != a {
			t.Errorf("Test.myOID OIDArcs[%d] = %d, want %d", i, v.OIDArcs[i], a)
		}
	}
}

func TestResolveSelfReferentialParameterizedType(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
Rec{Elem} ::= SEQUENCE {
    head Elem,
    tail Rec{Elem} OPTIONAL
}
MyRec ::= Rec{INTEGER}
END`
	// This is a legitimate self-referential parameterized type (tail is
	// OPTIONAL, the way TestResolveSelfReferentialType's plain SEQUENCE is),
	// not the cyclic-without-a-base-case instantiation loop the resolver
	// rejects; it should resolve cleanly and exercise the same
	// instantiation-memoization path a truly cyclic one would hit first.
	res := compile(t, src)
	if _, ok := res.Types["Test.MyRec"]; !ok {
		t.Fatalf("Test.MyRec not found")
	}
}

func TestResolveSelfReferentialType(t *testing.T) {
	src := `Test DEFINITIONS ::= BEGIN
Node ::= SEQUENCE {
    value INTEGER,
    next Node OPTIONAL
}
END`
	res := compile(t, src)
	node, ok := res.Types["Test.Node"]
	if !ok || node.Kind != model.KindSequence {
		t.Fatalf("Test.Node = %+v, %v", node, ok)
	}
	next := node.MemberType(1)
	if next.Kind != model.KindSequence || next.Index != node.Index {
		t.Fatalf("Test.Node.next resolved to a different Type than Node itself: %+v", next)
	}
}
