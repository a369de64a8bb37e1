package syntax

import "testing"

func lexAll(t *testing.T, input string) []token {
	t.Helper()
	l := newLexer("test", input)
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			t.Fatalf("next() error = %v", err)
		}
		if tok.kind == tokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func TestLexerKeywordsAndIdentifiers(t *testing.T) {
	toks := lexAll(t, "SEQUENCE MyType myValue")
	want := []struct {
		kind tokenKind
		text string
	}{
		{tokKeyword, "SEQUENCE"},
		{tokTypeRef, "MyType"},
		{tokValueRef, "myValue"},
	}
	if len(toks) != len(want) {
		t.Fatalf("lexAll() = %+v, want %d tokens", toks, len(want))
	}
	for i, w := range want {
		if toks[i].kind != w.kind || toks[i].text != w.text {
			t.Errorf("token[%d] = %+v, want {%v %q}", i, toks[i], w.kind, w.text)
		}
	}
}

func TestLexerMultiCharPuncts(t *testing.T) {
	toks := lexAll(t, "::= ... .. [[ ]]")
	want := []string{"::=", "...", "..", "[[", "]]"}
	if len(toks) != len(want) {
		t.Fatalf("lexAll() = %+v, want %d tokens", toks, len(want))
	}
	for i, w := range want {
		if toks[i].text != w {
			t.Errorf("token[%d].text = %q, want %q", i, toks[i].text, w)
		}
	}
}

func TestLexerBitAndHexString(t *testing.T) {
	toks := lexAll(t, "'1010'B 'FF'H")
	if len(toks) != 2 {
		t.Fatalf("lexAll() = %+v, want 2 tokens", toks)
	}
	if toks[0].kind != tokBString || toks[0].text != "1010" {
		t.Errorf("token[0] = %+v, want BString 1010", toks[0])
	}
	if toks[1].kind != tokHString || toks[1].text != "FF" {
		t.Errorf("token[1] = %+v, want HString FF", toks[1])
	}
}

func TestLexerCStringWithEscapedQuote(t *testing.T) {
	toks := lexAll(t, `"he said ""hi"""`)
	if len(toks) != 1 || toks[0].kind != tokCString {
		t.Fatalf("lexAll() = %+v, want 1 CString token", toks)
	}
	if want := `he said "hi"`; toks[0].text != want {
		t.Errorf("token text = %q, want %q", toks[0].text, want)
	}
}

func TestLexerComments(t *testing.T) {
	toks := lexAll(t, "INTEGER -- a line comment\nBOOLEAN /* a block /* nested */ comment */ NULL")
	want := []string{"INTEGER", "BOOLEAN", "NULL"}
	if len(toks) != len(want) {
		t.Fatalf("lexAll() = %+v, want %d tokens", toks, len(want))
	}
	for i, w := range want {
		if toks[i].text != w {
			t.Errorf("token[%d].text = %q, want %q", i, toks[i].text, w)
		}
	}
}

func TestLexerUnterminatedStringIsAnError(t *testing.T) {
	l := newLexer("test", `"unterminated`)
	_, err := l.next()
	if err == nil {
		t.Fatalf("next() on an unterminated string returned no error")
	}
}

func TestParseReportsSyntaxErrorsWithoutStoppingAtFirst(t *testing.T) {
	srcs := []Source{
		{Name: "bad", Text: "NotAModule"},
		{Name: "good", Text: "Good DEFINITIONS ::= BEGIN\nX ::= INTEGER\nEND"},
	}
	mods, errs := Parse(srcs)
	if len(errs) == 0 {
		t.Fatalf("Parse() with a malformed source returned no errors")
	}
	if len(mods) != 1 || mods[0].Name != "Good" {
		t.Fatalf("Parse() mods = %+v, want the well-formed module still parsed", mods)
	}
}
