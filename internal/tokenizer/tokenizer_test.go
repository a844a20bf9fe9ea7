package tokenizer

import "testing"

func collect(t *testing.T, data string) []Token {
	t.Helper()
	tk := NewTokenizer([]byte(data))
	var out []Token
	for {
		tok, err := tk.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok.Kind == EOF {
			return out
		}
		out = append(out, tok)
	}
}

func TestTokenizeBasicObject(t *testing.T) {
	toks := collect(t, "<< /Type /Catalog /Count 3 1.5 >>")
	want := []Kind{StartDic, Name, Name, Name, Integer, Float, EndDic}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d kind = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestTokenizeNameHexEscape(t *testing.T) {
	toks := collect(t, "/A#42C")
	if len(toks) != 1 || toks[0].Kind != Name {
		t.Fatalf("got %+v, want one Name token", toks)
	}
	if toks[0].Value != "A#42C" {
		t.Errorf("Value = %q, want %q", toks[0].Value, "A#42C")
	}
}

func TestTokenizeLiteralStringEscapes(t *testing.T) {
	toks := collect(t, `(a\n\)b\\c)`)
	if len(toks) != 1 || toks[0].Kind != String {
		t.Fatalf("got %+v, want one String token", toks)
	}
	if toks[0].Value != "a\n)b\\c" {
		t.Errorf("Value = %q, want %q", toks[0].Value, "a\n)b\\c")
	}
}

func TestTokenizeLiteralStringNesting(t *testing.T) {
	toks := collect(t, "(outer (inner) text)")
	if len(toks) != 1 || toks[0].Kind != String {
		t.Fatalf("got %+v, want one String token", toks)
	}
	if toks[0].Value != "outer (inner) text" {
		t.Errorf("Value = %q, want %q", toks[0].Value, "outer (inner) text")
	}
}

func TestTokenizeHexString(t *testing.T) {
	toks := collect(t, "<48656c6c6f>")
	if len(toks) != 1 || toks[0].Kind != StringHex {
		t.Fatalf("got %+v, want one StringHex token", toks)
	}
	if toks[0].Value != "Hello" {
		t.Errorf("Value = %q, want %q", toks[0].Value, "Hello")
	}
}

func TestTokenizeHexStringOddNibble(t *testing.T) {
	// a trailing lone hex digit is treated as if followed by a 0 (7.3.4.3).
	toks := collect(t, "<48656>")
	if len(toks) != 1 || toks[0].Kind != StringHex {
		t.Fatalf("got %+v, want one StringHex token", toks)
	}
	if len(toks[0].Value) != 3 {
		t.Fatalf("Value = %q, want 3 bytes", toks[0].Value)
	}
	if toks[0].Value[2] != 0x60 {
		t.Errorf("last byte = %x, want 60", toks[0].Value[2])
	}
}

func TestTokenizeCommentsSkipped(t *testing.T) {
	toks := collect(t, "1 %this is a comment\n2")
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2: %+v", len(toks), toks)
	}
	if toks[0].Value != "1" || toks[1].Value != "2" {
		t.Errorf("got %+v", toks)
	}
}

func TestTokenizeNumberSignVariants(t *testing.T) {
	toks := collect(t, "-12 +7 .5 -.25")
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(toks), toks)
	}
	if toks[0].Kind != Integer || toks[0].Value != "-12" {
		t.Errorf("token 0 = %+v", toks[0])
	}
	if toks[2].Kind != Float || toks[2].Value != ".5" {
		t.Errorf("token 2 = %+v", toks[2])
	}
}

func TestPeekTokenDoesNotConsume(t *testing.T) {
	tk := NewTokenizer([]byte("1 2 3"))
	peeked, err := tk.PeekToken()
	if err != nil {
		t.Fatalf("PeekToken: %v", err)
	}
	if peeked.Value != "1" {
		t.Fatalf("PeekToken = %+v, want value 1", peeked)
	}
	next, _ := tk.NextToken()
	if next.Value != "1" {
		t.Errorf("NextToken after Peek = %+v, want value 1 (peek must not consume)", next)
	}
}

func TestPeekPeekTokenLooksTwoAhead(t *testing.T) {
	tk := NewTokenizer([]byte("5 0 R"))
	first, _ := tk.NextToken()
	if first.Value != "5" {
		t.Fatalf("first token = %+v", first)
	}
	second, _ := tk.PeekToken()
	third, _ := tk.PeekPeekToken()
	if second.Value != "0" || third.Value != "R" {
		t.Errorf("lookahead = (%+v, %+v), want (0, R)", second, third)
	}
}

func TestSetPositionRewinds(t *testing.T) {
	tk := NewTokenizer([]byte("1 2 3"))
	tk.NextToken()
	mark := tk.CurrentPosition()
	tk.NextToken()
	tk.SetPosition(mark)
	tok, _ := tk.NextToken()
	if tok.Value != "2" {
		t.Errorf("token after rewind = %+v, want value 2", tok)
	}
}

func TestStreamKeywordStopsLookahead(t *testing.T) {
	// once "stream" is the upcoming token, the tokenizer must not have
	// scanned ahead into the opaque payload bytes that follow it — a
	// caller is expected to consume "stream" then reposition with
	// SkipBytes rather than call NextToken again.
	tk := NewTokenizer([]byte("1 stream\x00\x01\xffendstream"))
	first, err := tk.NextToken()
	if err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	if first.Kind != Integer || first.Value != "1" {
		t.Fatalf("first token = %+v, want Integer(1)", first)
	}

	upcoming, _ := tk.PeekToken()
	if upcoming.Kind != Other || upcoming.Value != "stream" {
		t.Fatalf("PeekToken = %+v, want Other(stream)", upcoming)
	}
	beyond, _ := tk.PeekPeekToken()
	if beyond.Kind != EOF {
		t.Errorf("PeekPeekToken past \"stream\" = %+v, want EOF (no scan into payload bytes)", beyond)
	}
}
