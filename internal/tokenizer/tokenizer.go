/*
Copyright 2018 The pdfcpu Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package tokenizer implements the lowest level of PDF file processing:
// a byte-source abstraction with two-token lookahead, splitting a raw
// byte buffer into the lexical tokens of PDF syntax (7.2 of ISO 32000-1).
//
// It does not know about streams or inline image data: the caller is
// expected to stop iterating as soon as a "stream" or "ID" keyword is
// produced and resume later, at an explicit byte offset, once the payload
// has been consumed out of band.
package tokenizer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
)

// Kind classifies a Token.
type Kind uint8

const (
	EOF Kind = iota
	Integer
	Float
	Name
	String
	StringHex
	StartArray
	EndArray
	StartDic
	EndDic
	Other // keywords and content-stream operators
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Integer:
		return "Integer"
	case Float:
		return "Float"
	case Name:
		return "Name"
	case String:
		return "String"
	case StringHex:
		return "StringHex"
	case StartArray:
		return "StartArray"
	case EndArray:
		return "EndArray"
	case StartDic:
		return "StartDic"
	case EndDic:
		return "EndDic"
	case Other:
		return "Other"
	default:
		return "<invalid token>"
	}
}

// Token is a single lexical unit. Value must be interpreted according to
// Kind; the parser package is responsible for that interpretation.
type Token struct {
	Kind  Kind
	Value string
}

// Int returns the integer value of the token, truncating float values
// toward zero.
func (t Token) Int() (int, error) {
	f, err := t.Float64()
	return int(f), err
}

// Float64 returns the float value of the token.
func (t Token) Float64() (float64, error) {
	return strconv.ParseFloat(t.Value, 64)
}

// IsNumber reports whether t is an Integer or a Float.
func (t Token) IsNumber() bool {
	return t.Kind == Integer || t.Kind == Float
}

// IsOther reports whether t is a keyword token with the given value.
func (t Token) IsOther(s string) bool {
	return t.Kind == Other && t.Value == s
}

func (t Token) startsBinary() bool {
	return t.Kind == Other && (t.Value == "stream" || t.Value == "ID")
}

func isWhitespace(ch byte) bool {
	switch ch {
	case 0, 9, 10, 12, 13, 32:
		return true
	default:
		return false
	}
}

// isEOL reports whether ch is part of a PDF line terminator (LF, CR or CRLF).
func isEOL(ch byte) bool {
	return ch == '\n' || ch == '\r'
}

func isDelimiter(ch byte) bool {
	switch ch {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return isWhitespace(ch)
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// IsHexChar converts a hex character into its value and a success flag.
func IsHexChar(c byte) (uint8, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return c, false
}

// Tokenizer is a PDF lexer over an in-memory byte buffer, with a
// two-token lookahead (required to recognize "num gen R" indirect
// references without unbounded backtracking).
//
// Comments are silently skipped, matching real-world producers that
// use '%' comments freely outside of strings and streams.
type Tokenizer struct {
	data []byte

	pos        int // read cursor
	currentPos int // end of the current (already-returned) token
	nextPos    int // end of the n+1 token

	aToken  Token // n+1, cached
	aError  error
	aaToken Token // n+2, cached
	aaError error
}

// NewTokenizer returns a tokenizer scanning data from offset 0.
func NewTokenizer(data []byte) Tokenizer {
	tk := Tokenizer{data: data}
	tk.initiateAt(0)
	return tk
}

func (tk *Tokenizer) initiateAt(pos int) {
	tk.currentPos = pos
	tk.pos = pos
	tk.aToken, tk.aError = tk.scan(Token{})
	tk.nextPos = tk.pos
	tk.aaToken, tk.aaError = tk.scan(tk.aToken)
}

// CurrentPosition returns the byte offset just past the last token
// returned by NextToken.
func (tk Tokenizer) CurrentPosition() int { return tk.currentPos }

// SetPosition rewinds (or fast-forwards) the tokenizer to an explicit
// byte offset, discarding any cached lookahead. Used to backtrack after
// a speculative parse (the cos parser's relaxed retry of a dictionary).
func (tk *Tokenizer) SetPosition(pos int) { tk.initiateAt(pos) }

// Bytes returns the unconsumed tail of the buffer, starting at the
// current token boundary.
func (tk Tokenizer) Bytes() []byte {
	if tk.currentPos >= len(tk.data) {
		return nil
	}
	return tk.data[tk.currentPos:]
}

// PeekToken returns the next token without consuming it. Cheap: it
// returns a cached value.
func (tk Tokenizer) PeekToken() (Token, error) {
	return tk.aToken, tk.aError
}

// PeekPeekToken returns the token after the next, without consuming
// anything. Needed to look past "num" to "gen R" before committing to
// an indirect reference.
func (tk Tokenizer) PeekPeekToken() (Token, error) {
	return tk.aaToken, tk.aaError
}

// NextToken consumes and returns the next token. EOF is reported as a
// Token{Kind: EOF}, not an error.
func (tk *Tokenizer) NextToken() (Token, error) {
	t, err := tk.aToken, tk.aError
	tk.aToken, tk.aError = tk.aaToken, tk.aaError
	tk.currentPos = tk.nextPos
	tk.nextPos = tk.pos

	if tk.aaToken.startsBinary() {
		// stream/ID payloads are opaque to the tokenizer; stop scanning
		// ahead until the caller repositions us past the payload.
		tk.aaToken, tk.aaError = Token{Kind: EOF}, nil
	} else {
		tk.aaToken, tk.aaError = tk.scan(tk.aaToken)
	}
	return t, err
}

// SkipBytes consumes and returns the next n raw bytes, bypassing
// tokenization, and repositions the lookahead past them. Used to hand
// stream/inline-image payloads to the caller.
func (tk *Tokenizer) SkipBytes(n int) []byte {
	target := tk.currentPos + n
	if target > len(tk.data) {
		target = len(tk.data)
	}
	out := tk.data[tk.currentPos:target]
	tk.initiateAt(target)
	return out
}

// HasEOLBeforeToken reports whether the bytes between currentPos and
// the next token's start contain a line terminator. Some producers
// write dictionary entries with a missing value terminated only by an
// EOL (Acrobat-tolerant reading, §4.2.6 relaxed pass).
func (tk Tokenizer) HasEOLBeforeToken() bool {
	for i := tk.currentPos; i < tk.nextPos && i < len(tk.data); i++ {
		if isEOL(tk.data[i]) {
			return true
		}
	}
	return false
}

func (tk *Tokenizer) read() (byte, bool) {
	if tk.pos >= len(tk.data) {
		return 0, false
	}
	ch := tk.data[tk.pos]
	tk.pos++
	return ch, true
}

func (tk *Tokenizer) scan(previous Token) (Token, error) {
	ch, ok := tk.read()
	for ok && isWhitespace(ch) {
		ch, ok = tk.read()
	}
	if !ok {
		return Token{Kind: EOF}, nil
	}

	var buf []byte
	switch ch {
	case '[':
		return Token{Kind: StartArray}, nil
	case ']':
		return Token{Kind: EndArray}, nil
	case '/':
		for {
			ch, ok = tk.read()
			if !ok || isDelimiter(ch) {
				break
			}
			buf = append(buf, ch)
			if ch == '#' {
				h1, _ := tk.read()
				h2, _ := tk.read()
				if _, err := hex.Decode([]byte{0}, []byte{h1, h2}); err != nil {
					return Token{}, errors.New("tokenizer: corrupted name object")
				}
				buf = append(buf, h1, h2)
			}
		}
		if ok {
			tk.pos--
		}
		return Token{Kind: Name, Value: string(buf)}, nil
	case '>':
		ch, ok = tk.read()
		if ch != '>' {
			return Token{}, errors.New("tokenizer: lone '>' outside hex string")
		}
		return Token{Kind: EndDic}, nil
	case '<':
		return tk.scanHexOrDict()
	case '%':
		ch, ok = tk.read()
		for ok && !isEOL(ch) {
			ch, ok = tk.read()
		}
		return tk.scan(previous)
	case '(':
		return tk.scanLiteralString()
	default:
		if ch == '+' || ch == '-' || ch == '.' || isDigit(ch) {
			return tk.scanNumber(ch)
		}
		return tk.scanKeyword(ch)
	}
}

func (tk *Tokenizer) scanHexOrDict() (Token, error) {
	v1, ok1 := tk.read()
	if v1 == '<' {
		return Token{Kind: StartDic}, nil
	}
	var buf []byte
	for {
		for ok1 && isWhitespace(v1) {
			v1, ok1 = tk.read()
		}
		if v1 == '>' {
			break
		}
		nib1, ok := IsHexChar(v1)
		if !ok {
			return Token{}, fmt.Errorf("tokenizer: invalid hex char %q", v1)
		}
		v2, ok2 := tk.read()
		for ok2 && isWhitespace(v2) {
			v2, ok2 = tk.read()
		}
		if v2 == '>' {
			buf = append(buf, nib1<<4)
			break
		}
		nib2, ok := IsHexChar(v2)
		if !ok {
			return Token{}, fmt.Errorf("tokenizer: invalid hex char %q", v2)
		}
		buf = append(buf, (nib1<<4)+nib2)
		v1, ok1 = tk.read()
	}
	return Token{Kind: StringHex, Value: string(buf)}, nil
}

func (tk *Tokenizer) scanLiteralString() (Token, error) {
	nesting := 0
	var buf []byte
	for {
		ch, ok := tk.read()
		if !ok {
			break
		}
		switch ch {
		case '(':
			nesting++
			buf = append(buf, ch)
		case ')':
			if nesting == 0 {
				return Token{Kind: String, Value: string(buf)}, nil
			}
			nesting--
			buf = append(buf, ch)
		case '\\':
			ch, ok = tk.read()
			if !ok {
				break
			}
			switch ch {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '(', ')', '\\':
				buf = append(buf, ch)
			case '\r':
				// line continuation: \CRLF or \CR is swallowed entirely
				if n, ok := tk.read(); ok && n != '\n' {
					tk.pos--
				}
			case '\n':
				// line continuation: \LF swallowed entirely
			default:
				if isDigit(ch) {
					// up to three octal digits
					oct := []byte{ch}
					for i := 0; i < 2; i++ {
						d, ok := tk.read()
						if !ok || !isDigit(d) || d > '7' {
							if ok {
								tk.pos--
							}
							break
						}
						oct = append(oct, d)
					}
					var v int
					for _, d := range oct {
						v = v*8 + int(d-'0')
					}
					buf = append(buf, byte(v))
				} else {
					buf = append(buf, ch)
				}
			}
		default:
			buf = append(buf, ch)
		}
	}
	return Token{}, errors.New("tokenizer: unterminated literal string")
}

func (tk *Tokenizer) scanNumber(first byte) (Token, error) {
	buf := []byte{first}
	isFloat := first == '.'
	for {
		ch, ok := tk.read()
		if !ok || isDelimiter(ch) {
			if ok {
				tk.pos--
			}
			break
		}
		if ch == '.' {
			isFloat = true
		}
		// tolerate a stray sign glued onto a malformed number ("1-0"):
		// stop instead of producing an unparseable token.
		if (ch == '+' || ch == '-') && len(buf) > 0 {
			tk.pos--
			break
		}
		buf = append(buf, ch)
	}
	if isFloat {
		return Token{Kind: Float, Value: string(buf)}, nil
	}
	return Token{Kind: Integer, Value: string(buf)}, nil
}

func (tk *Tokenizer) scanKeyword(first byte) (Token, error) {
	buf := []byte{first}
	for {
		ch, ok := tk.read()
		if !ok || isDelimiter(ch) {
			if ok {
				tk.pos--
			}
			break
		}
		buf = append(buf, ch)
	}
	return Token{Kind: Other, Value: string(buf)}, nil
}
