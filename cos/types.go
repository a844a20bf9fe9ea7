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

// Package cos implements the Carousel Object System: the tagged-variant
// value model of PDF (null, booleans, numbers, names, strings, arrays,
// dictionaries, streams and indirect references), the tolerant
// lexer/parser producing them, and the document store that owns the
// indirect-object pool.
package cos

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object is implemented by every COS value. Dispatch on the concrete
// type (a type switch) replaces a class hierarchy; PDFString is the
// syntax the value would be written back as.
type Object interface {
	fmt.Stringer
	PDFString() string
}

// Null is the PDF null object. The typed nil interface value is never
// used for "no value" — use Null{} so type switches stay total.
type Null struct{}

func (Null) String() string    { return "null" }
func (Null) PDFString() string { return "null" }

// Boolean is a PDF boolean object.
type Boolean bool

func (b Boolean) String() string    { return strconv.FormatBool(bool(b)) }
func (b Boolean) PDFString() string { return b.String() }

// Integer is a PDF integer object.
type Integer int64

func (i Integer) String() string    { return strconv.FormatInt(int64(i), 10) }
func (i Integer) PDFString() string { return i.String() }

// Real is a PDF real (floating point) object. PDF numbers never use
// exponential notation on the wire (7.3.3), but some producers emit it
// anyway; the tokenizer accepts an unsigned exponent ("1.5e3") on read,
// while a signed one ("1e-5", "1e+5") fails to parse.
type Real float64

func (r Real) String() string    { return strconv.FormatFloat(float64(r), 'f', -1, 64) }
func (r Real) PDFString() string { return r.String() }

// Name is a PDF name object, stored without its leading '/'. #xx hex
// escapes are validated for well-formedness by the tokenizer but kept
// as literal characters, not decoded to the byte they represent.
type Name string

func (n Name) String() string { return "/" + string(n) }

// PDFString re-escapes delimiter and non-printable bytes as #xx.
func (n Name) PDFString() string {
	var b strings.Builder
	b.WriteByte('/')
	for i := 0; i < len(n); i++ {
		c := n[i]
		if c <= ' ' || c >= 127 || strings.IndexByte("()<>[]{}/%#", c) >= 0 {
			fmt.Fprintf(&b, "#%02x", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// StringOrigin records which of the two PDF string syntaxes produced a
// String value, so a writer can round-trip the same delimiter style.
type StringOrigin uint8

const (
	Literal StringOrigin = iota
	Hex
)

// String is an opaque PDF string object: a byte sequence, not text.
// Interpreting it as text (PDFDocEncoding, UTF-16BE, ...) is the job of
// a higher layer that knows the context the string appears in.
type String struct {
	Bytes  []byte
	Origin StringOrigin
}

func (s String) String() string {
	if s.Origin == Hex {
		return fmt.Sprintf("<%x>", s.Bytes)
	}
	return fmt.Sprintf("(%s)", escapeLiteral(s.Bytes))
}

func (s String) PDFString() string { return s.String() }

func escapeLiteral(b []byte) string {
	var out strings.Builder
	for _, c := range b {
		switch c {
		case '(', ')', '\\':
			out.WriteByte('\\')
			out.WriteByte(c)
		case '\n':
			out.WriteString(`\n`)
		case '\r':
			out.WriteString(`\r`)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

// Array is an ordered sequence of direct or indirect COS values.
type Array []Object

func (a Array) String() string { return a.PDFString() }

func (a Array) PDFString() string {
	parts := make([]string, len(a))
	for i, o := range a {
		parts[i] = pdfStringOf(o)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Dict is a PDF dictionary: a mapping from Name to Object. Key order is
// not semantically significant; String/PDFString sort keys purely for
// deterministic, diffable output.
type Dict map[Name]Object

func (d Dict) String() string { return d.PDFString() }

func (d Dict) PDFString() string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("<<")
	for _, k := range keys {
		b.WriteString(Name(k).PDFString())
		b.WriteString(pdfStringOf(d[Name(k)]))
	}
	b.WriteString(">>")
	return b.String()
}

func pdfStringOf(o Object) string {
	if o == nil {
		return "null"
	}
	return o.PDFString()
}

// Ref is an indirect reference: resolving it requires a Document.
type Ref struct {
	Key ObjectKey
}

func (r Ref) String() string    { return r.PDFString() }
func (r Ref) PDFString() string { return fmt.Sprintf("%d %d R", r.Key.Number, r.Key.Generation) }
