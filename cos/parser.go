package cos

import (
	"fmt"

	"github.com/coregrove/gopdfcos/internal/tokenizer"
)

var tokenReference = tokenizer.Token{Kind: tokenizer.Other, Value: "R"}

// objectParser turns a token stream into COS values (§4.2.6). It knows
// nothing about the pool or the document; Document.parseIndirectObject
// drives it and installs the result.
type objectParser struct {
	tokens tokenizer.Tokenizer
}

func newObjectParser(data []byte) *objectParser {
	return &objectParser{tokens: tokenizer.NewTokenizer(data)}
}

func newObjectParserAt(tk tokenizer.Tokenizer) *objectParser {
	return &objectParser{tokens: tk}
}

// ParseObject reads a single direct object, resolving the
// number-vs-indirect-reference ambiguity via lookahead (§4.2.6).
func (p *objectParser) ParseObject() (Object, error) {
	tk, err := p.tokens.NextToken()
	if err != nil {
		return nil, err
	}

	switch tk.Kind {
	case tokenizer.EOF:
		return nil, fmt.Errorf("cos: unexpected end of input while parsing object")
	case tokenizer.Name:
		return Name(tk.Value), nil
	case tokenizer.String:
		return String{Bytes: []byte(tk.Value), Origin: Literal}, nil
	case tokenizer.StringHex:
		return String{Bytes: []byte(tk.Value), Origin: Hex}, nil
	case tokenizer.StartArray:
		return p.parseArray()
	case tokenizer.StartDic:
		save := p.tokens.CurrentPosition()
		d, err := p.parseDict(false)
		if err != nil {
			// relaxed retry: tolerate dict entries terminated only by EOL
			// instead of an explicit value (§4.2.6 tolerance).
			p.tokens.SetPosition(save)
			d, err = p.parseDict(true)
		}
		return d, err
	case tokenizer.Float:
		f, err := tk.Float64()
		if err != nil {
			return nil, err
		}
		return Real(f), nil
	case tokenizer.Other:
		return p.parseKeyword(tk.Value)
	case tokenizer.Integer:
		return p.parseNumericOrRef(tk)
	default:
		return nil, fmt.Errorf("cos: unexpected token %s", tk.Kind)
	}
}

func (p *objectParser) parseKeyword(s string) (Object, error) {
	switch s {
	case "null":
		return Null{}, nil
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	default:
		return nil, fmt.Errorf("cos: unexpected keyword %q", s)
	}
}

func (p *objectParser) parseArray() (Array, error) {
	a := Array{}
	for {
		tk, err := p.tokens.PeekToken()
		if err != nil {
			return nil, err
		}
		switch tk.Kind {
		case tokenizer.EndArray:
			_, _ = p.tokens.NextToken()
			return a, nil
		case tokenizer.EOF:
			return nil, fmt.Errorf("cos: unterminated array")
		default:
			obj, err := p.ParseObject()
			if err != nil {
				return nil, err
			}
			a = append(a, obj)
		}
	}
}

// parseDict parses "<< ... >>". When relaxed, a key whose value is
// missing (only an EOL separates it from the next key or the closing
// ">>") is tolerated as an empty literal string — real producers
// (e.g. some mobile scanning apps) emit such dictionaries.
func (p *objectParser) parseDict(relaxed bool) (Dict, error) {
	d := Dict{}
	for {
		tk, err := p.tokens.PeekToken()
		if err != nil {
			return nil, err
		}
		switch tk.Kind {
		case tokenizer.EndDic:
			_, _ = p.tokens.NextToken()
			return d, nil
		case tokenizer.EOF:
			return nil, fmt.Errorf("cos: unterminated dictionary")
		case tokenizer.Name:
			key := Name(tk.Value)
			_, _ = p.tokens.NextToken()

			var obj Object
			if relaxed && p.tokens.HasEOLBeforeToken() {
				obj = String{Origin: Literal}
			} else {
				obj, err = p.ParseObject()
				if err != nil {
					return nil, err
				}
			}

			// Specifying null as a dict value is equivalent to omitting
			// the entry entirely (7.3.7).
			if _, isNull := obj.(Null); !isNull {
				if _, has := d[key]; has {
					return nil, fmt.Errorf("cos: duplicate dictionary key %q", key)
				}
				d[key] = obj
			}
		default:
			return nil, fmt.Errorf("cos: corrupt dictionary, unexpected token %s", tk.Kind)
		}
	}
}

// parseNumericOrRef disambiguates "123" from "123 0 R" via two-token
// lookahead, backtracking (conceptually) by simply never having
// consumed the lookahead tokens until the pattern is confirmed.
func (p *objectParser) parseNumericOrRef(first tokenizer.Token) (Object, error) {
	i, err := first.Int()
	if err != nil {
		return nil, err
	}

	next, err := p.tokens.PeekToken()
	if err != nil || next.Kind != tokenizer.Integer {
		return Integer(i), nil
	}
	gen, err := next.Int()
	if err != nil {
		return Integer(i), nil
	}

	nextNext, _ := p.tokens.PeekPeekToken()
	if nextNext != tokenReference {
		return Integer(i), nil
	}

	_, _ = p.tokens.NextToken() // consume gen
	_, _ = p.tokens.NextToken() // consume "R"
	return Ref{Key: ObjectKey{Number: uint32(i), Generation: uint16(gen)}}, nil
}
