// Package textenc decodes PDF text strings (7.9.2.2): a PDF text string
// is either PDFDocEncoded bytes or UTF-16BE bytes led by a 0xFE 0xFF
// byte-order mark. Every byte string surfaced as human-readable text by
// the pd layer (document information, annotation contents) goes through
// DecodeTextString.
package textenc

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
)

// docEncoding maps a PDFDocEncoded byte to its Unicode code point
// (Annex D.2). Bytes with no entry (unassigned in the table) are
// dropped on decode rather than substituted.
var docEncoding = map[byte]rune{
	0x01: 0x0001, 0x02: 0x0002, 0x03: 0x0003, 0x04: 0x0004,
	0x05: 0x0005, 0x06: 0x0006, 0x07: 0x0007, 0x08: 0x0008,
	0x09: 0x0009, 0x0a: 0x000a, 0x0b: 0x000b, 0x0c: 0x000c,
	0x0d: 0x000d, 0x0e: 0x000e, 0x0f: 0x000f, 0x10: 0x0010,
	0x11: 0x0011, 0x12: 0x0012, 0x13: 0x0013, 0x14: 0x0014,
	0x15: 0x0015, 0x16: 0x0017, 0x17: 0x0017, 0x18: 0x02d8,
	0x19: 0x02c7, 0x1a: 0x02c6, 0x1b: 0x02d9, 0x1c: 0x02dd,
	0x1d: 0x02db, 0x1e: 0x02da, 0x1f: 0x02dc,
	0x20: ' ', 0x21: '!', 0x22: '"', 0x23: '#',
	0x24: '$', 0x25: '%', 0x26: '&', 0x27: '\'',
	0x28: '(', 0x29: ')', 0x2a: '*', 0x2b: '+',
	0x2c: ',', 0x2d: '-', 0x2e: '.', 0x2f: '/',
	0x30: '0', 0x31: '1', 0x32: '2', 0x33: '3',
	0x34: '4', 0x35: '5', 0x36: '6', 0x37: '7',
	0x38: '8', 0x39: '9', 0x3a: ':', 0x3b: ';',
	0x3c: '<', 0x3d: '=', 0x3e: '>', 0x3f: '?',
	0x40: '@', 0x41: 'A', 0x42: 'B', 0x43: 'C',
	0x44: 'D', 0x45: 'E', 0x46: 'F', 0x47: 'G',
	0x48: 'H', 0x49: 'I', 0x4a: 'J', 0x4b: 'K',
	0x4c: 'L', 0x4d: 'M', 0x4e: 'N', 0x4f: 'O',
	0x50: 'P', 0x51: 'Q', 0x52: 'R', 0x53: 'S',
	0x54: 'T', 0x55: 'U', 0x56: 'V', 0x57: 'W',
	0x58: 'X', 0x59: 'Y', 0x5a: 'Z', 0x5b: '[',
	0x5c: '\\', 0x5d: ']', 0x5e: '^', 0x5f: '_',
	0x60: '`', 0x61: 'a', 0x62: 'b', 0x63: 'c',
	0x64: 'd', 0x65: 'e', 0x66: 'f', 0x67: 'g',
	0x68: 'h', 0x69: 'i', 0x6a: 'j', 0x6b: 'k',
	0x6c: 'l', 0x6d: 'm', 0x6e: 'n', 0x6f: 'o',
	0x70: 'p', 0x71: 'q', 0x72: 'r', 0x73: 's',
	0x74: 't', 0x75: 'u', 0x76: 'v', 0x77: 'w',
	0x78: 'x', 0x79: 'y', 0x7a: 'z', 0x7b: '{',
	0x7c: '|', 0x7d: '}', 0x7e: '~',
	0x80: 0x2022, 0x81: 0x2020, 0x82: 0x2021, 0x83: 0x2026,
	0x84: 0x2014, 0x85: 0x2013, 0x86: 0x0192, 0x87: 0x2044,
	0x88: 0x2039, 0x89: 0x203a, 0x8a: 0x2212, 0x8b: 0x2030,
	0x8c: 0x201e, 0x8d: 0x201c, 0x8e: 0x201d, 0x8f: 0x2018,
	0x90: 0x2019, 0x91: 0x201a, 0x92: 0x2122, 0x93: 0xfb01,
	0x94: 0xfb02, 0x95: 0x0141, 0x96: 0x0152, 0x97: 0x0160,
	0x98: 0x0178, 0x99: 0x017d, 0x9a: 0x0131, 0x9b: 0x0142,
	0x9c: 0x0153, 0x9d: 0x0161, 0x9e: 0x017e,
	0xa0: 0x20ac,
	0xa1: 0x00a1, 0xa2: 0x00a2, 0xa3: 0x00a3, 0xa4: 0x00a4,
	0xa5: 0x00a5, 0xa6: 0x00a6, 0xa7: 0x00a7, 0xa8: 0x00a8,
	0xa9: 0x00a9, 0xaa: 0x00aa, 0xab: 0x00ab, 0xac: 0x00ac,
	0xae: 0x00ae, 0xaf: 0x00af,
	0xb0: 0x00b0, 0xb1: 0x00b1, 0xb2: 0x00b2, 0xb3: 0x00b3,
	0xb4: 0x00b4, 0xb5: 0x00b5, 0xb6: 0x00b6, 0xb7: 0x00b7,
	0xb8: 0x00b8, 0xb9: 0x00b9, 0xba: 0x00ba, 0xbb: 0x00bb,
	0xbc: 0x00bc, 0xbd: 0x00bd, 0xbe: 0x00be, 0xbf: 0x00bf,
	0xc0: 0x00c0, 0xc1: 0x00c1, 0xc2: 0x00c2, 0xc3: 0x00c3,
	0xc4: 0x00c4, 0xc5: 0x00c5, 0xc6: 0x00c6, 0xc7: 0x00c7,
	0xc8: 0x00c8, 0xc9: 0x00c9, 0xca: 0x00ca, 0xcb: 0x00cb,
	0xcc: 0x00cc, 0xcd: 0x00cd, 0xce: 0x00ce, 0xcf: 0x00cf,
	0xd0: 0x00d0, 0xd1: 0x00d1, 0xd2: 0x00d2, 0xd3: 0x00d3,
	0xd4: 0x00d4, 0xd5: 0x00d5, 0xd6: 0x00d6, 0xd7: 0x00d7,
	0xd8: 0x00d8, 0xd9: 0x00d9, 0xda: 0x00da, 0xdb: 0x00db,
	0xdc: 0x00dc, 0xdd: 0x00dd, 0xde: 0x00de, 0xdf: 0x00df,
	0xe0: 0x00e0, 0xe1: 0x00e1, 0xe2: 0x00e2, 0xe3: 0x00e3,
	0xe4: 0x00e4, 0xe5: 0x00e5, 0xe6: 0x00e6, 0xe7: 0x00e7,
	0xe8: 0x00e8, 0xe9: 0x00e9, 0xea: 0x00ea, 0xeb: 0x00eb,
	0xec: 0x00ec, 0xed: 0x00ed, 0xee: 0x00ee, 0xef: 0x00ef,
	0xf0: 0x00f0, 0xf1: 0x00f1, 0xf2: 0x00f2, 0xf3: 0x00f3,
	0xf4: 0x00f4, 0xf5: 0x00f5, 0xf6: 0x00f6, 0xf7: 0x00f7,
	0xf8: 0x00f8, 0xf9: 0x00f9, 0xfa: 0x00fa, 0xfb: 0x00fb,
	0xfc: 0x00fc, 0xfd: 0x00fd, 0xfe: 0x00fe, 0xff: 0x00ff,
}

var runeEncoding map[rune]byte

func init() {
	runeEncoding = make(map[rune]byte, len(docEncoding))
	for b, r := range docEncoding {
		runeEncoding[r] = b
	}
}

var utf16BOM = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)

// DecodeTextString decodes a PDF text string: UTF-16BE (with a leading
// byte-order mark) if b starts with 0xFE 0xFF, PDFDocEncoding otherwise.
func DecodeTextString(b []byte) string {
	if bytes.HasPrefix(b, []byte{0xfe, 0xff}) {
		out, err := utf16BOM.NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	return decodePDFDoc(b)
}

func decodePDFDoc(b []byte) string {
	runes := make([]rune, 0, len(b))
	for _, c := range b {
		r, ok := docEncoding[c]
		if !ok {
			continue
		}
		runes = append(runes, r)
	}
	return string(runes)
}

// EncodeTextString encodes s back to PDFDocEncoding when every rune has
// an entry in the table, or to BOM-prefixed UTF-16BE otherwise.
func EncodeTextString(s string) []byte {
	plain := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := runeEncoding[r]
		if !ok {
			out, err := utf16BOM.NewEncoder().String(s)
			if err != nil {
				return []byte(s)
			}
			// the encoder already writes the 0xFE 0xFF byte-order mark.
			return []byte(out)
		}
		plain = append(plain, b)
	}
	return plain
}
