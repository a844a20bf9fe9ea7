package textenc

import "testing"

func TestDecodeTextStringPDFDocEncoding(t *testing.T) {
	got := DecodeTextString([]byte("hello, world!"))
	if got != "hello, world!" {
		t.Errorf("DecodeTextString = %q, want %q", got, "hello, world!")
	}
}

func TestDecodeTextStringUTF16BOM(t *testing.T) {
	// "hi" in UTF-16BE with a leading BOM.
	input := []byte{0xfe, 0xff, 0x00, 'h', 0x00, 'i'}
	got := DecodeTextString(input)
	if got != "hi" {
		t.Errorf("DecodeTextString(UTF-16BE) = %q, want %q", got, "hi")
	}
}

func TestDecodeTextStringExtendedGlyph(t *testing.T) {
	// 0x80 maps to U+2022 BULLET in PDFDocEncoding.
	got := DecodeTextString([]byte{0x80})
	if got != "•" {
		t.Errorf("DecodeTextString(0x80) = %q, want bullet", got)
	}
}

func TestEncodeTextStringRoundTrip(t *testing.T) {
	s := "Plain ASCII text"
	enc := EncodeTextString(s)
	got := DecodeTextString(enc)
	if got != s {
		t.Errorf("round-trip = %q, want %q", got, s)
	}
}

func TestEncodeTextStringFallsBackToUTF16(t *testing.T) {
	s := "café 中文" // contains CJK, outside PDFDocEncoding.
	enc := EncodeTextString(s)
	if len(enc) < 2 || enc[0] != 0xfe || enc[1] != 0xff {
		t.Fatalf("EncodeTextString did not fall back to a BOM-prefixed encoding: % x", enc)
	}
	got := DecodeTextString(enc)
	if got != s {
		t.Errorf("round-trip through UTF-16 fallback = %q, want %q", got, s)
	}
}
